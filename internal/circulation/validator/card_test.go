package validator

import (
	"strings"
	"testing"

	"circulation/pkg/logger"
	"circulation/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCardValidator_Validate(t *testing.T) {
	v := NewCardValidator(logger.Discard())

	tests := []struct {
		name      string
		cardID    string
		wantError bool
		wantMsg   string
	}{
		{name: "plain id", cardID: "card-1"},
		{name: "object id", cardID: "65f1c0de2b7e4a1d9c3b2a10"},
		{name: "surrounding spaces trimmed", cardID: "  card-1  "},
		{name: "empty", cardID: "", wantError: true, wantMsg: "CardID is required"},
		{name: "blank", cardID: "   ", wantError: true, wantMsg: "CardID is required"},
		{name: "too long", cardID: strings.Repeat("x", 65), wantError: true, wantMsg: "CardID must be at most 64 characters"},
		{name: "path separator", cardID: "card/1", wantError: true, wantMsg: "may only contain"},
		{name: "inner space", cardID: "card 1", wantError: true, wantMsg: "may only contain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := &model.CardRequest{CardID: tt.cardID}
			err := v.Validate(req)
			if !tt.wantError {
				require.NoError(t, err)
				assert.Equal(t, strings.TrimSpace(tt.cardID), req.CardID)
				return
			}

			require.Error(t, err)
			var verrs ValidationErrors
			require.ErrorAs(t, err, &verrs)
			require.Len(t, verrs, 1)
			assert.Equal(t, "CardID", verrs[0].Field)
			assert.Contains(t, verrs[0].Message, tt.wantMsg)
		})
	}
}

func TestValidationErrors_Error(t *testing.T) {
	assert.Empty(t, ValidationErrors{}.Error())

	errs := ValidationErrors{
		{Field: "CardID", Message: "CardID is required"},
	}
	assert.Equal(t, "validation failed: 1 error(s): [CardID: CardID is required]", errs.Error())
}

package validator

import (
	"testing"

	"circulation/pkg/logger"
	"circulation/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validBook() *model.Asset {
	return &model.Asset{
		Title:    "Dune",
		Kind:     model.AssetKindBook,
		Year:     1965,
		Cost:     9.99,
		Location: model.Branch{ID: "main", Name: "Main Branch"},
		Book: &model.BookDetails{
			Author:     "Frank Herbert",
			ISBN:       "9780441013593",
			DeweyIndex: "813.54",
		},
	}
}

func validVideo() *model.Asset {
	return &model.Asset{
		Title:    "Cléo from 5 to 7",
		Kind:     model.AssetKindVideo,
		Location: model.Branch{ID: "east", Name: "East Branch"},
		Video:    &model.VideoDetails{Director: "Agnès Varda"},
	}
}

func TestAssetValidator_Validate(t *testing.T) {
	v := NewAssetValidator(logger.Discard())

	tests := []struct {
		name      string
		asset     func() *model.Asset
		wantField string
	}{
		{name: "valid book", asset: validBook},
		{name: "valid video", asset: validVideo},
		{
			name: "video without director",
			asset: func() *model.Asset {
				a := validVideo()
				a.Video.Director = ""
				return a
			},
		},
		{
			name: "isbn-10 accepted",
			asset: func() *model.Asset {
				a := validBook()
				a.Book.ISBN = "0441478123"
				return a
			},
		},
		{
			name: "missing title",
			asset: func() *model.Asset {
				a := validBook()
				a.Title = ""
				return a
			},
			wantField: "Title",
		},
		{
			name: "unknown kind",
			asset: func() *model.Asset {
				a := validBook()
				a.Kind = "Magazine"
				return a
			},
			wantField: "Kind",
		},
		{
			name: "book without details",
			asset: func() *model.Asset {
				a := validBook()
				a.Book = nil
				return a
			},
			wantField: "Book",
		},
		{
			name: "video with book details",
			asset: func() *model.Asset {
				a := validVideo()
				a.Book = &model.BookDetails{Author: "x", ISBN: "9780441013593", DeweyIndex: "813"}
				return a
			},
			wantField: "Book",
		},
		{
			name: "bad isbn checksum",
			asset: func() *model.Asset {
				a := validBook()
				a.Book.ISBN = "9780441013594"
				return a
			},
			wantField: "ISBN",
		},
		{
			name: "bad dewey index",
			asset: func() *model.Asset {
				a := validBook()
				a.Book.DeweyIndex = "Fiction"
				return a
			},
			wantField: "DeweyIndex",
		},
		{
			name: "missing branch",
			asset: func() *model.Asset {
				a := validBook()
				a.Location = model.Branch{}
				return a
			},
			wantField: "ID",
		},
		{
			name: "negative cost",
			asset: func() *model.Asset {
				a := validBook()
				a.Cost = -1
				return a
			},
			wantField: "Cost",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.asset())
			if tt.wantField == "" {
				require.NoError(t, err)
				return
			}

			var verrs ValidationErrors
			require.ErrorAs(t, err, &verrs)
			fields := make([]string, 0, len(verrs))
			for _, e := range verrs {
				fields = append(fields, e.Field)
			}
			assert.Contains(t, fields, tt.wantField)
		})
	}
}

func TestAssetValidator_Messages(t *testing.T) {
	v := NewAssetValidator(logger.Discard())

	a := validBook()
	a.Book.DeweyIndex = "abc"

	err := v.Validate(a)

	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	require.Len(t, verrs, 1)
	assert.Equal(t, "DeweyIndex must look like 813 or 813.54", verrs[0].Message)
}

package mongostore

import (
	"context"
	"errors"
	"testing"
	"time"

	"circulation/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestObjectID(t *testing.T) {
	valid := primitive.NewObjectID()

	oid, err := objectID(valid.Hex())
	require.NoError(t, err)
	assert.Equal(t, valid, oid)

	for _, bad := range []string{"", "not-an-id", "12345"} {
		_, err := objectID(bad)
		assert.ErrorIs(t, err, store.ErrNotFound, bad)
	}
}

func TestTranslateWriteError(t *testing.T) {
	dup := mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000, Message: "E11000 duplicate key"}}}
	assert.ErrorIs(t, translateWriteError(dup, "failed to create checkout"), store.ErrDuplicate)

	other := errors.New("socket closed")
	err := translateWriteError(other, "failed to create checkout")
	assert.ErrorIs(t, err, other)
	assert.NotErrorIs(t, err, store.ErrDuplicate)
}

func TestTranslateFindError(t *testing.T) {
	assert.ErrorIs(t, translateFindError(mongo.ErrNoDocuments, "find"), store.ErrNotFound)

	other := errors.New("server selection timeout")
	err := translateFindError(other, "find")
	assert.ErrorIs(t, err, other)
	assert.NotErrorIs(t, err, store.ErrNotFound)
}

func TestWithTimeout(t *testing.T) {
	t.Run("adds deadline", func(t *testing.T) {
		ctx, cancel := withTimeout(context.Background(), time.Second)
		defer cancel()

		deadline, ok := ctx.Deadline()
		require.True(t, ok)
		assert.WithinDuration(t, time.Now().Add(time.Second), deadline, 100*time.Millisecond)
	})

	t.Run("keeps shorter parent deadline", func(t *testing.T) {
		parent, parentCancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer parentCancel()
		want, _ := parent.Deadline()

		ctx, cancel := withTimeout(parent, time.Minute)
		defer cancel()

		got, ok := ctx.Deadline()
		require.True(t, ok)
		assert.Equal(t, want, got)
	})
}

func TestInsertedHex(t *testing.T) {
	oid := primitive.NewObjectID()
	assert.Equal(t, oid.Hex(), insertedHex(&mongo.InsertOneResult{InsertedID: oid}))
	assert.Empty(t, insertedHex(&mongo.InsertOneResult{InsertedID: "custom"}))
}

package mongostore

import (
	"context"
	"fmt"

	"circulation/internal/store"
	"circulation/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type holdRepository struct {
	collection *mongo.Collection
	timeouts
}

// holdQueueSort is the first-come first-served order of a hold queue.
var holdQueueSort = bson.D{{Key: "placed", Value: 1}, {Key: "_id", Value: 1}}

func (r *holdRepository) Create(ctx context.Context, hold *model.Hold) error {
	ctx, cancel := withTimeout(ctx, r.write)
	defer cancel()

	result, err := r.collection.InsertOne(ctx, hold)
	if err != nil {
		return translateWriteError(err, "failed to create hold")
	}

	hold.ID = insertedHex(result)
	return nil
}

func (r *holdRepository) FindByID(ctx context.Context, id string) (*model.Hold, error) {
	ctx, cancel := withTimeout(ctx, r.read)
	defer cancel()

	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var hold model.Hold
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&hold); err != nil {
		return nil, translateFindError(err, "failed to find hold")
	}
	return &hold, nil
}

func (r *holdRepository) ListByAsset(ctx context.Context, assetID string) ([]*model.Hold, error) {
	ctx, cancel := withTimeout(ctx, r.read)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{"asset_id": assetID}, options.Find().SetSort(holdQueueSort))
	if err != nil {
		return nil, fmt.Errorf("failed to find holds: %w", err)
	}
	defer cursor.Close(ctx)

	holds := make([]*model.Hold, 0)
	if err = cursor.All(ctx, &holds); err != nil {
		return nil, fmt.Errorf("failed to decode holds: %w", err)
	}
	return holds, nil
}

func (r *holdRepository) CountByAsset(ctx context.Context, assetID string) (int64, error) {
	ctx, cancel := withTimeout(ctx, r.read)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{"asset_id": assetID})
	if err != nil {
		return 0, fmt.Errorf("failed to count holds: %w", err)
	}
	return count, nil
}

func (r *holdRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := withTimeout(ctx, r.write)
	defer cancel()

	oid, err := objectID(id)
	if err != nil {
		return err
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete hold: %w", err)
	}
	if result.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

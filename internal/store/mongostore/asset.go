package mongostore

import (
	"context"
	"fmt"
	"time"

	"circulation/internal/store"
	"circulation/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type assetRepository struct {
	collection *mongo.Collection
	timeouts
}

func (r *assetRepository) Create(ctx context.Context, asset *model.Asset) error {
	ctx, cancel := withTimeout(ctx, r.write)
	defer cancel()

	asset.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, asset)
	if err != nil {
		return translateWriteError(err, "failed to create asset")
	}

	asset.ID = insertedHex(result)
	return nil
}

func (r *assetRepository) FindByID(ctx context.Context, id string) (*model.Asset, error) {
	ctx, cancel := withTimeout(ctx, r.read)
	defer cancel()

	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var asset model.Asset
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&asset); err != nil {
		return nil, translateFindError(err, "failed to find asset")
	}
	return &asset, nil
}

// FindForUpdate bumps the revision counter. Two transactions doing this on
// the same asset write-conflict, and the driver retries the loser against
// the winner's committed state.
func (r *assetRepository) FindForUpdate(ctx context.Context, id string) (*model.Asset, error) {
	ctx, cancel := withTimeout(ctx, r.write)
	defer cancel()

	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var asset model.Asset
	err = r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$inc": bson.M{"revision": 1}},
		opts,
	).Decode(&asset)
	if err != nil {
		return nil, translateFindError(err, "failed to lock asset")
	}
	return &asset, nil
}

func (r *assetRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Asset, error) {
	ctx, cancel := withTimeout(ctx, r.read)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "title", Value: 1}, {Key: "_id", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find assets: %w", err)
	}
	defer cursor.Close(ctx)

	assets := make([]*model.Asset, 0)
	if err = cursor.All(ctx, &assets); err != nil {
		return nil, fmt.Errorf("failed to decode assets: %w", err)
	}
	return assets, nil
}

func (r *assetRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := withTimeout(ctx, r.read)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count assets: %w", err)
	}
	return count, nil
}

func (r *assetRepository) UpdateStatus(ctx context.Context, id string, status string) error {
	ctx, cancel := withTimeout(ctx, r.write)
	defer cancel()

	oid, err := objectID(id)
	if err != nil {
		return err
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return fmt.Errorf("failed to update asset status: %w", err)
	}
	if result.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

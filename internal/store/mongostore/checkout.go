package mongostore

import (
	"context"
	"fmt"
	"time"

	"circulation/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type checkoutRepository struct {
	collection *mongo.Collection
	history    *mongo.Collection
	timeouts
}

func newCheckoutRepository(db *mongo.Database, t timeouts) *checkoutRepository {
	return &checkoutRepository{
		collection: db.Collection(CheckoutsCollection),
		history:    db.Collection(CheckoutHistoryCollection),
		timeouts:   t,
	}
}

// Create relies on the unique index on asset_id; a second active checkout
// for the same asset fails with store.ErrDuplicate.
func (r *checkoutRepository) Create(ctx context.Context, checkout *model.Checkout) error {
	ctx, cancel := withTimeout(ctx, r.write)
	defer cancel()

	result, err := r.collection.InsertOne(ctx, checkout)
	if err != nil {
		return translateWriteError(err, "failed to create checkout")
	}

	checkout.ID = insertedHex(result)
	return nil
}

func (r *checkoutRepository) FindByID(ctx context.Context, id string) (*model.Checkout, error) {
	ctx, cancel := withTimeout(ctx, r.read)
	defer cancel()

	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var checkout model.Checkout
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&checkout); err != nil {
		return nil, translateFindError(err, "failed to find checkout")
	}
	return &checkout, nil
}

func (r *checkoutRepository) ExistsForAsset(ctx context.Context, assetID string) (bool, error) {
	ctx, cancel := withTimeout(ctx, r.read)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{"asset_id": assetID}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check checkout: %w", err)
	}
	return count > 0, nil
}

func (r *checkoutRepository) LatestByAsset(ctx context.Context, assetID string) (*model.Checkout, error) {
	ctx, cancel := withTimeout(ctx, r.read)
	defer cancel()

	opts := options.FindOne().SetSort(bson.D{{Key: "since", Value: -1}})
	var checkout model.Checkout
	if err := r.collection.FindOne(ctx, bson.M{"asset_id": assetID}, opts).Decode(&checkout); err != nil {
		return nil, translateFindError(err, "failed to find latest checkout")
	}
	return &checkout, nil
}

func (r *checkoutRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Checkout, error) {
	ctx, cancel := withTimeout(ctx, r.read)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "since", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find checkouts: %w", err)
	}
	defer cursor.Close(ctx)

	checkouts := make([]*model.Checkout, 0)
	if err = cursor.All(ctx, &checkouts); err != nil {
		return nil, fmt.Errorf("failed to decode checkouts: %w", err)
	}
	return checkouts, nil
}

func (r *checkoutRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := withTimeout(ctx, r.read)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count checkouts: %w", err)
	}
	return count, nil
}

func (r *checkoutRepository) DeleteByAsset(ctx context.Context, assetID string) (bool, error) {
	ctx, cancel := withTimeout(ctx, r.write)
	defer cancel()

	result, err := r.collection.DeleteMany(ctx, bson.M{"asset_id": assetID})
	if err != nil {
		return false, fmt.Errorf("failed to delete checkout: %w", err)
	}
	return result.DeletedCount > 0, nil
}

func (r *checkoutRepository) CreateHistory(ctx context.Context, history *model.CheckoutHistory) error {
	ctx, cancel := withTimeout(ctx, r.write)
	defer cancel()

	history.Open = history.CheckedIn == nil
	result, err := r.history.InsertOne(ctx, history)
	if err != nil {
		return translateWriteError(err, "failed to create checkout history")
	}

	history.ID = insertedHex(result)
	return nil
}

func (r *checkoutRepository) CloseOpenHistory(ctx context.Context, assetID string, checkedIn time.Time) (bool, error) {
	ctx, cancel := withTimeout(ctx, r.write)
	defer cancel()

	result, err := r.history.UpdateMany(ctx,
		bson.M{"asset_id": assetID, "open": true},
		bson.M{"$set": bson.M{"checked_in": checkedIn, "open": false}},
	)
	if err != nil {
		return false, fmt.Errorf("failed to close checkout history: %w", err)
	}
	return result.ModifiedCount > 0, nil
}

func (r *checkoutRepository) ListHistory(ctx context.Context, assetID string) ([]*model.CheckoutHistory, error) {
	ctx, cancel := withTimeout(ctx, r.read)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "checked_out", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := r.history.Find(ctx, bson.M{"asset_id": assetID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find checkout history: %w", err)
	}
	defer cursor.Close(ctx)

	histories := make([]*model.CheckoutHistory, 0)
	if err = cursor.All(ctx, &histories); err != nil {
		return nil, fmt.Errorf("failed to decode checkout history: %w", err)
	}
	return histories, nil
}

package mongostore

import (
	"context"
	"fmt"

	"circulation/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type statusRepository struct {
	collection *mongo.Collection
	timeouts
}

func (r *statusRepository) FindByName(ctx context.Context, name string) (*model.Status, error) {
	ctx, cancel := withTimeout(ctx, r.read)
	defer cancel()

	var status model.Status
	if err := r.collection.FindOne(ctx, bson.M{"name": name}).Decode(&status); err != nil {
		return nil, translateFindError(err, "failed to find status")
	}
	return &status, nil
}

func (r *statusRepository) FindAll(ctx context.Context) ([]*model.Status, error) {
	ctx, cancel := withTimeout(ctx, r.read)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to find statuses: %w", err)
	}
	defer cursor.Close(ctx)

	statuses := make([]*model.Status, 0)
	if err = cursor.All(ctx, &statuses); err != nil {
		return nil, fmt.Errorf("failed to decode statuses: %w", err)
	}
	return statuses, nil
}

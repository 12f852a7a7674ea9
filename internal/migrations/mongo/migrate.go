package mongo

import (
	"context"
	"fmt"

	"circulation/internal/migrations/mongo/validators"
	"circulation/internal/store/mongostore"
	"circulation/pkg/logger"
	"circulation/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	AssetsIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "title", Value: 1}, {Key: "_id", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	}

	StatusesIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
	}

	HoldsIndexes = []mongo.IndexModel{
		{Keys: bson.D{
			{Key: "asset_id", Value: 1},
			{Key: "placed", Value: 1},
			{Key: "_id", Value: 1},
		}},
	}

	CheckoutsIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "asset_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "since", Value: -1}}},
	}

	// One open history record per asset; closed records are unconstrained.
	CheckoutHistoryIndexes = []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "asset_id", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"open": true}),
		},
		{Keys: bson.D{{Key: "asset_id", Value: 1}, {Key: "checked_out", Value: -1}}},
	}

	PatronsIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "card_id", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
)

type collectionDef struct {
	Indexes   []mongo.IndexModel
	Validator bson.M
}

func RunMigration(ctx context.Context, client *mongo.Client, dbName string, log *logger.Logger) error {
	db := client.Database(dbName)
	log.Info("Running circulation Mongo migrations", "database", dbName)

	collections := map[string]collectionDef{
		mongostore.AssetsCollection: {
			Indexes:   AssetsIndexes,
			Validator: validators.AssetValidator,
		},
		mongostore.StatusesCollection: {
			Indexes:   StatusesIndexes,
			Validator: validators.StatusValidator,
		},
		mongostore.HoldsCollection: {
			Indexes:   HoldsIndexes,
			Validator: validators.HoldValidator,
		},
		mongostore.CheckoutsCollection: {
			Indexes:   CheckoutsIndexes,
			Validator: validators.CheckoutValidator,
		},
		mongostore.CheckoutHistoryCollection: {
			Indexes:   CheckoutHistoryIndexes,
			Validator: validators.CheckoutHistoryValidator,
		},
		mongostore.CardsCollection: {},
		mongostore.PatronsCollection: {
			Indexes: PatronsIndexes,
		},
	}

	for name, def := range collections {
		if err := ensureCollection(ctx, db, name, def.Validator, log); err != nil {
			return fmt.Errorf("failed to ensure collection %s: %w", name, err)
		}
		if err := ensureIndexes(ctx, db, name, def.Indexes, log); err != nil {
			return fmt.Errorf("failed to ensure indexes for %s: %w", name, err)
		}
	}

	if err := seedStatuses(ctx, db); err != nil {
		return fmt.Errorf("failed to seed statuses: %w", err)
	}

	log.Info("All migrations applied successfully")
	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string, validator bson.M, log *logger.Logger) error {
	existing, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		log.Info("Creating collection", "collection", name)
		opts := options.CreateCollection()
		if validator != nil {
			opts.SetValidator(validator)
		}
		if err := db.CreateCollection(ctx, name, opts); err != nil {
			return fmt.Errorf("failed creating %s: %w", name, err)
		}
		return nil
	}

	if validator == nil {
		return nil
	}

	log.Info("Collection already exists, updating validator", "collection", name)
	command := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
	}
	if err := db.RunCommand(ctx, command).Err(); err != nil {
		log.Warn("Failed updating validator", "collection", name, "error", err)
	}
	return nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database, name string, models []mongo.IndexModel, log *logger.Logger) error {
	if len(models) == 0 {
		return nil
	}
	if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
		return err
	}
	log.Info("Ensured indexes", "collection", name)
	return nil
}

// seedStatuses upserts the registry entries by name, leaving existing
// descriptions untouched.
func seedStatuses(ctx context.Context, db *mongo.Database) error {
	coll := db.Collection(mongostore.StatusesCollection)
	for _, s := range model.DefaultStatuses {
		_, err := coll.UpdateOne(ctx,
			bson.M{"name": s.Name},
			bson.M{"$setOnInsert": bson.M{"name": s.Name, "description": s.Description}},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			return fmt.Errorf("status %q: %w", s.Name, err)
		}
	}
	return nil
}

//go:build integration

package testutil

import (
	"context"
	"testing"
	"time"

	"circulation/internal/store/mongostore"
	"circulation/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	DefaultMongoURI     = "mongodb://localhost:27017"
	DefaultDatabaseName = "circulation"
	ConnectionTimeout   = 10 * time.Second
)

// circulationCollections are emptied between tests. Statuses is seeded by
// the migration job and left alone.
var circulationCollections = []string{
	mongostore.AssetsCollection,
	mongostore.HoldsCollection,
	mongostore.CheckoutsCollection,
	mongostore.CheckoutHistoryCollection,
	mongostore.CardsCollection,
	mongostore.PatronsCollection,
}

// MongoHelper provides MongoDB test utilities
type MongoHelper struct {
	Client   *mongo.Client
	Database *mongo.Database
	DBName   string
}

// NewMongoHelper creates a new MongoDB test helper
func NewMongoHelper(t *testing.T, mongoURI, dbName string) *MongoHelper {
	t.Helper()

	if mongoURI == "" {
		mongoURI = DefaultMongoURI
	}
	if dbName == "" {
		dbName = DefaultDatabaseName
	}

	ctx, cancel := context.WithTimeout(context.Background(), ConnectionTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		t.Fatalf("failed to connect to MongoDB: %v", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		t.Fatalf("failed to ping MongoDB: %v", err)
	}

	return &MongoHelper{
		Client:   client,
		Database: client.Database(dbName),
		DBName:   dbName,
	}
}

// Close closes MongoDB connection
func (m *MongoHelper) Close(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := m.Client.Disconnect(ctx); err != nil {
		t.Logf("warning: failed to disconnect from MongoDB: %v", err)
	}
}

// CleanCirculationData removes every document the tests create while keeping
// collections, validators and indexes in place.
func (m *MongoHelper) CleanCirculationData(t *testing.T) {
	t.Helper()
	for _, name := range circulationCollections {
		m.CleanCollection(t, name)
	}
}

// CleanCollection removes all documents from a specific collection
func (m *MongoHelper) CleanCollection(t *testing.T, collectionName string) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := m.Database.Collection(collectionName).DeleteMany(ctx, bson.M{}); err != nil {
		t.Fatalf("failed to clean collection %s: %v", collectionName, err)
	}
}

// CountDocuments returns the number of documents in a collection
func (m *MongoHelper) CountDocuments(t *testing.T, collectionName string, filter bson.M) int64 {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if filter == nil {
		filter = bson.M{}
	}
	count, err := m.Database.Collection(collectionName).CountDocuments(ctx, filter)
	if err != nil {
		t.Fatalf("failed to count documents in %s: %v", collectionName, err)
	}
	return count
}

// InsertPatron registers a library card and the patron holding it, returning
// the card id.
func (m *MongoHelper) InsertPatron(t *testing.T, firstName, lastName string) string {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cardID := primitive.NewObjectID()
	card := bson.M{"_id": cardID, "fees": 0.0, "created_at": time.Now().UTC()}
	if _, err := m.Database.Collection(mongostore.CardsCollection).InsertOne(ctx, card); err != nil {
		t.Fatalf("failed to insert library card: %v", err)
	}

	patron := model.Patron{FirstName: firstName, LastName: lastName, CardID: cardID.Hex()}
	if _, err := m.Database.Collection(mongostore.PatronsCollection).InsertOne(ctx, patron); err != nil {
		t.Fatalf("failed to insert patron: %v", err)
	}
	return cardID.Hex()
}

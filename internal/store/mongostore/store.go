package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"circulation/internal/store"
	"circulation/pkg/config"
	mongotx "circulation/pkg/db/mongo"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	AssetsCollection          = "Library_assets"
	StatusesCollection        = "Statuses"
	HoldsCollection           = "Holds"
	CheckoutsCollection       = "Checkouts"
	CheckoutHistoryCollection = "Checkout_histories"
	CardsCollection           = "Library_cards"
	PatronsCollection         = "Patrons"
)

type timeouts struct {
	read  time.Duration
	write time.Duration
}

// Store is the MongoDB implementation of store.Store. Transactions need a
// replica set deployment.
type Store struct {
	client    *mongo.Client
	txManager mongotx.TransactionManager

	assets    *assetRepository
	statuses  *statusRepository
	holds     *holdRepository
	checkouts *checkoutRepository
	cards     *cardRepository
}

func NewStore(cfg *config.Config) *Store {
	return New(cfg.Client.Mongo, cfg.MongoDatabaseName, cfg.ReadTimeout, cfg.WriteTimeout)
}

func New(client *mongo.Client, databaseName string, readTimeout, writeTimeout time.Duration) *Store {
	db := client.Database(databaseName)
	t := timeouts{read: readTimeout, write: writeTimeout}
	return &Store{
		client:    client,
		txManager: mongotx.NewTransactionManager(client),
		assets:    &assetRepository{collection: db.Collection(AssetsCollection), timeouts: t},
		statuses:  &statusRepository{collection: db.Collection(StatusesCollection), timeouts: t},
		holds:     &holdRepository{collection: db.Collection(HoldsCollection), timeouts: t},
		checkouts: newCheckoutRepository(db, t),
		cards:     newCardRepository(db, t),
	}
}

func (s *Store) Assets() store.AssetDirectory    { return s.assets }
func (s *Store) Statuses() store.StatusRegistry  { return s.statuses }
func (s *Store) Holds() store.HoldLedger         { return s.holds }
func (s *Store) Checkouts() store.CheckoutLedger { return s.checkouts }
func (s *Store) Cards() store.CardDirectory      { return s.cards }

func (s *Store) ExecuteTransaction(ctx context.Context, fn store.TransactionFunc) error {
	return s.txManager.ExecuteTransaction(ctx, mongotx.TransactionFunc(fn))
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// withTimeout wraps the context with a timeout if not already in a transaction.
// Inside a transaction the session deadline governs and the context is
// returned unchanged with a no-op cancel.
func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if mongotx.InTransaction(ctx) {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if hasDeadline && time.Until(deadline) < timeout {
		return context.WithDeadline(ctx, deadline)
	}

	return context.WithTimeout(ctx, timeout)
}

// objectID parses a hex id. Unparseable ids cannot name a document, so they
// are reported as not found.
func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: malformed id %q", store.ErrNotFound, id)
	}
	return oid, nil
}

func translateWriteError(err error, op string) error {
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%s: %w", op, store.ErrDuplicate)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func translateFindError(err error, op string) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return store.ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}

func insertedHex(result *mongo.InsertOneResult) string {
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		return oid.Hex()
	}
	return ""
}

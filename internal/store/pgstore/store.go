// Package pgstore implements store.Store on PostgreSQL through gorm. Asset
// rows are locked with SELECT ... FOR UPDATE for the length of a command and
// partial unique indexes back the single-checkout invariants.
package pgstore

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"circulation/internal/store"
	"circulation/pkg/db/postgres"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Store struct {
	db        *gorm.DB
	txManager postgres.TransactionManager

	assets    *assetRepository
	statuses  *statusRepository
	holds     *holdRepository
	checkouts *checkoutRepository
	cards     *cardRepository
}

func New(db *gorm.DB) *Store {
	return &Store{
		db:        db,
		txManager: postgres.NewTransactionManager(db),
		assets:    &assetRepository{db: db},
		statuses:  &statusRepository{db: db},
		holds:     &holdRepository{db: db},
		checkouts: &checkoutRepository{db: db},
		cards:     &cardRepository{db: db},
	}
}

func (s *Store) Assets() store.AssetDirectory    { return s.assets }
func (s *Store) Statuses() store.StatusRegistry  { return s.statuses }
func (s *Store) Holds() store.HoldLedger         { return s.holds }
func (s *Store) Checkouts() store.CheckoutLedger { return s.checkouts }
func (s *Store) Cards() store.CardDirectory      { return s.cards }

func (s *Store) ExecuteTransaction(ctx context.Context, fn store.TransactionFunc) error {
	return s.txManager.ExecuteTransaction(ctx, postgres.TransactionFunc(fn))
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// validID rejects ids that are not uuids before they reach a uuid column,
// where postgres would fail the whole transaction.
func validID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: malformed id %q", store.ErrNotFound, id)
	}
	return nil
}

func newID() string {
	return uuid.NewString()
}

func translateWriteError(err error, op string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%s: %w", op, store.ErrDuplicate)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func translateFindError(err error, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return store.ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}

func formatUint(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

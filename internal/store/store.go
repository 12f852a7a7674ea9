// Package store defines the persistence contract of the circulation domain.
// Every method takes the context of the caller; when that context carries a
// transaction opened by Store.ExecuteTransaction the call joins it.
package store

import (
	"context"
	"errors"
	"time"

	"circulation/pkg/model"
)

var (
	// ErrNotFound is returned when no record matches, including ids the
	// backend cannot parse.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate is returned when a unique index rejects a write.
	ErrDuplicate = errors.New("duplicate record")
)

type TransactionFunc func(ctx context.Context) error

type AssetDirectory interface {
	Create(ctx context.Context, asset *model.Asset) error
	FindByID(ctx context.Context, id string) (*model.Asset, error)
	// FindForUpdate reads the asset and takes a write lock on it for the rest
	// of the enclosing transaction.
	FindForUpdate(ctx context.Context, id string) (*model.Asset, error)
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.Asset, error)
	Count(ctx context.Context) (int64, error)
	UpdateStatus(ctx context.Context, id string, status string) error
}

type StatusRegistry interface {
	FindByName(ctx context.Context, name string) (*model.Status, error)
	FindAll(ctx context.Context) ([]*model.Status, error)
}

type HoldLedger interface {
	Create(ctx context.Context, hold *model.Hold) error
	FindByID(ctx context.Context, id string) (*model.Hold, error)
	// ListByAsset returns holds by placement time, then id.
	ListByAsset(ctx context.Context, assetID string) ([]*model.Hold, error)
	CountByAsset(ctx context.Context, assetID string) (int64, error)
	Delete(ctx context.Context, id string) error
}

type CheckoutLedger interface {
	Create(ctx context.Context, checkout *model.Checkout) error
	FindByID(ctx context.Context, id string) (*model.Checkout, error)
	ExistsForAsset(ctx context.Context, assetID string) (bool, error)
	LatestByAsset(ctx context.Context, assetID string) (*model.Checkout, error)
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.Checkout, error)
	Count(ctx context.Context) (int64, error)
	DeleteByAsset(ctx context.Context, assetID string) (bool, error)

	CreateHistory(ctx context.Context, history *model.CheckoutHistory) error
	CloseOpenHistory(ctx context.Context, assetID string, checkedIn time.Time) (bool, error)
	// ListHistory returns records newest first.
	ListHistory(ctx context.Context, assetID string) ([]*model.CheckoutHistory, error)
}

// CardDirectory is read-only; cards and patrons are owned elsewhere.
type CardDirectory interface {
	FindCardByID(ctx context.Context, id string) (*model.Card, error)
	FindPatronByCardID(ctx context.Context, cardID string) (*model.Patron, error)
}

type Store interface {
	Assets() AssetDirectory
	Statuses() StatusRegistry
	Holds() HoldLedger
	Checkouts() CheckoutLedger
	Cards() CardDirectory

	// ExecuteTransaction runs fn atomically. fn may be invoked more than once
	// when the backend retries a transient conflict.
	ExecuteTransaction(ctx context.Context, fn TransactionFunc) error
	Ping(ctx context.Context) error
}

// Package service is the checkout and hold state machine. Every command runs
// in one store transaction; events are published only after it commits.
package service

import (
	"context"
	"errors"
	"time"

	"circulation/internal/circulation/events"
	"circulation/internal/store"
	apperrors "circulation/pkg/errors"
	"circulation/pkg/logger"
	"circulation/pkg/model"
)

type CirculationService interface {
	CheckOutItem(ctx context.Context, assetID, cardID string) error
	CheckInItem(ctx context.Context, assetID string) error
	PlaceHold(ctx context.Context, assetID, cardID string) (*model.Hold, error)
	CancelHold(ctx context.Context, holdID string) error
	MarkLost(ctx context.Context, assetID string) error
	MarkFound(ctx context.Context, assetID string) error

	GetCurrentHolds(ctx context.Context, assetID string) ([]*model.Hold, error)
	GetCheckoutHistory(ctx context.Context, assetID string) ([]*model.CheckoutHistory, error)
	GetLatestCheckout(ctx context.Context, assetID string) (*model.Checkout, error)
	GetCurrentCheckoutPatronName(ctx context.Context, assetID string) (string, error)
	GetCurrentHoldPatronName(ctx context.Context, holdID string) (string, error)
	GetCurrentHoldPlaced(ctx context.Context, holdID string) (time.Time, error)
	IsCheckedOut(ctx context.Context, assetID string) (bool, error)

	GetHold(ctx context.Context, holdID string) (*model.HoldView, error)
	GetCheckoutByID(ctx context.Context, id string) (*model.Checkout, error)
	GetAllCheckouts(ctx context.Context, limit int, offset int64) ([]*model.Checkout, int64, error)
	GetStatus(ctx context.Context, assetID string) (*model.CirculationStatus, error)
	GetAssetDetail(ctx context.Context, assetID string) (*model.AssetDetail, error)
}

type circulationService struct {
	store     store.Store
	publisher events.Publisher
	log       *logger.Logger
	now       func() time.Time
}

// timestampPrecision is the coarsest precision among the stores; mongo keeps
// milliseconds.
const timestampPrecision = time.Millisecond

type Option func(*circulationService)

// WithClock replaces time.Now for every timestamp the service writes.
func WithClock(now func() time.Time) Option {
	return func(s *circulationService) {
		s.now = now
	}
}

func NewCirculationService(st store.Store, publisher events.Publisher, log *logger.Logger, opts ...Option) CirculationService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}

	s := &circulationService{
		store:     st,
		publisher: publisher,
		log:       log.WithComponent("circulation"),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// timestamp is the service clock in UTC, truncated so a value handed back to
// the caller equals the value read back from the store later.
func (s *circulationService) timestamp() time.Time {
	return s.now().UTC().Truncate(timestampPrecision)
}

// transact runs fn in a store transaction. The events fn collects are reset
// on every attempt, since the store may rerun fn, and published once the
// transaction has committed.
func (s *circulationService) transact(ctx context.Context, fn func(txCtx context.Context, emit func(events.Event)) error) error {
	var pending []events.Event

	err := s.store.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		pending = pending[:0]
		return fn(txCtx, func(e events.Event) {
			pending = append(pending, e)
		})
	})
	if err != nil {
		return err
	}

	s.publish(ctx, pending)
	return nil
}

func (s *circulationService) publish(ctx context.Context, evts []events.Event) {
	if len(evts) == 0 {
		return
	}

	if err := s.publisher.Publish(context.WithoutCancel(ctx), evts...); err != nil {
		s.log.Error("Failed to publish circulation events",
			"asset_id", evts[0].AssetID,
			"event_type", evts[0].Type,
			"count", len(evts),
			"error", err,
		)
	}
}

// lockAsset reads the asset and holds its write lock until the transaction
// ends, serializing commands on the same asset.
func (s *circulationService) lockAsset(txCtx context.Context, assetID string) (*model.Asset, error) {
	asset, err := s.store.Assets().FindForUpdate(txCtx, assetID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Asset", assetID)
		}
		return nil, err
	}
	return asset, nil
}

func (s *circulationService) requireCard(ctx context.Context, cardID string) error {
	if _, err := s.store.Cards().FindCardByID(ctx, cardID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperrors.NotFoundWithID("Library card", cardID)
		}
		return err
	}
	return nil
}

// setStatus moves the asset to a registered status. A status missing from
// the registry, or an asset that vanished mid-transaction, is an invalid
// state rather than a store failure.
func (s *circulationService) setStatus(txCtx context.Context, asset *model.Asset, statusName string) error {
	status, err := s.store.Statuses().FindByName(txCtx, statusName)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperrors.InvalidState("Status " + statusName + " is not registered")
		}
		return err
	}

	if err := s.store.Assets().UpdateStatus(txCtx, asset.ID, status.Name); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperrors.InvalidState("Asset " + asset.ID + " has no record to update")
		}
		return err
	}

	asset.Status = status.Name
	return nil
}

// fail converts err into the error returned to callers. Application errors
// pass through; anything else came from the store and is retryable.
func (s *circulationService) fail(err error, op string, attrs ...any) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		s.log.Warn(op+" rejected", append(attrs, "code", appErr.Code, "error", appErr.Message)...)
		return appErr
	}

	s.log.Error(op+" failed", append(attrs, "error", err)...)
	return apperrors.TransactionFailure(op+" failed", err)
}

// readFail is fail for queries, where store.ErrNotFound names the resource.
func (s *circulationService) readFail(err error, op, resource, id string) error {
	if errors.Is(err, store.ErrNotFound) {
		return apperrors.NotFoundWithID(resource, id)
	}
	return s.fail(err, op, "id", id)
}

package service

import (
	"context"
	"errors"

	"circulation/internal/circulation/events"
	"circulation/internal/store"
	apperrors "circulation/pkg/errors"
	"circulation/pkg/model"
)

// CheckOutItem lends the asset to the card. Checking out an asset that
// already has an active checkout changes nothing and is not an error, which
// also covers losing a race against a concurrent checkout.
func (s *circulationService) CheckOutItem(ctx context.Context, assetID, cardID string) error {
	if assetID == "" || cardID == "" {
		return apperrors.InvalidInput("Asset ID and card ID are required")
	}

	err := s.transact(ctx, func(txCtx context.Context, emit func(events.Event)) error {
		asset, err := s.lockAsset(txCtx, assetID)
		if err != nil {
			return err
		}
		if err := s.requireCard(txCtx, cardID); err != nil {
			return err
		}
		return s.checkOut(txCtx, asset, cardID, emit)
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			s.log.Info("Asset already checked out by a concurrent request",
				"asset_id", assetID,
				"card_id", cardID,
			)
			return nil
		}
		return s.fail(err, "Check out", "asset_id", assetID, "card_id", cardID)
	}

	s.log.Info("Asset checked out", "asset_id", assetID, "card_id", cardID)
	return nil
}

// checkOut is the shared checkout transition, also used to fulfil a hold on
// check-in. It must run inside a transaction holding the asset lock.
func (s *circulationService) checkOut(txCtx context.Context, asset *model.Asset, cardID string, emit func(events.Event)) error {
	exists, err := s.store.Checkouts().ExistsForAsset(txCtx, asset.ID)
	if err != nil {
		return err
	}
	if exists {
		s.log.Debug("Checkout skipped, asset already checked out", "asset_id", asset.ID, "card_id", cardID)
		return nil
	}

	if err := s.setStatus(txCtx, asset, model.StatusCheckedOut); err != nil {
		return err
	}

	now := s.timestamp()
	checkout := model.NewCheckout(asset.ID, cardID, now)
	if err := s.store.Checkouts().Create(txCtx, checkout); err != nil {
		return err
	}
	if err := s.store.Checkouts().CreateHistory(txCtx, model.NewCheckoutHistory(asset.ID, cardID, now)); err != nil {
		return err
	}

	emit(events.New(events.AssetCheckedOut, asset.ID, now).
		WithCard(cardID).
		WithCheckout(checkout.ID).
		WithStatus(model.StatusCheckedOut))
	return nil
}

// CheckInItem returns the asset. When holds are queued the earliest one is
// fulfilled in the same transaction, so the asset is never observed as
// available while a hold is waiting.
func (s *circulationService) CheckInItem(ctx context.Context, assetID string) error {
	if assetID == "" {
		return apperrors.InvalidInput("Asset ID is required")
	}

	var fulfilled *model.Hold
	err := s.transact(ctx, func(txCtx context.Context, emit func(events.Event)) error {
		fulfilled = nil

		asset, err := s.lockAsset(txCtx, assetID)
		if err != nil {
			return err
		}

		now := s.timestamp()
		current, err := s.store.Checkouts().LatestByAsset(txCtx, assetID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return err
		}

		if _, err := s.store.Checkouts().DeleteByAsset(txCtx, assetID); err != nil {
			return err
		}
		if _, err := s.store.Checkouts().CloseOpenHistory(txCtx, assetID, now); err != nil {
			return err
		}

		checkedIn := events.New(events.AssetCheckedIn, assetID, now)
		if current != nil {
			checkedIn = checkedIn.WithCard(current.CardID).WithCheckout(current.ID)
		}

		holds, err := s.store.Holds().ListByAsset(txCtx, assetID)
		if err != nil {
			return err
		}

		next := model.EarliestHold(holds)
		if next == nil {
			if err := s.setStatus(txCtx, asset, model.StatusAvailable); err != nil {
				return err
			}
			emit(checkedIn.WithStatus(model.StatusAvailable))
			return nil
		}

		if err := s.store.Holds().Delete(txCtx, next.ID); err != nil {
			return err
		}
		emit(checkedIn)
		emit(events.New(events.HoldFulfilled, assetID, now).WithCard(next.CardID).WithHold(next.ID))
		if err := s.checkOut(txCtx, asset, next.CardID, emit); err != nil {
			return err
		}

		fulfilled = next
		return nil
	})
	if err != nil {
		return s.fail(err, "Check in", "asset_id", assetID)
	}

	if fulfilled != nil {
		s.log.Info("Asset checked in and hold fulfilled",
			"asset_id", assetID,
			"hold_id", fulfilled.ID,
			"card_id", fulfilled.CardID,
		)
		return nil
	}

	s.log.Info("Asset checked in", "asset_id", assetID)
	return nil
}

// PlaceHold queues a hold for the card. The first hold on an available
// asset reserves it; holds on checked-out or already reserved assets only
// join the queue.
func (s *circulationService) PlaceHold(ctx context.Context, assetID, cardID string) (*model.Hold, error) {
	if assetID == "" || cardID == "" {
		return nil, apperrors.InvalidInput("Asset ID and card ID are required")
	}

	var hold *model.Hold
	err := s.transact(ctx, func(txCtx context.Context, emit func(events.Event)) error {
		asset, err := s.lockAsset(txCtx, assetID)
		if err != nil {
			return err
		}
		if err := s.requireCard(txCtx, cardID); err != nil {
			return err
		}

		if asset.Status == model.StatusAvailable {
			if err := s.setStatus(txCtx, asset, model.StatusOnHold); err != nil {
				return err
			}
		}

		hold = model.NewHold(assetID, cardID, s.timestamp())
		if err := s.store.Holds().Create(txCtx, hold); err != nil {
			return err
		}

		emit(events.New(events.HoldPlaced, assetID, hold.Placed).
			WithCard(cardID).
			WithHold(hold.ID).
			WithStatus(asset.Status))
		return nil
	})
	if err != nil {
		return nil, s.fail(err, "Place hold", "asset_id", assetID, "card_id", cardID)
	}

	s.log.Info("Hold placed",
		"asset_id", assetID,
		"card_id", cardID,
		"hold_id", hold.ID,
	)
	return hold, nil
}

// CancelHold removes a hold. An asset left reserved with no remaining holds
// and no active checkout becomes available again.
func (s *circulationService) CancelHold(ctx context.Context, holdID string) error {
	if holdID == "" {
		return apperrors.InvalidInput("Hold ID is required")
	}

	var assetID string
	err := s.transact(ctx, func(txCtx context.Context, emit func(events.Event)) error {
		hold, err := s.store.Holds().FindByID(txCtx, holdID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return apperrors.NotFoundWithID("Hold", holdID)
			}
			return err
		}
		assetID = hold.AssetID

		asset, err := s.store.Assets().FindForUpdate(txCtx, hold.AssetID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return apperrors.InvalidState("Hold " + holdID + " references a missing asset")
			}
			return err
		}

		if err := s.store.Holds().Delete(txCtx, holdID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return apperrors.NotFoundWithID("Hold", holdID)
			}
			return err
		}

		if asset.Status == model.StatusOnHold {
			remaining, err := s.store.Holds().CountByAsset(txCtx, asset.ID)
			if err != nil {
				return err
			}
			checkedOut, err := s.store.Checkouts().ExistsForAsset(txCtx, asset.ID)
			if err != nil {
				return err
			}
			if remaining == 0 && !checkedOut {
				if err := s.setStatus(txCtx, asset, model.StatusAvailable); err != nil {
					return err
				}
			}
		}

		emit(events.New(events.HoldCancelled, asset.ID, s.timestamp()).
			WithCard(hold.CardID).
			WithHold(holdID).
			WithStatus(asset.Status))
		return nil
	})
	if err != nil {
		return s.fail(err, "Cancel hold", "hold_id", holdID)
	}

	s.log.Info("Hold cancelled", "hold_id", holdID, "asset_id", assetID)
	return nil
}

// MarkLost only changes the status. An active checkout stays in place as
// the borrower's outstanding debt.
func (s *circulationService) MarkLost(ctx context.Context, assetID string) error {
	if assetID == "" {
		return apperrors.InvalidInput("Asset ID is required")
	}

	err := s.transact(ctx, func(txCtx context.Context, emit func(events.Event)) error {
		asset, err := s.lockAsset(txCtx, assetID)
		if err != nil {
			return err
		}
		if err := s.setStatus(txCtx, asset, model.StatusLost); err != nil {
			return err
		}

		emit(events.New(events.AssetLost, assetID, s.timestamp()).WithStatus(model.StatusLost))
		return nil
	})
	if err != nil {
		return s.fail(err, "Mark lost", "asset_id", assetID)
	}

	s.log.Info("Asset marked lost", "asset_id", assetID)
	return nil
}

// MarkFound makes the asset available and closes out any checkout left from
// before it was lost. It is a recovery, not a check-in: queued holds are
// left untouched and none is fulfilled.
func (s *circulationService) MarkFound(ctx context.Context, assetID string) error {
	if assetID == "" {
		return apperrors.InvalidInput("Asset ID is required")
	}

	err := s.transact(ctx, func(txCtx context.Context, emit func(events.Event)) error {
		asset, err := s.lockAsset(txCtx, assetID)
		if err != nil {
			return err
		}
		if err := s.setStatus(txCtx, asset, model.StatusAvailable); err != nil {
			return err
		}

		now := s.timestamp()
		if _, err := s.store.Checkouts().DeleteByAsset(txCtx, assetID); err != nil {
			return err
		}
		if _, err := s.store.Checkouts().CloseOpenHistory(txCtx, assetID, now); err != nil {
			return err
		}

		emit(events.New(events.AssetFound, assetID, now).WithStatus(model.StatusAvailable))
		return nil
	})
	if err != nil {
		return s.fail(err, "Mark found", "asset_id", assetID)
	}

	s.log.Info("Asset marked found", "asset_id", assetID)
	return nil
}

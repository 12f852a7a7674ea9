package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"circulation/internal/store"
	apperrors "circulation/pkg/errors"
	"circulation/pkg/model"
)

// GetCurrentHolds returns the hold queue, earliest first. An asset without
// holds, or one that does not exist, has an empty queue.
func (s *circulationService) GetCurrentHolds(ctx context.Context, assetID string) ([]*model.Hold, error) {
	holds, err := s.store.Holds().ListByAsset(ctx, assetID)
	if err != nil {
		return nil, s.fail(err, "Get current holds", "asset_id", assetID)
	}
	model.SortHolds(holds)
	return holds, nil
}

// GetCheckoutHistory returns every loan of the asset, newest first,
// including the open one.
func (s *circulationService) GetCheckoutHistory(ctx context.Context, assetID string) ([]*model.CheckoutHistory, error) {
	history, err := s.store.Checkouts().ListHistory(ctx, assetID)
	if err != nil {
		return nil, s.fail(err, "Get checkout history", "asset_id", assetID)
	}
	return history, nil
}

// GetLatestCheckout returns the active checkout with the latest start, or
// nil when the asset is not checked out.
func (s *circulationService) GetLatestCheckout(ctx context.Context, assetID string) (*model.Checkout, error) {
	checkout, err := s.store.Checkouts().LatestByAsset(ctx, assetID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, s.fail(err, "Get latest checkout", "asset_id", assetID)
	}
	return checkout, nil
}

// GetCurrentCheckoutPatronName is empty when the asset is not checked out.
func (s *circulationService) GetCurrentCheckoutPatronName(ctx context.Context, assetID string) (string, error) {
	checkout, err := s.GetLatestCheckout(ctx, assetID)
	if err != nil || checkout == nil {
		return "", err
	}
	return s.patronName(ctx, checkout.CardID)
}

func (s *circulationService) GetCurrentHoldPatronName(ctx context.Context, holdID string) (string, error) {
	hold, err := s.findHold(ctx, holdID)
	if err != nil {
		return "", err
	}
	return s.patronName(ctx, hold.CardID)
}

func (s *circulationService) GetCurrentHoldPlaced(ctx context.Context, holdID string) (time.Time, error) {
	hold, err := s.findHold(ctx, holdID)
	if err != nil {
		return time.Time{}, err
	}
	return hold.Placed, nil
}

func (s *circulationService) IsCheckedOut(ctx context.Context, assetID string) (bool, error) {
	exists, err := s.store.Checkouts().ExistsForAsset(ctx, assetID)
	if err != nil {
		return false, s.fail(err, "Check checkout", "asset_id", assetID)
	}
	return exists, nil
}

func (s *circulationService) GetHold(ctx context.Context, holdID string) (*model.HoldView, error) {
	hold, err := s.findHold(ctx, holdID)
	if err != nil {
		return nil, err
	}
	name, err := s.patronName(ctx, hold.CardID)
	if err != nil {
		return nil, err
	}
	return &model.HoldView{
		ID:         hold.ID,
		CardID:     hold.CardID,
		PatronName: name,
		Placed:     hold.Placed,
	}, nil
}

func (s *circulationService) GetCheckoutByID(ctx context.Context, id string) (*model.Checkout, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Checkout ID cannot be empty")
	}

	checkout, err := s.store.Checkouts().FindByID(ctx, id)
	if err != nil {
		return nil, s.readFail(err, "Get checkout", "Checkout", id)
	}
	return checkout, nil
}

func (s *circulationService) GetAllCheckouts(ctx context.Context, limit int, offset int64) ([]*model.Checkout, int64, error) {
	var count int64
	var checkouts []*model.Checkout
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		var err error
		count, err = s.store.Checkouts().Count(ctx)
		if err != nil {
			errCount = s.fail(err, "Count checkouts")
		}
	}()

	go func() {
		defer wg.Done()
		var err error
		checkouts, err = s.store.Checkouts().FindAll(ctx, limit, offset)
		if err != nil {
			errFind = s.fail(err, "List checkouts", "limit", limit, "offset", offset)
		}
	}()
	wg.Wait()

	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return checkouts, count, nil
}

// GetStatus summarizes the circulation side of one asset. A checkout whose
// patron record is gone reports an empty patron name.
func (s *circulationService) GetStatus(ctx context.Context, assetID string) (*model.CirculationStatus, error) {
	asset, err := s.store.Assets().FindByID(ctx, assetID)
	if err != nil {
		return nil, s.readFail(err, "Get circulation status", "Asset", assetID)
	}

	checkout, err := s.GetLatestCheckout(ctx, assetID)
	if err != nil {
		return nil, err
	}

	holdCount, err := s.store.Holds().CountByAsset(ctx, assetID)
	if err != nil {
		return nil, s.fail(err, "Count holds", "asset_id", assetID)
	}

	status := &model.CirculationStatus{
		AssetID:      asset.ID,
		Status:       asset.Status,
		IsCheckedOut: checkout != nil,
		HoldCount:    holdCount,
	}
	if checkout != nil {
		if status.PatronName, err = s.optionalPatronName(ctx, checkout.CardID); err != nil {
			return nil, err
		}
	}
	return status, nil
}

// GetAssetDetail gathers everything the catalog detail page shows for one
// asset: metadata, current borrower, history and the hold queue.
func (s *circulationService) GetAssetDetail(ctx context.Context, assetID string) (*model.AssetDetail, error) {
	asset, err := s.store.Assets().FindByID(ctx, assetID)
	if err != nil {
		return nil, s.readFail(err, "Get asset detail", "Asset", assetID)
	}

	detail := &model.AssetDetail{
		Asset:            asset,
		AuthorOrDirector: asset.AuthorOrDirector(),
		DeweyIndex:       asset.DeweyIndex(),
		ISBN:             asset.ISBN(),
	}

	if detail.LatestCheckout, err = s.GetLatestCheckout(ctx, assetID); err != nil {
		return nil, err
	}
	if detail.LatestCheckout != nil {
		if detail.PatronName, err = s.optionalPatronName(ctx, detail.LatestCheckout.CardID); err != nil {
			return nil, err
		}
	}

	if detail.History, err = s.GetCheckoutHistory(ctx, assetID); err != nil {
		return nil, err
	}

	holds, err := s.GetCurrentHolds(ctx, assetID)
	if err != nil {
		return nil, err
	}
	detail.Holds = make([]*model.HoldView, 0, len(holds))
	for _, h := range holds {
		name, err := s.optionalPatronName(ctx, h.CardID)
		if err != nil {
			return nil, err
		}
		detail.Holds = append(detail.Holds, &model.HoldView{
			ID:         h.ID,
			CardID:     h.CardID,
			PatronName: name,
			Placed:     h.Placed,
		})
	}

	return detail, nil
}

func (s *circulationService) findHold(ctx context.Context, holdID string) (*model.Hold, error) {
	if holdID == "" {
		return nil, apperrors.InvalidInput("Hold ID cannot be empty")
	}

	hold, err := s.store.Holds().FindByID(ctx, holdID)
	if err != nil {
		return nil, s.readFail(err, "Get hold", "Hold", holdID)
	}
	return hold, nil
}

func (s *circulationService) patronName(ctx context.Context, cardID string) (string, error) {
	patron, err := s.store.Cards().FindPatronByCardID(ctx, cardID)
	if err != nil {
		return "", s.readFail(err, "Get patron", "Patron", cardID)
	}
	return patron.FullName(), nil
}

func (s *circulationService) optionalPatronName(ctx context.Context, cardID string) (string, error) {
	name, err := s.patronName(ctx, cardID)
	if apperrors.HasCode(err, apperrors.CodeNotFound) {
		return "", nil
	}
	return name, err
}

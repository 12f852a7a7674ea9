package pgstore

import (
	"context"
	"fmt"
	"time"

	"circulation/pkg/db/postgres"
	"circulation/pkg/model"

	"gorm.io/gorm"
)

type checkoutRepository struct {
	db *gorm.DB
}

func (r *checkoutRepository) Create(ctx context.Context, checkout *model.Checkout) error {
	if err := validID(checkout.AssetID); err != nil {
		return err
	}

	row := &checkoutRow{
		ID:      newID(),
		AssetID: checkout.AssetID,
		CardID:  checkout.CardID,
		Since:   checkout.Since,
		Until:   checkout.Until,
	}
	if err := postgres.Conn(ctx, r.db).Create(row).Error; err != nil {
		return translateWriteError(err, "failed to create checkout")
	}

	checkout.ID = row.ID
	return nil
}

func (r *checkoutRepository) FindByID(ctx context.Context, id string) (*model.Checkout, error) {
	if err := validID(id); err != nil {
		return nil, err
	}

	var row checkoutRow
	if err := postgres.Conn(ctx, r.db).First(&row, "id = ?", id).Error; err != nil {
		return nil, translateFindError(err, "failed to find checkout")
	}
	return row.toModel(), nil
}

func (r *checkoutRepository) ExistsForAsset(ctx context.Context, assetID string) (bool, error) {
	if validID(assetID) != nil {
		return false, nil
	}

	var count int64
	if err := postgres.Conn(ctx, r.db).Model(&checkoutRow{}).Where("asset_id = ?", assetID).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check checkout: %w", err)
	}
	return count > 0, nil
}

func (r *checkoutRepository) LatestByAsset(ctx context.Context, assetID string) (*model.Checkout, error) {
	if err := validID(assetID); err != nil {
		return nil, err
	}

	var row checkoutRow
	err := postgres.Conn(ctx, r.db).
		Where("asset_id = ?", assetID).
		Order("since DESC").
		First(&row).Error
	if err != nil {
		return nil, translateFindError(err, "failed to find latest checkout")
	}
	return row.toModel(), nil
}

func (r *checkoutRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Checkout, error) {
	var rows []checkoutRow
	err := postgres.Conn(ctx, r.db).
		Order("since DESC, id DESC").
		Limit(limit).
		Offset(int(offset)).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find checkouts: %w", err)
	}

	checkouts := make([]*model.Checkout, 0, len(rows))
	for i := range rows {
		checkouts = append(checkouts, rows[i].toModel())
	}
	return checkouts, nil
}

func (r *checkoutRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := postgres.Conn(ctx, r.db).Model(&checkoutRow{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count checkouts: %w", err)
	}
	return count, nil
}

func (r *checkoutRepository) DeleteByAsset(ctx context.Context, assetID string) (bool, error) {
	if validID(assetID) != nil {
		return false, nil
	}

	result := postgres.Conn(ctx, r.db).Delete(&checkoutRow{}, "asset_id = ?", assetID)
	if result.Error != nil {
		return false, fmt.Errorf("failed to delete checkout: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// CreateHistory relies on the partial unique index over open records; a
// second open record for the same asset fails with store.ErrDuplicate.
func (r *checkoutRepository) CreateHistory(ctx context.Context, history *model.CheckoutHistory) error {
	if err := validID(history.AssetID); err != nil {
		return err
	}

	row := &historyRow{
		ID:         newID(),
		AssetID:    history.AssetID,
		CardID:     history.CardID,
		CheckedOut: history.CheckedOut,
		CheckedIn:  history.CheckedIn,
	}
	if err := postgres.Conn(ctx, r.db).Create(row).Error; err != nil {
		return translateWriteError(err, "failed to create checkout history")
	}

	history.ID = row.ID
	history.Open = row.CheckedIn == nil
	return nil
}

func (r *checkoutRepository) CloseOpenHistory(ctx context.Context, assetID string, checkedIn time.Time) (bool, error) {
	if validID(assetID) != nil {
		return false, nil
	}

	result := postgres.Conn(ctx, r.db).
		Model(&historyRow{}).
		Where("asset_id = ? AND checked_in IS NULL", assetID).
		Update("checked_in", checkedIn)
	if result.Error != nil {
		return false, fmt.Errorf("failed to close checkout history: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *checkoutRepository) ListHistory(ctx context.Context, assetID string) ([]*model.CheckoutHistory, error) {
	histories := make([]*model.CheckoutHistory, 0)
	if validID(assetID) != nil {
		return histories, nil
	}

	var rows []historyRow
	err := postgres.Conn(ctx, r.db).
		Where("asset_id = ?", assetID).
		Order("checked_out DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find checkout history: %w", err)
	}

	for i := range rows {
		histories = append(histories, rows[i].toModel())
	}
	return histories, nil
}

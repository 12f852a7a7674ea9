package pgstore

import (
	"context"
	"fmt"

	"circulation/internal/store"
	"circulation/pkg/db/postgres"
	"circulation/pkg/model"

	"gorm.io/gorm"
)

type holdRepository struct {
	db *gorm.DB
}

func (r *holdRepository) Create(ctx context.Context, hold *model.Hold) error {
	if err := validID(hold.AssetID); err != nil {
		return err
	}

	row := &holdRow{ID: newID(), AssetID: hold.AssetID, CardID: hold.CardID, Placed: hold.Placed}
	if err := postgres.Conn(ctx, r.db).Create(row).Error; err != nil {
		return translateWriteError(err, "failed to create hold")
	}

	hold.ID = row.ID
	return nil
}

func (r *holdRepository) FindByID(ctx context.Context, id string) (*model.Hold, error) {
	if err := validID(id); err != nil {
		return nil, err
	}

	var row holdRow
	if err := postgres.Conn(ctx, r.db).First(&row, "id = ?", id).Error; err != nil {
		return nil, translateFindError(err, "failed to find hold")
	}
	return row.toModel(), nil
}

func (r *holdRepository) ListByAsset(ctx context.Context, assetID string) ([]*model.Hold, error) {
	holds := make([]*model.Hold, 0)
	if validID(assetID) != nil {
		return holds, nil
	}

	var rows []holdRow
	err := postgres.Conn(ctx, r.db).
		Where("asset_id = ?", assetID).
		Order("placed ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find holds: %w", err)
	}

	for i := range rows {
		holds = append(holds, rows[i].toModel())
	}
	return holds, nil
}

func (r *holdRepository) CountByAsset(ctx context.Context, assetID string) (int64, error) {
	if validID(assetID) != nil {
		return 0, nil
	}

	var count int64
	if err := postgres.Conn(ctx, r.db).Model(&holdRow{}).Where("asset_id = ?", assetID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count holds: %w", err)
	}
	return count, nil
}

func (r *holdRepository) Delete(ctx context.Context, id string) error {
	if err := validID(id); err != nil {
		return err
	}

	result := postgres.Conn(ctx, r.db).Delete(&holdRow{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete hold: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

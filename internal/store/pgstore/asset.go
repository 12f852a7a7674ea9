package pgstore

import (
	"context"
	"fmt"
	"time"

	"circulation/internal/store"
	"circulation/pkg/db/postgres"
	"circulation/pkg/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type assetRepository struct {
	db *gorm.DB
}

func (r *assetRepository) Create(ctx context.Context, asset *model.Asset) error {
	asset.ID = newID()
	asset.CreatedAt = time.Now().UTC().Truncate(time.Microsecond)

	if err := postgres.Conn(ctx, r.db).Create(assetRowFromModel(asset)).Error; err != nil {
		asset.ID = ""
		return translateWriteError(err, "failed to create asset")
	}
	return nil
}

func (r *assetRepository) FindByID(ctx context.Context, id string) (*model.Asset, error) {
	if err := validID(id); err != nil {
		return nil, err
	}

	var row assetRow
	if err := postgres.Conn(ctx, r.db).First(&row, "id = ?", id).Error; err != nil {
		return nil, translateFindError(err, "failed to find asset")
	}
	return row.toModel(), nil
}

func (r *assetRepository) FindForUpdate(ctx context.Context, id string) (*model.Asset, error) {
	if err := validID(id); err != nil {
		return nil, err
	}

	var row assetRow
	err := postgres.Conn(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&row, "id = ?", id).Error
	if err != nil {
		return nil, translateFindError(err, "failed to lock asset")
	}
	return row.toModel(), nil
}

func (r *assetRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Asset, error) {
	var rows []assetRow
	err := postgres.Conn(ctx, r.db).
		Order("title ASC, id ASC").
		Limit(limit).
		Offset(int(offset)).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find assets: %w", err)
	}

	assets := make([]*model.Asset, 0, len(rows))
	for i := range rows {
		assets = append(assets, rows[i].toModel())
	}
	return assets, nil
}

func (r *assetRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := postgres.Conn(ctx, r.db).Model(&assetRow{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count assets: %w", err)
	}
	return count, nil
}

func (r *assetRepository) UpdateStatus(ctx context.Context, id string, status string) error {
	if err := validID(id); err != nil {
		return err
	}

	result := postgres.Conn(ctx, r.db).
		Model(&assetRow{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update asset status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

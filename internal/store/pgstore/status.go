package pgstore

import (
	"context"
	"fmt"

	"circulation/pkg/db/postgres"
	"circulation/pkg/model"

	"gorm.io/gorm"
)

type statusRepository struct {
	db *gorm.DB
}

func (r *statusRepository) FindByName(ctx context.Context, name string) (*model.Status, error) {
	var row statusRow
	if err := postgres.Conn(ctx, r.db).First(&row, "name = ?", name).Error; err != nil {
		return nil, translateFindError(err, "failed to find status")
	}
	return row.toModel(), nil
}

func (r *statusRepository) FindAll(ctx context.Context) ([]*model.Status, error) {
	var rows []statusRow
	if err := postgres.Conn(ctx, r.db).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to find statuses: %w", err)
	}

	statuses := make([]*model.Status, 0, len(rows))
	for i := range rows {
		statuses = append(statuses, rows[i].toModel())
	}
	return statuses, nil
}

package pgstore

import (
	"context"

	"circulation/pkg/db/postgres"
	"circulation/pkg/model"

	"gorm.io/gorm"
)

type cardRepository struct {
	db *gorm.DB
}

func (r *cardRepository) FindCardByID(ctx context.Context, id string) (*model.Card, error) {
	if err := validID(id); err != nil {
		return nil, err
	}

	var row cardRow
	if err := postgres.Conn(ctx, r.db).First(&row, "id = ?", id).Error; err != nil {
		return nil, translateFindError(err, "failed to find library card")
	}
	return &model.Card{ID: row.ID, Fees: row.Fees, CreatedAt: row.CreatedAt}, nil
}

func (r *cardRepository) FindPatronByCardID(ctx context.Context, cardID string) (*model.Patron, error) {
	if err := validID(cardID); err != nil {
		return nil, err
	}

	var row patronRow
	if err := postgres.Conn(ctx, r.db).First(&row, "card_id = ?", cardID).Error; err != nil {
		return nil, translateFindError(err, "failed to find patron")
	}
	return &model.Patron{ID: row.ID, FirstName: row.FirstName, LastName: row.LastName, CardID: row.CardID}, nil
}

package mongostore

import (
	"context"

	"circulation/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type cardRepository struct {
	cards   *mongo.Collection
	patrons *mongo.Collection
	timeouts
}

func newCardRepository(db *mongo.Database, t timeouts) *cardRepository {
	return &cardRepository{
		cards:    db.Collection(CardsCollection),
		patrons:  db.Collection(PatronsCollection),
		timeouts: t,
	}
}

func (r *cardRepository) FindCardByID(ctx context.Context, id string) (*model.Card, error) {
	ctx, cancel := withTimeout(ctx, r.read)
	defer cancel()

	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var card model.Card
	if err := r.cards.FindOne(ctx, bson.M{"_id": oid}).Decode(&card); err != nil {
		return nil, translateFindError(err, "failed to find library card")
	}
	return &card, nil
}

func (r *cardRepository) FindPatronByCardID(ctx context.Context, cardID string) (*model.Patron, error) {
	ctx, cancel := withTimeout(ctx, r.read)
	defer cancel()

	var patron model.Patron
	if err := r.patrons.FindOne(ctx, bson.M{"card_id": cardID}).Decode(&patron); err != nil {
		return nil, translateFindError(err, "failed to find patron")
	}
	return &patron, nil
}

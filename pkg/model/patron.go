package model

import (
	"strings"
	"time"
)

type Card struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty"`
	Fees      float64   `json:"fees" bson:"fees"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

type Patron struct {
	ID        string `json:"id,omitempty" bson:"_id,omitempty"`
	FirstName string `json:"first_name" bson:"first_name"`
	LastName  string `json:"last_name" bson:"last_name"`
	CardID    string `json:"card_id" bson:"card_id"`
}

func (p *Patron) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// CardRequest is the body of checkout and hold requests.
type CardRequest struct {
	CardID string `json:"card_id" validate:"required,max=64,card_id"`
}

package model

import "time"

// LoanPeriod is the fixed length of every checkout.
const LoanPeriod = 30 * 24 * time.Hour

type Checkout struct {
	ID      string    `json:"id,omitempty" bson:"_id,omitempty"`
	AssetID string    `json:"asset_id" bson:"asset_id"`
	CardID  string    `json:"card_id" bson:"card_id"`
	Since   time.Time `json:"since" bson:"since"`
	Until   time.Time `json:"until" bson:"until"`
}

func NewCheckout(assetID, cardID string, now time.Time) *Checkout {
	return &Checkout{
		AssetID: assetID,
		CardID:  cardID,
		Since:   now,
		Until:   now.Add(LoanPeriod),
	}
}

func (c *Checkout) IsOverdue(now time.Time) bool {
	return now.After(c.Until)
}

// CheckoutHistory is the permanent record of a loan. Open mirrors
// CheckedIn == nil so the store can index the single open record per asset.
type CheckoutHistory struct {
	ID         string     `json:"id,omitempty" bson:"_id,omitempty"`
	AssetID    string     `json:"asset_id" bson:"asset_id"`
	CardID     string     `json:"card_id" bson:"card_id"`
	CheckedOut time.Time  `json:"checked_out" bson:"checked_out"`
	CheckedIn  *time.Time `json:"checked_in,omitempty" bson:"checked_in"`
	Open       bool       `json:"-" bson:"open"`
}

func NewCheckoutHistory(assetID, cardID string, now time.Time) *CheckoutHistory {
	return &CheckoutHistory{
		AssetID:    assetID,
		CardID:     cardID,
		CheckedOut: now,
		Open:       true,
	}
}

func (h *CheckoutHistory) Close(at time.Time) {
	h.CheckedIn = &at
	h.Open = false
}

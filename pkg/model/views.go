package model

import "time"

type HoldView struct {
	ID         string    `json:"id"`
	CardID     string    `json:"card_id"`
	PatronName string    `json:"patron_name"`
	Placed     time.Time `json:"placed"`
}

// CirculationStatus is the checkout-side summary of a single asset.
type CirculationStatus struct {
	AssetID      string `json:"asset_id"`
	Status       string `json:"status"`
	IsCheckedOut bool   `json:"is_checked_out"`
	PatronName   string `json:"patron_name,omitempty"`
	HoldCount    int64  `json:"hold_count"`
}

type AssetDetail struct {
	Asset            *Asset             `json:"asset"`
	AuthorOrDirector string             `json:"author_or_director"`
	DeweyIndex       string             `json:"dewey_index,omitempty"`
	ISBN             string             `json:"isbn,omitempty"`
	PatronName       string             `json:"patron_name,omitempty"`
	LatestCheckout   *Checkout          `json:"latest_checkout,omitempty"`
	History          []*CheckoutHistory `json:"history"`
	Holds            []*HoldView        `json:"holds"`
}

// CatalogEntry is the directory view of an asset, with the book and video
// variants flattened.
type CatalogEntry struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Type             AssetKind `json:"type"`
	AuthorOrDirector string    `json:"author_or_director"`
	DeweyIndex       string    `json:"dewey_index,omitempty"`
	ISBN             string    `json:"isbn,omitempty"`
	Status           string    `json:"status"`
	Location         Branch    `json:"location"`
}

func NewCatalogEntry(a *Asset) *CatalogEntry {
	return &CatalogEntry{
		ID:               a.ID,
		Title:            a.Title,
		Type:             a.Kind,
		AuthorOrDirector: a.AuthorOrDirector(),
		DeweyIndex:       a.DeweyIndex(),
		ISBN:             a.ISBN(),
		Status:           a.Status,
		Location:         a.Location,
	}
}

package pgstore

import (
	"time"

	"circulation/pkg/model"
)

const (
	assetsTable          = "library_assets"
	statusesTable        = "statuses"
	holdsTable           = "holds"
	checkoutsTable       = "checkouts"
	checkoutHistoryTable = "checkout_histories"
	cardsTable           = "library_cards"
	patronsTable         = "patrons"
)

type assetRow struct {
	ID         string `gorm:"type:uuid;primaryKey"`
	Title      string `gorm:"size:300;not null;index"`
	Kind       string `gorm:"size:16;not null"`
	Status     string `gorm:"size:40;not null;index"`
	Year       int
	Cost       float64
	ImageURL   string    `gorm:"size:500"`
	BranchID   string    `gorm:"size:64"`
	BranchName string    `gorm:"size:100"`
	Author     string    `gorm:"size:200"`
	ISBN       string    `gorm:"column:isbn;size:20"`
	DeweyIndex string    `gorm:"size:20"`
	Director   string    `gorm:"size:200"`
	CreatedAt  time.Time `gorm:"not null"`
}

func (assetRow) TableName() string { return assetsTable }

func assetRowFromModel(a *model.Asset) *assetRow {
	row := &assetRow{
		ID:         a.ID,
		Title:      a.Title,
		Kind:       string(a.Kind),
		Status:     a.Status,
		Year:       a.Year,
		Cost:       a.Cost,
		ImageURL:   a.ImageURL,
		BranchID:   a.Location.ID,
		BranchName: a.Location.Name,
		CreatedAt:  a.CreatedAt,
	}
	if a.Book != nil {
		row.Author = a.Book.Author
		row.ISBN = a.Book.ISBN
		row.DeweyIndex = a.Book.DeweyIndex
	}
	if a.Video != nil {
		row.Director = a.Video.Director
	}
	return row
}

func (r *assetRow) toModel() *model.Asset {
	a := &model.Asset{
		ID:        r.ID,
		Title:     r.Title,
		Kind:      model.AssetKind(r.Kind),
		Status:    r.Status,
		Year:      r.Year,
		Cost:      r.Cost,
		ImageURL:  r.ImageURL,
		Location:  model.Branch{ID: r.BranchID, Name: r.BranchName},
		CreatedAt: r.CreatedAt,
	}
	switch a.Kind {
	case model.AssetKindBook:
		a.Book = &model.BookDetails{Author: r.Author, ISBN: r.ISBN, DeweyIndex: r.DeweyIndex}
	case model.AssetKindVideo:
		a.Video = &model.VideoDetails{Director: r.Director}
	}
	return a
}

type statusRow struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"size:40;not null;uniqueIndex"`
	Description string `gorm:"size:200"`
}

func (statusRow) TableName() string { return statusesTable }

func (r *statusRow) toModel() *model.Status {
	return &model.Status{ID: formatUint(r.ID), Name: r.Name, Description: r.Description}
}

type holdRow struct {
	ID      string    `gorm:"type:uuid;primaryKey"`
	AssetID string    `gorm:"type:uuid;not null;index:idx_holds_asset_placed,priority:1"`
	CardID  string    `gorm:"size:64;not null"`
	Placed  time.Time `gorm:"not null;index:idx_holds_asset_placed,priority:2"`
}

func (holdRow) TableName() string { return holdsTable }

func (r *holdRow) toModel() *model.Hold {
	return &model.Hold{ID: r.ID, AssetID: r.AssetID, CardID: r.CardID, Placed: r.Placed}
}

type checkoutRow struct {
	ID      string    `gorm:"type:uuid;primaryKey"`
	AssetID string    `gorm:"type:uuid;not null;uniqueIndex"`
	CardID  string    `gorm:"size:64;not null"`
	Since   time.Time `gorm:"not null"`
	Until   time.Time `gorm:"not null"`
}

func (checkoutRow) TableName() string { return checkoutsTable }

func (r *checkoutRow) toModel() *model.Checkout {
	return &model.Checkout{ID: r.ID, AssetID: r.AssetID, CardID: r.CardID, Since: r.Since, Until: r.Until}
}

type historyRow struct {
	ID         string    `gorm:"type:uuid;primaryKey"`
	AssetID    string    `gorm:"type:uuid;not null;index"`
	CardID     string    `gorm:"size:64;not null"`
	CheckedOut time.Time `gorm:"not null"`
	CheckedIn  *time.Time
}

func (historyRow) TableName() string { return checkoutHistoryTable }

func (r *historyRow) toModel() *model.CheckoutHistory {
	return &model.CheckoutHistory{
		ID:         r.ID,
		AssetID:    r.AssetID,
		CardID:     r.CardID,
		CheckedOut: r.CheckedOut,
		CheckedIn:  r.CheckedIn,
		Open:       r.CheckedIn == nil,
	}
}

type cardRow struct {
	ID        string  `gorm:"type:uuid;primaryKey"`
	Fees      float64 `gorm:"not null;default:0"`
	CreatedAt time.Time
}

func (cardRow) TableName() string { return cardsTable }

type patronRow struct {
	ID        string `gorm:"type:uuid;primaryKey"`
	FirstName string `gorm:"size:100"`
	LastName  string `gorm:"size:100"`
	CardID    string `gorm:"type:uuid;uniqueIndex"`
}

func (patronRow) TableName() string { return patronsTable }

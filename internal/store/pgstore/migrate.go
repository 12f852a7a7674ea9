package pgstore

import (
	"fmt"

	"circulation/pkg/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const openHistoryIndex = "CREATE UNIQUE INDEX IF NOT EXISTS idx_checkout_histories_open_asset " +
	"ON " + checkoutHistoryTable + " (asset_id) WHERE checked_in IS NULL"

// Migrate creates the tables, the open-history index and the status seed.
// It is safe to run repeatedly.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&assetRow{},
		&statusRow{},
		&holdRow{},
		&checkoutRow{},
		&historyRow{},
		&cardRow{},
		&patronRow{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate tables: %w", err)
	}

	if err := db.Exec(openHistoryIndex).Error; err != nil {
		return fmt.Errorf("failed to create open history index: %w", err)
	}

	return seedStatuses(db)
}

func seedStatuses(db *gorm.DB) error {
	rows := make([]statusRow, 0, len(model.DefaultStatuses))
	for _, s := range model.DefaultStatuses {
		rows = append(rows, statusRow{Name: s.Name, Description: s.Description})
	}

	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&rows).Error
	if err != nil {
		return fmt.Errorf("failed to seed statuses: %w", err)
	}
	return nil
}

package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	// Replace deletes any summary for the row's (device, year, month) key and
	// inserts the new one with its lines. Insert-or-replace semantics.
	Replace(ctx context.Context, db *gorm.DB, summary *BillingSummary) error
	FindByYear(ctx context.Context, db *gorm.DB, deviceID string, year int) ([]BillingSummary, error)
}

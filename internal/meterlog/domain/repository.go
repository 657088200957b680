package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, readings []MeterReading) error
	// FindLatestAtOrBefore returns, per category, the newest reading whose
	// period is at or before (year, month), ordered newest first.
	FindLatestAtOrBefore(ctx context.Context, db *gorm.DB, deviceID string, year, month int) ([]MeterReading, error)
}

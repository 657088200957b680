package domain

import (
	"context"
	"time"

	ratingdomain "github.com/smallbiznis/printbill/internal/rating/domain"
	"gorm.io/gorm"
)

type Service interface {
	// LastCounts returns the authoritative counts at or before (year, month).
	// A device with no history returns zero counts and a zero time: its first
	// billed period charges the entire current reading as usage.
	LastCounts(ctx context.Context, deviceID string, year, month int) (ratingdomain.Counts, time.Time, error)

	// Record appends one immutable reading row per category, stamped with
	// wall-clock UTC time. tx may be a transaction owned by the caller.
	Record(ctx context.Context, tx *gorm.DB, deviceID string, year, month int, counts ratingdomain.Counts) error
}

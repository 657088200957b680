package domain

import (
	"context"

	ratingdomain "github.com/smallbiznis/printbill/internal/rating/domain"
	"gorm.io/gorm"
)

type Service interface {
	// Save upserts the summary keyed (deviceID, year, month): usage fields are
	// derived from the count pair, amount fields copied from the charge
	// result. Saving twice with identical inputs stores an identical row.
	// tx may be a transaction owned by the caller.
	Save(ctx context.Context, tx *gorm.DB, deviceID string, year, month int, current, prior ratingdomain.Counts, result *ratingdomain.ChargeResult) error

	// LoadYear returns all twelve months for a year. Months never billed are
	// absent from the map, distinguishing "not yet billed" from "billed zero".
	LoadYear(ctx context.Context, deviceID string, year int) (map[int]*BillingSummary, error)
}

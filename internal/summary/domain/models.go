package domain

import (
	"errors"
	"time"
)

// BillingSummary is one invoice summary row per (device, year, month). Rows
// are replaceable: recomputing a cycle overwrites the prior value, so the
// ledger stays idempotent for identical inputs.
type BillingSummary struct {
	DeviceID        string    `json:"device_id" gorm:"primaryKey"`
	Year            int       `json:"year" gorm:"primaryKey"`
	Month           int       `json:"month" gorm:"primaryKey"`
	MonthlyRent     float64   `json:"monthly_rent" gorm:"not null;default:0"`
	UntaxedSubtotal float64   `json:"untaxed_subtotal" gorm:"not null;default:0"`
	TaxAmount       float64   `json:"tax_amount" gorm:"not null;default:0"`
	TotalWithTax    float64   `json:"total_with_tax" gorm:"not null;default:0"`
	CreatedAt       time.Time `json:"created_at" gorm:"not null"`

	Lines []BillingSummaryLine `json:"lines" gorm:"-"`
}

// TableName sets the database table name.
func (BillingSummary) TableName() string { return "billing_summaries" }

// BillingSummaryLine is the per-category breakdown of a summary row.
type BillingSummaryLine struct {
	DeviceID    string  `json:"device_id" gorm:"primaryKey"`
	Year        int     `json:"year" gorm:"primaryKey"`
	Month       int     `json:"month" gorm:"primaryKey"`
	Category    string  `json:"category" gorm:"primaryKey"`
	TotalCount  int64   `json:"total_count" gorm:"not null;default:0"`
	UsagePages  int64   `json:"usage_pages" gorm:"not null;default:0"`
	BilledPages int64   `json:"billed_pages" gorm:"not null;default:0"`
	Amount      float64 `json:"amount" gorm:"not null;default:0"`
}

// TableName sets the database table name.
func (BillingSummaryLine) TableName() string { return "billing_summary_lines" }

var (
	ErrInvalidDevice = errors.New("invalid_device")
	ErrInvalidPeriod = errors.New("invalid_period")
)

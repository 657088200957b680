package repository

import (
	"context"

	summarydomain "github.com/smallbiznis/printbill/internal/summary/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() summarydomain.Repository {
	return &repo{}
}

func (r *repo) Replace(ctx context.Context, db *gorm.DB, summary *summarydomain.BillingSummary) error {
	// Replace-not-append keeps recomputation idempotent.
	if err := db.WithContext(ctx).Exec(
		`DELETE FROM billing_summary_lines WHERE device_id = ? AND year = ? AND month = ?`,
		summary.DeviceID, summary.Year, summary.Month,
	).Error; err != nil {
		return err
	}
	if err := db.WithContext(ctx).Exec(
		`DELETE FROM billing_summaries WHERE device_id = ? AND year = ? AND month = ?`,
		summary.DeviceID, summary.Year, summary.Month,
	).Error; err != nil {
		return err
	}

	if err := db.WithContext(ctx).Exec(
		`INSERT INTO billing_summaries (device_id, year, month, monthly_rent, untaxed_subtotal, tax_amount, total_with_tax, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		summary.DeviceID,
		summary.Year,
		summary.Month,
		summary.MonthlyRent,
		summary.UntaxedSubtotal,
		summary.TaxAmount,
		summary.TotalWithTax,
		summary.CreatedAt,
	).Error; err != nil {
		return err
	}

	for _, line := range summary.Lines {
		if err := db.WithContext(ctx).Exec(
			`INSERT INTO billing_summary_lines (device_id, year, month, category, total_count, usage_pages, billed_pages, amount)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			line.DeviceID,
			line.Year,
			line.Month,
			line.Category,
			line.TotalCount,
			line.UsagePages,
			line.BilledPages,
			line.Amount,
		).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *repo) FindByYear(ctx context.Context, db *gorm.DB, deviceID string, year int) ([]summarydomain.BillingSummary, error) {
	var summaries []summarydomain.BillingSummary
	err := db.WithContext(ctx).Raw(
		`SELECT device_id, year, month, monthly_rent, untaxed_subtotal, tax_amount, total_with_tax, created_at
		 FROM billing_summaries
		 WHERE device_id = ? AND year = ?
		 ORDER BY month ASC`,
		deviceID,
		year,
	).Scan(&summaries).Error
	if err != nil {
		return nil, err
	}

	for i := range summaries {
		var lines []summarydomain.BillingSummaryLine
		err := db.WithContext(ctx).Raw(
			`SELECT device_id, year, month, category, total_count, usage_pages, billed_pages, amount
			 FROM billing_summary_lines
			 WHERE device_id = ? AND year = ? AND month = ?
			 ORDER BY category ASC`,
			deviceID,
			year,
			summaries[i].Month,
		).Scan(&lines).Error
		if err != nil {
			return nil, err
		}
		summaries[i].Lines = lines
	}
	return summaries, nil
}

package repository

import (
	"context"

	meterlogdomain "github.com/smallbiznis/printbill/internal/meterlog/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() meterlogdomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, readings []meterlogdomain.MeterReading) error {
	for _, reading := range readings {
		if err := db.WithContext(ctx).Exec(
			`INSERT INTO meter_readings (id, device_id, year, month, category, page_count, recorded_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			reading.ID,
			reading.DeviceID,
			reading.Year,
			reading.Month,
			reading.Category,
			reading.Count,
			reading.RecordedAt,
		).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *repo) FindLatestAtOrBefore(ctx context.Context, db *gorm.DB, deviceID string, year, month int) ([]meterlogdomain.MeterReading, error) {
	var readings []meterlogdomain.MeterReading
	err := db.WithContext(ctx).Raw(
		`SELECT id, device_id, year, month, category, page_count, recorded_at
		 FROM meter_readings
		 WHERE device_id = ? AND (year * 12 + month) <= ?
		 ORDER BY (year * 12 + month) DESC, recorded_at DESC, id DESC`,
		deviceID,
		year*12+month,
	).Scan(&readings).Error
	if err != nil {
		return nil, err
	}
	return readings, nil
}

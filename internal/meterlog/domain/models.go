package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

// MeterReading is one immutable cumulative-counter snapshot for one device and
// one page category. Counters are odometer values and never reset; rows are
// never mutated. Multiple readings may exist per device per period — the latest
// recorded one is authoritative.
type MeterReading struct {
	ID         snowflake.ID `json:"id" gorm:"primaryKey"`
	DeviceID   string       `json:"device_id" gorm:"type:text;not null;index:ix_meter_readings_device,priority:1"`
	Year       int          `json:"year" gorm:"not null;index:ix_meter_readings_device,priority:2"`
	Month      int          `json:"month" gorm:"not null;index:ix_meter_readings_device,priority:3"`
	Category   string       `json:"category" gorm:"type:text;not null"`
	Count      int64        `json:"count" gorm:"column:page_count;not null"`
	RecordedAt time.Time    `json:"recorded_at" gorm:"not null"`
}

// TableName sets the database table name.
func (MeterReading) TableName() string { return "meter_readings" }

var (
	ErrInvalidDevice = errors.New("invalid_device")
	ErrInvalidPeriod = errors.New("invalid_period")
	ErrInvalidCount  = errors.New("invalid_count")
)

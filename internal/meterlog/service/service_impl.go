package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	meterlogdomain "github.com/smallbiznis/printbill/internal/meterlog/domain"
	ratingdomain "github.com/smallbiznis/printbill/internal/rating/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  meterlogdomain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  meterlogdomain.Repository
}

func New(p Params) meterlogdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("meterlog.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) LastCounts(ctx context.Context, deviceID string, year, month int) (ratingdomain.Counts, time.Time, error) {
	deviceID = strings.TrimSpace(deviceID)
	if deviceID == "" {
		return nil, time.Time{}, meterlogdomain.ErrInvalidDevice
	}
	if year <= 0 || month < 1 || month > 12 {
		return nil, time.Time{}, meterlogdomain.ErrInvalidPeriod
	}

	readings, err := s.repo.FindLatestAtOrBefore(ctx, s.db, deviceID, year, month)
	if err != nil {
		return nil, time.Time{}, err
	}

	counts := ratingdomain.Counts{}
	var asOf time.Time
	for _, reading := range readings {
		if _, ok := counts[reading.Category]; ok {
			continue // rows are newest-first, keep the authoritative one
		}
		counts[reading.Category] = reading.Count
		if reading.RecordedAt.After(asOf) {
			asOf = reading.RecordedAt
		}
	}
	return counts, asOf, nil
}

func (s *Service) Record(ctx context.Context, tx *gorm.DB, deviceID string, year, month int, counts ratingdomain.Counts) error {
	deviceID = strings.TrimSpace(deviceID)
	if deviceID == "" {
		return meterlogdomain.ErrInvalidDevice
	}
	if year <= 0 || month < 1 || month > 12 {
		return meterlogdomain.ErrInvalidPeriod
	}

	now := time.Now().UTC()
	readings := make([]meterlogdomain.MeterReading, 0, len(counts))
	for category, count := range counts {
		if count < 0 {
			return meterlogdomain.ErrInvalidCount
		}
		readings = append(readings, meterlogdomain.MeterReading{
			ID:         s.genID.Generate(),
			DeviceID:   deviceID,
			Year:       year,
			Month:      month,
			Category:   category,
			Count:      count,
			RecordedAt: now,
		})
	}

	return s.repo.Insert(ctx, tx, readings)
}

package service

import (
	"context"
	"sort"
	"strings"
	"time"

	ratingdomain "github.com/smallbiznis/printbill/internal/rating/domain"
	summarydomain "github.com/smallbiznis/printbill/internal/summary/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB   *gorm.DB
	Log  *zap.Logger
	Repo summarydomain.Repository
}

type Service struct {
	db   *gorm.DB
	log  *zap.Logger
	repo summarydomain.Repository
}

func New(p Params) summarydomain.Service {
	return &Service{
		db:   p.DB,
		log:  p.Log.Named("summary.service"),
		repo: p.Repo,
	}
}

func (s *Service) Save(
	ctx context.Context,
	tx *gorm.DB,
	deviceID string,
	year, month int,
	current, prior ratingdomain.Counts,
	result *ratingdomain.ChargeResult,
) error {
	deviceID = strings.TrimSpace(deviceID)
	if deviceID == "" {
		return summarydomain.ErrInvalidDevice
	}
	if year <= 0 || month < 1 || month > 12 {
		return summarydomain.ErrInvalidPeriod
	}

	summary := &summarydomain.BillingSummary{
		DeviceID:        deviceID,
		Year:            year,
		Month:           month,
		MonthlyRent:     result.MonthlyRent,
		UntaxedSubtotal: result.UntaxedSubtotal,
		TaxAmount:       result.TaxAmount,
		TotalWithTax:    result.TotalWithTax,
		CreatedAt:       time.Now().UTC(),
	}

	for _, category := range sortedCategories(result) {
		charge := result.Categories[category]
		usage := current.Get(category) - prior.Get(category)
		if usage < 0 {
			usage = 0
		}
		summary.Lines = append(summary.Lines, summarydomain.BillingSummaryLine{
			DeviceID:    deviceID,
			Year:        year,
			Month:       month,
			Category:    category,
			TotalCount:  current.Get(category),
			UsagePages:  usage,
			BilledPages: charge.BilledPages,
			Amount:      charge.Amount,
		})
	}

	return s.repo.Replace(ctx, tx, summary)
}

func (s *Service) LoadYear(ctx context.Context, deviceID string, year int) (map[int]*summarydomain.BillingSummary, error) {
	deviceID = strings.TrimSpace(deviceID)
	if deviceID == "" {
		return nil, summarydomain.ErrInvalidDevice
	}
	if year <= 0 {
		return nil, summarydomain.ErrInvalidPeriod
	}

	rows, err := s.repo.FindByYear(ctx, s.db, deviceID, year)
	if err != nil {
		return nil, err
	}

	months := make(map[int]*summarydomain.BillingSummary, len(rows))
	for i := range rows {
		months[rows[i].Month] = &rows[i]
	}
	return months, nil
}

func sortedCategories(result *ratingdomain.ChargeResult) []string {
	out := make([]string, 0, len(result.Categories))
	for category := range result.Categories {
		out = append(out, category)
	}
	sort.Strings(out)
	return out
}

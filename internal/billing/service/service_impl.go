package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	billingdomain "github.com/smallbiznis/printbill/internal/billing/domain"
	"github.com/smallbiznis/printbill/internal/config"
	contractdomain "github.com/smallbiznis/printbill/internal/contract/domain"
	devicegroupdomain "github.com/smallbiznis/printbill/internal/devicegroup/domain"
	meterlogdomain "github.com/smallbiznis/printbill/internal/meterlog/domain"
	ratingdomain "github.com/smallbiznis/printbill/internal/rating/domain"
	summarydomain "github.com/smallbiznis/printbill/internal/summary/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	BillingCfg   *config.BillingConfigHolder
	Groups       devicegroupdomain.Service
	ContractRepo contractdomain.Repository
	MeterLog     meterlogdomain.Service
	Rating       ratingdomain.Service
	Summaries    summarydomain.Service
}

type Service struct {
	db           *gorm.DB
	log          *zap.Logger
	billingCfg   *config.BillingConfigHolder
	groups       devicegroupdomain.Service
	contractRepo contractdomain.Repository
	meterLog     meterlogdomain.Service
	rating       ratingdomain.Service
	summaries    summarydomain.Service
}

func New(p Params) billingdomain.Service {
	return &Service{
		db:           p.DB,
		log:          p.Log.Named("billing.service"),
		billingCfg:   p.BillingCfg,
		groups:       p.Groups,
		contractRepo: p.ContractRepo,
		meterLog:     p.MeterLog,
		rating:       p.Rating,
		summaries:    p.Summaries,
	}
}

func (s *Service) RunBillingCycle(ctx context.Context, req billingdomain.Request) (*ratingdomain.ChargeResult, error) {
	deviceID := strings.TrimSpace(req.DeviceID)
	if deviceID == "" || req.Year <= 0 || req.Month < 1 || req.Month > 12 {
		return nil, billingdomain.ErrInvalidInput
	}

	cfg := s.billingCfg.Get()
	if err := validateMemberCounts(req.MemberCounts, cfg.Categories); err != nil {
		return nil, err
	}

	group, err := s.groups.Resolve(ctx, deviceID)
	if err != nil {
		if errors.Is(err, devicegroupdomain.ErrNotFound) {
			return nil, billingdomain.ErrNotFound
		}
		if errors.Is(err, devicegroupdomain.ErrInvalidDevice) {
			return nil, billingdomain.ErrInvalidInput
		}
		return nil, fmt.Errorf("resolve group: %w", err)
	}

	prevYear, prevMonth := previousPeriod(req.Year, req.Month)

	aggCurrent := ratingdomain.Counts{}
	aggPrior := ratingdomain.Counts{}
	for _, member := range group {
		counts, ok := req.MemberCounts[member]
		if !ok {
			return nil, billingdomain.ErrInvalidInput
		}
		aggCurrent.Merge(counts)

		prior, _, err := s.meterLog.LastCounts(ctx, member, prevYear, prevMonth)
		if err != nil {
			return nil, fmt.Errorf("fetch prior counts for %s: %w", member, err)
		}
		aggPrior.Merge(prior)
	}

	master := group[0]
	contract, err := s.contractRepo.FindByDevice(ctx, s.db, master)
	if err != nil {
		return nil, fmt.Errorf("load master contract: %w", err)
	}
	if contract == nil {
		return nil, billingdomain.ErrNotFound
	}

	result, err := s.rating.Calculate(contract, aggCurrent, aggPrior, cfg.TaxRate)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, member := range group {
			if err := s.meterLog.Record(ctx, tx, member, req.Year, req.Month, req.MemberCounts[member]); err != nil {
				return err
			}
		}
		return s.summaries.Save(ctx, tx, deviceID, req.Year, req.Month, aggCurrent, aggPrior, result)
	})
	if err != nil {
		return nil, fmt.Errorf("persist billing cycle: %w", err)
	}

	s.log.Info("billing cycle completed",
		zap.String("device_id", deviceID),
		zap.String("master_device_id", master),
		zap.Int("year", req.Year),
		zap.Int("month", req.Month),
		zap.Int("group_size", len(group)),
		zap.Float64("total_with_tax", result.TotalWithTax),
	)
	return result, nil
}

func (s *Service) LoadSummaries(ctx context.Context, deviceID string, year int) (map[int]*summarydomain.BillingSummary, error) {
	months, err := s.summaries.LoadYear(ctx, deviceID, year)
	if err != nil {
		if errors.Is(err, summarydomain.ErrInvalidDevice) || errors.Is(err, summarydomain.ErrInvalidPeriod) {
			return nil, billingdomain.ErrInvalidInput
		}
		return nil, err
	}
	return months, nil
}

func validateMemberCounts(memberCounts map[string]ratingdomain.Counts, categories []string) error {
	allowed := make(map[string]bool, len(categories))
	for _, c := range categories {
		allowed[c] = true
	}
	for _, counts := range memberCounts {
		for category, count := range counts {
			if !allowed[category] || count < 0 {
				return billingdomain.ErrInvalidInput
			}
		}
	}
	return nil
}

// previousPeriod crosses the year boundary: month 1 bills against December of
// the prior year.
func previousPeriod(year, month int) (int, int) {
	if month == 1 {
		return year - 1, 12
	}
	return year, month - 1
}

package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	contractdomain "github.com/smallbiznis/printbill/internal/contract/domain"
	"github.com/smallbiznis/printbill/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB   *gorm.DB
	Log  *zap.Logger
	Repo contractdomain.Repository
}

type Service struct {
	db   *gorm.DB
	log  *zap.Logger
	repo contractdomain.Repository
}

func New(p Params) contractdomain.Service {
	return &Service{
		db:   p.DB,
		log:  p.Log.Named("contract.service"),
		repo: p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req contractdomain.CreateRequest) (*contractdomain.Contract, error) {
	deviceID := strings.TrimSpace(req.DeviceID)
	if deviceID == "" {
		return nil, contractdomain.ErrInvalidDevice
	}

	taxMode, err := normalizeTaxMode(req.TaxMode)
	if err != nil {
		return nil, err
	}

	terms, err := buildTerms(deviceID, req.Terms)
	if err != nil {
		return nil, err
	}
	if req.MonthlyRent < 0 {
		return nil, contractdomain.ErrInvalidContract
	}

	masterID := strings.TrimSpace(req.MasterDeviceID)
	if err := s.checkMaster(ctx, deviceID, masterID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	contract := &contractdomain.Contract{
		DeviceID:       deviceID,
		MonthlyRent:    req.MonthlyRent,
		TaxMode:        taxMode,
		Note:           strings.TrimSpace(req.Note),
		MasterDeviceID: masterID,
		CreatedAt:      now,
		UpdatedAt:      now,
		Terms:          terms,
	}

	if err := s.repo.Insert(ctx, s.db, contract); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, contractdomain.ErrContractExists
		}
		return nil, fmt.Errorf("insert contract: %w", err)
	}

	s.log.Info("contract created",
		zap.String("device_id", deviceID),
		zap.String("master_device_id", masterID),
	)
	return contract, nil
}

func (s *Service) Update(ctx context.Context, req contractdomain.UpdateRequest) (*contractdomain.Contract, error) {
	deviceID := strings.TrimSpace(req.DeviceID)
	if deviceID == "" {
		return nil, contractdomain.ErrInvalidDevice
	}

	contract, err := s.repo.FindByDevice(ctx, s.db, deviceID)
	if err != nil {
		return nil, err
	}
	if contract == nil {
		return nil, contractdomain.ErrNotFound
	}

	if req.MonthlyRent != nil {
		if *req.MonthlyRent < 0 {
			return nil, contractdomain.ErrInvalidContract
		}
		contract.MonthlyRent = *req.MonthlyRent
	}

	if req.TaxMode != nil {
		taxMode, err := normalizeTaxMode(*req.TaxMode)
		if err != nil {
			return nil, err
		}
		contract.TaxMode = taxMode
	}

	if req.Note != nil {
		contract.Note = strings.TrimSpace(*req.Note)
	}

	if req.MasterDeviceID != nil {
		masterID := strings.TrimSpace(*req.MasterDeviceID)
		if err := s.checkMaster(ctx, deviceID, masterID); err != nil {
			return nil, err
		}
		contract.MasterDeviceID = masterID
	}

	if req.Terms != nil {
		terms, err := buildTerms(deviceID, req.Terms)
		if err != nil {
			return nil, err
		}
		contract.Terms = terms
	}

	contract.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, s.db, contract); err != nil {
		return nil, fmt.Errorf("update contract: %w", err)
	}

	return contract, nil
}

func (s *Service) Get(ctx context.Context, deviceID string) (*contractdomain.Contract, error) {
	deviceID = strings.TrimSpace(deviceID)
	if deviceID == "" {
		return nil, contractdomain.ErrInvalidDevice
	}

	contract, err := s.repo.FindByDevice(ctx, s.db, deviceID)
	if err != nil {
		return nil, err
	}
	if contract == nil {
		return nil, contractdomain.ErrNotFound
	}
	return contract, nil
}

func (s *Service) Delete(ctx context.Context, deviceID string) error {
	deviceID = strings.TrimSpace(deviceID)
	if deviceID == "" {
		return contractdomain.ErrInvalidDevice
	}

	contract, err := s.repo.FindByDevice(ctx, s.db, deviceID)
	if err != nil {
		return err
	}
	if contract == nil {
		return contractdomain.ErrNotFound
	}

	return s.repo.Delete(ctx, s.db, deviceID)
}

// checkMaster enforces the grouping invariant: a master reference must point at
// an existing contract that is not itself a sub, and a device that already has
// subs cannot become one.
func (s *Service) checkMaster(ctx context.Context, deviceID, masterID string) error {
	if masterID == "" {
		return nil
	}
	if masterID == deviceID {
		return contractdomain.ErrInvalidMaster
	}

	master, err := s.repo.FindByDevice(ctx, s.db, masterID)
	if err != nil {
		return err
	}
	if master == nil || master.IsSub() {
		return contractdomain.ErrInvalidMaster
	}

	subs, err := s.repo.ListSubDevices(ctx, s.db, deviceID)
	if err != nil {
		return err
	}
	if len(subs) > 0 {
		return contractdomain.ErrInvalidMaster
	}
	return nil
}

func normalizeTaxMode(raw string) (string, error) {
	mode := strings.ToLower(strings.TrimSpace(raw))
	switch mode {
	case "":
		return contractdomain.TaxInclusive, nil
	case contractdomain.TaxInclusive, contractdomain.TaxExclusive:
		return mode, nil
	default:
		return "", contractdomain.ErrInvalidContract
	}
}

func buildTerms(deviceID string, inputs []contractdomain.TermInput) ([]contractdomain.ContractTerm, error) {
	terms := make([]contractdomain.ContractTerm, 0, len(inputs))
	seen := make(map[string]bool, len(inputs))
	for _, in := range inputs {
		category := strings.TrimSpace(in.Category)
		if category == "" || seen[category] {
			return nil, contractdomain.ErrInvalidContract
		}
		if in.UnitPrice < 0 || in.FreeAllowance < 0 || in.MinimumBilled < 0 {
			return nil, contractdomain.ErrInvalidContract
		}
		if in.ErrorRate < 0 || in.ErrorRate > 1 {
			return nil, contractdomain.ErrInvalidContract
		}
		seen[category] = true
		terms = append(terms, contractdomain.ContractTerm{
			DeviceID:      deviceID,
			Category:      category,
			UnitPrice:     in.UnitPrice,
			FreeAllowance: in.FreeAllowance,
			ErrorRate:     in.ErrorRate,
			MinimumBilled: in.MinimumBilled,
		})
	}
	return terms, nil
}

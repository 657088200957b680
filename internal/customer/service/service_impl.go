package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	customerdomain "github.com/smallbiznis/printbill/internal/customer/domain"
	"github.com/smallbiznis/printbill/pkg/db"
	"github.com/smallbiznis/printbill/pkg/db/option"
	"github.com/smallbiznis/printbill/pkg/db/pagination"
	"github.com/smallbiznis/printbill/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB  *gorm.DB
	Log *zap.Logger
}

type Service struct {
	db   *gorm.DB
	log  *zap.Logger
	repo repository.Repository[customerdomain.Customer]
}

func New(p Params) customerdomain.Service {
	return &Service{
		db:   p.DB,
		log:  p.Log.Named("customer.service"),
		repo: repository.ProvideStore[customerdomain.Customer](p.DB),
	}
}

func (s *Service) Create(ctx context.Context, req customerdomain.CreateRequest) (*customerdomain.Customer, error) {
	deviceID := strings.TrimSpace(req.DeviceID)
	if deviceID == "" {
		return nil, customerdomain.ErrInvalidDevice
	}
	name := strings.TrimSpace(req.CustomerName)
	if name == "" {
		return nil, customerdomain.ErrInvalidName
	}

	now := time.Now().UTC()
	customer := &customerdomain.Customer{
		DeviceID:       deviceID,
		CustomerName:   name,
		DeviceNumber:   strings.TrimSpace(req.DeviceNumber),
		MachineModel:   strings.TrimSpace(req.MachineModel),
		TaxID:          strings.TrimSpace(req.TaxID),
		InstallAddress: strings.TrimSpace(req.InstallAddress),
		ServicePerson:  strings.TrimSpace(req.ServicePerson),
		ContractNumber: strings.TrimSpace(req.ContractNumber),
		ContractStart:  strings.TrimSpace(req.ContractStart),
		ContractEnd:    strings.TrimSpace(req.ContractEnd),
		Metadata:       datatypes.JSONMap(req.Metadata),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Create(ctx, customer); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, customerdomain.ErrCustomerExists
		}
		return nil, fmt.Errorf("insert customer: %w", err)
	}
	return customer, nil
}

func (s *Service) Get(ctx context.Context, deviceID string) (*customerdomain.Customer, error) {
	deviceID = strings.TrimSpace(deviceID)
	if deviceID == "" {
		return nil, customerdomain.ErrInvalidDevice
	}

	customer, err := s.repo.FindOne(ctx, &customerdomain.Customer{DeviceID: deviceID})
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, customerdomain.ErrNotFound
	}
	return customer, nil
}

func (s *Service) List(ctx context.Context, p pagination.Pagination) ([]*customerdomain.Customer, *pagination.PageInfo, error) {
	if p.PageSize < 1 || p.PageSize > 250 {
		p.PageSize = 50
	}

	opts := []option.QueryOption{
		option.WithOrderBy("device_id ASC"),
		option.WithLimit(p.PageSize + 1), // probe one past the page
	}
	if p.PageToken != "" {
		cursor, err := pagination.DecodeCursor(p.PageToken)
		if err != nil {
			return nil, nil, customerdomain.ErrInvalidDevice
		}
		opts = append(opts, option.WithGt("device_id", cursor.DeviceID))
	}

	customers, err := s.repo.Find(ctx, &customerdomain.Customer{}, opts...)
	if err != nil {
		return nil, nil, err
	}

	return pagination.BuildCursorPageInfo(customers, p.PageSize, func(c *customerdomain.Customer) pagination.Cursor {
		return pagination.Cursor{DeviceID: c.DeviceID}
	})
}

func (s *Service) SearchByName(ctx context.Context, keyword string) ([]*customerdomain.Customer, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, customerdomain.ErrInvalidName
	}

	return s.repo.Find(ctx, &customerdomain.Customer{},
		option.WithLike("customer_name", keyword),
		option.WithOrderBy("customer_name ASC"),
		option.WithLimit(50),
	)
}

func (s *Service) Remove(ctx context.Context, deviceID string) error {
	deviceID = strings.TrimSpace(deviceID)
	if deviceID == "" {
		return customerdomain.ErrInvalidDevice
	}

	customer, err := s.repo.FindOne(ctx, &customerdomain.Customer{DeviceID: deviceID})
	if err != nil {
		return err
	}
	if customer == nil {
		return customerdomain.ErrNotFound
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, stmt := range []string{
			`DELETE FROM billing_summary_lines WHERE device_id = ?`,
			`DELETE FROM billing_summaries WHERE device_id = ?`,
			`DELETE FROM meter_readings WHERE device_id = ?`,
			`DELETE FROM contract_terms WHERE device_id = ?`,
			`DELETE FROM contracts WHERE device_id = ?`,
			`DELETE FROM customers WHERE device_id = ?`,
		} {
			if err := tx.Exec(stmt, deviceID).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("remove customer %s: %w", deviceID, err)
	}

	s.log.Info("customer removed", zap.String("device_id", deviceID))
	return nil
}

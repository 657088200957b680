package service

import (
	"context"
	"strings"

	contractdomain "github.com/smallbiznis/printbill/internal/contract/domain"
	devicegroupdomain "github.com/smallbiznis/printbill/internal/devicegroup/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	ContractRepo contractdomain.Repository
}

type Service struct {
	db           *gorm.DB
	log          *zap.Logger
	contractRepo contractdomain.Repository
}

func New(p Params) devicegroupdomain.Service {
	return &Service{
		db:           p.DB,
		log:          p.Log.Named("devicegroup.service"),
		contractRepo: p.ContractRepo,
	}
}

func (s *Service) Resolve(ctx context.Context, deviceID string) ([]string, error) {
	deviceID = strings.TrimSpace(deviceID)
	if deviceID == "" {
		return nil, devicegroupdomain.ErrInvalidDevice
	}

	contract, err := s.contractRepo.FindByDevice(ctx, s.db, deviceID)
	if err != nil {
		return nil, err
	}
	if contract == nil {
		return nil, devicegroupdomain.ErrNotFound
	}

	masterID := deviceID
	if contract.IsSub() {
		masterID = contract.MasterDeviceID
	}

	subs, err := s.contractRepo.ListSubDevices(ctx, s.db, masterID)
	if err != nil {
		return nil, err
	}

	group := make([]string, 0, len(subs)+1)
	group = append(group, masterID)
	for _, sub := range subs {
		if sub != masterID {
			group = append(group, sub)
		}
	}
	return group, nil
}

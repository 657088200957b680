package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, contract *Contract) error
	Update(ctx context.Context, db *gorm.DB, contract *Contract) error
	Delete(ctx context.Context, db *gorm.DB, deviceID string) error
	FindByDevice(ctx context.Context, db *gorm.DB, deviceID string) (*Contract, error)
	ListSubDevices(ctx context.Context, db *gorm.DB, masterDeviceID string) ([]string, error)
}

package domain

import (
	"context"
	"errors"
	"time"

	"github.com/smallbiznis/printbill/pkg/db/pagination"
	"gorm.io/datatypes"
)

// Customer is the fleet-facing record for one installed device. Billing only
// reads it; it is created at onboarding and deleted through Remove, which
// cascades to the contract, meter readings and billing summaries.
type Customer struct {
	DeviceID       string            `json:"device_id" gorm:"primaryKey"`
	CustomerName   string            `json:"customer_name" gorm:"type:text;not null;index"`
	DeviceNumber   string            `json:"device_number" gorm:"type:text;not null;default:''"`
	MachineModel   string            `json:"machine_model" gorm:"type:text;not null;default:''"`
	TaxID          string            `json:"tax_id" gorm:"type:text;not null;default:''"`
	InstallAddress string            `json:"install_address" gorm:"type:text;not null;default:''"`
	ServicePerson  string            `json:"service_person" gorm:"type:text;not null;default:''"`
	ContractNumber string            `json:"contract_number" gorm:"type:text;not null;default:''"`
	ContractStart  string            `json:"contract_start" gorm:"type:text;not null;default:''"`
	ContractEnd    string            `json:"contract_end" gorm:"type:text;not null;default:''"`
	Metadata       datatypes.JSONMap `json:"metadata,omitempty" gorm:"type:json"`
	CreatedAt      time.Time         `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt      time.Time         `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Customer) TableName() string { return "customers" }

type CreateRequest struct {
	DeviceID       string            `json:"device_id"`
	CustomerName   string            `json:"customer_name"`
	DeviceNumber   string            `json:"device_number"`
	MachineModel   string            `json:"machine_model"`
	TaxID          string            `json:"tax_id"`
	InstallAddress string            `json:"install_address"`
	ServicePerson  string            `json:"service_person"`
	ContractNumber string            `json:"contract_number"`
	ContractStart  string            `json:"contract_start"`
	ContractEnd    string            `json:"contract_end"`
	Metadata       map[string]any    `json:"metadata,omitempty"`
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Customer, error)
	Get(ctx context.Context, deviceID string) (*Customer, error)
	List(ctx context.Context, p pagination.Pagination) ([]*Customer, *pagination.PageInfo, error)
	SearchByName(ctx context.Context, keyword string) ([]*Customer, error)
	// Remove deletes the customer and cascades to its contract, contract
	// terms, meter readings and billing summaries in one transaction.
	Remove(ctx context.Context, deviceID string) error
}

var (
	ErrNotFound       = errors.New("not_found")
	ErrInvalidDevice  = errors.New("invalid_device")
	ErrInvalidName    = errors.New("invalid_name")
	ErrCustomerExists = errors.New("customer_exists")
)

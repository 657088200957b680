package domain

import (
	"context"
	"errors"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Contract, error)
	Update(ctx context.Context, req UpdateRequest) (*Contract, error)
	Get(ctx context.Context, deviceID string) (*Contract, error)
	Delete(ctx context.Context, deviceID string) error
}

type TermInput struct {
	Category      string  `json:"category"`
	UnitPrice     float64 `json:"unit_price"`
	FreeAllowance int64   `json:"free_allowance"`
	ErrorRate     float64 `json:"error_rate"`
	MinimumBilled int64   `json:"minimum_billed"`
}

type CreateRequest struct {
	DeviceID       string      `json:"device_id"`
	MonthlyRent    float64     `json:"monthly_rent"`
	TaxMode        string      `json:"tax_mode"`
	Note           string      `json:"note"`
	MasterDeviceID string      `json:"master_device_id"`
	Terms          []TermInput `json:"terms"`
}

type UpdateRequest struct {
	DeviceID       string      `json:"device_id"`
	MonthlyRent    *float64    `json:"monthly_rent,omitempty"`
	TaxMode        *string     `json:"tax_mode,omitempty"`
	Note           *string     `json:"note,omitempty"`
	MasterDeviceID *string     `json:"master_device_id,omitempty"`
	Terms          []TermInput `json:"terms,omitempty"`
}

var (
	ErrNotFound        = errors.New("not_found")
	ErrInvalidDevice   = errors.New("invalid_device")
	ErrInvalidContract = errors.New("invalid_contract")
	ErrInvalidMaster   = errors.New("invalid_master")
	ErrContractExists  = errors.New("contract_exists")
)

package repository

import (
	"context"
	"errors"

	contractdomain "github.com/smallbiznis/printbill/internal/contract/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() contractdomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, c *contractdomain.Contract) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(
			`INSERT INTO contracts (device_id, monthly_rent, tax_mode, note, master_device_id, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			c.DeviceID,
			c.MonthlyRent,
			c.TaxMode,
			c.Note,
			c.MasterDeviceID,
			c.CreatedAt,
			c.UpdatedAt,
		).Error; err != nil {
			return err
		}
		return insertTerms(tx, c.DeviceID, c.Terms)
	})
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, c *contractdomain.Contract) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(
			`UPDATE contracts
			 SET monthly_rent = ?, tax_mode = ?, note = ?, master_device_id = ?, updated_at = ?
			 WHERE device_id = ?`,
			c.MonthlyRent,
			c.TaxMode,
			c.Note,
			c.MasterDeviceID,
			c.UpdatedAt,
			c.DeviceID,
		).Error; err != nil {
			return err
		}
		if err := tx.Exec(`DELETE FROM contract_terms WHERE device_id = ?`, c.DeviceID).Error; err != nil {
			return err
		}
		return insertTerms(tx, c.DeviceID, c.Terms)
	})
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, deviceID string) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`DELETE FROM contract_terms WHERE device_id = ?`, deviceID).Error; err != nil {
			return err
		}
		return tx.Exec(`DELETE FROM contracts WHERE device_id = ?`, deviceID).Error
	})
}

func (r *repo) FindByDevice(ctx context.Context, db *gorm.DB, deviceID string) (*contractdomain.Contract, error) {
	var contract contractdomain.Contract
	err := db.WithContext(ctx).
		Preload("Terms").
		Where("device_id = ?", deviceID).
		First(&contract).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &contract, nil
}

func (r *repo) ListSubDevices(ctx context.Context, db *gorm.DB, masterDeviceID string) ([]string, error) {
	var ids []string
	err := db.WithContext(ctx).Raw(
		`SELECT device_id FROM contracts WHERE master_device_id = ? ORDER BY device_id ASC`,
		masterDeviceID,
	).Scan(&ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func insertTerms(tx *gorm.DB, deviceID string, terms []contractdomain.ContractTerm) error {
	for _, t := range terms {
		if err := tx.Exec(
			`INSERT INTO contract_terms (device_id, category, unit_price, free_allowance, error_rate, minimum_billed)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			deviceID,
			t.Category,
			t.UnitPrice,
			t.FreeAllowance,
			t.ErrorRate,
			t.MinimumBilled,
		).Error; err != nil {
			return err
		}
	}
	return nil
}

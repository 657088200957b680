package seed

import (
	"time"

	contractdomain "github.com/smallbiznis/printbill/internal/contract/domain"
	customerdomain "github.com/smallbiznis/printbill/internal/customer/domain"
	"gorm.io/gorm"
)

// EnsureDemoFleet inserts a small demo fleet (one master with a co-installed
// sub-device) so a local instance has something to bill. No-op when contracts
// already exist.
func EnsureDemoFleet(conn *gorm.DB) error {
	var count int64
	if err := conn.Model(&contractdomain.Contract{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	now := time.Now().UTC()
	return conn.Transaction(func(tx *gorm.DB) error {
		customers := []customerdomain.Customer{
			{
				DeviceID:     "MFP-001",
				CustomerName: "Demo Trading Co.",
				MachineModel: "C3350",
				CreatedAt:    now,
				UpdatedAt:    now,
			},
			{
				DeviceID:     "MFP-002",
				CustomerName: "Demo Trading Co.",
				MachineModel: "C3350",
				CreatedAt:    now,
				UpdatedAt:    now,
			},
		}
		if err := tx.Create(&customers).Error; err != nil {
			return err
		}

		contracts := []contractdomain.Contract{
			{
				DeviceID:    "MFP-001",
				MonthlyRent: 1200,
				TaxMode:     contractdomain.TaxExclusive,
				Note:        "demo master contract",
				CreatedAt:   now,
				UpdatedAt:   now,
				Terms: []contractdomain.ContractTerm{
					{DeviceID: "MFP-001", Category: "mono", UnitPrice: 0.3, FreeAllowance: 500},
					{DeviceID: "MFP-001", Category: "color_a4", UnitPrice: 2.0, ErrorRate: 0.05},
					{DeviceID: "MFP-001", Category: "color_a3", UnitPrice: 4.0, MinimumBilled: 20},
				},
			},
			{
				DeviceID:       "MFP-002",
				TaxMode:        contractdomain.TaxExclusive,
				Note:           "demo sub-device, billed under MFP-001",
				MasterDeviceID: "MFP-001",
				CreatedAt:      now,
				UpdatedAt:      now,
			},
		}
		return tx.Create(&contracts).Error
	})
}

package domain

import "time"

// Tax modes. The monthly rent and per-page prices of an inclusive contract
// already contain tax; an exclusive contract has tax added on top.
const (
	TaxInclusive = "inclusive"
	TaxExclusive = "exclusive"
)

// Contract holds the billing terms for one device. A device is either a
// standalone/master contract (empty MasterDeviceID) or a sub-device billed
// jointly under another device's contract.
type Contract struct {
	DeviceID       string    `json:"device_id" gorm:"primaryKey"`
	MonthlyRent    float64   `json:"monthly_rent" gorm:"not null;default:0"`
	TaxMode        string    `json:"tax_mode" gorm:"type:text;not null;default:inclusive"`
	Note           string    `json:"note" gorm:"type:text;not null;default:''"`
	MasterDeviceID string    `json:"master_device_id" gorm:"type:text;not null;default:'';index"`
	CreatedAt      time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt      time.Time `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`

	Terms []ContractTerm `json:"terms" gorm:"foreignKey:DeviceID;references:DeviceID"`
}

// TableName sets the database table name.
func (Contract) TableName() string { return "contracts" }

// ContractTerm holds the per-category pricing of a contract. Absent categories
// read as a zero term, so a category never configured simply bills nothing.
type ContractTerm struct {
	DeviceID      string  `json:"device_id" gorm:"primaryKey"`
	Category      string  `json:"category" gorm:"primaryKey"`
	UnitPrice     float64 `json:"unit_price" gorm:"not null;default:0"`
	FreeAllowance int64   `json:"free_allowance" gorm:"not null;default:0"`
	ErrorRate     float64 `json:"error_rate" gorm:"not null;default:0"`
	MinimumBilled int64   `json:"minimum_billed" gorm:"not null;default:0"`
}

// TableName sets the database table name.
func (ContractTerm) TableName() string { return "contract_terms" }

// Term returns the pricing term for category, zero-valued when not configured.
func (c *Contract) Term(category string) ContractTerm {
	for _, t := range c.Terms {
		if t.Category == category {
			return t
		}
	}
	return ContractTerm{DeviceID: c.DeviceID, Category: category}
}

// IsSub reports whether the contract bills under another device's terms.
func (c *Contract) IsSub() bool { return c.MasterDeviceID != "" }

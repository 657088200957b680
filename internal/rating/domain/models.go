package domain

import "errors"

// Counts maps a page category to a cumulative meter count.
type Counts map[string]int64

// Get returns the count for category, zero when absent.
func (c Counts) Get(category string) int64 {
	if c == nil {
		return 0
	}
	return c[category]
}

// Merge adds every count of other into c.
func (c Counts) Merge(other Counts) {
	for category, count := range other {
		c[category] += count
	}
}

// Clone returns an independent copy of c.
func (c Counts) Clone() Counts {
	out := make(Counts, len(c))
	for category, count := range c {
		out[category] = count
	}
	return out
}

// CategoryCharge is the charge breakdown for one page category.
type CategoryCharge struct {
	Usage       int64   `json:"usage"`
	BilledPages int64   `json:"billed_pages"`
	Amount      float64 `json:"amount"`
}

// ChargeResult is the outcome of rating one billing period against a contract.
// Monetary fields are rounded to two decimal places at output.
type ChargeResult struct {
	Categories      map[string]CategoryCharge `json:"categories"`
	MonthlyRent     float64                   `json:"monthly_rent"`
	UntaxedSubtotal float64                   `json:"untaxed_subtotal"`
	TaxAmount       float64                   `json:"tax_amount"`
	TotalWithTax    float64                   `json:"total_with_tax"`
}

var ErrInvalidContract = errors.New("invalid_contract")

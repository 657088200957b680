package domain

import (
	contractdomain "github.com/smallbiznis/printbill/internal/contract/domain"
)

// Service rates one billing period. Pure computation, no persistence.
type Service interface {
	Calculate(contract *contractdomain.Contract, current, prior Counts, taxRate float64) (*ChargeResult, error)
}

package service

import (
	"math"
	"sort"

	contractdomain "github.com/smallbiznis/printbill/internal/contract/domain"
	ratingdomain "github.com/smallbiznis/printbill/internal/rating/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log *zap.Logger
}

type Service struct {
	log *zap.Logger
}

func New(p Params) ratingdomain.Service {
	return &Service{
		log: p.Log.Named("rating.service"),
	}
}

// Calculate rates one period: per category, usage is the meter delta floored at
// zero (a rollback never bills negative), the free allowance comes off, the
// error-rate discount is applied with half-away-from-zero rounding, and the
// contractual minimum floors the result upward only. Tax splits off the
// unrounded subtotal; money is rounded to two decimals at output only.
func (s *Service) Calculate(
	contract *contractdomain.Contract,
	current, prior ratingdomain.Counts,
	taxRate float64,
) (*ratingdomain.ChargeResult, error) {
	if contract == nil {
		return nil, ratingdomain.ErrInvalidContract
	}
	if err := validateContract(contract, taxRate); err != nil {
		return nil, err
	}

	categories := chargeCategories(contract, current, prior)
	charges := make(map[string]ratingdomain.CategoryCharge, len(categories))

	subtotal := contract.MonthlyRent
	for _, category := range categories {
		term := contract.Term(category)

		usage := current.Get(category) - prior.Get(category)
		if usage < 0 {
			usage = 0
		}

		afterAllowance := usage - term.FreeAllowance
		if afterAllowance < 0 {
			afterAllowance = 0
		}

		billed := roundHalfAway(float64(afterAllowance) * (1 - term.ErrorRate))
		if term.MinimumBilled > 0 && billed < term.MinimumBilled {
			billed = term.MinimumBilled
		}

		amount := float64(billed) * term.UnitPrice
		subtotal += amount

		charges[category] = ratingdomain.CategoryCharge{
			Usage:       usage,
			BilledPages: billed,
			Amount:      round2(amount),
		}
	}

	var untaxed, tax, total float64
	if contract.TaxMode == contractdomain.TaxExclusive {
		untaxed = subtotal
		tax = subtotal * taxRate
		total = untaxed + tax
	} else {
		total = subtotal
		untaxed = subtotal / (1 + taxRate)
		tax = total - untaxed
	}

	return &ratingdomain.ChargeResult{
		Categories:      charges,
		MonthlyRent:     round2(contract.MonthlyRent),
		UntaxedSubtotal: round2(untaxed),
		TaxAmount:       round2(tax),
		TotalWithTax:    round2(total),
	}, nil
}

func validateContract(contract *contractdomain.Contract, taxRate float64) error {
	if contract.MonthlyRent < 0 || taxRate < 0 || taxRate >= 1 {
		return ratingdomain.ErrInvalidContract
	}
	switch contract.TaxMode {
	case contractdomain.TaxInclusive, contractdomain.TaxExclusive:
	default:
		return ratingdomain.ErrInvalidContract
	}
	for _, term := range contract.Terms {
		if term.UnitPrice < 0 || term.FreeAllowance < 0 || term.MinimumBilled < 0 {
			return ratingdomain.ErrInvalidContract
		}
		if term.ErrorRate < 0 || term.ErrorRate > 1 {
			return ratingdomain.ErrInvalidContract
		}
	}
	return nil
}

// chargeCategories is the sorted union of categories the contract prices and
// categories the meters reported. A category without a term still surfaces its
// usage at a zero amount.
func chargeCategories(contract *contractdomain.Contract, current, prior ratingdomain.Counts) []string {
	seen := map[string]bool{}
	for _, term := range contract.Terms {
		seen[term.Category] = true
	}
	for category := range current {
		seen[category] = true
	}
	for category := range prior {
		seen[category] = true
	}

	out := make([]string, 0, len(seen))
	for category := range seen {
		out = append(out, category)
	}
	sort.Strings(out)
	return out
}

func roundHalfAway(raw float64) int64 {
	return int64(math.Round(raw))
}

func round2(raw float64) float64 {
	return math.Round(raw*100) / 100
}

package service

import (
	"testing"

	contractdomain "github.com/smallbiznis/printbill/internal/contract/domain"
	ratingdomain "github.com/smallbiznis/printbill/internal/rating/domain"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newCalculator() ratingdomain.Service {
	return New(Params{Log: zap.NewNop()})
}

func monoContract(unitPrice float64, allowance int64, errorRate float64, minimum int64, rent float64, taxMode string) *contractdomain.Contract {
	return &contractdomain.Contract{
		DeviceID:    "DEV-1",
		MonthlyRent: rent,
		TaxMode:     taxMode,
		Terms: []contractdomain.ContractTerm{
			{
				DeviceID:      "DEV-1",
				Category:      "mono",
				UnitPrice:     unitPrice,
				FreeAllowance: allowance,
				ErrorRate:     errorRate,
				MinimumBilled: minimum,
			},
		},
	}
}

func TestCalculate_StandaloneMonoExclusive(t *testing.T) {
	svc := newCalculator()
	contract := monoContract(1.0, 100, 0, 0, 500, contractdomain.TaxExclusive)

	result, err := svc.Calculate(
		contract,
		ratingdomain.Counts{"mono": 1200},
		ratingdomain.Counts{"mono": 1000},
		0.05,
	)
	assert.NoError(t, err)

	mono := result.Categories["mono"]
	assert.Equal(t, int64(200), mono.Usage)
	assert.Equal(t, int64(100), mono.BilledPages)
	assert.Equal(t, 100.0, mono.Amount)
	assert.Equal(t, 600.0, result.UntaxedSubtotal)
	assert.Equal(t, 30.0, result.TaxAmount)
	assert.Equal(t, 630.0, result.TotalWithTax)
}

func TestCalculate_ErrorRateDiscount(t *testing.T) {
	svc := newCalculator()
	contract := monoContract(1.0, 0, 0.1, 0, 0, contractdomain.TaxExclusive)

	result, err := svc.Calculate(
		contract,
		ratingdomain.Counts{"mono": 100},
		ratingdomain.Counts{"mono": 0},
		0.05,
	)
	assert.NoError(t, err)
	assert.Equal(t, int64(90), result.Categories["mono"].BilledPages)
}

func TestCalculate_MinimumFloorsUpwardOnly(t *testing.T) {
	svc := newCalculator()

	// computed 10 -> floored to 50
	low := monoContract(1.0, 0, 0, 50, 0, contractdomain.TaxExclusive)
	result, err := newCalculator().Calculate(
		low,
		ratingdomain.Counts{"mono": 10},
		ratingdomain.Counts{"mono": 0},
		0.05,
	)
	assert.NoError(t, err)
	assert.Equal(t, int64(50), result.Categories["mono"].BilledPages)

	// computed 90 stays 90
	high := monoContract(1.0, 0, 0, 50, 0, contractdomain.TaxExclusive)
	result, err = svc.Calculate(
		high,
		ratingdomain.Counts{"mono": 90},
		ratingdomain.Counts{"mono": 0},
		0.05,
	)
	assert.NoError(t, err)
	assert.Equal(t, int64(90), result.Categories["mono"].BilledPages)
}

func TestCalculate_MeterRollbackFloorsUsageAtZero(t *testing.T) {
	svc := newCalculator()
	contract := monoContract(1.0, 0, 0, 0, 0, contractdomain.TaxExclusive)

	result, err := svc.Calculate(
		contract,
		ratingdomain.Counts{"mono": 4000},
		ratingdomain.Counts{"mono": 5000},
		0.05,
	)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), result.Categories["mono"].Usage)
	assert.Equal(t, int64(0), result.Categories["mono"].BilledPages)
}

func TestCalculate_AllowanceNeverOverApplies(t *testing.T) {
	svc := newCalculator()
	contract := monoContract(1.0, 500, 0, 0, 0, contractdomain.TaxExclusive)

	result, err := svc.Calculate(
		contract,
		ratingdomain.Counts{"mono": 100},
		ratingdomain.Counts{"mono": 0},
		0.05,
	)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), result.Categories["mono"].BilledPages)
}

func TestCalculate_InclusiveTaxRoundTrip(t *testing.T) {
	svc := newCalculator()
	contract := monoContract(0.7, 0, 0, 0, 1050, contractdomain.TaxInclusive)

	result, err := svc.Calculate(
		contract,
		ratingdomain.Counts{"mono": 333},
		ratingdomain.Counts{"mono": 0},
		0.05,
	)
	assert.NoError(t, err)
	assert.InDelta(t, result.TotalWithTax, result.UntaxedSubtotal+result.TaxAmount, 0.01)
}

func TestCalculate_ExclusiveTaxRoundTrip(t *testing.T) {
	svc := newCalculator()
	contract := monoContract(0.7, 0, 0, 0, 1050, contractdomain.TaxExclusive)

	result, err := svc.Calculate(
		contract,
		ratingdomain.Counts{"mono": 333},
		ratingdomain.Counts{"mono": 0},
		0.05,
	)
	assert.NoError(t, err)
	assert.InDelta(t, result.TotalWithTax, result.UntaxedSubtotal*1.05, 0.01)
}

func TestCalculate_IndependentCategories(t *testing.T) {
	svc := newCalculator()
	contract := &contractdomain.Contract{
		DeviceID:    "DEV-1",
		MonthlyRent: 0,
		TaxMode:     contractdomain.TaxExclusive,
		Terms: []contractdomain.ContractTerm{
			{DeviceID: "DEV-1", Category: "mono", UnitPrice: 0.5, FreeAllowance: 100},
			{DeviceID: "DEV-1", Category: "color_a4", UnitPrice: 2.0},
			{DeviceID: "DEV-1", Category: "color_a3", UnitPrice: 4.0, MinimumBilled: 10},
		},
	}

	result, err := svc.Calculate(
		contract,
		ratingdomain.Counts{"mono": 300, "color_a4": 50, "color_a3": 2},
		ratingdomain.Counts{"mono": 100, "color_a4": 20, "color_a3": 0},
		0.05,
	)
	assert.NoError(t, err)

	assert.Equal(t, int64(100), result.Categories["mono"].BilledPages)
	assert.Equal(t, int64(30), result.Categories["color_a4"].BilledPages)
	// minimum clause lifts 2 pages to 10
	assert.Equal(t, int64(10), result.Categories["color_a3"].BilledPages)
	assert.Equal(t, 50.0+60.0+40.0, result.UntaxedSubtotal)
}

func TestCalculate_UnpricedCategoryBillsNothing(t *testing.T) {
	svc := newCalculator()
	contract := monoContract(1.0, 0, 0, 0, 0, contractdomain.TaxExclusive)

	result, err := svc.Calculate(
		contract,
		ratingdomain.Counts{"mono": 10, "color_a4": 999},
		ratingdomain.Counts{},
		0.05,
	)
	assert.NoError(t, err)
	assert.Equal(t, int64(999), result.Categories["color_a4"].Usage)
	assert.Equal(t, 0.0, result.Categories["color_a4"].Amount)
	assert.Equal(t, 10.0, result.UntaxedSubtotal)
}

func TestCalculate_MissingContract(t *testing.T) {
	svc := newCalculator()
	_, err := svc.Calculate(nil, ratingdomain.Counts{}, ratingdomain.Counts{}, 0.05)
	assert.ErrorIs(t, err, ratingdomain.ErrInvalidContract)
}

func TestCalculate_MalformedContract(t *testing.T) {
	svc := newCalculator()

	badRate := monoContract(1.0, 0, 1.5, 0, 0, contractdomain.TaxExclusive)
	_, err := svc.Calculate(badRate, ratingdomain.Counts{}, ratingdomain.Counts{}, 0.05)
	assert.ErrorIs(t, err, ratingdomain.ErrInvalidContract)

	badMode := monoContract(1.0, 0, 0, 0, 0, "vat")
	_, err = svc.Calculate(badMode, ratingdomain.Counts{}, ratingdomain.Counts{}, 0.05)
	assert.ErrorIs(t, err, ratingdomain.ErrInvalidContract)
}

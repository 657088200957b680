package service

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	contractdomain "github.com/smallbiznis/printbill/internal/contract/domain"
	"github.com/smallbiznis/printbill/internal/contract/repository"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) contractdomain.Service {
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	assert.NoError(t, err)

	err = db.AutoMigrate(&contractdomain.Contract{}, &contractdomain.ContractTerm{})
	assert.NoError(t, err)

	return New(Params{
		DB:   db,
		Log:  zap.NewNop(),
		Repo: repository.Provide(),
	})
}

func TestContract_CreateAndGet(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, contractdomain.CreateRequest{
		DeviceID:    "DEV-1",
		MonthlyRent: 500,
		TaxMode:     "exclusive",
		Terms: []contractdomain.TermInput{
			{Category: "mono", UnitPrice: 1.0, FreeAllowance: 100},
		},
	})
	assert.NoError(t, err)
	assert.Equal(t, "DEV-1", created.DeviceID)

	got, err := svc.Get(ctx, "DEV-1")
	assert.NoError(t, err)
	assert.Equal(t, 500.0, got.MonthlyRent)
	assert.Len(t, got.Terms, 1)
	assert.Equal(t, int64(100), got.Term("mono").FreeAllowance)

	// unpriced category reads as a zero term
	assert.Equal(t, 0.0, got.Term("color_a3").UnitPrice)
}

func TestContract_DefaultTaxModeIsInclusive(t *testing.T) {
	svc := newTestService(t)

	created, err := svc.Create(context.Background(), contractdomain.CreateRequest{DeviceID: "DEV-1"})
	assert.NoError(t, err)
	assert.Equal(t, contractdomain.TaxInclusive, created.TaxMode)
}

func TestContract_RejectsMalformedTerms(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, contractdomain.CreateRequest{
		DeviceID: "DEV-1",
		Terms:    []contractdomain.TermInput{{Category: "mono", ErrorRate: 1.5}},
	})
	assert.ErrorIs(t, err, contractdomain.ErrInvalidContract)

	_, err = svc.Create(ctx, contractdomain.CreateRequest{
		DeviceID: "DEV-1",
		TaxMode:  "vat",
	})
	assert.ErrorIs(t, err, contractdomain.ErrInvalidContract)

	_, err = svc.Create(ctx, contractdomain.CreateRequest{
		DeviceID:    "DEV-1",
		MonthlyRent: -1,
	})
	assert.ErrorIs(t, err, contractdomain.ErrInvalidContract)
}

func TestContract_MasterInvariant(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, contractdomain.CreateRequest{DeviceID: "M-1"})
	assert.NoError(t, err)

	// sub referencing an existing master is fine
	_, err = svc.Create(ctx, contractdomain.CreateRequest{DeviceID: "S-1", MasterDeviceID: "M-1"})
	assert.NoError(t, err)

	// referencing an unknown master fails
	_, err = svc.Create(ctx, contractdomain.CreateRequest{DeviceID: "S-2", MasterDeviceID: "ghost"})
	assert.ErrorIs(t, err, contractdomain.ErrInvalidMaster)

	// chaining under a sub fails
	_, err = svc.Create(ctx, contractdomain.CreateRequest{DeviceID: "S-3", MasterDeviceID: "S-1"})
	assert.ErrorIs(t, err, contractdomain.ErrInvalidMaster)

	// a master with subs cannot itself become a sub
	_, err = svc.Create(ctx, contractdomain.CreateRequest{DeviceID: "M-2"})
	assert.NoError(t, err)
	master := "M-2"
	_, err = svc.Update(ctx, contractdomain.UpdateRequest{DeviceID: "M-1", MasterDeviceID: &master})
	assert.ErrorIs(t, err, contractdomain.ErrInvalidMaster)
}

func TestContract_DuplicateCreate(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, contractdomain.CreateRequest{DeviceID: "DEV-1"})
	assert.NoError(t, err)

	_, err = svc.Create(ctx, contractdomain.CreateRequest{DeviceID: "DEV-1"})
	assert.ErrorIs(t, err, contractdomain.ErrContractExists)
}

func TestContract_UpdateReplacesTerms(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, contractdomain.CreateRequest{
		DeviceID: "DEV-1",
		Terms: []contractdomain.TermInput{
			{Category: "mono", UnitPrice: 1.0},
			{Category: "color_a4", UnitPrice: 2.0},
		},
	})
	assert.NoError(t, err)

	updated, err := svc.Update(ctx, contractdomain.UpdateRequest{
		DeviceID: "DEV-1",
		Terms:    []contractdomain.TermInput{{Category: "mono", UnitPrice: 0.5}},
	})
	assert.NoError(t, err)
	assert.Len(t, updated.Terms, 1)

	got, err := svc.Get(ctx, "DEV-1")
	assert.NoError(t, err)
	assert.Len(t, got.Terms, 1)
	assert.Equal(t, 0.5, got.Term("mono").UnitPrice)
}

package service

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	contractdomain "github.com/smallbiznis/printbill/internal/contract/domain"
	customerdomain "github.com/smallbiznis/printbill/internal/customer/domain"
	meterlogdomain "github.com/smallbiznis/printbill/internal/meterlog/domain"
	summarydomain "github.com/smallbiznis/printbill/internal/summary/domain"
	"github.com/smallbiznis/printbill/pkg/db/pagination"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (customerdomain.Service, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	assert.NoError(t, err)

	err = db.AutoMigrate(
		&customerdomain.Customer{},
		&contractdomain.Contract{},
		&contractdomain.ContractTerm{},
		&meterlogdomain.MeterReading{},
		&summarydomain.BillingSummary{},
		&summarydomain.BillingSummaryLine{},
	)
	assert.NoError(t, err)

	svc := New(Params{DB: db, Log: zap.NewNop()})
	return svc, db
}

func TestCustomer_CreateAndGet(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, customerdomain.CreateRequest{
		DeviceID:     "DEV-1",
		CustomerName: "Acme Trading Co.",
		MachineModel: "MX-2640",
	})
	assert.NoError(t, err)
	assert.Equal(t, "DEV-1", created.DeviceID)

	got, err := svc.Get(ctx, "DEV-1")
	assert.NoError(t, err)
	assert.Equal(t, "Acme Trading Co.", got.CustomerName)
	assert.Equal(t, "MX-2640", got.MachineModel)
}

func TestCustomer_CreateValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, customerdomain.CreateRequest{CustomerName: "Acme"})
	assert.ErrorIs(t, err, customerdomain.ErrInvalidDevice)

	_, err = svc.Create(ctx, customerdomain.CreateRequest{DeviceID: "DEV-1"})
	assert.ErrorIs(t, err, customerdomain.ErrInvalidName)
}

func TestCustomer_DuplicateDevice(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, customerdomain.CreateRequest{DeviceID: "DEV-1", CustomerName: "Acme"})
	assert.NoError(t, err)

	_, err = svc.Create(ctx, customerdomain.CreateRequest{DeviceID: "DEV-1", CustomerName: "Other"})
	assert.ErrorIs(t, err, customerdomain.ErrCustomerExists)
}

func TestCustomer_SearchByName(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for _, c := range []customerdomain.CreateRequest{
		{DeviceID: "DEV-1", CustomerName: "Acme Trading Co."},
		{DeviceID: "DEV-2", CustomerName: "Acme Logistics"},
		{DeviceID: "DEV-3", CustomerName: "Globex"},
	} {
		_, err := svc.Create(ctx, c)
		assert.NoError(t, err)
	}

	matches, err := svc.SearchByName(ctx, "Acme")
	assert.NoError(t, err)
	assert.Len(t, matches, 2)
	assert.Equal(t, "Acme Logistics", matches[0].CustomerName)

	_, err = svc.SearchByName(ctx, "  ")
	assert.ErrorIs(t, err, customerdomain.ErrInvalidName)
}

func TestCustomer_ListPaginates(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for _, id := range []string{"DEV-1", "DEV-2", "DEV-3"} {
		_, err := svc.Create(ctx, customerdomain.CreateRequest{DeviceID: id, CustomerName: "Acme"})
		assert.NoError(t, err)
	}

	page, info, err := svc.List(ctx, pagination.Pagination{PageSize: 2})
	assert.NoError(t, err)
	assert.Len(t, page, 2)
	assert.True(t, info.HasMore)
	assert.Equal(t, "DEV-1", page[0].DeviceID)

	rest, info, err := svc.List(ctx, pagination.Pagination{PageSize: 2, PageToken: info.NextPageToken})
	assert.NoError(t, err)
	assert.Len(t, rest, 1)
	assert.False(t, info.HasMore)
	assert.Equal(t, "DEV-3", rest[0].DeviceID)
}

func TestCustomer_RemoveCascades(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, customerdomain.CreateRequest{DeviceID: "DEV-1", CustomerName: "Acme"})
	assert.NoError(t, err)

	// related billing state for the same device
	assert.NoError(t, db.Create(&contractdomain.Contract{DeviceID: "DEV-1", TaxMode: contractdomain.TaxInclusive}).Error)
	assert.NoError(t, db.Create(&summarydomain.BillingSummary{DeviceID: "DEV-1", Year: 2024, Month: 4}).Error)
	assert.NoError(t, db.Create(&summarydomain.BillingSummaryLine{DeviceID: "DEV-1", Year: 2024, Month: 4, Category: "mono"}).Error)

	assert.NoError(t, svc.Remove(ctx, "DEV-1"))

	_, err = svc.Get(ctx, "DEV-1")
	assert.ErrorIs(t, err, customerdomain.ErrNotFound)

	for _, model := range []any{
		&contractdomain.Contract{},
		&summarydomain.BillingSummary{},
		&summarydomain.BillingSummaryLine{},
	} {
		var n int64
		assert.NoError(t, db.Model(model).Where("device_id = ?", "DEV-1").Count(&n).Error)
		assert.Equal(t, int64(0), n)
	}
}

func TestCustomer_RemoveUnknown(t *testing.T) {
	svc, _ := newTestService(t)

	err := svc.Remove(context.Background(), "ghost")
	assert.ErrorIs(t, err, customerdomain.ErrNotFound)
}

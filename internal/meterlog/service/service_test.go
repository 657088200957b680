package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	meterlogdomain "github.com/smallbiznis/printbill/internal/meterlog/domain"
	"github.com/smallbiznis/printbill/internal/meterlog/repository"
	ratingdomain "github.com/smallbiznis/printbill/internal/rating/domain"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (meterlogdomain.Service, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	assert.NoError(t, err)

	err = db.AutoMigrate(&meterlogdomain.MeterReading{})
	assert.NoError(t, err)

	node, err := snowflake.NewNode(1)
	assert.NoError(t, err)

	svc := New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
	})
	return svc, db
}

func TestLastCounts_EmptyHistory(t *testing.T) {
	svc, _ := newTestService(t)

	counts, asOf, err := svc.LastCounts(context.Background(), "DEV-1", 2024, 5)
	assert.NoError(t, err)
	assert.Empty(t, counts)
	assert.True(t, asOf.IsZero())
}

func TestLastCounts_MostRecentPeriodWins(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	assert.NoError(t, svc.Record(ctx, db, "DEV-1", 2024, 3, ratingdomain.Counts{"mono": 100}))
	assert.NoError(t, svc.Record(ctx, db, "DEV-1", 2024, 4, ratingdomain.Counts{"mono": 250}))

	counts, asOf, err := svc.LastCounts(ctx, "DEV-1", 2024, 4)
	assert.NoError(t, err)
	assert.Equal(t, int64(250), counts.Get("mono"))
	assert.False(t, asOf.IsZero())

	// an earlier cutoff ignores the newer reading
	counts, _, err = svc.LastCounts(ctx, "DEV-1", 2024, 3)
	assert.NoError(t, err)
	assert.Equal(t, int64(100), counts.Get("mono"))
}

func TestLastCounts_RecordedAtBreaksTies(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	// two runs for the same period: the later insert is authoritative
	assert.NoError(t, svc.Record(ctx, db, "DEV-1", 2024, 4, ratingdomain.Counts{"mono": 250}))
	assert.NoError(t, svc.Record(ctx, db, "DEV-1", 2024, 4, ratingdomain.Counts{"mono": 300}))

	counts, _, err := svc.LastCounts(ctx, "DEV-1", 2024, 4)
	assert.NoError(t, err)
	assert.Equal(t, int64(300), counts.Get("mono"))
}

func TestLastCounts_PerCategory(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	assert.NoError(t, svc.Record(ctx, db, "DEV-1", 2024, 3, ratingdomain.Counts{"mono": 100, "color_a4": 40}))
	assert.NoError(t, svc.Record(ctx, db, "DEV-1", 2024, 4, ratingdomain.Counts{"mono": 250}))

	counts, _, err := svc.LastCounts(ctx, "DEV-1", 2024, 4)
	assert.NoError(t, err)
	assert.Equal(t, int64(250), counts.Get("mono"))
	assert.Equal(t, int64(40), counts.Get("color_a4"))
}

func TestLastCounts_YearBoundary(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	assert.NoError(t, svc.Record(ctx, db, "DEV-1", 2023, 12, ratingdomain.Counts{"mono": 900}))

	counts, _, err := svc.LastCounts(ctx, "DEV-1", 2024, 1)
	assert.NoError(t, err)
	assert.Equal(t, int64(900), counts.Get("mono"))
}

func TestRecord_RejectsBadInput(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	err := svc.Record(ctx, db, "", 2024, 4, ratingdomain.Counts{"mono": 1})
	assert.ErrorIs(t, err, meterlogdomain.ErrInvalidDevice)

	err = svc.Record(ctx, db, "DEV-1", 2024, 13, ratingdomain.Counts{"mono": 1})
	assert.ErrorIs(t, err, meterlogdomain.ErrInvalidPeriod)

	err = svc.Record(ctx, db, "DEV-1", 2024, 4, ratingdomain.Counts{"mono": -1})
	assert.ErrorIs(t, err, meterlogdomain.ErrInvalidCount)
}

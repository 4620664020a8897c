package voucher

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vietshop/vietshop/internal/domain"
	"github.com/vietshop/vietshop/pkg/common"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "test.db") + "?_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(domain.Tables...))
	return db
}

func seedVoucher(t *testing.T, db *gorm.DB, v *domain.Voucher) *domain.Voucher {
	t.Helper()
	if v.ID == 0 {
		v.ID = common.UUIDint64()
	}
	require.NoError(t, db.Create(v).Error)
	return v
}

func TestApplyCodeNormalizesCase(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	seedVoucher(t, db, &domain.Voucher{
		Code:          "TET2026",
		DiscountType:  domain.DiscountTypeFixed,
		DiscountValue: 10000,
		IsActive:      true,
	})

	res, err := svc.ApplyCode(context.Background(), "  tet2026 ", 50000)
	require.NoError(t, err)
	assert.Equal(t, int64(10000), res.Discount)
	assert.Equal(t, "TET2026", res.Voucher.Code)
}

func TestApplyCodeUnknown(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	_, err := svc.ApplyCode(context.Background(), "NOPE", 50000)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestConsumeUsageStopsAtLimit(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	v := seedVoucher(t, db, &domain.Voucher{
		Code:          "LIMIT2",
		DiscountType:  domain.DiscountTypeFixed,
		DiscountValue: 5000,
		UsageLimit:    2,
		IsActive:      true,
	})

	ctx := context.Background()
	require.NoError(t, svc.ConsumeUsage(ctx, v.ID))
	require.NoError(t, svc.ConsumeUsage(ctx, v.ID))
	assert.ErrorIs(t, svc.ConsumeUsage(ctx, v.ID), ErrExhausted)

	var got domain.Voucher
	require.NoError(t, db.Where("id = ?", v.ID).First(&got).Error)
	assert.Equal(t, 2, got.UsedCount, "used_count may never exceed usage_limit")
}

func TestDeactivateExpired(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)
	expired := seedVoucher(t, db, &domain.Voucher{
		Code: "OLD", DiscountType: domain.DiscountTypeFixed, DiscountValue: 1000,
		ExpiresAt: &past, IsActive: true,
	})
	fresh := seedVoucher(t, db, &domain.Voucher{
		Code: "NEW", DiscountType: domain.DiscountTypeFixed, DiscountValue: 1000,
		ExpiresAt: &future, IsActive: true,
	})

	n, err := svc.DeactivateExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	var got domain.Voucher
	require.NoError(t, db.Where("id = ?", expired.ID).First(&got).Error)
	assert.False(t, got.IsActive)
	got = domain.Voucher{}
	require.NoError(t, db.Where("id = ?", fresh.ID).First(&got).Error)
	assert.True(t, got.IsActive)
}

package flashsale

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

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "test.db") + "?_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.FlashSaleConfig{}, &domain.Product{}))
	return NewService(db), db
}

func seedCampaign(t *testing.T, db *gorm.DB, active bool, start, end time.Time) {
	t.Helper()
	require.NoError(t, db.Create(&domain.FlashSaleConfig{
		ID:              common.UUIDint64(),
		IsActive:        active,
		StartTime:       start,
		EndTime:         end,
		TimeSlots:       "0,9,12,15,18,21",
		DiscountPercent: 20,
	}).Error)
}

func seedProduct(t *testing.T, db *gorm.DB, flagged bool) *domain.Product {
	t.Helper()
	p := &domain.Product{ID: common.UUIDint64(), Name: "Áo thun", Price: 149000, Stock: 10, IsFlashSale: flagged}
	require.NoError(t, db.Create(p).Error)
	return p
}

func TestCurrentReturnsSlotAndPromotedProducts(t *testing.T) {
	svc, db := newTestService(t)
	seedCampaign(t, db, true, time.Now().Add(-time.Hour), time.Now().Add(24*time.Hour))
	promoted := seedProduct(t, db, true)
	seedProduct(t, db, false)

	status, err := svc.Current(context.Background())
	require.NoError(t, err)
	require.NotNil(t, status.Slot)
	assert.Positive(t, status.Slot.Remaining)
	assert.Equal(t, []int64{promoted.ID}, status.ProductIds)
	assert.Equal(t, 20, status.Config.DiscountPercent)
}

func TestCurrentInactiveCampaign(t *testing.T) {
	svc, db := newTestService(t)
	seedCampaign(t, db, false, time.Now().Add(-time.Hour), time.Now().Add(time.Hour))
	_, err := svc.Current(context.Background())
	assert.ErrorIs(t, err, ErrNotActive)
}

func TestCurrentOutsideWindow(t *testing.T) {
	svc, db := newTestService(t)
	seedCampaign(t, db, true, time.Now().Add(-48*time.Hour), time.Now().Add(-24*time.Hour))
	_, err := svc.Current(context.Background())
	assert.ErrorIs(t, err, ErrNotActive)
}

func TestSaveConfigValidatesSlots(t *testing.T) {
	svc, db := newTestService(t)
	seedCampaign(t, db, true, time.Now(), time.Now().Add(time.Hour))

	err := svc.SaveConfig(context.Background(), &domain.FlashSaleConfig{
		TimeSlots: "9,25",
		StartTime: time.Now(),
		EndTime:   time.Now().Add(time.Hour),
	})
	assert.ErrorIs(t, err, ErrBadSlot)
}

func TestSetPromotedReplacesSet(t *testing.T) {
	svc, db := newTestService(t)
	old := seedProduct(t, db, true)
	next := seedProduct(t, db, false)

	require.NoError(t, svc.SetPromoted(context.Background(), []int64{next.ID}))

	var got domain.Product
	require.NoError(t, db.Where("id = ?", old.ID).First(&got).Error)
	assert.False(t, got.IsFlashSale)
	got = domain.Product{}
	require.NoError(t, db.Where("id = ?", next.ID).First(&got).Error)
	assert.True(t, got.IsFlashSale)

	// empty set clears every flag
	require.NoError(t, svc.SetPromoted(context.Background(), nil))
	var flagged int64
	db.Model(&domain.Product{}).Where("is_flash_sale = ?", true).Count(&flagged)
	assert.Zero(t, flagged)
}

func TestSweepExpiredClearsFlagsAfterWindow(t *testing.T) {
	svc, db := newTestService(t)
	seedCampaign(t, db, true, time.Now().Add(-48*time.Hour), time.Now().Add(-time.Hour))
	seedProduct(t, db, true)

	svc.SweepExpired(context.Background())

	var flagged int64
	db.Model(&domain.Product{}).Where("is_flash_sale = ?", true).Count(&flagged)
	assert.Zero(t, flagged)
}

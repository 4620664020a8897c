package order

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vietshop/vietshop/internal/domain"
	"github.com/vietshop/vietshop/internal/inventory"
	"github.com/vietshop/vietshop/internal/voucher"
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
	require.NoError(t, db.AutoMigrate(domain.Tables...))

	svc := NewService(db, inventory.NewGormLedger(db), voucher.NewService(db), nil)
	return svc, db
}

func seedProduct(t *testing.T, db *gorm.DB, name string, price int64, stock int) *domain.Product {
	t.Helper()
	p := &domain.Product{ID: common.UUIDint64(), Name: name, Price: price, Stock: stock}
	require.NoError(t, db.Create(p).Error)
	return p
}

func seedVoucher(t *testing.T, db *gorm.DB, v *domain.Voucher) *domain.Voucher {
	t.Helper()
	v.ID = common.UUIDint64()
	require.NoError(t, db.Create(v).Error)
	return v
}

func baseRequest(items ...CreateItem) *CreateRequest {
	return &CreateRequest{
		CustomerName: "Nguyễn Văn A",
		Email:        "a@example.vn",
		Phone:        "0901234567",
		Address:      "1 Lê Lợi, Quận 1, TP.HCM",
		Items:        items,
	}
}

func TestCreatePricesFromCatalog(t *testing.T) {
	svc, db := newTestService(t)
	shirt := seedProduct(t, db, "Áo thun", 149000, 10)
	shoes := seedProduct(t, db, "Giày sneaker", 799000, 5)

	o, err := svc.Create(context.Background(), baseRequest(
		CreateItem{ProductId: shirt.ID, Quantity: 2},
		CreateItem{ProductId: shoes.ID, Quantity: 1},
	))
	require.NoError(t, err)

	assert.Equal(t, domain.OrderStatusPending, o.Status)
	assert.Equal(t, int64(2*149000+799000), o.Subtotal)
	assert.Equal(t, o.Subtotal, o.Total)
	assert.Len(t, o.Items, 2)
	assert.Equal(t, "Áo thun", o.Items[0].ProductName, "name is snapshotted")
	assert.NotEmpty(t, o.OrderNo)

	var got domain.Product
	require.NoError(t, db.Where("id = ?", shirt.ID).First(&got).Error)
	assert.Equal(t, 8, got.Stock)
}

func TestCreateAppliesAndConsumesVoucher(t *testing.T) {
	svc, db := newTestService(t)
	p := seedProduct(t, db, "Quần jean", 399000, 10)
	v := seedVoucher(t, db, &domain.Voucher{
		Code: "GIAM50K", DiscountType: domain.DiscountTypeFixed,
		DiscountValue: 50000, UsageLimit: 1, IsActive: true,
	})

	req := baseRequest(CreateItem{ProductId: p.ID, Quantity: 1})
	req.VoucherCode = "giam50k"
	o, err := svc.Create(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, int64(50000), o.Discount)
	assert.Equal(t, int64(349000), o.Total)
	assert.Equal(t, "GIAM50K", o.VoucherCode)

	var got domain.Voucher
	require.NoError(t, db.Where("id = ?", v.ID).First(&got).Error)
	assert.Equal(t, 1, got.UsedCount)

	// the voucher is spent; a second order is rejected whole
	req2 := baseRequest(CreateItem{ProductId: p.ID, Quantity: 1})
	req2.VoucherCode = "GIAM50K"
	_, err = svc.Create(context.Background(), req2)
	assert.ErrorIs(t, err, voucher.ErrExhausted)

	var stock domain.Product
	require.NoError(t, db.Where("id = ?", p.ID).First(&stock).Error)
	assert.Equal(t, 9, stock.Stock, "the failed order released its reservation")
}

func TestCreateRollsBackWhenLaterItemFails(t *testing.T) {
	svc, db := newTestService(t)
	plenty := seedProduct(t, db, "Túi tote", 99000, 100)
	scarce := seedProduct(t, db, "Giày sneaker", 799000, 1)

	_, err := svc.Create(context.Background(), baseRequest(
		CreateItem{ProductId: plenty.ID, Quantity: 5},
		CreateItem{ProductId: scarce.ID, Quantity: 2},
	))
	assert.ErrorIs(t, err, inventory.ErrOutOfStock)

	var got domain.Product
	require.NoError(t, db.Where("id = ?", plenty.ID).First(&got).Error)
	assert.Equal(t, 100, got.Stock, "the first item's reservation must roll back")

	var orders int64
	db.Model(&domain.Order{}).Count(&orders)
	assert.Zero(t, orders)
	var items int64
	db.Model(&domain.OrderItem{}).Count(&items)
	assert.Zero(t, items)
}

func TestCreateRejectsUnknownProducts(t *testing.T) {
	svc, db := newTestService(t)
	p := seedProduct(t, db, "Áo thun", 149000, 10)

	_, err := svc.Create(context.Background(), baseRequest(
		CreateItem{ProductId: p.ID, Quantity: 1},
		CreateItem{ProductId: 404404, Quantity: 1},
	))
	var badRef *InvalidReferenceError
	require.ErrorAs(t, err, &badRef)
	assert.Equal(t, []int64{404404}, badRef.Missing)
}

func TestCreateRejectsEmptyAndBadQuantity(t *testing.T) {
	svc, db := newTestService(t)
	p := seedProduct(t, db, "Áo thun", 149000, 10)

	_, err := svc.Create(context.Background(), baseRequest())
	assert.ErrorIs(t, err, ErrEmptyOrder)

	_, err = svc.Create(context.Background(), baseRequest(
		CreateItem{ProductId: p.ID, Quantity: 0},
	))
	assert.ErrorIs(t, err, inventory.ErrBadQuantity)
}

func TestCancelRestoresStockExactlyOnce(t *testing.T) {
	svc, db := newTestService(t)
	p := seedProduct(t, db, "Áo thun", 149000, 10)

	req := baseRequest(CreateItem{ProductId: p.ID, Quantity: 3})
	req.UserId = 777
	o, err := svc.Create(context.Background(), req)
	require.NoError(t, err)

	actor := Actor{UserId: 777}
	cancelled, err := svc.UpdateStatus(context.Background(), o.ID, "CANCELLED", actor)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCancelled, cancelled.Status)

	var got domain.Product
	require.NoError(t, db.Where("id = ?", p.ID).First(&got).Error)
	assert.Equal(t, 10, got.Stock)

	// second cancellation finds the edge consumed
	_, err = svc.UpdateStatus(context.Background(), o.ID, "CANCELLED", actor)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	require.NoError(t, db.Where("id = ?", p.ID).First(&got).Error)
	assert.Equal(t, 10, got.Stock, "stock must not be restored twice")
}

func TestCancelForbiddenForNonOwner(t *testing.T) {
	svc, db := newTestService(t)
	p := seedProduct(t, db, "Áo thun", 149000, 10)

	req := baseRequest(CreateItem{ProductId: p.ID, Quantity: 1})
	req.UserId = 777
	o, err := svc.Create(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), o.ID, "CANCELLED", Actor{UserId: 888})
	assert.ErrorIs(t, err, ErrForbidden)

	// guests (no account on the order) cannot self-cancel either
	guest, err := svc.Create(context.Background(), baseRequest(CreateItem{ProductId: p.ID, Quantity: 1}))
	require.NoError(t, err)
	_, err = svc.UpdateStatus(context.Background(), guest.ID, "CANCELLED", Actor{UserId: 888})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestOwnerMayOnlyCancel(t *testing.T) {
	svc, db := newTestService(t)
	p := seedProduct(t, db, "Áo thun", 149000, 10)

	req := baseRequest(CreateItem{ProductId: p.ID, Quantity: 1})
	req.UserId = 777
	o, err := svc.Create(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), o.ID, "SHIPPED", Actor{UserId: 777})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = svc.UpdateStatus(context.Background(), o.ID, "DELIVERED", Actor{UserId: 777})
	assert.ErrorIs(t, err, ErrBadStatus)
}

func TestAdminTransitionsWithoutInventoryEffects(t *testing.T) {
	svc, db := newTestService(t)
	p := seedProduct(t, db, "Áo thun", 149000, 10)

	o, err := svc.Create(context.Background(), baseRequest(CreateItem{ProductId: p.ID, Quantity: 2}))
	require.NoError(t, err)

	admin := Actor{IsAdmin: true}
	shipped, err := svc.UpdateStatus(context.Background(), o.ID, "SHIPPED", admin)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusShipped, shipped.Status)

	var got domain.Product
	require.NoError(t, db.Where("id = ?", p.ID).First(&got).Error)
	assert.Equal(t, 8, got.Stock, "non-cancel transitions never touch stock")

	// admin cancel past PENDING records the status without a release
	cancelled, err := svc.UpdateStatus(context.Background(), o.ID, "CANCELLED", admin)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCancelled, cancelled.Status)
	require.NoError(t, db.Where("id = ?", p.ID).First(&got).Error)
	assert.Equal(t, 8, got.Stock)
}

func TestLookupGuest(t *testing.T) {
	svc, db := newTestService(t)
	p := seedProduct(t, db, "Áo thun", 149000, 10)

	o, err := svc.Create(context.Background(), baseRequest(CreateItem{ProductId: p.ID, Quantity: 1}))
	require.NoError(t, err)

	// prefix of the order number is enough
	got, err := svc.LookupGuest(context.Background(), "a@example.vn", o.OrderNo[:6])
	require.NoError(t, err)
	assert.Equal(t, o.ID, got.ID)
	assert.Len(t, got.Items, 1)

	_, err = svc.LookupGuest(context.Background(), "b@example.vn", o.OrderNo)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.LookupGuest(context.Background(), "", "")
	assert.ErrorIs(t, err, ErrNotFound)
}

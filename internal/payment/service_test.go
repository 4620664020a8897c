package payment

import (
	"context"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vietshop/vietshop/config"
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

func newTestService(db *gorm.DB) *Service {
	return &Service{
		db: db,
		cfg: config.MomoConfig{
			PartnerCode: "MOMOVSHOP",
			AccessKey:   "F8BBA842ECF85",
			SecretKey:   testSecret,
		},
		now: time.Now,
	}
}

func seedPendingOrder(t *testing.T, db *gorm.DB, total int64) *domain.Order {
	t.Helper()
	o := &domain.Order{
		ID:       common.UUIDint64(),
		Status:   domain.OrderStatusPending,
		Subtotal: total,
		Total:    total,
		Email:    "khach@example.vn",
	}
	o.OrderNo = "VS" + strconv.FormatInt(o.ID, 10)
	require.NoError(t, db.Create(o).Error)
	return o
}

func successNotification(svc *Service, orderID int64, amount int64) *Notification {
	n := &Notification{
		PartnerCode:  svc.cfg.PartnerCode,
		AccessKey:    svc.cfg.AccessKey,
		RequestId:    "req-1",
		Amount:       strconv.FormatInt(amount, 10),
		OrderId:      strconv.FormatInt(orderID, 10),
		OrderInfo:    "Thanh toan don hang",
		TransId:      "9988776655",
		Message:      "Success",
		ResponseTime: "2026-03-14 15:09:26",
		ErrorCode:    "0",
		PayType:      "qr",
	}
	n.Signature = sign(svc.cfg.SecretKey, canonicalString(inboundFieldOrder, n.fieldMap()))
	return n
}

func TestHandleNotifySettlesPendingOrder(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(db)
	o := seedPendingOrder(t, db, 398000)

	n := successNotification(svc, o.ID, o.Total)
	require.NoError(t, svc.HandleNotify(context.Background(), n))

	var got domain.Order
	require.NoError(t, db.Where("id = ?", o.ID).First(&got).Error)
	assert.Equal(t, domain.OrderStatusPaid, got.Status)
	assert.Equal(t, "9988776655", got.PaymentId)
	assert.Equal(t, Gateway, got.PaymentGateway)

	var logs int64
	db.Model(&domain.PaymentNotifyLog{}).Count(&logs)
	assert.Equal(t, int64(1), logs, "every accepted notification is audited")
}

func TestHandleNotifyDuplicateIsNoOp(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(db)
	o := seedPendingOrder(t, db, 398000)

	n := successNotification(svc, o.ID, o.Total)
	ctx := context.Background()
	require.NoError(t, svc.HandleNotify(ctx, n))
	require.NoError(t, svc.HandleNotify(ctx, n), "redelivery must succeed without side effects")

	var got domain.Order
	require.NoError(t, db.Where("id = ?", o.ID).First(&got).Error)
	assert.Equal(t, domain.OrderStatusPaid, got.Status)
	assert.Equal(t, "9988776655", got.PaymentId)
}

func TestHandleNotifyRejectsBadSignature(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(db)
	o := seedPendingOrder(t, db, 398000)

	n := successNotification(svc, o.ID, o.Total)
	n.Amount = "1" // tamper after signing

	err := svc.HandleNotify(context.Background(), n)
	assert.ErrorIs(t, err, ErrInvalidSignature)

	var got domain.Order
	require.NoError(t, db.Where("id = ?", o.ID).First(&got).Error)
	assert.Equal(t, domain.OrderStatusPending, got.Status, "rejected notifications never touch the order")

	var logs int64
	db.Model(&domain.PaymentNotifyLog{}).Count(&logs)
	assert.Zero(t, logs, "signature failures are rejected before audit")
}

func TestHandleNotifyUnknownOrder(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(db)

	n := successNotification(svc, 123456789, 1000)
	err := svc.HandleNotify(context.Background(), n)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestHandleNotifyFailureLeavesOrderPending(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(db)
	o := seedPendingOrder(t, db, 398000)

	n := successNotification(svc, o.ID, o.Total)
	n.ErrorCode = "1006"
	n.Message = "Transaction denied by user"
	n.Signature = sign(svc.cfg.SecretKey, canonicalString(inboundFieldOrder, n.fieldMap()))

	require.NoError(t, svc.HandleNotify(context.Background(), n))

	var got domain.Order
	require.NoError(t, db.Where("id = ?", o.ID).First(&got).Error)
	assert.Equal(t, domain.OrderStatusPending, got.Status, "a failed payment leaves the order payable")

	var logs int64
	db.Model(&domain.PaymentNotifyLog{}).Count(&logs)
	assert.Equal(t, int64(1), logs, "failures are still audited")
}

func TestHandleNotifyCancelledOrderStaysCancelled(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(db)
	o := seedPendingOrder(t, db, 398000)
	require.NoError(t, db.Model(&domain.Order{}).
		Where("id = ?", o.ID).
		Update("status", domain.OrderStatusCancelled).Error)

	n := successNotification(svc, o.ID, o.Total)
	require.NoError(t, svc.HandleNotify(context.Background(), n),
		"gateway gets success so it stops retrying")

	var got domain.Order
	require.NoError(t, db.Where("id = ?", o.ID).First(&got).Error)
	assert.Equal(t, domain.OrderStatusCancelled, got.Status)
	assert.Empty(t, got.PaymentId)
}

func TestBuildPayURLRequiresPendingOrder(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(db)
	o := seedPendingOrder(t, db, 398000)
	require.NoError(t, db.Model(&domain.Order{}).
		Where("id = ?", o.ID).
		Update("status", domain.OrderStatusPaid).Error)

	_, err := svc.BuildPayURL(context.Background(), o.ID)
	assert.ErrorIs(t, err, ErrOrderNotPayable)

	_, err = svc.BuildPayURL(context.Background(), 987654321)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

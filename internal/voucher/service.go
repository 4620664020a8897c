package voucher

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/vietshop/vietshop/internal/domain"
	"gorm.io/gorm"
)

// Service looks vouchers up and applies them to order subtotals
type Service struct {
	db  *gorm.DB
	now func() time.Time
}

// NewService creates a new voucher service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db, now: time.Now}
}

// WithTx returns a service bound to the given transaction handle
func (s *Service) WithTx(tx *gorm.DB) *Service {
	return &Service{db: tx, now: s.now}
}

// ApplyCode normalizes and looks up a code, then prices it against the
// subtotal. Read-only: usage accounting is the order ledger's job.
func (s *Service) ApplyCode(ctx context.Context, code string, subtotal int64) (*Result, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	var v domain.Voucher
	err := s.db.WithContext(ctx).Where("code = ?", code).First(&v).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, ErrNotFound
	case err != nil:
		return nil, err
	}
	discount, err := Apply(&v, subtotal, s.now())
	if err != nil {
		return nil, err
	}
	return &Result{Discount: discount, Voucher: &v}, nil
}

// ConsumeUsage increments used_count exactly once per committed order,
// guarded at the storage layer so the count can never exceed the limit.
// Call inside the order-creation transaction.
func (s *Service) ConsumeUsage(ctx context.Context, voucherID int64) error {
	res := s.db.WithContext(ctx).
		Model(&domain.Voucher{}).
		Where("id = ? AND (usage_limit = 0 OR used_count < usage_limit)", voucherID).
		Update("used_count", gorm.Expr("used_count + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrExhausted
	}
	return nil
}

// DeactivateExpired disables vouchers whose expiry has passed. Run from
// the scheduler; apply-time checks do not depend on it.
func (s *Service) DeactivateExpired(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).
		Model(&domain.Voucher{}).
		Where("is_active = ? AND expires_at IS NOT NULL AND expires_at < ?", true, s.now()).
		Update("is_active", false)
	return res.RowsAffected, res.Error
}

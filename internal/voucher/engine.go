package voucher

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/vietshop/vietshop/internal/domain"
	"github.com/vietshop/vietshop/pkg/common"
)

var (
	// ErrNotFound unknown voucher code
	ErrNotFound = errors.New("voucher not found")
	// ErrInactive the voucher has been disabled by administration
	ErrInactive = errors.New("voucher is not active")
	// ErrExpired the voucher expiry date has passed
	ErrExpired = errors.New("voucher has expired")
	// ErrExhausted the voucher usage limit has been reached
	ErrExhausted = errors.New("voucher usage limit reached")
)

// BelowMinimumError rejects an order whose subtotal does not reach the
// voucher's minimum. The message carries the minimum formatted in VND.
type BelowMinimumError struct {
	Minimum int64
}

func (e *BelowMinimumError) Error() string {
	return fmt.Sprintf("đơn hàng tối thiểu %s để áp dụng mã giảm giá này", common.FormatVND(e.Minimum))
}

// Result is the outcome of a successful voucher application
type Result struct {
	Discount int64           `json:"discount"`
	Voucher  *domain.Voucher `json:"voucher"`
}

// Apply validates a voucher against an order subtotal and computes the
// discount. It is pure given its inputs: UsedCount is never mutated here,
// usage accounting happens at order-creation commit.
//
// The discount is clamped to the subtotal and rounded half-up to whole
// dong exactly once, after all intermediate arithmetic.
func Apply(v *domain.Voucher, subtotal int64, now time.Time) (int64, error) {
	if !v.IsActive {
		return 0, ErrInactive
	}
	if v.ExpiresAt != nil && v.ExpiresAt.Before(now) {
		return 0, ErrExpired
	}
	if v.UsageLimit > 0 && v.UsedCount >= v.UsageLimit {
		return 0, ErrExhausted
	}
	if subtotal < v.MinOrderValue {
		return 0, &BelowMinimumError{Minimum: v.MinOrderValue}
	}

	var raw float64
	switch v.DiscountType {
	case domain.DiscountTypePercent:
		raw = float64(subtotal) * v.DiscountValue / 100
		if v.MaxDiscount > 0 && raw > float64(v.MaxDiscount) {
			raw = float64(v.MaxDiscount)
		}
	case domain.DiscountTypeFixed:
		raw = v.DiscountValue
	default:
		return 0, ErrInactive
	}

	// a voucher may never make the order negative
	if raw > float64(subtotal) {
		raw = float64(subtotal)
	}
	if raw < 0 {
		raw = 0
	}
	return int64(math.Floor(raw + 0.5)), nil
}

package domain

import "time"

// Voucher discount types
const (
	DiscountTypePercent = "PERCENT"
	DiscountTypeFixed   = "FIXED"
)

// Voucher is an admin-issued discount code. Code is stored upper-case and
// matched case-insensitively. UsageLimit == 0 means unlimited.
type Voucher struct {
	ID            int64      `gorm:"primaryKey" json:"id,string" form:"id"`
	Code          string     `gorm:"size:64;uniqueIndex" json:"code" form:"code"`
	DiscountType  string     `gorm:"size:16" json:"discount_type" form:"discount_type"`
	DiscountValue float64    `json:"discount_value" form:"discount_value"`
	MinOrderValue int64      `json:"min_order_value" form:"min_order_value"`
	MaxDiscount   int64      `json:"max_discount" form:"max_discount"` // PERCENT cap, 0 = none
	UsageLimit    int        `json:"usage_limit" form:"usage_limit"`
	UsedCount     int        `json:"used_count"`
	ExpiresAt     *time.Time `json:"expires_at" form:"expires_at"`
	IsActive      bool       `json:"is_active" form:"is_active"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// TableName Specify table name
func (Voucher) TableName() string {
	return "vouchers"
}

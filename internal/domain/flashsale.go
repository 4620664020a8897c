package domain

import "time"

// FlashSaleConfig is the singleton campaign record. TimeSlots holds the
// daily slot boundaries as a comma-separated hour list, e.g. "0,9,12,15,18,21".
// The promoted product set lives on Product.IsFlashSale, not here.
type FlashSaleConfig struct {
	ID              int64     `gorm:"primaryKey" json:"id,string" form:"id"`
	IsActive        bool      `json:"is_active" form:"is_active"`
	StartTime       time.Time `json:"start_time" form:"start_time"`
	EndTime         time.Time `json:"end_time" form:"end_time"`
	TimeSlots       string    `gorm:"size:255" json:"time_slots" form:"time_slots"`
	DiscountPercent int       `json:"discount_percent" form:"discount_percent"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TableName Specify table name
func (FlashSaleConfig) TableName() string {
	return "flash_sale_config"
}

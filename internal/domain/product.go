package domain

import "time"

// Product is a catalog item. Stock and SoldCount are mutated only through
// the inventory ledger's conditional updates, never by plain saves.
type Product struct {
	ID          int64     `gorm:"primaryKey" json:"id,string" form:"id"`
	Name        string    `gorm:"index" json:"name" form:"name"`
	Description string    `gorm:"size:2048" json:"description" form:"description"`
	CategoryId  int64     `gorm:"index" json:"category_id,string" form:"category_id"`
	Price       int64     `json:"price" form:"price"` // whole VND
	Image       string    `gorm:"size:1024" json:"image" form:"image"`
	Stock       int       `json:"stock" form:"stock"`
	SoldCount   int       `json:"sold_count" form:"sold_count"`
	IsFlashSale bool      `gorm:"index" json:"is_flash_sale" form:"is_flash_sale"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName Specify table name
func (Product) TableName() string {
	return "products"
}

package domain

import "time"

// Order status values. An order is created PENDING and is never deleted.
const (
	OrderStatusPending   = "PENDING"
	OrderStatusPaid      = "PAID"
	OrderStatusShipped   = "SHIPPED"
	OrderStatusCompleted = "COMPLETED"
	OrderStatusCancelled = "CANCELLED"
)

// OrderStatuses lists every valid order status
var OrderStatuses = []string{
	OrderStatusPending,
	OrderStatusPaid,
	OrderStatusShipped,
	OrderStatusCompleted,
	OrderStatusCancelled,
}

// ValidOrderStatus reports whether s is a known order status
func ValidOrderStatus(s string) bool {
	for _, v := range OrderStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// Order invariant: Total = Subtotal - Discount, Discount <= Subtotal.
type Order struct {
	ID             int64       `gorm:"primaryKey" json:"id,string" form:"id"`
	OrderNo        string      `gorm:"size:64;uniqueIndex" json:"order_no" form:"order_no"`
	CustomerName   string      `json:"customer_name" form:"customer_name"`
	Email          string      `gorm:"index" json:"email" form:"email"`
	Phone          string      `gorm:"size:32" json:"phone" form:"phone"`
	Address        string      `gorm:"size:1024" json:"address" form:"address"`
	Note           string      `gorm:"size:1024" json:"note" form:"note"`
	Status         string      `gorm:"size:32;index" json:"status" form:"status"`
	Subtotal       int64       `json:"subtotal"`
	Discount       int64       `json:"discount"`
	Total          int64       `json:"total"`
	VoucherId      int64       `gorm:"index" json:"voucher_id,string"`
	VoucherCode    string      `gorm:"size:64" json:"voucher_code"`
	UserId         int64       `gorm:"index" json:"user_id,string"`
	PaymentId      string      `gorm:"size:64;index" json:"payment_id"`
	PaymentGateway string      `gorm:"size:32" json:"payment_gateway"`
	Items          []OrderItem `gorm:"foreignKey:OrderId;references:ID" json:"items"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// TableName Specify table name
func (Order) TableName() string {
	return "orders"
}

// OrderItem snapshots the product name and unit price at purchase time so
// later catalog edits never alter a placed order.
type OrderItem struct {
	ID          int64     `gorm:"primaryKey" json:"id,string"`
	OrderId     int64     `gorm:"index" json:"order_id,string"`
	ProductId   int64     `gorm:"index" json:"product_id,string"`
	ProductName string    `json:"product_name"`
	Quantity    int       `json:"quantity"`
	Price       int64     `json:"price"` // unit price at purchase time, whole VND
	CreatedAt   time.Time `json:"created_at"`
}

// TableName Specify table name
func (OrderItem) TableName() string {
	return "order_items"
}

package domain

var Tables = []interface{}{
	// System
	&SysConfig{},
	&SysOpr{},
	&SysOprLog{},
	// Catalog
	&Product{},
	// Checkout
	&Order{},
	&OrderItem{},
	&Voucher{},
	// Promotion
	&FlashSaleConfig{},
	// Payment
	&PaymentNotifyLog{},
}

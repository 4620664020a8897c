package adminapi

import (
	"github.com/vietshop/vietshop/internal/flashsale"
	"github.com/vietshop/vietshop/internal/order"
)

var (
	flashSvc  *flashsale.Service
	orderSvc  *order.Service
	webSecret string
)

// Init wires the admin surface: jwt-guarded management routes plus the
// unguarded login endpoint that mints the token.
func Init(flash *flashsale.Service, orders *order.Service, secret string) {
	flashSvc = flash
	orderSvc = orders
	webSecret = secret

	registerLoginRoutes()
	registerProductRoutes()
	registerVoucherRoutes()
	registerFlashSaleRoutes()
	registerOrderRoutes()
}

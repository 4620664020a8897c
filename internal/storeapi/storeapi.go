package storeapi

import (
	"github.com/vietshop/vietshop/internal/flashsale"
	"github.com/vietshop/vietshop/internal/identity"
	"github.com/vietshop/vietshop/internal/order"
	"github.com/vietshop/vietshop/internal/payment"
	"github.com/vietshop/vietshop/internal/voucher"
	"github.com/vietshop/vietshop/internal/webserver"
)

// API is the public storefront surface under /api/v1
type API struct {
	orders   *order.Service
	vouchers *voucher.Service
	flash    *flashsale.Service
	payments *payment.Service
	verifier *identity.Verifier
}

func New(orders *order.Service, vouchers *voucher.Service,
	flash *flashsale.Service, payments *payment.Service,
	verifier *identity.Verifier) *API {
	return &API{
		orders:   orders,
		vouchers: vouchers,
		flash:    flash,
		payments: payments,
		verifier: verifier,
	}
}

// InitRouter registers the storefront routes
func (a *API) InitRouter() {
	webserver.PubPOST("/orders", a.createOrder)
	webserver.PubPATCH("/orders/:id", a.updateOrderStatus)
	webserver.PubGET("/orders/lookup", a.lookupOrder)
	webserver.PubPOST("/vouchers/apply", a.applyVoucher)
	webserver.PubGET("/flash-sale", a.flashSaleStatus)
	webserver.PubPOST("/payment/momo", a.createPayment)
	webserver.PubPOST("/payment/momo/callback", a.paymentCallback)
}

package storeapi

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/vietshop/vietshop/internal/payment"
)

func (a *API) createPayment(c echo.Context) error {
	var req struct {
		OrderId int64 `json:"order_id,string"`
	}
	if err := c.Bind(&req); err != nil || req.OrderId == 0 {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Yêu cầu không hợp lệ", nil)
	}
	payURL, err := a.payments.BuildPayURL(c.Request().Context(), req.OrderId)
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, echo.Map{"pay_url": payURL})
}

// paymentCallback is the gateway-facing notification endpoint. Its
// responses follow the gateway contract, not the storefront envelope:
// 204 tells the gateway to stop retrying, including duplicate deliveries.
func (a *API) paymentCallback(c echo.Context) error {
	var n payment.Notification
	if err := c.Bind(&n); err != nil {
		return c.NoContent(http.StatusBadRequest)
	}
	err := a.payments.HandleNotify(c.Request().Context(), &n)
	switch {
	case errors.Is(err, payment.ErrInvalidSignature):
		return c.NoContent(http.StatusBadRequest)
	case errors.Is(err, payment.ErrOrderNotFound):
		return c.NoContent(http.StatusNotFound)
	case err != nil:
		return c.NoContent(http.StatusInternalServerError)
	}
	return c.NoContent(http.StatusNoContent)
}

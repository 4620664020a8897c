package storeapi

import (
	"errors"

	"github.com/labstack/echo/v4"
	"github.com/vietshop/vietshop/internal/flashsale"
)

// flashSaleStatus serves the current campaign slot and its countdown.
// An inactive campaign is not an error for the storefront banner.
func (a *API) flashSaleStatus(c echo.Context) error {
	status, err := a.flash.Current(c.Request().Context())
	if errors.Is(err, flashsale.ErrNotActive) {
		return ok(c, echo.Map{"active": false})
	}
	if err != nil {
		return failErr(c, err)
	}
	h, m, sec := status.Slot.Countdown()
	return ok(c, echo.Map{
		"active":           true,
		"slot":             status.Slot,
		"countdown":        echo.Map{"hours": h, "minutes": m, "seconds": sec},
		"discount_percent": status.Config.DiscountPercent,
		"product_ids":      status.ProductIds,
	})
}

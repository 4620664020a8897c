package storeapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"
	"github.com/vietshop/vietshop/internal/order"
)

func (a *API) createOrder(c echo.Context) error {
	var req order.CreateRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Yêu cầu không hợp lệ", nil)
	}
	if id := a.verifier.Verify(c); id.Authenticated {
		req.UserId = id.Identity.ID
	}
	o, err := a.orders.Create(c.Request().Context(), &req)
	if err != nil {
		return failErr(c, err)
	}
	return created(c, o)
}

func (a *API) updateOrderStatus(c echo.Context) error {
	orderID := cast.ToInt64(c.Param("id"))
	if orderID == 0 {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Mã đơn hàng không hợp lệ", nil)
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Yêu cầu không hợp lệ", nil)
	}

	// the storefront surface never acts as admin; the jwt-guarded admin
	// surface has its own transition endpoint
	actor := order.Actor{}
	if id := a.verifier.Verify(c); id.Authenticated {
		actor.UserId = id.Identity.ID
	}
	o, err := a.orders.UpdateStatus(c.Request().Context(), orderID, req.Status, actor)
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, o)
}

func (a *API) lookupOrder(c echo.Context) error {
	email := c.QueryParam("email")
	orderNo := c.QueryParam("order_no")
	if email == "" || orderNo == "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Cần email và mã đơn hàng", nil)
	}
	o, err := a.orders.LookupGuest(c.Request().Context(), email, orderNo)
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, o)
}

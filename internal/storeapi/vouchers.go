package storeapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/vietshop/vietshop/pkg/common"
)

// applyVoucher quotes a voucher against a cart subtotal without consuming
// usage; consumption happens only when an order is placed.
func (a *API) applyVoucher(c echo.Context) error {
	var req struct {
		Code     string `json:"code"`
		Subtotal int64  `json:"subtotal"`
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Yêu cầu không hợp lệ", nil)
	}
	if req.Subtotal < 0 {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Giá trị đơn hàng không hợp lệ", nil)
	}
	res, err := a.vouchers.ApplyCode(c.Request().Context(), req.Code, req.Subtotal)
	if err != nil {
		return failErr(c, err)
	}
	total := req.Subtotal - res.Discount
	return ok(c, echo.Map{
		"code":            res.Voucher.Code,
		"discount":        res.Discount,
		"total":           total,
		"discount_text":   common.FormatVND(res.Discount),
		"total_text":      common.FormatVND(total),
		"discount_type":   res.Voucher.DiscountType,
		"discount_value":  res.Voucher.DiscountValue,
		"min_order_value": res.Voucher.MinOrderValue,
	})
}

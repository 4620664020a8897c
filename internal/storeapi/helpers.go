package storeapi

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/vietshop/vietshop/internal/inventory"
	"github.com/vietshop/vietshop/internal/order"
	"github.com/vietshop/vietshop/internal/payment"
	"github.com/vietshop/vietshop/internal/voucher"
	"go.uber.org/zap"
)

type errResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Detail  interface{} `json:"detail,omitempty"`
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, data)
}

func created(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusCreated, data)
}

func fail(c echo.Context, status int, code, message string, detail interface{}) error {
	return c.JSON(status, errResponse{Code: code, Message: message, Detail: detail})
}

// failErr maps service errors to the storefront error envelope. Checkout
// failures carry actionable Vietnamese messages, not generic ones.
func failErr(c echo.Context, err error) error {
	var belowMin *voucher.BelowMinimumError
	var badRef *order.InvalidReferenceError

	switch {
	case errors.Is(err, voucher.ErrNotFound):
		return fail(c, http.StatusNotFound, "VOUCHER_NOT_FOUND", "Mã giảm giá không tồn tại", nil)
	case errors.Is(err, voucher.ErrInactive):
		return fail(c, http.StatusBadRequest, "VOUCHER_INACTIVE", "Mã giảm giá không còn hiệu lực", nil)
	case errors.Is(err, voucher.ErrExpired):
		return fail(c, http.StatusBadRequest, "VOUCHER_EXPIRED", "Mã giảm giá đã hết hạn", nil)
	case errors.Is(err, voucher.ErrExhausted):
		return fail(c, http.StatusBadRequest, "VOUCHER_EXHAUSTED", "Mã giảm giá đã hết lượt sử dụng", nil)
	case errors.As(err, &belowMin):
		return fail(c, http.StatusBadRequest, "VOUCHER_BELOW_MINIMUM", "Đơn hàng chưa đạt giá trị tối thiểu", belowMin.Error())
	case errors.As(err, &badRef):
		return fail(c, http.StatusBadRequest, "INVALID_REFERENCE", badRef.Error(), badRef.Missing)
	case errors.Is(err, inventory.ErrOutOfStock):
		return fail(c, http.StatusConflict, "OUT_OF_STOCK", "Sản phẩm không đủ hàng", nil)
	case errors.Is(err, inventory.ErrNotFound):
		return fail(c, http.StatusBadRequest, "INVALID_REFERENCE", "Sản phẩm không tồn tại", nil)
	case errors.Is(err, inventory.ErrBadQuantity), errors.Is(err, order.ErrEmptyOrder), errors.Is(err, order.ErrBadStatus):
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Yêu cầu không hợp lệ", err.Error())
	case errors.Is(err, order.ErrNotFound):
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Không tìm thấy đơn hàng", nil)
	case errors.Is(err, order.ErrInvalidTransition):
		return fail(c, http.StatusBadRequest, "INVALID_TRANSITION", "Không thể hủy đơn hàng ở trạng thái hiện tại", nil)
	case errors.Is(err, order.ErrForbidden):
		return fail(c, http.StatusForbidden, "FORBIDDEN", "Bạn không có quyền thao tác đơn hàng này", nil)
	case errors.Is(err, payment.ErrOrderNotFound):
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Không tìm thấy đơn hàng", nil)
	case errors.Is(err, payment.ErrOrderNotPayable):
		return fail(c, http.StatusBadRequest, "NOT_PAYABLE", "Đơn hàng không ở trạng thái chờ thanh toán", nil)
	case errors.Is(err, payment.ErrInvalidSignature):
		return fail(c, http.StatusBadRequest, "INVALID_SIGNATURE", "invalid signature", nil)
	case errors.Is(err, payment.ErrUpstream):
		return fail(c, http.StatusBadRequest, "UPSTREAM_ERROR", "Cổng thanh toán đang gián đoạn, vui lòng thử lại", nil)
	}

	zap.L().Error("unhandled service error", zap.Error(err))
	return fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Đã xảy ra lỗi, vui lòng thử lại sau", nil)
}

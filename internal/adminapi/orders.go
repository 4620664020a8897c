package adminapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/labstack/echo/v4"
	"github.com/vietshop/vietshop/internal/domain"
	"github.com/vietshop/vietshop/internal/order"
	"github.com/vietshop/vietshop/internal/webserver"
	"gorm.io/gorm"
)

func registerOrderRoutes() {
	webserver.ApiGET("/orders", listOrders)
	webserver.ApiGET("/orders/export", exportOrders)
	webserver.ApiGET("/orders/:id", getOrder)
	webserver.ApiPUT("/orders/:id/status", updateOrderStatus)
}

func orderListQuery(c echo.Context) *gorm.DB {
	db := GetDB(c).Model(&domain.Order{})
	if status := strings.ToUpper(strings.TrimSpace(c.QueryParam("status"))); status != "" {
		db = db.Where("status = ?", status)
	}
	if email := strings.TrimSpace(c.QueryParam("email")); email != "" {
		db = likeFilter(db, "email", email)
	}
	if no := strings.TrimSpace(c.QueryParam("order_no")); no != "" {
		db = db.Where("order_no LIKE ?", no+"%")
	}
	return db
}

func listOrders(c echo.Context) error {
	page, perPage := parsePagination(c)
	sort := parseSort(c, map[string]string{
		"id":         "id",
		"order_no":   "order_no",
		"status":     "status",
		"total":      "total",
		"created_at": "created_at",
	})

	q := orderListQuery(c)
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query orders", err.Error())
	}
	var rows []domain.Order
	if err := q.Order(sort).Offset((page - 1) * perPage).Limit(perPage).Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query orders", err.Error())
	}
	return paged(c, rows, total, page, perPage)
}

func getOrder(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID", nil)
	}
	o, err := orderSvc.Get(c.Request().Context(), id)
	if errors.Is(err, order.ErrNotFound) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Order not found", nil)
	}
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load order", err.Error())
	}
	return ok(c, o)
}

// updateOrderStatus drives admin transitions through the order ledger so
// cancellation keeps its release semantics.
func updateOrderStatus(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID", nil)
	}
	var payload struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse request parameters", err.Error())
	}

	o, err := orderSvc.UpdateStatus(c.Request().Context(), id, payload.Status, order.Actor{IsAdmin: true})
	switch {
	case errors.Is(err, order.ErrNotFound):
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Order not found", nil)
	case errors.Is(err, order.ErrBadStatus):
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unknown order status", nil)
	case errors.Is(err, order.ErrInvalidTransition):
		return fail(c, http.StatusConflict, "INVALID_TRANSITION", "Order cannot transition to that status", nil)
	case err != nil:
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update order", err.Error())
	}
	return ok(c, o)
}

type orderCSVRow struct {
	OrderNo      string `csv:"order_no"`
	CustomerName string `csv:"customer_name"`
	Email        string `csv:"email"`
	Phone        string `csv:"phone"`
	Status       string `csv:"status"`
	Subtotal     int64  `csv:"subtotal"`
	Discount     int64  `csv:"discount"`
	Total        int64  `csv:"total"`
	VoucherCode  string `csv:"voucher_code"`
	PaymentId    string `csv:"payment_id"`
	CreatedAt    string `csv:"created_at"`
}

// exportOrders streams the filtered order list as CSV
func exportOrders(c echo.Context) error {
	var rows []domain.Order
	if err := orderListQuery(c).Order("created_at DESC").Limit(10000).Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query orders", err.Error())
	}

	out := make([]orderCSVRow, 0, len(rows))
	for _, o := range rows {
		out = append(out, orderCSVRow{
			OrderNo:      o.OrderNo,
			CustomerName: o.CustomerName,
			Email:        o.Email,
			Phone:        o.Phone,
			Status:       o.Status,
			Subtotal:     o.Subtotal,
			Discount:     o.Discount,
			Total:        o.Total,
			VoucherCode:  o.VoucherCode,
			PaymentId:    o.PaymentId,
			CreatedAt:    o.CreatedAt.Format(time.RFC3339),
		})
	}
	data, err := gocsv.MarshalString(&out)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "EXPORT_FAILED", "Failed to render CSV", err.Error())
	}

	filename := fmt.Sprintf("orders-%s.csv", time.Now().Format("20060102-150405"))
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", []byte(data))
}

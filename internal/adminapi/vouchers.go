package adminapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/labstack/echo/v4"
	"github.com/vietshop/vietshop/internal/domain"
	"github.com/vietshop/vietshop/internal/webserver"
	"github.com/vietshop/vietshop/pkg/common"
)

type voucherPayload struct {
	Code          string  `json:"code"`
	DiscountType  string  `json:"discount_type"`
	DiscountValue float64 `json:"discount_value"`
	MinOrderValue int64   `json:"min_order_value"`
	MaxDiscount   int64   `json:"max_discount"`
	UsageLimit    int     `json:"usage_limit"`
	ExpiresAt     string  `json:"expires_at"` // free-form, parsed with dateparse
	IsActive      *bool   `json:"is_active"`
}

func registerVoucherRoutes() {
	webserver.ApiGET("/vouchers", listVouchers)
	webserver.ApiGET("/vouchers/:id", getVoucher)
	webserver.ApiPOST("/vouchers", createVoucher)
	webserver.ApiPUT("/vouchers/:id", updateVoucher)
	webserver.ApiDELETE("/vouchers/:id", deleteVoucher)
}

func listVouchers(c echo.Context) error {
	page, perPage := parsePagination(c)
	sort := parseSort(c, map[string]string{
		"id":         "id",
		"code":       "code",
		"used_count": "used_count",
		"expires_at": "expires_at",
		"created_at": "created_at",
	})

	db := GetDB(c).Model(&domain.Voucher{})
	if q := strings.TrimSpace(c.QueryParam("q")); q != "" {
		db = likeFilter(db, "code", q)
	}
	if active := c.QueryParam("is_active"); active == "true" || active == "false" {
		db = db.Where("is_active = ?", active == "true")
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query vouchers", err.Error())
	}
	var rows []domain.Voucher
	if err := db.Order(sort).Offset((page - 1) * perPage).Limit(perPage).Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query vouchers", err.Error())
	}
	return paged(c, rows, total, page, perPage)
}

func getVoucher(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid voucher ID", nil)
	}
	var v domain.Voucher
	if err := GetDB(c).Where("id = ?", id).First(&v).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Voucher not found", nil)
	}
	return ok(c, v)
}

func (p *voucherPayload) validate() (*time.Time, string) {
	p.Code = strings.ToUpper(strings.TrimSpace(p.Code))
	if p.Code == "" {
		return nil, "Code is required"
	}
	switch p.DiscountType {
	case domain.DiscountTypePercent:
		if p.DiscountValue <= 0 || p.DiscountValue > 100 {
			return nil, "Percent discount must be in (0, 100]"
		}
	case domain.DiscountTypeFixed:
		if p.DiscountValue <= 0 {
			return nil, "Fixed discount must be > 0"
		}
	default:
		return nil, "Discount type must be PERCENT or FIXED"
	}
	if p.MinOrderValue < 0 || p.MaxDiscount < 0 || p.UsageLimit < 0 {
		return nil, "Amounts must be >= 0"
	}
	var expires *time.Time
	if s := strings.TrimSpace(p.ExpiresAt); s != "" {
		t, err := dateparse.ParseAny(s)
		if err != nil {
			return nil, "Unrecognized expiry time"
		}
		expires = &t
	}
	return expires, ""
}

func createVoucher(c echo.Context) error {
	var payload voucherPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse voucher", err.Error())
	}
	expires, msg := payload.validate()
	if msg != "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", msg, nil)
	}

	var count int64
	GetDB(c).Model(&domain.Voucher{}).Where("code = ?", payload.Code).Count(&count)
	if count > 0 {
		return fail(c, http.StatusConflict, "CODE_EXISTS", "Voucher code already exists", nil)
	}

	v := domain.Voucher{
		ID:            common.UUIDint64(),
		Code:          payload.Code,
		DiscountType:  payload.DiscountType,
		DiscountValue: payload.DiscountValue,
		MinOrderValue: payload.MinOrderValue,
		MaxDiscount:   payload.MaxDiscount,
		UsageLimit:    payload.UsageLimit,
		ExpiresAt:     expires,
		IsActive:      true,
	}
	if payload.IsActive != nil {
		v.IsActive = *payload.IsActive
	}
	if err := GetDB(c).Create(&v).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create voucher", err.Error())
	}
	return c.JSON(http.StatusCreated, v)
}

func updateVoucher(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid voucher ID", nil)
	}
	var v domain.Voucher
	if err := GetDB(c).Where("id = ?", id).First(&v).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Voucher not found", nil)
	}

	var payload voucherPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse voucher", err.Error())
	}
	expires, msg := payload.validate()
	if msg != "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", msg, nil)
	}

	if payload.Code != v.Code {
		var count int64
		GetDB(c).Model(&domain.Voucher{}).Where("code = ? AND id != ?", payload.Code, id).Count(&count)
		if count > 0 {
			return fail(c, http.StatusConflict, "CODE_EXISTS", "Voucher code already exists", nil)
		}
	}

	// used_count is owned by the order ledger and never set here
	updates := map[string]interface{}{
		"code":            payload.Code,
		"discount_type":   payload.DiscountType,
		"discount_value":  payload.DiscountValue,
		"min_order_value": payload.MinOrderValue,
		"max_discount":    payload.MaxDiscount,
		"usage_limit":     payload.UsageLimit,
		"expires_at":      expires,
	}
	if payload.IsActive != nil {
		updates["is_active"] = *payload.IsActive
	}
	if err := GetDB(c).Model(&v).Updates(updates).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update voucher", err.Error())
	}
	GetDB(c).Where("id = ?", id).First(&v)
	return ok(c, v)
}

func deleteVoucher(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid voucher ID", nil)
	}
	if err := GetDB(c).Where("id = ?", id).Delete(&domain.Voucher{}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete voucher", err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

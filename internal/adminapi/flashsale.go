package adminapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/araddon/dateparse"
	"github.com/labstack/echo/v4"
	"github.com/vietshop/vietshop/internal/domain"
	"github.com/vietshop/vietshop/internal/flashsale"
	"github.com/vietshop/vietshop/internal/webserver"
)

type flashSalePayload struct {
	IsActive        bool   `json:"is_active"`
	StartTime       string `json:"start_time"`
	EndTime         string `json:"end_time"`
	TimeSlots       string `json:"time_slots"`
	DiscountPercent int    `json:"discount_percent"`
}

func registerFlashSaleRoutes() {
	webserver.ApiGET("/flash-sale/config", getFlashSaleConfig)
	webserver.ApiPOST("/flash-sale/config", saveFlashSaleConfig)
	webserver.ApiPOST("/flash-sale/products", setFlashSaleProducts)
}

func getFlashSaleConfig(c echo.Context) error {
	cfg, err := flashSvc.Config(c.Request().Context())
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load flash sale config", err.Error())
	}
	return ok(c, cfg)
}

func saveFlashSaleConfig(c echo.Context) error {
	var payload flashSalePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse config", err.Error())
	}
	start, err := dateparse.ParseAny(payload.StartTime)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unrecognized start time", nil)
	}
	end, err := dateparse.ParseAny(payload.EndTime)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unrecognized end time", nil)
	}
	if !end.After(start) {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "End time must be after start time", nil)
	}
	if payload.DiscountPercent < 0 || payload.DiscountPercent > 100 {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Discount percent must be in [0, 100]", nil)
	}

	cfg := &domain.FlashSaleConfig{
		IsActive:        payload.IsActive,
		StartTime:       start,
		EndTime:         end,
		TimeSlots:       payload.TimeSlots,
		DiscountPercent: payload.DiscountPercent,
	}
	err = flashSvc.SaveConfig(c.Request().Context(), cfg)
	switch {
	case errors.Is(err, flashsale.ErrNoSlots), errors.Is(err, flashsale.ErrBadSlot):
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Time slots must be hours in [0, 23]", err.Error())
	case err != nil:
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to save flash sale config", err.Error())
	}
	saved, err := flashSvc.Config(c.Request().Context())
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to reload flash sale config", err.Error())
	}
	return ok(c, saved)
}

// setFlashSaleProducts replaces the promoted product set wholesale
func setFlashSaleProducts(c echo.Context) error {
	var payload struct {
		ProductIds []string `json:"product_ids"`
	}
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product ids", err.Error())
	}
	ids := make([]int64, 0, len(payload.ProductIds))
	for _, s := range payload.ProductIds {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil || id == 0 {
			return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid product id: "+s, nil)
		}
		ids = append(ids, id)
	}
	if err := flashSvc.SetPromoted(c.Request().Context(), ids); err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update promoted products", err.Error())
	}
	return ok(c, map[string]interface{}{"count": len(ids)})
}

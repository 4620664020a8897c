package adminapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/vietshop/vietshop/internal/domain"
	"github.com/vietshop/vietshop/internal/webserver"
	"github.com/vietshop/vietshop/pkg/common"
)

type productPayload struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	CategoryId  int64  `json:"category_id,string"`
	Price       *int64 `json:"price"`
	Image       string `json:"image"`
	Stock       *int   `json:"stock"`
	IsFlashSale *bool  `json:"is_flash_sale"`
}

func registerProductRoutes() {
	webserver.ApiGET("/products", listProducts)
	webserver.ApiGET("/products/:id", getProduct)
	webserver.ApiPOST("/products", createProduct)
	webserver.ApiPUT("/products/:id", updateProduct)
	webserver.ApiDELETE("/products/:id", deleteProduct)
}

func listProducts(c echo.Context) error {
	page, perPage := parsePagination(c)
	sort := parseSort(c, map[string]string{
		"id":         "id",
		"name":       "name",
		"price":      "price",
		"stock":      "stock",
		"sold_count": "sold_count",
		"created_at": "created_at",
		"updated_at": "updated_at",
	})

	db := GetDB(c).Model(&domain.Product{})
	if q := strings.TrimSpace(c.QueryParam("q")); q != "" {
		db = likeFilter(db, "name", q)
	}
	if fs := c.QueryParam("is_flash_sale"); fs == "true" || fs == "false" {
		db = db.Where("is_flash_sale = ?", fs == "true")
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products", err.Error())
	}
	var rows []domain.Product
	if err := db.Order(sort).Offset((page - 1) * perPage).Limit(perPage).Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products", err.Error())
	}
	return paged(c, rows, total, page, perPage)
}

func getProduct(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	var p domain.Product
	if err := GetDB(c).Where("id = ?", id).First(&p).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	}
	return ok(c, p)
}

func (p *productPayload) validate() (code, message string) {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return "INVALID_REQUEST", "Name is required"
	}
	if p.Price == nil || *p.Price < 0 {
		return "INVALID_REQUEST", "Price must be >= 0"
	}
	if p.Stock != nil && *p.Stock < 0 {
		return "INVALID_REQUEST", "Stock must be >= 0"
	}
	return "", ""
}

func createProduct(c echo.Context) error {
	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", err.Error())
	}
	if code, msg := payload.validate(); code != "" {
		return fail(c, http.StatusBadRequest, code, msg, nil)
	}

	p := domain.Product{
		ID:          common.UUIDint64(),
		Name:        payload.Name,
		Description: strings.TrimSpace(payload.Description),
		CategoryId:  payload.CategoryId,
		Price:       *payload.Price,
		Image:       strings.TrimSpace(payload.Image),
	}
	if payload.Stock != nil {
		p.Stock = *payload.Stock
	}
	if payload.IsFlashSale != nil {
		p.IsFlashSale = *payload.IsFlashSale
	}
	if err := GetDB(c).Create(&p).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create product", err.Error())
	}
	return c.JSON(http.StatusCreated, p)
}

func updateProduct(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	var p domain.Product
	if err := GetDB(c).Where("id = ?", id).First(&p).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	}

	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", err.Error())
	}
	if code, msg := payload.validate(); code != "" {
		return fail(c, http.StatusBadRequest, code, msg, nil)
	}

	updates := map[string]interface{}{
		"name":        payload.Name,
		"description": strings.TrimSpace(payload.Description),
		"category_id": payload.CategoryId,
		"price":       *payload.Price,
		"image":       strings.TrimSpace(payload.Image),
	}
	// stock updates here are absolute restocks, not reservations
	if payload.Stock != nil {
		updates["stock"] = *payload.Stock
	}
	if payload.IsFlashSale != nil {
		updates["is_flash_sale"] = *payload.IsFlashSale
	}
	if err := GetDB(c).Model(&p).Updates(updates).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update product", err.Error())
	}
	GetDB(c).Where("id = ?", id).First(&p)
	return ok(c, p)
}

func deleteProduct(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	if err := GetDB(c).Where("id = ?", id).Delete(&domain.Product{}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete product", err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

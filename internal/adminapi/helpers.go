package adminapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/vietshop/vietshop/internal/webserver"
	"gorm.io/gorm"
)

func GetDB(c echo.Context) *gorm.DB {
	return webserver.GetDB(c)
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, data)
}

func fail(c echo.Context, status int, code, message string, detail interface{}) error {
	return c.JSON(status, map[string]interface{}{
		"code":    code,
		"message": message,
		"detail":  detail,
	})
}

func paged(c echo.Context, rows interface{}, total int64, page, perPage int) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"data":    rows,
		"total":   total,
		"page":    page,
		"perPage": perPage,
	})
}

func parsePagination(c echo.Context) (page, perPage int) {
	page, _ = strconv.Atoi(c.QueryParam("page"))
	perPage, _ = strconv.Atoi(c.QueryParam("perPage"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 500 {
		perPage = 20
	}
	return page, perPage
}

// parseSort whitelists sort columns to avoid SQL injection
func parseSort(c echo.Context, allowed map[string]string) string {
	col, ok := allowed[strings.TrimSpace(c.QueryParam("sort"))]
	if !ok || col == "" {
		col = "id"
	}
	order := strings.ToUpper(strings.TrimSpace(c.QueryParam("order")))
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}
	return col + " " + order
}

// likeFilter applies a case-insensitive substring match on col
func likeFilter(db *gorm.DB, col, q string) *gorm.DB {
	if strings.EqualFold(db.Name(), "postgres") {
		return db.Where(col+" ILIKE ?", "%"+q+"%")
	}
	return db.Where("LOWER("+col+") LIKE ?", "%"+strings.ToLower(q)+"%")
}

func paramID(c echo.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}

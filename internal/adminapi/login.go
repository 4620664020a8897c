package adminapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/vietshop/vietshop/internal/domain"
	"github.com/vietshop/vietshop/internal/identity"
	"github.com/vietshop/vietshop/internal/webserver"
	"github.com/vietshop/vietshop/pkg/common"
	"go.uber.org/zap"
)

func registerLoginRoutes() {
	webserver.RootPOST("/admin/login", login)
}

func login(c echo.Context) error {
	var payload struct {
		Username string `json:"username" form:"username"`
		Password string `json:"password" form:"password"`
	}
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse request parameters", err.Error())
	}

	var opr domain.SysOpr
	err := GetDB(c).
		Where("username = ? AND status = ?", payload.Username, common.ENABLED).
		First(&opr).Error
	if err != nil || !common.CheckPassword(opr.Password, payload.Password) {
		zap.L().Warn("admin login rejected",
			zap.String("username", payload.Username),
			zap.String("remote_ip", c.RealIP()))
		return fail(c, http.StatusUnauthorized, "LOGIN_FAILED", "Sai tên đăng nhập hoặc mật khẩu", nil)
	}

	expiresAt := time.Now().Add(24 * time.Hour)
	// uid travels as a string: snowflake ids overflow json numbers
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"uid":  strconv.FormatInt(opr.ID, 10),
		"usr":  opr.Username,
		"role": opr.Level,
		"exp":  expiresAt.Unix(),
	})
	signed, err := token.SignedString([]byte(webSecret))
	if err != nil {
		return fail(c, http.StatusInternalServerError, "TOKEN_FAILED", "Failed to issue token", nil)
	}

	GetDB(c).Model(&opr).Update("last_login", time.Now())
	logOpr(c, opr.Username, "login", "operator logged in")

	c.SetCookie(&http.Cookie{
		Name:     identity.CookieName,
		Value:    signed,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return ok(c, map[string]interface{}{
		"token":      signed,
		"expires_at": expiresAt,
		"operator":   opr,
	})
}

// logOpr records an audit entry for an operator action
func logOpr(c echo.Context, oprName, action, desc string) {
	err := GetDB(c).Create(&domain.SysOprLog{
		ID:        common.UUIDint64(),
		OprName:   oprName,
		OprIp:     c.RealIP(),
		OptAction: action,
		OptDesc:   desc,
		OptTime:   time.Now(),
	}).Error
	if err != nil {
		zap.L().Warn("failed to write operator log", zap.Error(err))
	}
}

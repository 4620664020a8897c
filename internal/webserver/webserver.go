package webserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/vietshop/vietshop/config"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// WebContext is what the web server needs from the application
type WebContext interface {
	Config() *config.AppConfig
	DB() *gorm.DB
}

type WebServer struct {
	appCtx WebContext
	root   *echo.Echo
	pub    *echo.Group
	api    *echo.Group
}

var server *WebServer

// Init builds the echo server: public storefront routes under /api/v1 and
// jwt-guarded admin routes under /admin.
func Init(appCtx WebContext) {
	cfg := appCtx.Config()
	e := echo.New()
	e.HideBanner = true
	e.Debug = cfg.System.Debug
	e.JSONSerializer = NewJsoniterSerializer()

	e.Use(middleware.Recover())
	e.Use(ZapLoggerMiddleware())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("db", appCtx.DB())
			return next(c)
		}
	})

	pub := e.Group("/api/v1")
	api := e.Group("/admin")
	api.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(cfg.Web.Secret),
		TokenLookup: "header:Authorization:Bearer ,cookie:vs_token",
	}))

	server = &WebServer{appCtx: appCtx, root: e, pub: pub, api: api}
}

// Listen starts serving until the listener fails
func Listen() error {
	cfg := server.appCtx.Config()
	addr := fmt.Sprintf("%s:%d", cfg.Web.Host, cfg.Web.Port)
	zap.L().Info("web server listening", zap.String("addr", addr))
	if err := server.root.Start(addr); err != nil {
		return errors.Wrap(err, "web server")
	}
	return nil
}

// Shutdown stops the server gracefully
func Shutdown(ctx context.Context) error {
	return server.root.Shutdown(ctx)
}

// GetDB returns the request-scoped database handle
func GetDB(c echo.Context) *gorm.DB {
	return c.Get("db").(*gorm.DB)
}

// ZapLoggerMiddleware logs each request through the global zap logger
func ZapLoggerMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			req := c.Request()
			res := c.Response()
			fields := []zap.Field{
				zap.String("method", req.Method),
				zap.String("uri", req.RequestURI),
				zap.Int("status", res.Status),
				zap.Duration("latency", time.Since(start)),
				zap.String("remote_ip", c.RealIP()),
			}
			if err != nil {
				fields = append(fields, zap.Error(err))
			}
			switch {
			case res.Status >= http.StatusInternalServerError:
				zap.L().Error("http request", fields...)
			case res.Status >= http.StatusBadRequest:
				zap.L().Warn("http request", fields...)
			default:
				zap.L().Debug("http request", fields...)
			}
			return nil
		}
	}
}

// Public storefront route helpers

func PubGET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	server.pub.GET(path, h, m...)
}

func PubPOST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	server.pub.POST(path, h, m...)
}

func PubPATCH(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	server.pub.PATCH(path, h, m...)
}

// Admin (jwt-guarded) route helpers

func ApiGET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	server.api.GET(path, h, m...)
}

func ApiPOST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	server.api.POST(path, h, m...)
}

func ApiPUT(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	server.api.PUT(path, h, m...)
}

func ApiDELETE(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	server.api.DELETE(path, h, m...)
}

// RootPOST registers an unguarded route at the server root (admin login)
func RootPOST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	server.root.POST(path, h, m...)
}

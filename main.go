package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/vietshop/vietshop/config"
	"github.com/vietshop/vietshop/internal/adminapi"
	"github.com/vietshop/vietshop/internal/app"
	"github.com/vietshop/vietshop/internal/flashsale"
	"github.com/vietshop/vietshop/internal/identity"
	"github.com/vietshop/vietshop/internal/inventory"
	"github.com/vietshop/vietshop/internal/order"
	"github.com/vietshop/vietshop/internal/payment"
	"github.com/vietshop/vietshop/internal/storeapi"
	"github.com/vietshop/vietshop/internal/voucher"
	"github.com/vietshop/vietshop/internal/webserver"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	h       = flag.Bool("h", false, "help usage")
	cfile   = flag.String("c", "vietshop.yml", "config file")
	initdb  = flag.Bool("initdb", false, "drop and recreate all tables, then exit")
	showVer = flag.Bool("v", false, "show version")
)

var version = "dev"

func main() {
	flag.Parse()
	if *h {
		flag.Usage()
		return
	}
	if *showVer {
		fmt.Println("vietshop", version)
		return
	}

	cfg := config.LoadConfig(*cfile)
	application := app.NewApplication(cfg)
	application.Init(cfg)
	defer application.Release()

	if *initdb {
		application.InitDb()
		zap.L().Info("database initialized")
		return
	}

	db := application.DB()
	bus := application.Bus()
	invLedger := inventory.NewGormLedger(db)
	voucherSvc := voucher.NewService(db)
	flashSvc := flashsale.NewService(db)
	orderSvc := order.NewService(db, invLedger, voucherSvc, bus)
	paymentSvc := payment.NewService(db, cfg.Momo, bus)
	verifier := identity.NewVerifier(cfg.Web.Secret)

	webserver.Init(application)
	storeapi.New(orderSvc, voucherSvc, flashSvc, paymentSvc, verifier).InitRouter()
	adminapi.Init(flashSvc, orderSvc, cfg.Web.Secret)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return webserver.Listen()
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return webserver.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		zap.L().Error("server exited", zap.Error(err))
	}
}

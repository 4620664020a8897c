package app

import (
	"github.com/vietshop/vietshop/internal/domain"
	"github.com/vietshop/vietshop/pkg/metrics"
	"go.uber.org/zap"
)

// initEvents wires bus subscribers. Subscriber failures are logged and
// never propagate back to the publishing transaction.
func (a *Application) initEvents() {
	err := a.bus.Subscribe("order.created", func(o *domain.Order) {
		if !a.GetSettingsBoolValue("order", "MailOnCreate") {
			return
		}
		order := *o
		submitErr := a.mailPool.Submit(func() {
			if err := a.mailSender.SendOrderConfirmation(&order); err != nil {
				zap.L().Warn("order confirmation mail failed",
					zap.String("order_no", order.OrderNo), zap.Error(err))
			}
		})
		if submitErr != nil {
			zap.L().Warn("mail pool rejected task",
				zap.String("order_no", o.OrderNo), zap.Error(submitErr))
		}
	})
	if err != nil {
		zap.S().Errorf("subscribe order.created failed: %v", err)
	}

	err = a.bus.Subscribe("order.paid", func(orderID int64, transID string) {
		var total int64
		a.gormDB.Model(&domain.Order{}).
			Where("status = ?", domain.OrderStatusPaid).Count(&total)
		metrics.SetGauge("orders_paid_total", total)
		zap.L().Info("settlement event",
			zap.Int64("order_id", orderID), zap.String("trans_id", transID))
	})
	if err != nil {
		zap.S().Errorf("subscribe order.paid failed: %v", err)
	}
}

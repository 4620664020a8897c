package app

import (
	"errors"
	"strings"
	"time"

	"github.com/vietshop/vietshop/internal/domain"
	"github.com/vietshop/vietshop/pkg/common"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func (a *Application) checkSuper() {
	const superUsername = "admin"
	const defaultPassword = "vietshop"

	hashedPassword := common.HashPassword(defaultPassword)

	var operator domain.SysOpr
	err := a.gormDB.Where("username = ?", superUsername).First(&operator).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := a.gormDB.Create(&domain.SysOpr{
			ID:        common.UUIDint64(),
			Realname:  "administrator",
			Mobile:    "0000",
			Email:     common.NA,
			Username:  superUsername,
			Password:  hashedPassword,
			Level:     "super",
			Status:    common.ENABLED,
			Remark:    "super",
			LastLogin: time.Now(),
		}).Error; err != nil {
			zap.L().Error("failed to create default super admin", zap.Error(err))
		} else {
			zap.L().Info("initialized default super admin account", zap.String("username", superUsername))
		}
		return
	case err != nil:
		zap.L().Error("failed to query super admin", zap.Error(err))
		return
	}

	resetPassword := strings.TrimSpace(operator.Password) == ""
	resetLevel := !strings.EqualFold(operator.Level, "super")
	resetStatus := !strings.EqualFold(operator.Status, common.ENABLED)

	if !resetPassword && !resetLevel && !resetStatus {
		return
	}

	updates := map[string]interface{}{
		"updated_at": time.Now(),
	}
	if resetPassword {
		updates["password"] = hashedPassword
	}
	if resetLevel {
		updates["level"] = "super"
	}
	if resetStatus {
		updates["status"] = common.ENABLED
	}

	if err := a.gormDB.Model(&domain.SysOpr{}).Where("id = ?", operator.ID).Updates(updates).Error; err != nil {
		zap.L().Error("failed to repair super admin account", zap.Error(err))
		return
	}

	zap.L().Warn("repaired default super admin account",
		zap.String("username", superUsername),
		zap.Bool("passwordReset", resetPassword),
		zap.Bool("levelReset", resetLevel),
		zap.Bool("statusEnabled", resetStatus))
}

// defaultSettings seeds operational knobs the admin can tune at runtime
var defaultSettings = []domain.SysConfig{
	{Sort: 1, Type: "shop", Name: "SiteName", Value: "VietShop", Remark: "Storefront display name"},
	{Sort: 2, Type: "shop", Name: "SupportEmail", Value: "support@vietshop.vn", Remark: "Customer support contact"},
	{Sort: 3, Type: "order", Name: "MailOnCreate", Value: "true", Remark: "Send confirmation mail when an order is placed"},
	{Sort: 4, Type: "order", Name: "OprLogDays", Value: "365", Remark: "Days to keep operator audit logs"},
}

func (a *Application) checkSettings() {
	for _, cfg := range defaultSettings {
		var count int64
		a.gormDB.Model(&domain.SysConfig{}).
			Where("type = ? and name = ?", cfg.Type, cfg.Name).
			Count(&count)
		if count == 0 {
			cfg.ID = common.UUIDint64()
			a.gormDB.Create(&cfg)
			zap.L().Info("initialized config",
				zap.String("key", cfg.Type+"."+cfg.Name),
				zap.String("default", cfg.Value))
		}
	}
}

// checkFlashSaleConfig seeds the singleton campaign record, disabled
func (a *Application) checkFlashSaleConfig() {
	var count int64
	a.gormDB.Model(&domain.FlashSaleConfig{}).Count(&count)
	if count > 0 {
		return
	}
	now := time.Now()
	if err := a.gormDB.Create(&domain.FlashSaleConfig{
		ID:              common.UUIDint64(),
		IsActive:        false,
		StartTime:       now,
		EndTime:         now,
		TimeSlots:       "0,9,12,15,18,21",
		DiscountPercent: 10,
	}).Error; err != nil {
		zap.L().Error("failed to create flash sale config", zap.Error(err))
		return
	}
	zap.L().Info("initialized flash sale config")
}

// checkProducts seeds a small demo catalog for fresh installs
func (a *Application) checkProducts() {
	defaultProducts := []domain.Product{
		{Name: "Áo thun cotton", Description: "Áo thun cotton 100%", Price: 149000, Stock: 100},
		{Name: "Quần jean slimfit", Description: "Quần jean co giãn", Price: 399000, Stock: 50},
		{Name: "Giày sneaker trắng", Description: "Giày sneaker đế cao su", Price: 799000, Stock: 30},
		{Name: "Túi tote canvas", Description: "Túi vải canvas in logo", Price: 99000, Stock: 200},
	}

	var count int64
	a.gormDB.Model(&domain.Product{}).Count(&count)
	if count > 0 {
		return
	}
	for _, p := range defaultProducts {
		p.ID = common.UUIDint64()
		p.CreatedAt = time.Now()
		p.UpdatedAt = time.Now()
		if err := a.gormDB.Create(&p).Error; err != nil {
			zap.L().Error("failed to create default product", zap.String("name", p.Name), zap.Error(err))
		} else {
			zap.L().Info("initialized default product", zap.String("name", p.Name))
		}
	}
}

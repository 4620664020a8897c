package app

import (
	"time"

	"github.com/spf13/cast"
	"github.com/vietshop/vietshop/internal/domain"
	"github.com/vietshop/vietshop/pkg/common"
	"go.uber.org/zap"
)

// ConfigManager reads runtime settings from the sys_config table. Values
// are read fresh on every call; settings change rarely and reads are
// off the hot path.
type ConfigManager struct {
	app DBProvider
}

func NewConfigManager(app DBProvider) *ConfigManager {
	return &ConfigManager{app: app}
}

func (m *ConfigManager) GetString(category, name string) string {
	var cfg domain.SysConfig
	err := m.app.DB().Where("type = ? and name = ?", category, name).First(&cfg).Error
	if err != nil {
		return ""
	}
	return cfg.Value
}

func (m *ConfigManager) GetInt(category, name string) int {
	return cast.ToInt(m.GetString(category, name))
}

func (m *ConfigManager) GetInt64(category, name string) int64 {
	return cast.ToInt64(m.GetString(category, name))
}

func (m *ConfigManager) GetBool(category, name string) bool {
	return cast.ToBool(m.GetString(category, name))
}

// SetValue upserts a setting
func (m *ConfigManager) SetValue(category, name, value string) error {
	db := m.app.DB()
	var count int64
	db.Model(&domain.SysConfig{}).Where("type = ? and name = ?", category, name).Count(&count)
	if count == 0 {
		return db.Create(&domain.SysConfig{
			ID:    common.UUIDint64(),
			Type:  category,
			Name:  name,
			Value: value,
		}).Error
	}
	err := db.Model(&domain.SysConfig{}).
		Where("type = ? and name = ?", category, name).
		Updates(map[string]interface{}{"value": value, "updated_at": time.Now()}).Error
	if err != nil {
		zap.L().Error("failed to update setting",
			zap.String("key", category+"."+name), zap.Error(err))
	}
	return err
}

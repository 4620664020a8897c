package flashsale

import (
	"context"
	"errors"
	"time"

	"github.com/vietshop/vietshop/internal/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrNotActive the campaign is disabled or outside its date window
var ErrNotActive = errors.New("flash sale is not active")

// Status is the campaign state served to the storefront
type Status struct {
	Config     *domain.FlashSaleConfig `json:"config"`
	Slot       *Slot                   `json:"slot"`
	ProductIds []int64                 `json:"product_ids"`
}

// Service resolves the active promotional slot from the persisted
// campaign config and maintains the promoted product set.
type Service struct {
	db  *gorm.DB
	now func() time.Time
}

// NewService creates a new flash-sale service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db, now: time.Now}
}

// Config returns the singleton campaign config
func (s *Service) Config(ctx context.Context) (*domain.FlashSaleConfig, error) {
	var cfg domain.FlashSaleConfig
	if err := s.db.WithContext(ctx).Order("id").First(&cfg).Error; err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Current resolves the open slot for the active campaign. It retries once
// on a boundary-crossing race instead of surfacing negative time.
func (s *Service) Current(ctx context.Context) (*Status, error) {
	cfg, err := s.Config(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if !cfg.IsActive || now.Before(cfg.StartTime) || now.After(cfg.EndTime) {
		return nil, ErrNotActive
	}
	hours, err := ParseSlots(cfg.TimeSlots)
	if err != nil {
		return nil, err
	}
	slot, err := ResolveSlot(now, hours)
	if errors.Is(err, ErrSlotExpired) {
		slot, err = ResolveSlot(s.now(), hours)
	}
	if err != nil {
		return nil, err
	}

	var ids []int64
	if err := s.db.WithContext(ctx).
		Model(&domain.Product{}).
		Where("is_flash_sale = ?", true).
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return &Status{Config: cfg, Slot: slot, ProductIds: ids}, nil
}

// SaveConfig updates the singleton campaign record, validating the slot
// list before persisting.
func (s *Service) SaveConfig(ctx context.Context, cfg *domain.FlashSaleConfig) error {
	if _, err := ParseSlots(cfg.TimeSlots); err != nil {
		return err
	}
	current, err := s.Config(ctx)
	if err != nil {
		return err
	}
	cfg.ID = current.ID
	return s.db.WithContext(ctx).
		Model(&domain.FlashSaleConfig{}).
		Where("id = ?", current.ID).
		Updates(map[string]interface{}{
			"is_active":        cfg.IsActive,
			"start_time":       cfg.StartTime,
			"end_time":         cfg.EndTime,
			"time_slots":       cfg.TimeSlots,
			"discount_percent": cfg.DiscountPercent,
		}).Error
}

// SetPromoted replaces the promoted product set in one transaction:
// products outside the set lose the flag, products in the set gain it.
func (s *Service) SetPromoted(ctx context.Context, ids []int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(ids) == 0 {
			return tx.Model(&domain.Product{}).
				Where("is_flash_sale = ?", true).
				Update("is_flash_sale", false).Error
		}
		if err := tx.Model(&domain.Product{}).
			Where("id NOT IN ? AND is_flash_sale = ?", ids, true).
			Update("is_flash_sale", false).Error; err != nil {
			return err
		}
		return tx.Model(&domain.Product{}).
			Where("id IN ?", ids).
			Update("is_flash_sale", true).Error
	})
}

// SweepExpired clears promotion flags once the campaign window has
// closed. Run from the scheduler.
func (s *Service) SweepExpired(ctx context.Context) {
	cfg, err := s.Config(ctx)
	if err != nil {
		return
	}
	if s.now().Before(cfg.EndTime) {
		return
	}
	res := s.db.WithContext(ctx).
		Model(&domain.Product{}).
		Where("is_flash_sale = ?", true).
		Update("is_flash_sale", false)
	if res.Error != nil {
		zap.L().Error("flash sale sweep failed", zap.Error(res.Error))
		return
	}
	if res.RowsAffected > 0 {
		zap.L().Info("flash sale window closed, cleared promotion flags",
			zap.Int64("products", res.RowsAffected))
	}
}

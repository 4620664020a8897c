package inventory

import (
	"context"
	"errors"

	"github.com/vietshop/vietshop/internal/domain"
	"gorm.io/gorm"
)

var (
	// ErrNotFound the referenced product does not exist
	ErrNotFound = errors.New("product not found")
	// ErrOutOfStock the requested quantity exceeds available stock
	ErrOutOfStock = errors.New("insufficient stock")
	// ErrBadQuantity quantity must be a positive integer
	ErrBadQuantity = errors.New("quantity must be positive")
)

// Ledger handles stock reservation and release. Both operations are single
// conditional updates at the storage layer, never read-then-write pairs,
// so concurrent checkouts can never oversell.
type Ledger interface {
	// Reserve decrements stock and increments sold_count atomically,
	// guarded by stock >= quantity.
	Reserve(ctx context.Context, productID int64, quantity int) error

	// Release reverses a prior successful reservation. Callers must gate
	// it on a status edge consumed exactly once (order cancellation).
	Release(ctx context.Context, productID int64, quantity int) error

	// WithTx returns a ledger bound to the given transaction handle
	WithTx(tx *gorm.DB) Ledger
}

// GormLedger is the GORM implementation of Ledger
type GormLedger struct {
	db *gorm.DB
}

// NewGormLedger creates a new GORM-based inventory ledger
func NewGormLedger(db *gorm.DB) *GormLedger {
	return &GormLedger{db: db}
}

func (r *GormLedger) WithTx(tx *gorm.DB) Ledger {
	return &GormLedger{db: tx}
}

func (r *GormLedger) Reserve(ctx context.Context, productID int64, quantity int) error {
	if quantity <= 0 {
		return ErrBadQuantity
	}
	res := r.db.WithContext(ctx).
		Model(&domain.Product{}).
		Where("id = ? AND stock >= ?", productID, quantity).
		Updates(map[string]interface{}{
			"stock":      gorm.Expr("stock - ?", quantity),
			"sold_count": gorm.Expr("sold_count + ?", quantity),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).
			Model(&domain.Product{}).
			Where("id = ?", productID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}
		return ErrOutOfStock
	}
	return nil
}

func (r *GormLedger) Release(ctx context.Context, productID int64, quantity int) error {
	if quantity <= 0 {
		return ErrBadQuantity
	}
	res := r.db.WithContext(ctx).
		Model(&domain.Product{}).
		Where("id = ?", productID).
		Updates(map[string]interface{}{
			"stock":      gorm.Expr("stock + ?", quantity),
			"sold_count": gorm.Expr("sold_count - ?", quantity),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

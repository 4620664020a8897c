package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/vietshop/vietshop/internal/domain"
	"github.com/vietshop/vietshop/internal/inventory"
	"github.com/vietshop/vietshop/internal/voucher"
	"github.com/vietshop/vietshop/pkg/common"
	"github.com/vietshop/vietshop/pkg/metrics"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	// ErrNotFound unknown order
	ErrNotFound = errors.New("order not found")
	// ErrEmptyOrder an order needs at least one item
	ErrEmptyOrder = errors.New("order has no items")
	// ErrInvalidTransition the requested status change is not permitted
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrForbidden the caller does not own this order
	ErrForbidden = errors.New("not the order owner")
	// ErrBadStatus unknown target status
	ErrBadStatus = errors.New("unknown order status")
)

// InvalidReferenceError lists item product ids that do not exist
type InvalidReferenceError struct {
	Missing []int64
}

func (e *InvalidReferenceError) Error() string {
	parts := make([]string, len(e.Missing))
	for i, id := range e.Missing {
		parts[i] = fmt.Sprintf("%d", id)
	}
	return "sản phẩm không tồn tại: " + strings.Join(parts, ", ")
}

// Actor identifies who is driving a status transition
type Actor struct {
	UserId  int64
	IsAdmin bool
}

// CreateItem is one requested order line
type CreateItem struct {
	ProductId int64 `json:"product_id,string"`
	Quantity  int   `json:"quantity"`
}

// CreateRequest carries everything needed to place an order. Prices are
// never taken from the client; items are priced from the catalog inside
// the creation transaction.
type CreateRequest struct {
	CustomerName string       `json:"customer_name"`
	Email        string       `json:"email"`
	Phone        string       `json:"phone"`
	Address      string       `json:"address"`
	Note         string       `json:"note"`
	Items        []CreateItem `json:"items"`
	VoucherCode  string       `json:"voucher_code"`
	UserId       int64        `json:"-"` // stamped from the identity verifier, 0 = guest
}

// Service is the order ledger: it creates orders with their inventory
// reservations and voucher accounting in one transaction, and owns every
// status transition except gateway settlement.
type Service struct {
	db        *gorm.DB
	inventory inventory.Ledger
	vouchers  *voucher.Service
	bus       EventBus.Bus
	now       func() time.Time
}

// NewService creates a new order service
func NewService(db *gorm.DB, inv inventory.Ledger, vs *voucher.Service, bus EventBus.Bus) *Service {
	return &Service{db: db, inventory: inv, vouchers: vs, bus: bus, now: time.Now}
}

// Create places an order as one logical transaction: reference
// validation, per-item stock reservation, voucher pricing and usage
// accounting, then order + item persistence with status PENDING. Any
// failure rolls the whole attempt back, leaving no reservation behind.
func (s *Service) Create(ctx context.Context, req *CreateRequest) (*domain.Order, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyOrder
	}
	for _, it := range req.Items {
		if it.Quantity <= 0 {
			return nil, inventory.ErrBadQuantity
		}
	}

	o := &domain.Order{
		ID:           common.UUIDint64(),
		CustomerName: strings.TrimSpace(req.CustomerName),
		Email:        strings.TrimSpace(req.Email),
		Phone:        strings.TrimSpace(req.Phone),
		Address:      strings.TrimSpace(req.Address),
		Note:         strings.TrimSpace(req.Note),
		Status:       domain.OrderStatusPending,
		UserId:       req.UserId,
	}
	o.OrderNo = fmt.Sprintf("VS%d", o.ID)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ids := make([]int64, 0, len(req.Items))
		for _, it := range req.Items {
			ids = append(ids, it.ProductId)
		}
		var products []domain.Product
		if err := tx.Where("id IN ?", ids).Find(&products).Error; err != nil {
			return err
		}
		byID := make(map[int64]*domain.Product, len(products))
		for i := range products {
			byID[products[i].ID] = &products[i]
		}
		var missing []int64
		for _, id := range ids {
			if _, ok := byID[id]; !ok {
				missing = append(missing, id)
			}
		}
		if len(missing) > 0 {
			return &InvalidReferenceError{Missing: missing}
		}

		ledger := s.inventory.WithTx(tx)
		var subtotal int64
		items := make([]domain.OrderItem, 0, len(req.Items))
		for _, it := range req.Items {
			if err := ledger.Reserve(ctx, it.ProductId, it.Quantity); err != nil {
				return err
			}
			p := byID[it.ProductId]
			subtotal += p.Price * int64(it.Quantity)
			items = append(items, domain.OrderItem{
				ID:          common.UUIDint64(),
				OrderId:     o.ID,
				ProductId:   p.ID,
				ProductName: p.Name,
				Quantity:    it.Quantity,
				Price:       p.Price,
			})
		}

		o.Subtotal = subtotal
		if code := strings.TrimSpace(req.VoucherCode); code != "" {
			res, err := s.vouchers.WithTx(tx).ApplyCode(ctx, code, subtotal)
			if err != nil {
				return err
			}
			if err := s.vouchers.WithTx(tx).ConsumeUsage(ctx, res.Voucher.ID); err != nil {
				return err
			}
			o.VoucherId = res.Voucher.ID
			o.VoucherCode = res.Voucher.Code
			o.Discount = res.Discount
		}
		o.Total = o.Subtotal - o.Discount

		if err := tx.Create(o).Error; err != nil {
			return err
		}
		return tx.Create(&items).Error
	})
	if err != nil {
		return nil, err
	}

	metrics.IncrCounter(metrics.OrdersCreated)
	if s.bus != nil {
		// confirmation mail etc.; subscriber failure never fails the order
		s.bus.Publish("order.created", o)
	}
	zap.L().Info("order created",
		zap.String("order_no", o.OrderNo),
		zap.Int64("total", o.Total),
		zap.String("voucher", o.VoucherCode))

	return s.Get(ctx, o.ID)
}

// Get loads an order with its items
func (s *Service) Get(ctx context.Context, id int64) (*domain.Order, error) {
	var o domain.Order
	err := s.db.WithContext(ctx).Preload("Items").Where("id = ?", id).First(&o).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, ErrNotFound
	case err != nil:
		return nil, err
	}
	return &o, nil
}

// UpdateStatus transitions an order.
//
// Cancellation is permitted only on the PENDING->CANCELLED edge, consumed
// exactly once by a conditional update; a successful cancellation releases
// every item's reservation in the same transaction. Owners are strictly
// held to that rule; administrators may record other transitions, which
// carry no inventory side effects.
func (s *Service) UpdateStatus(ctx context.Context, orderID int64, newStatus string, actor Actor) (*domain.Order, error) {
	newStatus = strings.ToUpper(strings.TrimSpace(newStatus))
	if !domain.ValidOrderStatus(newStatus) {
		return nil, ErrBadStatus
	}

	o, err := s.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin {
		if o.UserId == 0 || o.UserId != actor.UserId {
			return nil, ErrForbidden
		}
		if newStatus != domain.OrderStatusCancelled {
			return nil, ErrInvalidTransition
		}
	}

	if newStatus == domain.OrderStatusCancelled {
		return s.cancel(ctx, o, actor)
	}

	if err := s.db.WithContext(ctx).
		Model(&domain.Order{}).
		Where("id = ?", orderID).
		Update("status", newStatus).Error; err != nil {
		return nil, err
	}
	return s.Get(ctx, orderID)
}

// cancel consumes the PENDING->CANCELLED edge and restores exactly the
// stock the order reserved, exactly once. A duplicate cancellation finds
// the edge already consumed and is rejected without side effects.
func (s *Service) cancel(ctx context.Context, o *domain.Order, actor Actor) (*domain.Order, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.Order{}).
			Where("id = ? AND status = ?", o.ID, domain.OrderStatusPending).
			Update("status", domain.OrderStatusCancelled)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// edge already consumed, or the order is past PENDING
			if actor.IsAdmin && o.Status != domain.OrderStatusCancelled {
				// admin policy: cancel from any state, but inventory was
				// only held for PENDING orders so nothing is released
				return tx.Model(&domain.Order{}).
					Where("id = ?", o.ID).
					Update("status", domain.OrderStatusCancelled).Error
			}
			return ErrInvalidTransition
		}

		ledger := s.inventory.WithTx(tx)
		for _, it := range o.Items {
			if err := ledger.Release(ctx, it.ProductId, it.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.IncrCounter(metrics.OrdersCancelled)
	zap.L().Info("order cancelled", zap.String("order_no", o.OrderNo))
	return s.Get(ctx, o.ID)
}

// LookupGuest finds an order by contact email and order-number prefix,
// for guests without an account.
func (s *Service) LookupGuest(ctx context.Context, email, orderNo string) (*domain.Order, error) {
	email = strings.TrimSpace(email)
	orderNo = strings.TrimSpace(orderNo)
	if email == "" || orderNo == "" {
		return nil, ErrNotFound
	}
	var o domain.Order
	err := s.db.WithContext(ctx).
		Preload("Items").
		Where("email = ? AND order_no LIKE ?", email, orderNo+"%").
		Order("created_at DESC").
		First(&o).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, ErrNotFound
	case err != nil:
		return nil, err
	}
	return &o, nil
}

package payment

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/guonaihong/gout"
	jsoniter "github.com/json-iterator/go"
	"github.com/vietshop/vietshop/config"
	"github.com/vietshop/vietshop/internal/domain"
	"github.com/vietshop/vietshop/pkg/common"
	"github.com/vietshop/vietshop/pkg/metrics"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const Gateway = "momo"

// ResultCodeSuccess is the gateway's errorCode for a settled payment
const ResultCodeSuccess = "0"

var (
	// ErrInvalidSignature the notification signature does not match;
	// rejected before any order state is touched
	ErrInvalidSignature = errors.New("invalid payment signature")
	// ErrOrderNotFound the notification references an unknown order
	ErrOrderNotFound = errors.New("order not found")
	// ErrOrderNotPayable the order is not in a payable state
	ErrOrderNotPayable = errors.New("order is not payable")
	// ErrUpstream the gateway rejected or failed the payment request;
	// checkout can be retried by the user
	ErrUpstream = errors.New("payment gateway error")
)

// Notification is the gateway's asynchronous payment result. All fields
// are kept as strings: the signature covers their raw wire values.
type Notification struct {
	PartnerCode  string `json:"partnerCode" form:"partnerCode"`
	AccessKey    string `json:"accessKey" form:"accessKey"`
	RequestId    string `json:"requestId" form:"requestId"`
	Amount       string `json:"amount" form:"amount"`
	OrderId      string `json:"orderId" form:"orderId"`
	OrderInfo    string `json:"orderInfo" form:"orderInfo"`
	OrderType    string `json:"orderType" form:"orderType"`
	TransId      string `json:"transId" form:"transId"`
	Message      string `json:"message" form:"message"`
	LocalMessage string `json:"localMessage" form:"localMessage"`
	ResponseTime string `json:"responseTime" form:"responseTime"`
	ErrorCode    string `json:"errorCode" form:"errorCode"`
	PayType      string `json:"payType" form:"payType"`
	ExtraData    string `json:"extraData" form:"extraData"`
	Signature    string `json:"signature" form:"signature"`
}

func (n *Notification) fieldMap() map[string]string {
	return map[string]string{
		"partnerCode":  n.PartnerCode,
		"accessKey":    n.AccessKey,
		"requestId":    n.RequestId,
		"amount":       n.Amount,
		"orderId":      n.OrderId,
		"orderInfo":    n.OrderInfo,
		"orderType":    n.OrderType,
		"transId":      n.TransId,
		"message":      n.Message,
		"localMessage": n.LocalMessage,
		"responseTime": n.ResponseTime,
		"errorCode":    n.ErrorCode,
		"payType":      n.PayType,
		"extraData":    n.ExtraData,
	}
}

type payRequest struct {
	PartnerCode string `json:"partnerCode"`
	AccessKey   string `json:"accessKey"`
	RequestId   string `json:"requestId"`
	Amount      string `json:"amount"`
	OrderId     string `json:"orderId"`
	OrderInfo   string `json:"orderInfo"`
	ReturnUrl   string `json:"returnUrl"`
	NotifyUrl   string `json:"notifyUrl"`
	ExtraData   string `json:"extraData"`
	RequestType string `json:"requestType"`
	Signature   string `json:"signature"`
}

type payResponse struct {
	RequestId string `json:"requestId"`
	ErrorCode int    `json:"errorCode"`
	Message   string `json:"message"`
	PayUrl    string `json:"payUrl"`
}

// Service builds outbound payment requests and reconciles inbound
// notifications against the order ledger exactly once.
type Service struct {
	db  *gorm.DB
	cfg config.MomoConfig
	bus EventBus.Bus
	now func() time.Time
}

// NewService creates a new payment settlement service
func NewService(db *gorm.DB, cfg config.MomoConfig, bus EventBus.Bus) *Service {
	return &Service{db: db, cfg: cfg, bus: bus, now: time.Now}
}

// BuildPayURL signs and submits a payment request for a PENDING order,
// returning the gateway's hosted payment URL. The request id is derived
// from the submission time and order id, making retries idempotent on the
// gateway side.
func (s *Service) BuildPayURL(ctx context.Context, orderID int64) (string, error) {
	var o domain.Order
	err := s.db.WithContext(ctx).Where("id = ?", orderID).First(&o).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return "", ErrOrderNotFound
	case err != nil:
		return "", err
	}
	if o.Status != domain.OrderStatusPending {
		return "", ErrOrderNotPayable
	}

	req := payRequest{
		PartnerCode: s.cfg.PartnerCode,
		AccessKey:   s.cfg.AccessKey,
		RequestId:   fmt.Sprintf("%d-%d", s.now().UnixMilli(), o.ID),
		Amount:      strconv.FormatInt(o.Total, 10),
		OrderId:     strconv.FormatInt(o.ID, 10),
		OrderInfo:   "Thanh toan don hang " + o.OrderNo,
		ReturnUrl:   s.cfg.ReturnURL,
		NotifyUrl:   s.cfg.NotifyURL,
		RequestType: "captureMoMoWallet",
	}
	req.Signature = sign(s.cfg.SecretKey, canonicalString(outboundFieldOrder, map[string]string{
		"partnerCode": req.PartnerCode,
		"accessKey":   req.AccessKey,
		"requestId":   req.RequestId,
		"amount":      req.Amount,
		"orderId":     req.OrderId,
		"orderInfo":   req.OrderInfo,
		"returnUrl":   req.ReturnUrl,
		"notifyUrl":   req.NotifyUrl,
		"extraData":   req.ExtraData,
	}))

	var resp payResponse
	err = gout.POST(s.cfg.Endpoint).
		SetTimeout(10 * time.Second).
		SetJSON(req).
		BindJSON(&resp).
		Do()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if resp.ErrorCode != 0 || resp.PayUrl == "" {
		return "", fmt.Errorf("%w: code=%d message=%s", ErrUpstream, resp.ErrorCode, resp.Message)
	}

	if err := s.db.WithContext(ctx).
		Model(&domain.Order{}).
		Where("id = ?", o.ID).
		Update("payment_gateway", Gateway).Error; err != nil {
		zap.L().Warn("failed to stamp payment gateway", zap.Int64("order_id", o.ID), zap.Error(err))
	}
	return resp.PayUrl, nil
}

// HandleNotify reconciles an asynchronous gateway notification.
//
// The signature is verified before any lookup. A success result settles
// the order via a conditional PENDING->PAID update, so a repeated delivery
// for an already-PAID order is a no-op success, never a double credit.
// A failure result is recorded for audit and leaves the order PENDING.
func (s *Service) HandleNotify(ctx context.Context, n *Notification) error {
	canonical := canonicalString(inboundFieldOrder, n.fieldMap())
	if !verifySignature(s.cfg.SecretKey, canonical, n.Signature) {
		metrics.IncrCounter(metrics.PaymentsRejected)
		return ErrInvalidSignature
	}

	orderID, err := strconv.ParseInt(n.OrderId, 10, 64)
	if err != nil {
		return ErrOrderNotFound
	}
	var o domain.Order
	err = s.db.WithContext(ctx).Where("id = ?", orderID).First(&o).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrOrderNotFound
	case err != nil:
		return err
	}

	s.audit(ctx, n, orderID)

	if n.ErrorCode != ResultCodeSuccess {
		zap.L().Info("payment failed, order left pending",
			zap.Int64("order_id", orderID),
			zap.String("error_code", n.ErrorCode),
			zap.String("message", n.Message))
		return nil
	}

	res := s.db.WithContext(ctx).
		Model(&domain.Order{}).
		Where("id = ? AND status = ?", orderID, domain.OrderStatusPending).
		Updates(map[string]interface{}{
			"status":          domain.OrderStatusPaid,
			"payment_id":      n.TransId,
			"payment_gateway": Gateway,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// duplicate delivery, or the order was cancelled while the
		// payment was in flight; either way the gateway gets success
		// so it stops retrying
		if o.Status != domain.OrderStatusPaid {
			zap.L().Warn("settlement arrived for non-pending order",
				zap.Int64("order_id", orderID),
				zap.String("status", o.Status))
		}
		return nil
	}

	metrics.IncrCounter(metrics.PaymentsSettled)
	if s.bus != nil {
		s.bus.Publish("order.paid", orderID, n.TransId)
	}
	zap.L().Info("order settled",
		zap.Int64("order_id", orderID),
		zap.String("trans_id", n.TransId))
	return nil
}

func (s *Service) audit(ctx context.Context, n *Notification, orderID int64) {
	raw, _ := jsoniter.MarshalToString(n)
	log := &domain.PaymentNotifyLog{
		ID:         common.UUIDint64(),
		Gateway:    Gateway,
		RequestId:  n.RequestId,
		OrderId:    orderID,
		TransId:    n.TransId,
		ResultCode: n.ErrorCode,
		Message:    n.Message,
		RawPayload: raw,
		ReceivedAt: s.now(),
	}
	if err := s.db.WithContext(ctx).Create(log).Error; err != nil {
		zap.L().Warn("failed to record payment notification", zap.Error(err))
	}
}

package domain

import "time"

// PaymentNotifyLog records every signature-valid gateway notification for
// audit, including failed and duplicate deliveries.
type PaymentNotifyLog struct {
	ID         int64     `gorm:"primaryKey" json:"id,string"`
	Gateway    string    `gorm:"size:32" json:"gateway"`
	RequestId  string    `gorm:"size:64;index" json:"request_id"`
	OrderId    int64     `gorm:"index" json:"order_id,string"`
	TransId    string    `gorm:"size:64" json:"trans_id"`
	ResultCode string    `gorm:"size:16" json:"result_code"`
	Message    string    `gorm:"size:512" json:"message"`
	RawPayload string    `gorm:"size:4096" json:"raw_payload"`
	ReceivedAt time.Time `json:"received_at"`
}

// TableName Specify table name
func (PaymentNotifyLog) TableName() string {
	return "payment_notify_log"
}

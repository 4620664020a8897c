package payment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "at67qH6mk8w5Y1nAyMoYKMWACiEi2bsa"

func sampleNotification() *Notification {
	n := &Notification{
		PartnerCode:  "MOMOVSHOP",
		AccessKey:    "F8BBA842ECF85",
		RequestId:    "1757000000000-42",
		Amount:       "398000",
		OrderId:      "42",
		OrderInfo:    "Thanh toan don hang VS42",
		OrderType:    "momo_wallet",
		TransId:      "2302586804",
		Message:      "Success",
		LocalMessage: "Thành công",
		ResponseTime: "2026-03-14 15:09:26",
		ErrorCode:    "0",
		PayType:      "qr",
	}
	n.Signature = sign(testSecret, canonicalString(inboundFieldOrder, n.fieldMap()))
	return n
}

func TestSignatureRoundTrip(t *testing.T) {
	n := sampleNotification()
	canonical := canonicalString(inboundFieldOrder, n.fieldMap())
	assert.True(t, verifySignature(testSecret, canonical, n.Signature))
}

func TestSignatureRejectsTamperedField(t *testing.T) {
	n := sampleNotification()
	n.Amount = "398001" // one character changed
	canonical := canonicalString(inboundFieldOrder, n.fieldMap())
	assert.False(t, verifySignature(testSecret, canonical, n.Signature))
}

func TestSignatureRejectsWrongSecret(t *testing.T) {
	n := sampleNotification()
	canonical := canonicalString(inboundFieldOrder, n.fieldMap())
	assert.False(t, verifySignature("wrong-secret", canonical, n.Signature))
}

func TestCanonicalStringUsesContractOrder(t *testing.T) {
	fields := map[string]string{
		"partnerCode": "P", "accessKey": "A", "requestId": "R",
		"amount": "100", "orderId": "7", "orderInfo": "info",
		"returnUrl": "ru", "notifyUrl": "nu", "extraData": "",
	}
	got := canonicalString(outboundFieldOrder, fields)
	want := "partnerCode=P&accessKey=A&requestId=R&amount=100&orderId=7&orderInfo=info&returnUrl=ru&notifyUrl=nu&extraData="
	assert.Equal(t, want, got, "field sequence is contractual, not alphabetical")
}

func TestInboundAndOutboundOrdersDiffer(t *testing.T) {
	require.NotEqual(t, len(outboundFieldOrder), len(inboundFieldOrder))
	// the inbound schema carries the settlement result fields
	assert.Contains(t, inboundFieldOrder, "transId")
	assert.Contains(t, inboundFieldOrder, "errorCode")
	assert.NotContains(t, outboundFieldOrder, "transId")
}

func TestMissingFieldsRenderEmpty(t *testing.T) {
	got := canonicalString([]string{"a", "b"}, map[string]string{"a": "1"})
	assert.Equal(t, "a=1&b=", got)
}

package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// The gateway signs the canonical concatenation of key=value pairs joined
// with "&", HMAC-SHA256 over the shared secret, hex encoded. The field
// sequence is fixed by the gateway contract, NOT by insertion or
// alphabetical order, and the outbound and inbound schemas each have their
// own sequence. Both orders below must be preserved verbatim.

// outboundFieldOrder is the contractual field sequence for payment
// requests sent to the gateway.
var outboundFieldOrder = []string{
	"partnerCode",
	"accessKey",
	"requestId",
	"amount",
	"orderId",
	"orderInfo",
	"returnUrl",
	"notifyUrl",
	"extraData",
}

// inboundFieldOrder is the contractual field sequence for asynchronous
// payment notifications received from the gateway.
var inboundFieldOrder = []string{
	"partnerCode",
	"accessKey",
	"requestId",
	"amount",
	"orderId",
	"orderInfo",
	"orderType",
	"transId",
	"message",
	"localMessage",
	"responseTime",
	"errorCode",
	"payType",
	"extraData",
}

// canonicalString joins the named fields as key=value pairs with "&" in
// the exact order given. Missing keys render as empty values, matching
// the gateway's treatment of optional fields.
func canonicalString(order []string, fields map[string]string) string {
	var b strings.Builder
	for i, k := range order {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(fields[k])
	}
	return b.String()
}

// sign computes the hex HMAC-SHA256 of the canonical string
func sign(secret, canonical string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(canonical))
	return hex.EncodeToString(mac.Sum(nil))
}

// SignNotification computes the signature a gateway would attach to the
// notification. Used by callback tooling and tests; verification inside
// HandleNotify never trusts it.
func SignNotification(secret string, n *Notification) string {
	return sign(secret, canonicalString(inboundFieldOrder, n.fieldMap()))
}

// verifySignature compares an expected signature in constant time
func verifySignature(secret, canonical, signature string) bool {
	expected := sign(secret, canonical)
	return hmac.Equal([]byte(expected), []byte(signature))
}

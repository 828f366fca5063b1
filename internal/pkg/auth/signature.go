package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
)

var ErrInvalidSignature = errors.New("invalid signature")

// webhookSignaturePrefix precedes the hex digest in X-Hub-Signature-256.
const webhookSignaturePrefix = "sha256="

// Verifier checks hex-encoded signatures over a payload.
type Verifier interface {
	Sign(payload []byte) string
	Verify(payload []byte, signature string) error
}

// HMACVerifier signs payloads with HMAC-SHA256 and renders lowercase hex.
type HMACVerifier struct {
	secret []byte
}

// NewHMACVerifier builds a verifier keyed by secret.
func NewHMACVerifier(secret string) *HMACVerifier {
	return &HMACVerifier{secret: []byte(secret)}
}

func (v *HMACVerifier) Sign(payload []byte) string {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify compares in constant time. Upper-case hex is accepted.
func (v *HMACVerifier) Verify(payload []byte, signature string) error {
	expected := v.Sign(payload)
	if !hmac.Equal([]byte(expected), []byte(strings.ToLower(strings.TrimSpace(signature)))) {
		return ErrInvalidSignature
	}
	return nil
}

// PaymentPayload is the string the payment gateway signs for a completed payment.
func PaymentPayload(gatewayOrderID, paymentID string) []byte {
	return []byte(gatewayOrderID + "|" + paymentID)
}

// VerifyPayment checks a gateway signature binding order and payment ids.
func VerifyPayment(secret, gatewayOrderID, paymentID, signature string) error {
	if secret == "" || signature == "" {
		return ErrInvalidSignature
	}
	return NewHMACVerifier(secret).Verify(PaymentPayload(gatewayOrderID, paymentID), signature)
}

// VerifyWebhook checks an X-Hub-Signature-256 header against the raw body.
func VerifyWebhook(secret string, body []byte, header string) error {
	digest, ok := strings.CutPrefix(strings.TrimSpace(header), webhookSignaturePrefix)
	if !ok || digest == "" {
		return ErrInvalidSignature
	}
	return NewHMACVerifier(secret).Verify(body, digest)
}

// WebhookHeader renders the header value a provider would send for body.
func WebhookHeader(secret string, body []byte) string {
	return webhookSignaturePrefix + NewHMACVerifier(secret).Sign(body)
}
var _ Verifier = (*HMACVerifier)(nil)

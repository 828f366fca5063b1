package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"testing"
)

func referenceHex(secret, payload string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestHMACVerifier_SignMatchesReference(t *testing.T) {
	v := NewHMACVerifier("secret")
	got := v.Sign([]byte("order_1|pay_1"))
	if got != referenceHex("secret", "order_1|pay_1") {
		t.Fatalf("unexpected signature: %s", got)
	}
	if len(got) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(got))
	}
}

func TestHMACVerifier_Verify(t *testing.T) {
	v := NewHMACVerifier("secret")
	sig := v.Sign([]byte("payload"))

	if err := v.Verify([]byte("payload"), sig); err != nil {
		t.Fatalf("verify: %v", err)
	}
	if err := v.Verify([]byte("payload"), strings.ToUpper(sig)); err != nil {
		t.Fatalf("verify upper-case: %v", err)
	}
	if err := v.Verify([]byte("tampered"), sig); !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature, got %v", err)
	}
	if err := NewHMACVerifier("other").Verify([]byte("payload"), sig); !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature for wrong key, got %v", err)
	}
}

func TestVerifyPayment(t *testing.T) {
	sig := referenceHex("key_secret", "order_abc|pay_xyz")

	if err := VerifyPayment("key_secret", "order_abc", "pay_xyz", sig); err != nil {
		t.Fatalf("verify payment: %v", err)
	}

	cases := []struct {
		name                           string
		secret, order, payment, sig string
	}{
		{"swapped ids", "key_secret", "pay_xyz", "order_abc", sig},
		{"other payment", "key_secret", "order_abc", "pay_other", sig},
		{"empty secret", "", "order_abc", "pay_xyz", sig},
		{"empty signature", "key_secret", "order_abc", "pay_xyz", ""},
		{"garbage", "key_secret", "order_abc", "pay_xyz", "zz"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := VerifyPayment(tc.secret, tc.order, tc.payment, tc.sig); !errors.Is(err, ErrInvalidSignature) {
				t.Fatalf("expected ErrInvalidSignature, got %v", err)
			}
		})
	}
}

func TestVerifyWebhook(t *testing.T) {
	body := []byte(`{"entry":[]}`)
	header := WebhookHeader("app_secret", body)
	if !strings.HasPrefix(header, "sha256=") {
		t.Fatalf("unexpected header: %s", header)
	}

	if err := VerifyWebhook("app_secret", body, header); err != nil {
		t.Fatalf("verify webhook: %v", err)
	}
	if err := VerifyWebhook("app_secret", []byte(`{"entry":[1]}`), header); !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("expected mismatch, got %v", err)
	}
	if err := VerifyWebhook("app_secret", body, strings.TrimPrefix(header, "sha256=")); !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("expected missing prefix to fail, got %v", err)
	}
	if err := VerifyWebhook("app_secret", body, ""); !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("expected empty header to fail, got %v", err)
	}
}

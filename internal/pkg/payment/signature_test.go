package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"
)

func signBody(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyWebhookSignature(t *testing.T) {
	payload := []byte(`{"orderReference":"ORD-1","transactionStatus":"SUCCESS"}`)
	secret := "webhook-secret"

	if !VerifyWebhookSignature(payload, signBody(payload, secret), secret, false) {
		t.Fatalf("expected valid signature to verify")
	}
	if VerifyWebhookSignature(payload, signBody(payload, "wrong-secret"), secret, false) {
		t.Fatalf("expected signature with wrong secret to fail")
	}
	if VerifyWebhookSignature([]byte(`tampered`), signBody(payload, secret), secret, false) {
		t.Fatalf("expected tampered payload to fail")
	}
	if VerifyWebhookSignature(payload, "", secret, false) {
		t.Fatalf("expected missing signature to fail when secret is set")
	}
	if VerifyWebhookSignature(payload, "not-hex!", secret, false) {
		t.Fatalf("expected malformed signature to fail")
	}
}

func TestVerifyWebhookSignatureUppercaseHex(t *testing.T) {
	payload := []byte(`{"a":1}`)
	secret := "s"

	upper := signBody(payload, secret)
	for i, ch := range upper {
		if ch >= 'a' && ch <= 'f' {
			upper = upper[:i] + string(ch-32) + upper[i+1:]
		}
	}
	if !VerifyWebhookSignature(payload, upper, secret, false) {
		t.Fatalf("expected uppercase hex signature to verify")
	}
}

func TestVerifyWebhookSignatureUnsetSecret(t *testing.T) {
	payload := []byte(`{}`)

	// Sandbox: unset secret skips verification.
	if !VerifyWebhookSignature(payload, "", "", true) {
		t.Fatalf("expected unsigned delivery to pass with allowUnsigned")
	}
	// Production: unset secret rejects everything rather than accepting everything.
	if VerifyWebhookSignature(payload, "", "", false) {
		t.Fatalf("expected unsigned delivery to fail without allowUnsigned")
	}
	if VerifyWebhookSignature(payload, signBody(payload, "anything"), "", false) {
		t.Fatalf("expected signed delivery to fail when no secret is configured in production")
	}
}

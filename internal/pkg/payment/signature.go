package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// VerifyWebhookSignature authenticates an inbound gateway notification. The
// signature header carries a hex-encoded HMAC-SHA256 of the raw body keyed by
// the shared webhook secret; comparison is constant time.
//
// When no secret is configured, allowUnsigned decides the outcome: sandbox
// deployments pass it as true so the demo stays drivable, production must pass
// false so an unconfigured secret rejects every delivery instead of accepting
// all of them.
func VerifyWebhookSignature(payload []byte, signatureHeader, webhookSecret string, allowUnsigned bool) bool {
	secret := strings.TrimSpace(webhookSecret)
	if secret == "" {
		return allowUnsigned
	}

	sig := strings.TrimSpace(signatureHeader)
	if sig == "" {
		return false
	}
	decoded, err := hex.DecodeString(strings.ToLower(sig))
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hmac.Equal(mac.Sum(nil), decoded)
}

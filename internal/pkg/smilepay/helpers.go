package smilepay

import (
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/TinasheMavura/SmileCheckout/app/models"
)

var currencyCodes = map[string]string{
	models.CurrencyUSD: "840",
	models.CurrencyZWG: "924",
}

var paymentMethodMap = map[string]string{
	models.PaymentMethodVisaMastercard: "CARD",
	models.PaymentMethodEcoCash:        "ECOCASH",
	models.PaymentMethodInnbucks:       "INNBUCKS",
	models.PaymentMethodOmari:          "OMARI",
	models.PaymentMethodSmileCash:      "WALLETPLUS",
}

// FormatCurrencyCode translates a currency to the gateway's ISO 4217 numeric
// string. Unknown input defaults to USD ("840").
func FormatCurrencyCode(currency string) string {
	if code, ok := currencyCodes[currency]; ok {
		return code
	}
	return "840"
}

// MapPaymentMethod translates a local payment-method code into the gateway's
// vocabulary. Unknown codes map to an empty string.
func MapPaymentMethod(code string) string {
	return paymentMethodMap[code]
}

const base36Alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// GenerateOrderReference produces an ORD-<base36 timestamp>-<6 random base36>
// reference, upper-cased. Collision-resistant in practice, not
// cryptographically unique; callers that need a hard guarantee must check the
// ledger and retry.
func GenerateOrderReference() string {
	timestamp := strconv.FormatInt(time.Now().UnixMilli(), 36)

	random := make([]byte, 6)
	for i := range random {
		random[i] = base36Alphabet[rand.Intn(len(base36Alphabet))]
	}

	return strings.ToUpper("ORD-" + timestamp + "-" + string(random))
}

// MapStatus normalizes a gateway status string to a ledger status. The match
// is case-insensitive and anything unrecognized maps to PENDING: an unknown
// gateway status must never be misread as success or failure.
func MapStatus(status string) string {
	switch strings.ToUpper(strings.TrimSpace(status)) {
	case "SUCCESS", "PAID", "COMPLETED":
		return models.TransactionStatusPaid
	case "FAILED", "ERROR":
		return models.TransactionStatusFailed
	case "CANCELLED", "CANCELED":
		return models.TransactionStatusCancelled
	default:
		return models.TransactionStatusPending
	}
}

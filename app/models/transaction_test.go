package models

import "testing"

func TestIsTerminalStatus(t *testing.T) {
	terminal := []string{TransactionStatusPaid, TransactionStatusFailed, TransactionStatusCancelled}
	for _, status := range terminal {
		if !IsTerminalStatus(status) {
			t.Fatalf("expected %q to be terminal", status)
		}
	}
	if IsTerminalStatus(TransactionStatusPending) {
		t.Fatalf("PENDING must not be terminal")
	}
	if IsTerminalStatus("SETTLED") {
		t.Fatalf("unknown status must not be terminal")
	}
}

func TestIsValidStatus(t *testing.T) {
	for _, status := range []string{
		TransactionStatusPending, TransactionStatusPaid,
		TransactionStatusFailed, TransactionStatusCancelled,
	} {
		if !IsValidStatus(status) {
			t.Fatalf("expected %q to be valid", status)
		}
	}
	for _, status := range []string{"", "paid", "SETTLED"} {
		if IsValidStatus(status) {
			t.Fatalf("expected %q to be invalid", status)
		}
	}
}

func TestIsValidPaymentMethod(t *testing.T) {
	for _, code := range []string{
		PaymentMethodEcoCash, PaymentMethodVisaMastercard,
		PaymentMethodInnbucks, PaymentMethodOmari, PaymentMethodSmileCash,
	} {
		if !IsValidPaymentMethod(code) {
			t.Fatalf("expected %q to be a valid payment method", code)
		}
	}
	if IsValidPaymentMethod("PAYPAL") || IsValidPaymentMethod("") {
		t.Fatalf("unknown codes must be invalid")
	}
}

func TestIsValidCurrency(t *testing.T) {
	if !IsValidCurrency(CurrencyUSD) || !IsValidCurrency(CurrencyZWG) {
		t.Fatalf("expected USD and ZWG to be valid")
	}
	if IsValidCurrency("EUR") || IsValidCurrency("usd") {
		t.Fatalf("expected unknown currencies to be invalid")
	}
}

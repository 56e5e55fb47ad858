package payment

import (
	"time"

	"github.com/TinasheMavura/SmileCheckout/internal/pkg/smilepay"
)

// CustomerDetails is validated at intake for every checkout flavor.
type CustomerDetails struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"required"`
}

// StandardCheckoutIntent starts a hosted-page checkout.
type StandardCheckoutIntent struct {
	Amount          float64         `json:"amount" validate:"required,gt=0"`
	CurrencyCode    string          `json:"currency_code" validate:"required,oneof=USD ZWG"`
	OrderReference  string          `json:"order_reference" validate:"omitempty,max=64"`
	Customer        CustomerDetails `json:"customer" validate:"required"`
	ReturnURL       string          `json:"return_url" validate:"required,url"`
	ResultURL       string          `json:"result_url" validate:"required,url"`
	CancelURL       string          `json:"cancel_url" validate:"omitempty,url"`
	FailureURL      string          `json:"failure_url" validate:"omitempty,url"`
	ItemName        string          `json:"item_name"`
	ItemDescription string          `json:"item_description"`
	PaymentMethod   string          `json:"payment_method" validate:"omitempty,payment_method"`
}

// EcoCashIntent starts an express EcoCash USSD push.
type EcoCashIntent struct {
	Amount          float64         `json:"amount" validate:"required,gt=0"`
	CurrencyCode    string          `json:"currency_code" validate:"required,oneof=USD ZWG"`
	OrderReference  string          `json:"order_reference" validate:"omitempty,max=64"`
	Customer        CustomerDetails `json:"customer" validate:"required"`
	PhoneNumber     string          `json:"phone_number" validate:"required,ecocash_phone"`
	ReturnURL       string          `json:"return_url" validate:"required,url"`
	ResultURL       string          `json:"result_url" validate:"required,url"`
	CancelURL       string          `json:"cancel_url" validate:"omitempty,url"`
	FailureURL      string          `json:"failure_url" validate:"omitempty,url"`
	ItemName        string          `json:"item_name"`
	ItemDescription string          `json:"item_description"`
}

// CardIntent starts an express card payment with direct PAN entry.
type CardIntent struct {
	Amount          float64         `json:"amount" validate:"required,gt=0"`
	CurrencyCode    string          `json:"currency_code" validate:"required,oneof=USD ZWG"`
	OrderReference  string          `json:"order_reference" validate:"omitempty,max=64"`
	Customer        CustomerDetails `json:"customer" validate:"required"`
	CardNumber      string          `json:"card_number" validate:"required,card_pan"`
	ExpiryMonth     string          `json:"expiry_month" validate:"required,card_exp_month"`
	ExpiryYear      string          `json:"expiry_year" validate:"required,card_exp_year"`
	CVV             string          `json:"cvv" validate:"required,card_cvv"`
	ReturnURL       string          `json:"return_url" validate:"required,url"`
	ResultURL       string          `json:"result_url" validate:"required,url"`
	CancelURL       string          `json:"cancel_url" validate:"omitempty,url"`
	FailureURL      string          `json:"failure_url" validate:"omitempty,url"`
	ItemName        string          `json:"item_name"`
	ItemDescription string          `json:"item_description"`
}

// PaymentResult is the orchestrator's answer to any initiate flavor. At most
// one of PaymentURL, RedirectHTML and Challenge is set; they are mutually
// exclusive outcomes, never merged.
type PaymentResult struct {
	Success               bool                        `json:"success"`
	TransactionID         string                      `json:"transaction_id"`
	OrderReference        string                      `json:"order_reference"`
	TransactionReference  string                      `json:"transaction_reference,omitempty"`
	PaymentURL            string                      `json:"payment_url,omitempty"`
	Status                string                      `json:"status"`
	Message               string                      `json:"message"`
	RedirectHTML          string                      `json:"redirect_html,omitempty"`
	Challenge             *smilepay.ThreeDS2Challenge `json:"challenge,omitempty"`
	GatewayRecommendation string                      `json:"gateway_recommendation,omitempty"`
	AuthenticationStatus  string                      `json:"authentication_status,omitempty"`
}

// StatusResult is a point-in-time transaction snapshot for the polling path.
type StatusResult struct {
	OrderReference       string     `json:"order_reference"`
	TransactionReference *string    `json:"transaction_reference"`
	Status               string     `json:"status"`
	Amount               float64    `json:"amount"`
	CurrencyCode         string     `json:"currency_code"`
	PaymentMethod        *string    `json:"payment_method"`
	PaidAt               *time.Time `json:"paid_at"`
	ClientFee            float64    `json:"client_fee,omitempty"`
	MerchantFee          float64    `json:"merchant_fee,omitempty"`
}

// CancelResult reports the outcome of a cancel attempt. ReturnURL is only set
// when the gateway itself confirmed the cancel.
type CancelResult struct {
	Success        bool   `json:"success"`
	OrderReference string `json:"order_reference"`
	Status         string `json:"status"`
	Message        string `json:"message"`
	ReturnURL      string `json:"return_url,omitempty"`
}

// WebhookPayload is the JSON body the gateway pushes to the result URL.
type WebhookPayload struct {
	OrderReference       string  `json:"orderReference"`
	TransactionReference string  `json:"transactionReference,omitempty"`
	TransactionStatus    string  `json:"transactionStatus"`
	Amount               float64 `json:"amount,omitempty"`
	CurrencyCode         string  `json:"currencyCode,omitempty"`
	Simulated            bool    `json:"simulated,omitempty"`
}

// WebhookResult is returned to the gateway after processing a notification.
type WebhookResult struct {
	Success        bool   `json:"success"`
	OrderReference string `json:"order_reference"`
	Status         string `json:"status"`
	Message        string `json:"message"`
}

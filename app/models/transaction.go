package models

import "time"

const (
	TransactionStatusPending   = "PENDING"
	TransactionStatusPaid      = "PAID"
	TransactionStatusFailed    = "FAILED"
	TransactionStatusCancelled = "CANCELLED"
)

const (
	CurrencyUSD = "USD"
	CurrencyZWG = "ZWG"
)

const (
	PaymentMethodEcoCash        = "ECO_CASH"
	PaymentMethodVisaMastercard = "VISA_MASTERCARD"
	PaymentMethodInnbucks       = "INNBUCKS"
	PaymentMethodOmari          = "OMARI"
	PaymentMethodSmileCash      = "SMILE_CASH"
)

// Transaction is the local ledger record for a single payment attempt. One row
// per attempt, never deleted. OrderReference is the merchant-side correlation
// key; TransactionReference is assigned by the gateway and may be overwritten
// by later gateway responses.
type Transaction struct {
	ID                   string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	MerchantID           string     `gorm:"type:varchar(36);not null;index" json:"merchant_id"`
	OrderReference       string     `gorm:"type:varchar(64);not null;uniqueIndex:ux_transactions_order_reference" json:"order_reference"`
	TransactionReference *string    `gorm:"type:varchar(191)" json:"transaction_reference"`
	Amount               float64    `gorm:"type:decimal(12,2);not null" json:"amount"`
	CurrencyCode         string     `gorm:"type:varchar(3);not null" json:"currency_code"`
	PaymentMethod        *string    `gorm:"type:varchar(32);index" json:"payment_method"`
	Status               string     `gorm:"type:varchar(16);not null;default:'PENDING';index" json:"status"`
	CustomerFirstName    string     `gorm:"type:varchar(100);not null" json:"customer_first_name"`
	CustomerLastName     string     `gorm:"type:varchar(100);not null" json:"customer_last_name"`
	CustomerEmail        string     `gorm:"type:varchar(191);not null" json:"customer_email"`
	CustomerPhone        string     `gorm:"type:varchar(32);not null" json:"customer_phone"`
	PaymentURL           *string    `gorm:"type:varchar(512)" json:"payment_url"`
	ReturnURL            string     `gorm:"type:varchar(512);not null" json:"return_url"`
	ResultURL            string     `gorm:"type:varchar(512);not null" json:"result_url"`
	CancelURL            *string    `gorm:"type:varchar(512)" json:"cancel_url"`
	FailureURL           *string    `gorm:"type:varchar(512)" json:"failure_url"`
	CreatedAt            time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt            time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	PaidAt               *time.Time `gorm:"type:timestamp;default:null" json:"paid_at"`
}

// IsTerminalStatus reports whether a status can never be left again through
// the webhook or polling paths.
func IsTerminalStatus(status string) bool {
	switch status {
	case TransactionStatusPaid, TransactionStatusFailed, TransactionStatusCancelled:
		return true
	}
	return false
}

// IsValidStatus reports whether status is one of the four ledger states.
func IsValidStatus(status string) bool {
	return status == TransactionStatusPending || IsTerminalStatus(status)
}

// IsTerminal reports whether the transaction reached a final state.
func (t *Transaction) IsTerminal() bool {
	return IsTerminalStatus(t.Status)
}

// IsValidPaymentMethod reports whether code names a supported payment rail.
func IsValidPaymentMethod(code string) bool {
	switch code {
	case PaymentMethodEcoCash, PaymentMethodVisaMastercard, PaymentMethodInnbucks,
		PaymentMethodOmari, PaymentMethodSmileCash:
		return true
	}
	return false
}

// IsValidCurrency reports whether code is a supported settlement currency.
func IsValidCurrency(code string) bool {
	return code == CurrencyUSD || code == CurrencyZWG
}

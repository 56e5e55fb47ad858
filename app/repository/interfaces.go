package repository

import (
	"time"

	"github.com/TinasheMavura/SmileCheckout/app/models"
)

// TransactionFilter narrows ledger listings. Zero values mean "no filter".
type TransactionFilter struct {
	MerchantID    string
	Status        string
	PaymentMethod string
	StartDate     *time.Time
	EndDate       *time.Time
}

// TransactionUpdate is a partial patch applied to a ledger row. Nil fields are
// left untouched. The paid_at-set-once rule is applied by the repository
// together with the status write, in the same operation.
type TransactionUpdate struct {
	Status               *string
	TransactionReference *string
	PaymentURL           *string
	PaymentMethod        *string
}

// TransactionStats is the aggregate overview for the dashboard. TotalAmount
// sums PAID transactions only.
type TransactionStats struct {
	TotalTransactions   int64   `json:"total_transactions"`
	TotalAmount         float64 `json:"total_amount"`
	PaidTransactions    int64   `json:"paid_transactions"`
	PendingTransactions int64   `json:"pending_transactions"`
	FailedTransactions  int64   `json:"failed_transactions"`
}

// TransactionRepository defines the interface for ledger operations.
type TransactionRepository interface {
	Create(tx *models.Transaction) error
	GetByID(id string) (*models.Transaction, error)
	GetByOrderReference(orderReference string) (*models.Transaction, error)
	List(filter TransactionFilter) ([]models.Transaction, error)
	Update(id string, update TransactionUpdate) (*models.Transaction, error)
	GetStats(merchantID string) (*TransactionStats, error)
}

// WebhookLogRepository defines the interface for the append-only webhook audit
// log. There is deliberately no update or delete.
type WebhookLogRepository interface {
	Create(log *models.WebhookLog) error
	ListByTransactionID(transactionID string) ([]models.WebhookLog, error)
}

// MerchantRepository defines the interface for merchant lookups.
type MerchantRepository interface {
	Create(merchant *models.Merchant) error
	GetByID(id string) (*models.Merchant, error)
	GetDefault() (*models.Merchant, error)
	Count() (int64, error)
}

// PaymentMethodRepository defines the interface for the payment-method catalog.
type PaymentMethodRepository interface {
	Create(pm *models.PaymentMethod) error
	GetByID(id string) (*models.PaymentMethod, error)
	GetByCode(code string) (*models.PaymentMethod, error)
	List() ([]models.PaymentMethod, error)
	ListActive() ([]models.PaymentMethod, error)
	Update(pm *models.PaymentMethod) error
	Count() (int64, error)
}

// Repositories bundles all repository instances.
type Repositories struct {
	Transaction   TransactionRepository
	WebhookLog    WebhookLogRepository
	Merchant      MerchantRepository
	PaymentMethod PaymentMethodRepository
}

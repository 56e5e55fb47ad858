package repository

import (
	"sort"
	"sync"
	"time"

	"github.com/TinasheMavura/SmileCheckout/app/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// In-memory repositories for sandbox mode and tests. They implement the same
// interfaces and return gorm.ErrRecordNotFound so callers keep a single
// not-found check regardless of the backing store.

type memoryStore struct {
	mu             sync.RWMutex
	transactions   map[string]models.Transaction
	webhookLogs    map[string]models.WebhookLog
	merchants      map[string]models.Merchant
	paymentMethods map[string]models.PaymentMethod
}

// NewMemoryRepositories creates a repository set backed by in-process maps.
func NewMemoryRepositories() *Repositories {
	store := &memoryStore{
		transactions:   make(map[string]models.Transaction),
		webhookLogs:    make(map[string]models.WebhookLog),
		merchants:      make(map[string]models.Merchant),
		paymentMethods: make(map[string]models.PaymentMethod),
	}
	return &Repositories{
		Transaction:   &memoryTransactionRepository{store: store},
		WebhookLog:    &memoryWebhookLogRepository{store: store},
		Merchant:      &memoryMerchantRepository{store: store},
		PaymentMethod: &memoryPaymentMethodRepository{store: store},
	}
}

type memoryTransactionRepository struct {
	store *memoryStore
}

func (r *memoryTransactionRepository) Create(tx *models.Transaction) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	if tx.Status == "" {
		tx.Status = models.TransactionStatusPending
	}
	now := time.Now()
	tx.CreatedAt = now
	tx.UpdatedAt = now
	r.store.transactions[tx.ID] = *tx
	return nil
}

func (r *memoryTransactionRepository) GetByID(id string) (*models.Transaction, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	tx, ok := r.store.transactions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &tx, nil
}

func (r *memoryTransactionRepository) GetByOrderReference(orderReference string) (*models.Transaction, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, tx := range r.store.transactions {
		if tx.OrderReference == orderReference {
			out := tx
			return &out, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memoryTransactionRepository) List(filter TransactionFilter) ([]models.Transaction, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var out []models.Transaction
	for _, tx := range r.store.transactions {
		if filter.MerchantID != "" && tx.MerchantID != filter.MerchantID {
			continue
		}
		if filter.Status != "" && tx.Status != filter.Status {
			continue
		}
		if filter.PaymentMethod != "" && (tx.PaymentMethod == nil || *tx.PaymentMethod != filter.PaymentMethod) {
			continue
		}
		if filter.StartDate != nil && tx.CreatedAt.Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && tx.CreatedAt.After(*filter.EndDate) {
			continue
		}
		out = append(out, tx)
	}

	// Newest first, matching the ledger's default listing order.
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *memoryTransactionRepository) Update(id string, update TransactionUpdate) (*models.Transaction, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	tx, ok := r.store.transactions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}

	if update.Status != nil {
		tx.Status = *update.Status
		if tx.Status == models.TransactionStatusPaid && tx.PaidAt == nil {
			now := time.Now()
			tx.PaidAt = &now
		}
	}
	if update.TransactionReference != nil {
		tx.TransactionReference = update.TransactionReference
	}
	if update.PaymentURL != nil {
		tx.PaymentURL = update.PaymentURL
	}
	if update.PaymentMethod != nil {
		tx.PaymentMethod = update.PaymentMethod
	}
	tx.UpdatedAt = time.Now()

	r.store.transactions[id] = tx
	out := tx
	return &out, nil
}

func (r *memoryTransactionRepository) GetStats(merchantID string) (*TransactionStats, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	stats := &TransactionStats{}
	for _, tx := range r.store.transactions {
		if merchantID != "" && tx.MerchantID != merchantID {
			continue
		}
		stats.TotalTransactions++
		switch tx.Status {
		case models.TransactionStatusPaid:
			stats.PaidTransactions++
			stats.TotalAmount += tx.Amount
		case models.TransactionStatusPending:
			stats.PendingTransactions++
		case models.TransactionStatusFailed:
			stats.FailedTransactions++
		}
	}
	return stats, nil
}

type memoryWebhookLogRepository struct {
	store *memoryStore
}

func (r *memoryWebhookLogRepository) Create(log *models.WebhookLog) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	log.CreatedAt = time.Now()
	r.store.webhookLogs[log.ID] = *log
	return nil
}

func (r *memoryWebhookLogRepository) ListByTransactionID(transactionID string) ([]models.WebhookLog, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var out []models.WebhookLog
	for _, log := range r.store.webhookLogs {
		if log.TransactionID == transactionID {
			out = append(out, log)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

type memoryMerchantRepository struct {
	store *memoryStore
}

func (r *memoryMerchantRepository) Create(merchant *models.Merchant) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if merchant.ID == "" {
		merchant.ID = uuid.NewString()
	}
	merchant.CreatedAt = time.Now()
	r.store.merchants[merchant.ID] = *merchant
	return nil
}

func (r *memoryMerchantRepository) GetByID(id string) (*models.Merchant, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	m, ok := r.store.merchants[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &m, nil
}

func (r *memoryMerchantRepository) GetDefault() (*models.Merchant, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var best *models.Merchant
	for _, m := range r.store.merchants {
		if !m.IsActive {
			continue
		}
		candidate := m
		if best == nil || candidate.CreatedAt.Before(best.CreatedAt) {
			best = &candidate
		}
	}
	if best == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return best, nil
}

func (r *memoryMerchantRepository) Count() (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return int64(len(r.store.merchants)), nil
}

type memoryPaymentMethodRepository struct {
	store *memoryStore
}

func (r *memoryPaymentMethodRepository) Create(pm *models.PaymentMethod) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if pm.ID == "" {
		pm.ID = uuid.NewString()
	}
	now := time.Now()
	pm.CreatedAt = now
	pm.UpdatedAt = now
	r.store.paymentMethods[pm.ID] = *pm
	return nil
}

func (r *memoryPaymentMethodRepository) GetByID(id string) (*models.PaymentMethod, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	pm, ok := r.store.paymentMethods[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &pm, nil
}

func (r *memoryPaymentMethodRepository) GetByCode(code string) (*models.PaymentMethod, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, pm := range r.store.paymentMethods {
		if pm.Code == code {
			out := pm
			return &out, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memoryPaymentMethodRepository) List() ([]models.PaymentMethod, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]models.PaymentMethod, 0, len(r.store.paymentMethods))
	for _, pm := range r.store.paymentMethods {
		out = append(out, pm)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *memoryPaymentMethodRepository) ListActive() ([]models.PaymentMethod, error) {
	all, err := r.List()
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, pm := range all {
		if pm.IsActive {
			out = append(out, pm)
		}
	}
	return out, nil
}

func (r *memoryPaymentMethodRepository) Update(pm *models.PaymentMethod) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.paymentMethods[pm.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	pm.UpdatedAt = time.Now()
	r.store.paymentMethods[pm.ID] = *pm
	return nil
}

func (r *memoryPaymentMethodRepository) Count() (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return int64(len(r.store.paymentMethods)), nil
}

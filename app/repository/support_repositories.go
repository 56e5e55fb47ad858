package repository

import (
	"github.com/TinasheMavura/SmileCheckout/app/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// webhookLogRepository implements WebhookLogRepository backed by GORM.
type webhookLogRepository struct {
	db *gorm.DB
}

// NewWebhookLogRepository creates a new webhook log repository instance.
func NewWebhookLogRepository(db *gorm.DB) WebhookLogRepository {
	return &webhookLogRepository{db: db}
}

func (r *webhookLogRepository) Create(log *models.WebhookLog) error {
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	return r.db.Create(log).Error
}

func (r *webhookLogRepository) ListByTransactionID(transactionID string) ([]models.WebhookLog, error) {
	var logs []models.WebhookLog
	err := r.db.Where("transaction_id = ?", transactionID).
		Order("created_at DESC").Find(&logs).Error
	return logs, err
}

// merchantRepository implements MerchantRepository backed by GORM.
type merchantRepository struct {
	db *gorm.DB
}

// NewMerchantRepository creates a new merchant repository instance.
func NewMerchantRepository(db *gorm.DB) MerchantRepository {
	return &merchantRepository{db: db}
}

func (r *merchantRepository) Create(merchant *models.Merchant) error {
	if merchant.ID == "" {
		merchant.ID = uuid.NewString()
	}
	return r.db.Create(merchant).Error
}

func (r *merchantRepository) GetByID(id string) (*models.Merchant, error) {
	var m models.Merchant
	if err := r.db.Where("id = ?", id).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// GetDefault returns the deployment's single active merchant (oldest active
// row wins when several exist).
func (r *merchantRepository) GetDefault() (*models.Merchant, error) {
	var m models.Merchant
	if err := r.db.Where("is_active = ?", true).Order("created_at ASC").First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *merchantRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Merchant{}).Count(&count).Error
	return count, err
}

// paymentMethodRepository implements PaymentMethodRepository backed by GORM.
type paymentMethodRepository struct {
	db *gorm.DB
}

// NewPaymentMethodRepository creates a new payment method repository instance.
func NewPaymentMethodRepository(db *gorm.DB) PaymentMethodRepository {
	return &paymentMethodRepository{db: db}
}

func (r *paymentMethodRepository) Create(pm *models.PaymentMethod) error {
	if pm.ID == "" {
		pm.ID = uuid.NewString()
	}
	return r.db.Create(pm).Error
}

func (r *paymentMethodRepository) GetByID(id string) (*models.PaymentMethod, error) {
	var pm models.PaymentMethod
	if err := r.db.Where("id = ?", id).First(&pm).Error; err != nil {
		return nil, err
	}
	return &pm, nil
}

func (r *paymentMethodRepository) GetByCode(code string) (*models.PaymentMethod, error) {
	var pm models.PaymentMethod
	if err := r.db.Where("code = ?", code).First(&pm).Error; err != nil {
		return nil, err
	}
	return &pm, nil
}

func (r *paymentMethodRepository) List() ([]models.PaymentMethod, error) {
	var pms []models.PaymentMethod
	err := r.db.Order("created_at ASC").Find(&pms).Error
	return pms, err
}

func (r *paymentMethodRepository) ListActive() ([]models.PaymentMethod, error) {
	var pms []models.PaymentMethod
	err := r.db.Where("is_active = ?", true).Order("created_at ASC").Find(&pms).Error
	return pms, err
}

func (r *paymentMethodRepository) Update(pm *models.PaymentMethod) error {
	return r.db.Save(pm).Error
}

func (r *paymentMethodRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.PaymentMethod{}).Count(&count).Error
	return count, err
}

// NewRepositories creates all GORM-backed repository instances.
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Transaction:   NewTransactionRepository(db),
		WebhookLog:    NewWebhookLogRepository(db),
		Merchant:      NewMerchantRepository(db),
		PaymentMethod: NewPaymentMethodRepository(db),
	}
}

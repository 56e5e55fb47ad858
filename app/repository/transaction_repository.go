package repository

import (
	"time"

	"github.com/TinasheMavura/SmileCheckout/app/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// transactionRepository implements TransactionRepository backed by GORM.
type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository instance.
func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Create(tx *models.Transaction) error {
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	if tx.Status == "" {
		tx.Status = models.TransactionStatusPending
	}
	return r.db.Create(tx).Error
}

func (r *transactionRepository) GetByID(id string) (*models.Transaction, error) {
	var tx models.Transaction
	if err := r.db.Where("id = ?", id).First(&tx).Error; err != nil {
		return nil, err
	}
	return &tx, nil
}

func (r *transactionRepository) GetByOrderReference(orderReference string) (*models.Transaction, error) {
	var tx models.Transaction
	if err := r.db.Where("order_reference = ?", orderReference).First(&tx).Error; err != nil {
		return nil, err
	}
	return &tx, nil
}

func (r *transactionRepository) List(filter TransactionFilter) ([]models.Transaction, error) {
	query := r.db.Model(&models.Transaction{})
	if filter.MerchantID != "" {
		query = query.Where("merchant_id = ?", filter.MerchantID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.PaymentMethod != "" {
		query = query.Where("payment_method = ?", filter.PaymentMethod)
	}
	if filter.StartDate != nil {
		query = query.Where("created_at >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("created_at <= ?", *filter.EndDate)
	}

	var txs []models.Transaction
	err := query.Order("created_at DESC").Find(&txs).Error
	return txs, err
}

// Update applies a partial patch. When the patch moves status to PAID and
// paid_at is still unset, paid_at is written in the same statement so no
// reader can observe status=PAID with a null paid_at.
func (r *transactionRepository) Update(id string, update TransactionUpdate) (*models.Transaction, error) {
	var updated models.Transaction
	err := r.db.Transaction(func(dbtx *gorm.DB) error {
		var current models.Transaction
		if err := dbtx.Where("id = ?", id).First(&current).Error; err != nil {
			return err
		}

		updates := map[string]interface{}{}
		if update.Status != nil {
			updates["status"] = *update.Status
			if *update.Status == models.TransactionStatusPaid && current.PaidAt == nil {
				now := time.Now()
				updates["paid_at"] = &now
			}
		}
		if update.TransactionReference != nil {
			updates["transaction_reference"] = *update.TransactionReference
		}
		if update.PaymentURL != nil {
			updates["payment_url"] = *update.PaymentURL
		}
		if update.PaymentMethod != nil {
			updates["payment_method"] = *update.PaymentMethod
		}

		if len(updates) > 0 {
			if err := dbtx.Model(&models.Transaction{}).Where("id = ?", id).Updates(updates).Error; err != nil {
				return err
			}
		}
		return dbtx.Where("id = ?", id).First(&updated).Error
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *transactionRepository) GetStats(merchantID string) (*TransactionStats, error) {
	base := r.db.Model(&models.Transaction{})
	if merchantID != "" {
		base = base.Where("merchant_id = ?", merchantID)
	}

	stats := &TransactionStats{}
	if err := base.Session(&gorm.Session{}).Count(&stats.TotalTransactions).Error; err != nil {
		return nil, err
	}

	countByStatus := func(status string, dest *int64) error {
		return base.Session(&gorm.Session{}).Where("status = ?", status).Count(dest).Error
	}
	if err := countByStatus(models.TransactionStatusPaid, &stats.PaidTransactions); err != nil {
		return nil, err
	}
	if err := countByStatus(models.TransactionStatusPending, &stats.PendingTransactions); err != nil {
		return nil, err
	}
	if err := countByStatus(models.TransactionStatusFailed, &stats.FailedTransactions); err != nil {
		return nil, err
	}

	var total *float64
	if err := base.Session(&gorm.Session{}).
		Where("status = ?", models.TransactionStatusPaid).
		Select("SUM(amount)").Scan(&total).Error; err != nil {
		return nil, err
	}
	if total != nil {
		stats.TotalAmount = *total
	}
	return stats, nil
}

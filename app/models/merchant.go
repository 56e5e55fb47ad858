package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Merchant scopes transactions and holds gateway credentials. This deployment
// assumes exactly one active merchant; the orchestrator always operates
// against the first active row.
type Merchant struct {
	ID         string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name       string    `gorm:"type:varchar(191);not null" json:"name"`
	APIKeyHash string    `gorm:"type:varchar(191);not null" json:"-"`
	WebhookURL *string   `gorm:"type:varchar(512)" json:"webhook_url"`
	IsActive   bool      `gorm:"default:true;index" json:"is_active"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// HashMerchantAPIKey derives the stored hash for a merchant API key.
func HashMerchantAPIKey(apiKey string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(apiKey), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckAPIKey compares a presented API key against the stored hash.
func (m *Merchant) CheckAPIKey(apiKey string) bool {
	return bcrypt.CompareHashAndPassword([]byte(m.APIKeyHash), []byte(apiKey)) == nil
}

package models

import "time"

// PaymentMethod is a togglable catalog entry consulted when listing methods to
// present to the payer. It does not drive orchestration beyond active/inactive
// filtering; per-method amount bounds are advisory UI limits.
type PaymentMethod struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(100);not null" json:"name"`
	Code      string    `gorm:"type:varchar(32);not null;uniqueIndex:ux_payment_methods_code" json:"code"`
	IsActive  bool      `gorm:"default:true;index" json:"is_active"`
	MinAmount float64   `gorm:"type:decimal(12,2);default:0" json:"min_amount"`
	MaxAmount float64   `gorm:"type:decimal(12,2);default:0" json:"max_amount"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

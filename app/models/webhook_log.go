package models

import "time"

// WebhookLogUnknownTransaction is the sentinel transaction id used when an
// inbound gateway notification cannot be matched to a ledger row. Such
// notifications are still persisted for later investigation.
const WebhookLogUnknownTransaction = "unknown"

// WebhookLog is an append-only audit record of every inbound gateway
// notification (including simulated ones). Rows are never mutated or deleted.
type WebhookLog struct {
	ID            string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	TransactionID string    `gorm:"type:varchar(36);not null;index" json:"transaction_id"`
	Payload       string    `gorm:"type:longtext;not null" json:"payload"`
	Response      string    `gorm:"type:text" json:"response"`
	StatusCode    *int      `json:"status_code"`
	CreatedAt     time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

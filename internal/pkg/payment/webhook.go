package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/TinasheMavura/SmileCheckout/app/models"
	"github.com/TinasheMavura/SmileCheckout/app/repository"
	"github.com/TinasheMavura/SmileCheckout/internal/pkg/smilepay"
	"github.com/TinasheMavura/SmileCheckout/internal/pkg/statistics"
	"gorm.io/gorm"
)

// HandleWebhook processes an inbound gateway notification. Every delivery that
// passes the signature check is persisted to the audit log, including ones for
// unknown orders and ones rejected by the terminal-state guard; only deliveries
// failing authentication leave no trace in the ledger.
func (s *Service) HandleWebhook(ctx context.Context, rawBody []byte, signatureHeader string) (*WebhookResult, error) {
	if !VerifyWebhookSignature(rawBody, signatureHeader, s.cfg.WebhookSecret, s.cfg.AllowUnsignedWebhooks) {
		return nil, &AuthenticationError{Message: "invalid webhook signature"}
	}

	var payload WebhookPayload
	if err := json.Unmarshal(rawBody, &payload); err != nil {
		return nil, &ValidationError{Field: "payload", Message: "must be valid JSON"}
	}
	if payload.OrderReference == "" {
		return nil, &ValidationError{Field: "orderReference", Message: "is required"}
	}

	tx, err := s.repos.Transaction.GetByOrderReference(payload.OrderReference)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.appendWebhookLog(models.WebhookLogUnknownTransaction, rawBody, "Transaction not found", 404)
			return nil, ErrNotFound
		}
		return nil, err
	}

	mapped := smilepay.MapStatus(payload.TransactionStatus)

	// Terminal states are final; a late or duplicate notification must not
	// move the ledger. The delivery is still recorded for investigation.
	if tx.IsTerminal() && mapped != tx.Status {
		response := fmt.Sprintf("Ignored: transaction already %s", tx.Status)
		s.appendWebhookLog(tx.ID, rawBody, response, 409)
		log.Printf("webhook conflict for order %s: %s -> %s rejected", tx.OrderReference, tx.Status, mapped)
		return nil, &InvalidStateError{Action: "update", Current: tx.Status}
	}

	update := repository.TransactionUpdate{Status: &mapped}
	if payload.TransactionReference != "" {
		update.TransactionReference = &payload.TransactionReference
	}
	tx, err = s.repos.Transaction.Update(tx.ID, update)
	if err != nil {
		return nil, err
	}
	statistics.InvalidateTransactionStats(tx.MerchantID)

	s.appendWebhookLog(tx.ID, rawBody, "Webhook processed", 200)
	return &WebhookResult{
		Success:        true,
		OrderReference: tx.OrderReference,
		Status:         tx.Status,
		Message:        "Webhook processed",
	}, nil
}

// Simulate forces a transaction into the given status and records a synthetic
// gateway notification. It exists for sandbox demos only and is not routed in
// production.
func (s *Service) Simulate(ctx context.Context, orderReference, status string) (*WebhookResult, error) {
	if !models.IsValidStatus(status) {
		return nil, &ValidationError{Field: "status", Message: "must be one of PENDING PAID FAILED CANCELLED"}
	}

	tx, err := s.repos.Transaction.GetByOrderReference(orderReference)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	tx, err = s.repos.Transaction.Update(tx.ID, repository.TransactionUpdate{Status: &status})
	if err != nil {
		return nil, err
	}
	statistics.InvalidateTransactionStats(tx.MerchantID)

	payload, _ := json.Marshal(WebhookPayload{
		OrderReference:       tx.OrderReference,
		TransactionReference: derefOrEmpty(tx.TransactionReference),
		TransactionStatus:    status,
		Amount:               tx.Amount,
		CurrencyCode:         tx.CurrencyCode,
		Simulated:            true,
	})
	s.appendWebhookLog(tx.ID, payload, "Simulated webhook", 200)

	return &WebhookResult{
		Success:        true,
		OrderReference: tx.OrderReference,
		Status:         tx.Status,
		Message:        fmt.Sprintf("Transaction status set to %s (simulated)", status),
	}, nil
}

// appendWebhookLog persists an audit row; failures are logged and swallowed so
// the notification outcome is never hidden behind a logging error.
func (s *Service) appendWebhookLog(transactionID string, payload []byte, response string, statusCode int) {
	entry := &models.WebhookLog{
		TransactionID: transactionID,
		Payload:       string(payload),
		Response:      response,
		StatusCode:    &statusCode,
	}
	if err := s.repos.WebhookLog.Create(entry); err != nil {
		log.Printf("failed to persist webhook log for transaction %s: %v", transactionID, err)
	}
}

func derefOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

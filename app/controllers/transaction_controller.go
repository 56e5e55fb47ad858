package controllers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/TinasheMavura/SmileCheckout/app/models"
	"github.com/TinasheMavura/SmileCheckout/app/repository"
	"github.com/TinasheMavura/SmileCheckout/internal/pkg/statistics"
)

func merchantIDFromContext(c *fiber.Ctx) string {
	if id, ok := c.Locals("MERCHANT_ID").(string); ok {
		return id
	}
	return ""
}

// parseDateQuery accepts RFC3339 or plain dates (2026-01-31).
func parseDateQuery(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// HandleListTransactions returns the merchant's ledger, newest first.
func HandleListTransactions(c *fiber.Ctx) error {
	filter := repository.TransactionFilter{
		MerchantID:    merchantIDFromContext(c),
		Status:        c.Query("status"),
		PaymentMethod: c.Query("payment_method"),
	}

	if filter.Status != "" && !models.IsValidStatus(filter.Status) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "validation_error",
			"field":   "status",
			"message": "must be one of PENDING PAID FAILED CANCELLED",
		})
	}

	start, err := parseDateQuery(c.Query("start_date"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "validation_error",
			"field":   "start_date",
			"message": "must be an RFC3339 timestamp or YYYY-MM-DD date",
		})
	}
	end, err := parseDateQuery(c.Query("end_date"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "validation_error",
			"field":   "end_date",
			"message": "must be an RFC3339 timestamp or YYYY-MM-DD date",
		})
	}
	filter.StartDate = start
	filter.EndDate = end

	transactions, err := repository.GetGlobalRepositories().Transaction.List(filter)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(fiber.Map{
		"transactions": transactions,
		"count":        len(transactions),
	})
}

// HandleGetTransaction returns a single ledger row by id or order reference.
func HandleGetTransaction(c *fiber.Ctx) error {
	repo := repository.GetGlobalRepositories().Transaction
	id := c.Params("id")

	tx, err := repo.GetByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		tx, err = repo.GetByOrderReference(id)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error":   "not_found",
				"message": "Transaction not found",
			})
		}
		return jsonError(c, err)
	}
	return c.JSON(tx)
}

// HandleTransactionStats returns the cached aggregate overview.
func HandleTransactionStats(c *fiber.Ctx) error {
	stats, err := statistics.GetTransactionStats(repository.GetGlobalRepositories(), merchantIDFromContext(c))
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(stats)
}

// HandleTransactionWebhookLogs returns the audit trail of gateway
// notifications recorded for a transaction.
func HandleTransactionWebhookLogs(c *fiber.Ctx) error {
	repos := repository.GetGlobalRepositories()

	tx, err := repos.Transaction.GetByID(c.Params("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error":   "not_found",
				"message": "Transaction not found",
			})
		}
		return jsonError(c, err)
	}

	logs, err := repos.WebhookLog.ListByTransactionID(tx.ID)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(fiber.Map{
		"transaction_id": tx.ID,
		"webhooks":       logs,
	})
}

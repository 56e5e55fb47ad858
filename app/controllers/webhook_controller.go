package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/TinasheMavura/SmileCheckout/internal/pkg/payment"
)

// WebhookSignatureHeader carries the hex HMAC-SHA256 of the raw request body.
const WebhookSignatureHeader = "X-Webhook-Signature"

// HandlePaymentWebhook ingests a gateway notification. The raw body is passed
// through untouched so the signature check covers exactly the bytes sent.
func HandlePaymentWebhook(c *fiber.Ctx) error {
	result, err := paymentService.HandleWebhook(c.UserContext(), c.Body(), c.Get(WebhookSignatureHeader))
	if err != nil {
		// A notification for an already-final transaction is acknowledged with
		// 409 so the gateway stops retrying it.
		var serr *payment.InvalidStateError
		if errors.As(err, &serr) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error":   "conflict",
				"message": serr.Error(),
			})
		}
		return jsonError(c, err)
	}
	return c.JSON(result)
}

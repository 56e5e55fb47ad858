package controllers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/TinasheMavura/SmileCheckout/internal/pkg/payment"
)

var paymentService *payment.Service

// InitializePaymentControllers wires the shared orchestrator into the handler
// functions. Must be called before any route is registered.
func InitializePaymentControllers(svc *payment.Service) {
	paymentService = svc
}

// jsonError translates orchestrator errors into API responses. Webhook-specific
// status codes (401 signature, 409 terminal conflict) are handled by the
// webhook handler before falling through to this mapping.
func jsonError(c *fiber.Ctx, err error) error {
	var verr *payment.ValidationError
	if errors.As(err, &verr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "validation_error",
			"field":   verr.Field,
			"message": verr.Message,
		})
	}

	var serr *payment.InvalidStateError
	if errors.As(err, &serr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "invalid_state",
			"message": serr.Error(),
		})
	}

	var aerr *payment.AuthenticationError
	if errors.As(err, &aerr) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":   "unauthorized",
			"message": aerr.Message,
		})
	}

	if errors.Is(err, payment.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   "not_found",
			"message": "Transaction not found",
		})
	}

	if errors.Is(err, payment.ErrMerchantNotFound) {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "merchant_not_configured",
			"message": "No active merchant is configured",
		})
	}

	log.Printf("unhandled payment error: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error":   "internal_server_error",
		"message": "Something went wrong",
	})
}

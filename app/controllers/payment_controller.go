package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/TinasheMavura/SmileCheckout/internal/pkg/payment"
)

// HandleInitiatePayment starts a standard (hosted page) checkout.
func HandleInitiatePayment(c *fiber.Ctx) error {
	var intent payment.StandardCheckoutIntent
	if err := c.BodyParser(&intent); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "validation_error",
			"message": "Request body must be valid JSON",
		})
	}

	result, err := paymentService.InitiateStandard(c.UserContext(), intent)
	if err != nil {
		return jsonError(c, err)
	}
	if !result.Success {
		return c.Status(fiber.StatusBadGateway).JSON(result)
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}

// HandleEcoCashExpress starts an express EcoCash USSD push.
func HandleEcoCashExpress(c *fiber.Ctx) error {
	var intent payment.EcoCashIntent
	if err := c.BodyParser(&intent); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "validation_error",
			"message": "Request body must be valid JSON",
		})
	}

	result, err := paymentService.ExpressEcoCash(c.UserContext(), intent)
	if err != nil {
		return jsonError(c, err)
	}
	if !result.Success {
		return c.Status(fiber.StatusBadGateway).JSON(result)
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}

// HandleCardExpress starts an express card payment. Card details pass through
// to the gateway and are never persisted or logged.
func HandleCardExpress(c *fiber.Ctx) error {
	var intent payment.CardIntent
	if err := c.BodyParser(&intent); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "validation_error",
			"message": "Request body must be valid JSON",
		})
	}

	result, err := paymentService.ExpressCard(c.UserContext(), intent)
	if err != nil {
		return jsonError(c, err)
	}
	if !result.Success {
		return c.Status(fiber.StatusBadGateway).JSON(result)
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}

// HandleCheckStatus polls the current state of a payment by order reference.
func HandleCheckStatus(c *fiber.Ctx) error {
	result, err := paymentService.CheckStatus(c.UserContext(), c.Params("orderReference"))
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(result)
}

// HandleCancelPayment aborts a pending payment.
func HandleCancelPayment(c *fiber.Ctx) error {
	result, err := paymentService.Cancel(c.UserContext(), c.Params("orderReference"))
	if err != nil {
		return jsonError(c, err)
	}
	if !result.Success {
		return c.Status(fiber.StatusBadGateway).JSON(result)
	}
	return c.JSON(result)
}

// HandleSimulatePayment forces a transaction into a chosen status. Only routed
// outside production.
func HandleSimulatePayment(c *fiber.Ctx) error {
	var body struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "validation_error",
			"message": "Request body must be valid JSON",
		})
	}

	result, err := paymentService.Simulate(c.UserContext(), c.Params("orderReference"), body.Status)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(result)
}

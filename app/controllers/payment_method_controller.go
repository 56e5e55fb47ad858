package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/TinasheMavura/SmileCheckout/app/repository"
)

// HandleListPaymentMethods returns the active payment-method catalog. The
// merchant dashboard passes ?all=true to see disabled entries too.
func HandleListPaymentMethods(c *fiber.Ctx) error {
	repo := repository.GetGlobalRepositories().PaymentMethod

	var err error
	var methods interface{}
	if c.QueryBool("all") {
		methods, err = repo.List()
	} else {
		methods, err = repo.ListActive()
	}
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(fiber.Map{"payment_methods": methods})
}

// HandleUpdatePaymentMethod toggles or re-limits a catalog entry by code.
func HandleUpdatePaymentMethod(c *fiber.Ctx) error {
	var body struct {
		IsActive  *bool    `json:"is_active"`
		MinAmount *float64 `json:"min_amount"`
		MaxAmount *float64 `json:"max_amount"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "validation_error",
			"message": "Request body must be valid JSON",
		})
	}

	repo := repository.GetGlobalRepositories().PaymentMethod
	pm, err := repo.GetByCode(c.Params("code"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error":   "not_found",
				"message": "Payment method not found",
			})
		}
		return jsonError(c, err)
	}

	if body.IsActive != nil {
		pm.IsActive = *body.IsActive
	}
	if body.MinAmount != nil {
		pm.MinAmount = *body.MinAmount
	}
	if body.MaxAmount != nil {
		pm.MaxAmount = *body.MaxAmount
	}
	if pm.MaxAmount > 0 && pm.MinAmount > pm.MaxAmount {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "validation_error",
			"field":   "min_amount",
			"message": "must not exceed max_amount",
		})
	}

	if err := repo.Update(pm); err != nil {
		return jsonError(c, err)
	}
	return c.JSON(pm)
}

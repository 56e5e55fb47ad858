package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/TinasheMavura/SmileCheckout/app/repository"
)

// HandleCheckoutPage renders the local sandbox payment page. Standard
// checkouts initiated while the gateway is unreachable point their payment URL
// here so the flow stays clickable end to end.
func HandleCheckoutPage(c *fiber.Ctx) error {
	ref := c.Query("ref")
	if ref == "" {
		return c.Status(fiber.StatusBadRequest).Render("checkout_error", fiber.Map{
			"Message": "Missing order reference",
		})
	}

	tx, err := repository.GetGlobalRepositories().Transaction.GetByOrderReference(ref)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).Render("checkout_error", fiber.Map{
				"Message": "Payment not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).Render("checkout_error", fiber.Map{
			"Message": "Something went wrong",
		})
	}

	return c.Render("checkout", fiber.Map{
		"OrderReference": tx.OrderReference,
		"Amount":         tx.Amount,
		"CurrencyCode":   tx.CurrencyCode,
		"Status":         tx.Status,
		"CustomerName":   tx.CustomerFirstName + " " + tx.CustomerLastName,
		"ReturnURL":      tx.ReturnURL,
	})
}

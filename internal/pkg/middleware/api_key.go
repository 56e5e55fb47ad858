package middleware

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/TinasheMavura/SmileCheckout/app/repository"
)

// MerchantAuthMiddleware authenticates requests carrying the merchant API key.
// Listing, stats and catalog management are merchant-facing surfaces; the
// checkout endpoints themselves stay open because the payer drives them.
func MerchantAuthMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		apiKey := extractAPIKeyFromHeader(c)
		if apiKey == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Missing API key"})
		}

		repo := repository.GetGlobalFactory().GetMerchantRepository()
		merchant, err := repo.GetDefault()
		if err != nil {
			log.Printf("merchant lookup failed: %v", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "No active merchant configured"})
		}

		if !merchant.CheckAPIKey(apiKey) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Invalid API key"})
		}

		c.Locals("MERCHANT_ID", merchant.ID)
		return c.Next()
	}
}

func extractAPIKeyFromHeader(c *fiber.Ctx) string {
	apiKey := strings.TrimSpace(c.Get("X-API-Key"))
	if apiKey != "" {
		return apiKey
	}
	auth := strings.TrimSpace(c.Get("Authorization"))
	if strings.HasPrefix(strings.ToLower(auth), "bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return ""
}

package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/TinasheMavura/SmileCheckout/app/controllers"
	"github.com/TinasheMavura/SmileCheckout/internal/pkg/env"
	"github.com/TinasheMavura/SmileCheckout/internal/pkg/middleware"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api", limiter.New(limiter.Config{Max: 60}))
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "SmileCheckout API",
		})
	})

	v1 := api.Group("/v1")

	// Checkout endpoints are payer-driven and unauthenticated.
	payments := v1.Group("/payments")
	payments.Post("/initiate", controllers.HandleInitiatePayment)
	payments.Post("/express/ecocash", controllers.HandleEcoCashExpress)
	payments.Post("/express/card", controllers.HandleCardExpress)
	payments.Get("/:orderReference/status", controllers.HandleCheckStatus)
	payments.Post("/:orderReference/cancel", controllers.HandleCancelPayment)
	if !env.IsProduction() {
		payments.Post("/:orderReference/simulate", controllers.HandleSimulatePayment)
	}

	// Gateway callback, authenticated by signature rather than API key.
	v1.Post("/webhooks/smilepay", controllers.HandlePaymentWebhook)

	// Payer-facing catalog.
	v1.Get("/payment-methods", controllers.HandleListPaymentMethods)

	// Merchant surfaces.
	merchant := v1.Group("", middleware.MerchantAuthMiddleware())
	merchant.Get("/transactions", controllers.HandleListTransactions)
	merchant.Get("/transactions/stats", controllers.HandleTransactionStats)
	merchant.Get("/transactions/:id", controllers.HandleGetTransaction)
	merchant.Get("/transactions/:id/webhooks", controllers.HandleTransactionWebhookLogs)
	merchant.Patch("/payment-methods/:code", controllers.HandleUpdatePaymentMethod)
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}

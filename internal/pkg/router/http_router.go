package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/monitor"

	"github.com/TinasheMavura/SmileCheckout/app/controllers"
)

type HttpRouter struct {
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect("/checkout/payment")
	})

	// Sandbox payment page used as the fallback hosted-checkout target.
	app.Get("/checkout/payment", controllers.HandleCheckoutPage)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	app.Get("/monitor", monitor.New(monitor.Config{Title: "SmileCheckout Metrics"}))
}

func NewHttpRouter() *HttpRouter {
	return &HttpRouter{}
}

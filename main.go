package main

import (
	"fmt"
	"log"

	"github.com/gofiber/contrib/swagger"

	"github.com/TinasheMavura/SmileCheckout/app/controllers"
	"github.com/TinasheMavura/SmileCheckout/app/repository"
	"github.com/TinasheMavura/SmileCheckout/internal/pkg/cache"
	"github.com/TinasheMavura/SmileCheckout/internal/pkg/database"
	"github.com/TinasheMavura/SmileCheckout/internal/pkg/env"
	"github.com/TinasheMavura/SmileCheckout/internal/pkg/payment"
	"github.com/TinasheMavura/SmileCheckout/internal/pkg/router"
	"github.com/TinasheMavura/SmileCheckout/internal/pkg/smilepay"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/template/html/v2"
)

func main() {
	app := NewApplication()
	err := app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000")))
	log.Fatal(err)
}

func NewApplication() *fiber.App {
	env.SetupEnvFile()
	database.SetupDatabase()
	cache.SetupCache()

	repository.InitializeFactory(database.GetDB())
	repos := repository.GetGlobalRepositories()
	if err := database.SeedDefaults(repos); err != nil {
		log.Fatalf("failed to seed defaults: %v", err)
	}

	gateway := smilepay.NewClientFromEnv()
	svc := payment.NewService(repos, gateway, payment.Config{
		PublicBaseURL:         env.GetEnv("PUBLIC_DOMAIN", "http://localhost:4000"),
		WebhookSecret:         env.GetEnv("SMILEPAY_WEBHOOK_SECRET", ""),
		AllowUnsignedWebhooks: !env.IsProduction(),
	})
	controllers.InitializePaymentControllers(svc)

	engine := html.New("./views", ".html")
	app := fiber.New(fiber.Config{
		Views: engine,
	})
	app.Use(recover.New(), logger.New())
	app.Static("/", "./public/assets")

	// SWAGGER / OPENAPI
	openAPICfg := swagger.Config{
		BasePath: "/docs/api/",
		FilePath: "./public/docs/v1/openapi.yml",
		Path:     "v1",
	}
	app.Use(swagger.New(openAPICfg))

	// ROUTER
	router.InstallRouter(app)

	return app
}

package database

import (
	"fmt"
	"log"
	"time"

	"github.com/TinasheMavura/SmileCheckout/app/models"
	"github.com/TinasheMavura/SmileCheckout/internal/pkg/env"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

const maxRetries = 5
const retryDelay = 5 * time.Second

var DB *gorm.DB

// SetupDatabase connects to MySQL and migrates the schema. When DB_NAME is
// unset the connection is skipped entirely and callers fall back to the
// in-memory ledger, which keeps the sandbox runnable without infrastructure.
func SetupDatabase() {
	if env.GetEnv("DB_NAME", "") == "" {
		log.Println("DB_NAME not set, running with in-memory storage")
		return
	}

	var err error
	// "user:pass@tcp(127.0.0.1:3306)/dbname?charset=utf8mb4&parseTime=True&loc=Local"
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		env.GetEnv("DB_USER", ""),
		env.GetEnv("DB_PASSWORD", ""),
		env.GetEnv("DB_HOST", "127.0.0.1"),
		env.GetEnv("DB_PORT", "3306"),
		env.GetEnv("DB_NAME", ""),
	)

	for i := 0; i < maxRetries; i++ {
		DB, err = gorm.Open(mysql.New(mysql.Config{
			DSN:                       dsn,
			DefaultStringSize:         256,
			DisableDatetimePrecision:  true,
			DontSupportRenameIndex:    true,
			DontSupportRenameColumn:   true,
			SkipInitializeWithVersion: false,
		}), &gorm.Config{})
		if err == nil {
			DB.AutoMigrate(
				&models.Merchant{},
				&models.Transaction{},
				&models.WebhookLog{},
				&models.PaymentMethod{},
			)

			return
		}

		log.Printf("Failed to connect to database (try %d/%d): %v", i+1, maxRetries, err)
		if i < maxRetries-1 {
			log.Printf("Retrying in %v...", retryDelay)
			time.Sleep(retryDelay)
		}
	}

	if err != nil {
		panic(err)
	}
}

// GetDB returns the shared gorm handle, nil when running in-memory.
func GetDB() *gorm.DB {
	return DB
}

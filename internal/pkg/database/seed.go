package database

import (
	"log"

	"github.com/TinasheMavura/SmileCheckout/app/models"
	"github.com/TinasheMavura/SmileCheckout/app/repository"
	"github.com/TinasheMavura/SmileCheckout/internal/pkg/env"
)

// SeedDefaults inserts the demo merchant and the payment-method catalog on
// first boot. It is idempotent: non-empty tables are left untouched, so
// operator edits (toggled methods, changed limits) survive restarts.
func SeedDefaults(repos *repository.Repositories) error {
	if err := seedMerchant(repos); err != nil {
		return err
	}
	return seedPaymentMethods(repos)
}

func seedMerchant(repos *repository.Repositories) error {
	count, err := repos.Merchant.Count()
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	apiKey := env.GetEnv("MERCHANT_API_KEY", "demo-merchant-key")
	hash, err := models.HashMerchantAPIKey(apiKey)
	if err != nil {
		return err
	}

	merchant := &models.Merchant{
		Name:       "Demo Merchant",
		APIKeyHash: hash,
		IsActive:   true,
	}
	if err := repos.Merchant.Create(merchant); err != nil {
		return err
	}
	log.Printf("seeded default merchant %s", merchant.ID)
	return nil
}

func seedPaymentMethods(repos *repository.Repositories) error {
	count, err := repos.PaymentMethod.Count()
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	defaults := []models.PaymentMethod{
		{Name: "EcoCash", Code: models.PaymentMethodEcoCash, IsActive: true, MinAmount: 1, MaxAmount: 10000},
		{Name: "Visa / Mastercard", Code: models.PaymentMethodVisaMastercard, IsActive: true, MinAmount: 1, MaxAmount: 50000},
		{Name: "InnBucks", Code: models.PaymentMethodInnbucks, IsActive: false, MinAmount: 1, MaxAmount: 5000},
		{Name: "O'mari", Code: models.PaymentMethodOmari, IsActive: false, MinAmount: 1, MaxAmount: 5000},
		{Name: "Smile Cash", Code: models.PaymentMethodSmileCash, IsActive: false, MinAmount: 1, MaxAmount: 10000},
	}
	for i := range defaults {
		if err := repos.PaymentMethod.Create(&defaults[i]); err != nil {
			return err
		}
	}
	log.Printf("seeded %d payment methods", len(defaults))
	return nil
}

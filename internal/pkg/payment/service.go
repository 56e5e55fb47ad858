package payment

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/TinasheMavura/SmileCheckout/app/models"
	"github.com/TinasheMavura/SmileCheckout/app/repository"
	"github.com/TinasheMavura/SmileCheckout/internal/pkg/smilepay"
	"github.com/TinasheMavura/SmileCheckout/internal/pkg/statistics"
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

const orderReferenceAttempts = 3

// Config carries the orchestrator's injected settings.
type Config struct {
	// PublicBaseURL is this deployment's externally reachable base URL; the
	// sandbox fallback payment page lives under it.
	PublicBaseURL string
	// WebhookSecret is the shared secret for inbound gateway notifications.
	WebhookSecret string
	// AllowUnsignedWebhooks skips signature checks when no secret is set.
	// Must be false in production.
	AllowUnsignedWebhooks bool
}

// Service is the payment orchestrator: the only component that decides
// business-level outcomes from gateway responses and the only writer of
// transaction state.
type Service struct {
	repos    *repository.Repositories
	gateway  *smilepay.Client
	cfg      Config
	validate *validator.Validate
}

// NewService creates an orchestrator from injected collaborators.
func NewService(repos *repository.Repositories, gateway *smilepay.Client, cfg Config) *Service {
	return &Service{
		repos:    repos,
		gateway:  gateway,
		cfg:      cfg,
		validate: newIntentValidator(),
	}
}

func (s *Service) defaultMerchant() (*models.Merchant, error) {
	merchant, err := s.repos.Merchant.GetDefault()
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMerchantNotFound
		}
		return nil, err
	}
	return merchant, nil
}

// resolveOrderReference returns the caller-supplied reference after a
// uniqueness check, or generates a fresh one, retrying on ledger collision.
func (s *Service) resolveOrderReference(supplied string) (string, error) {
	if supplied != "" {
		if _, err := s.repos.Transaction.GetByOrderReference(supplied); err == nil {
			return "", &ValidationError{Field: "order_reference", Message: "is already in use"}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return "", err
		}
		return supplied, nil
	}

	for i := 0; i < orderReferenceAttempts; i++ {
		ref := smilepay.GenerateOrderReference()
		_, err := s.repos.Transaction.GetByOrderReference(ref)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ref, nil
		}
		if err != nil {
			return "", err
		}
	}
	return "", fmt.Errorf("could not generate a unique order reference after %d attempts", orderReferenceAttempts)
}

func (s *Service) createTransaction(merchantID, orderReference string, amount float64, currency string, customer CustomerDetails, method, returnURL, resultURL, cancelURL, failureURL string) (*models.Transaction, error) {
	tx := &models.Transaction{
		MerchantID:        merchantID,
		OrderReference:    orderReference,
		Amount:            amount,
		CurrencyCode:      currency,
		Status:            models.TransactionStatusPending,
		CustomerFirstName: customer.FirstName,
		CustomerLastName:  customer.LastName,
		CustomerEmail:     customer.Email,
		CustomerPhone:     customer.Phone,
		ReturnURL:         returnURL,
		ResultURL:         resultURL,
	}
	if method != "" {
		tx.PaymentMethod = &method
	}
	if cancelURL != "" {
		tx.CancelURL = &cancelURL
	}
	if failureURL != "" {
		tx.FailureURL = &failureURL
	}
	if err := s.repos.Transaction.Create(tx); err != nil {
		return nil, err
	}
	statistics.InvalidateTransactionStats(merchantID)
	return tx, nil
}

func (s *Service) sandboxPaymentURL(orderReference string) string {
	return s.cfg.PublicBaseURL + "/checkout/payment?ref=" + orderReference
}

func itemNameOrDefault(name string) string {
	if name == "" {
		return "Online payment"
	}
	return name
}

// InitiateStandard validates a hosted-checkout intent, creates the ledger row
// and asks the gateway for a hosted payment page. When the gateway is
// unreachable a local sandbox payment URL and a SIM- reference are persisted
// instead, so the flow stays demoable without live credentials.
func (s *Service) InitiateStandard(ctx context.Context, intent StandardCheckoutIntent) (*PaymentResult, error) {
	if err := s.validateIntent(intent); err != nil {
		return nil, err
	}

	merchant, err := s.defaultMerchant()
	if err != nil {
		return nil, err
	}
	orderReference, err := s.resolveOrderReference(intent.OrderReference)
	if err != nil {
		return nil, err
	}

	tx, err := s.createTransaction(merchant.ID, orderReference, intent.Amount, intent.CurrencyCode,
		intent.Customer, intent.PaymentMethod, intent.ReturnURL, intent.ResultURL, intent.CancelURL, intent.FailureURL)
	if err != nil {
		return nil, err
	}

	req := smilepay.InitiateRequest{
		OrderReference:    orderReference,
		Amount:            intent.Amount,
		ReturnURL:         intent.ReturnURL,
		ResultURL:         intent.ResultURL,
		ItemName:          itemNameOrDefault(intent.ItemName),
		ItemDescription:   intent.ItemDescription,
		CurrencyCode:      smilepay.FormatCurrencyCode(intent.CurrencyCode),
		FirstName:         intent.Customer.FirstName,
		LastName:          intent.Customer.LastName,
		MobilePhoneNumber: intent.Customer.Phone,
		Email:             intent.Customer.Email,
		PaymentMethod:     smilepay.MapPaymentMethod(intent.PaymentMethod),
		CancelURL:         intent.CancelURL,
		FailureURL:        intent.FailureURL,
	}

	resp, err := s.gateway.InitiateStandardCheckout(ctx, req)
	if err != nil {
		if errors.Is(err, smilepay.ErrUnavailable) {
			return s.sandboxInitiateFallback(tx, "SIM", s.sandboxPaymentURL(orderReference), "Payment initiated (sandbox mode)")
		}
		return nil, err
	}

	if resp.Accepted() {
		if _, err := s.repos.Transaction.Update(tx.ID, repository.TransactionUpdate{
			PaymentURL:           &resp.PaymentURL,
			TransactionReference: &resp.TransactionReference,
		}); err != nil {
			return nil, err
		}
		return &PaymentResult{
			Success:              true,
			TransactionID:        tx.ID,
			OrderReference:       orderReference,
			TransactionReference: resp.TransactionReference,
			PaymentURL:           resp.PaymentURL,
			Status:               models.TransactionStatusPending,
			Message:              "Payment initiated successfully",
		}, nil
	}

	return s.gatewayDecline(tx, orderReference, resp.ResponseMessage, "Failed to initiate payment")
}

// ExpressEcoCash validates an EcoCash intent and pushes a USSD prompt. The
// sandbox fallback uses an ECO-SIM- reference.
func (s *Service) ExpressEcoCash(ctx context.Context, intent EcoCashIntent) (*PaymentResult, error) {
	if err := s.validateIntent(intent); err != nil {
		return nil, err
	}

	merchant, err := s.defaultMerchant()
	if err != nil {
		return nil, err
	}
	orderReference, err := s.resolveOrderReference(intent.OrderReference)
	if err != nil {
		return nil, err
	}

	tx, err := s.createTransaction(merchant.ID, orderReference, intent.Amount, intent.CurrencyCode,
		intent.Customer, models.PaymentMethodEcoCash, intent.ReturnURL, intent.ResultURL, intent.CancelURL, intent.FailureURL)
	if err != nil {
		return nil, err
	}

	req := smilepay.ExpressEcoCashRequest{
		OrderReference:    orderReference,
		Amount:            intent.Amount,
		CurrencyCode:      smilepay.FormatCurrencyCode(intent.CurrencyCode),
		ReturnURL:         intent.ReturnURL,
		ResultURL:         intent.ResultURL,
		CancelURL:         intent.CancelURL,
		FailureURL:        intent.FailureURL,
		ItemName:          itemNameOrDefault(intent.ItemName),
		ItemDescription:   intent.ItemDescription,
		FirstName:         intent.Customer.FirstName,
		LastName:          intent.Customer.LastName,
		MobilePhoneNumber: intent.Customer.Phone,
		Email:             intent.Customer.Email,
		EcoCashMobile:     stripWhitespace(intent.PhoneNumber),
	}

	resp, err := s.gateway.ExpressCheckoutEcoCash(ctx, req)
	if err != nil {
		if errors.Is(err, smilepay.ErrUnavailable) {
			return s.sandboxInitiateFallback(tx, "ECO-SIM", "", "EcoCash payment initiated (sandbox mode). Simulating USSD prompt.")
		}
		return nil, err
	}

	if resp.Accepted() {
		if _, err := s.repos.Transaction.Update(tx.ID, repository.TransactionUpdate{
			TransactionReference: &resp.TransactionReference,
		}); err != nil {
			return nil, err
		}
		return &PaymentResult{
			Success:              true,
			TransactionID:        tx.ID,
			OrderReference:       orderReference,
			TransactionReference: resp.TransactionReference,
			Status:               models.TransactionStatusPending,
			Message:              "EcoCash payment initiated. Please check your phone for USSD prompt.",
		}, nil
	}

	return s.gatewayDecline(tx, orderReference, resp.ResponseMessage, "Failed to initiate EcoCash payment")
}

// ExpressCard validates a card intent and submits the PAN directly. Accepted
// requests branch three ways: plain approval, legacy 3DS redirect page or an
// in-page 3DS2 challenge. The sandbox fallback uses a CARD-SIM- reference.
func (s *Service) ExpressCard(ctx context.Context, intent CardIntent) (*PaymentResult, error) {
	if err := s.validateIntent(intent); err != nil {
		return nil, err
	}

	merchant, err := s.defaultMerchant()
	if err != nil {
		return nil, err
	}
	orderReference, err := s.resolveOrderReference(intent.OrderReference)
	if err != nil {
		return nil, err
	}

	tx, err := s.createTransaction(merchant.ID, orderReference, intent.Amount, intent.CurrencyCode,
		intent.Customer, models.PaymentMethodVisaMastercard, intent.ReturnURL, intent.ResultURL, intent.CancelURL, intent.FailureURL)
	if err != nil {
		return nil, err
	}

	req := smilepay.ExpressCardRequest{
		OrderReference:    orderReference,
		Amount:            intent.Amount,
		CurrencyCode:      smilepay.FormatCurrencyCode(intent.CurrencyCode),
		ReturnURL:         intent.ReturnURL,
		ResultURL:         intent.ResultURL,
		CancelURL:         intent.CancelURL,
		FailureURL:        intent.FailureURL,
		ItemName:          itemNameOrDefault(intent.ItemName),
		ItemDescription:   intent.ItemDescription,
		PAN:               stripWhitespace(intent.CardNumber),
		ExpMonth:          intent.ExpiryMonth,
		ExpYear:           normalizeExpiryYear(intent.ExpiryYear),
		SecurityCode:      intent.CVV,
		FirstName:         intent.Customer.FirstName,
		LastName:          intent.Customer.LastName,
		MobilePhoneNumber: intent.Customer.Phone,
		Email:             intent.Customer.Email,
		PaymentMethod:     smilepay.MapPaymentMethod(models.PaymentMethodVisaMastercard),
	}

	resp, err := s.gateway.ExpressCheckoutCard(ctx, req)
	if err != nil {
		if errors.Is(err, smilepay.ErrUnavailable) {
			return s.sandboxInitiateFallback(tx, "CARD-SIM", "", "Card payment initiated (sandbox mode).")
		}
		return nil, err
	}

	if !resp.Accepted() {
		return s.gatewayDecline(tx, orderReference, resp.ResponseMessage, "Failed to initiate card payment")
	}

	if _, err := s.repos.Transaction.Update(tx.ID, repository.TransactionUpdate{
		TransactionReference: &resp.TransactionReference,
	}); err != nil {
		return nil, err
	}

	result := &PaymentResult{
		Success:              true,
		TransactionID:        tx.ID,
		OrderReference:       orderReference,
		TransactionReference: resp.TransactionReference,
		Status:               models.TransactionStatusPending,
	}
	switch resp.Outcome {
	case smilepay.CardOutcomeThreeDS2Challenge:
		result.Challenge = resp.Challenge
		result.GatewayRecommendation = resp.GatewayRecommendation
		result.AuthenticationStatus = resp.AuthenticationStatus
		result.Message = "Card payment initiated. 3DS2 authentication challenge required."
	case smilepay.CardOutcomeThreeDSRedirect:
		result.RedirectHTML = resp.RedirectHTML
		result.Message = "Card payment initiated. 3DS verification required."
	default:
		result.Message = "Card payment initiated successfully."
	}
	return result, nil
}

func (s *Service) sandboxInitiateFallback(tx *models.Transaction, refPrefix, paymentURL, message string) (*PaymentResult, error) {
	simRef := fmt.Sprintf("%s-%d", refPrefix, time.Now().UnixMilli())

	update := repository.TransactionUpdate{TransactionReference: &simRef}
	if paymentURL != "" {
		update.PaymentURL = &paymentURL
	}
	if _, err := s.repos.Transaction.Update(tx.ID, update); err != nil {
		return nil, err
	}

	log.Printf("gateway unreachable; sandbox fallback for order %s (%s)", tx.OrderReference, simRef)
	return &PaymentResult{
		Success:              true,
		TransactionID:        tx.ID,
		OrderReference:       tx.OrderReference,
		TransactionReference: simRef,
		PaymentURL:           paymentURL,
		Status:               models.TransactionStatusPending,
		Message:              message,
	}, nil
}

// gatewayDecline persists a gateway soft failure, preserving the gateway's
// message verbatim for support diagnosis.
func (s *Service) gatewayDecline(tx *models.Transaction, orderReference, gatewayMessage, fallbackMessage string) (*PaymentResult, error) {
	failed := models.TransactionStatusFailed
	if _, err := s.repos.Transaction.Update(tx.ID, repository.TransactionUpdate{Status: &failed}); err != nil {
		return nil, err
	}
	statistics.InvalidateTransactionStats(tx.MerchantID)

	message := gatewayMessage
	if message == "" {
		message = fallbackMessage
	}
	return &PaymentResult{
		Success:        false,
		TransactionID:  tx.ID,
		OrderReference: orderReference,
		Status:         models.TransactionStatusFailed,
		Message:        message,
	}, nil
}

// CheckStatus reconciles a transaction against the gateway. Terminal ledger
// states are authoritative and returned without a gateway call. A PENDING
// transaction is polled; on gateway transport failure the last known local
// state is returned unchanged rather than erroring the caller.
func (s *Service) CheckStatus(ctx context.Context, orderReference string) (*StatusResult, error) {
	tx, err := s.repos.Transaction.GetByOrderReference(orderReference)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if tx.IsTerminal() {
		return snapshotOf(tx), nil
	}

	gw, err := s.gateway.CheckPaymentStatus(ctx, orderReference)
	if err != nil {
		if errors.Is(err, smilepay.ErrUnavailable) {
			return snapshotOf(tx), nil
		}
		return nil, err
	}

	mapped := smilepay.MapStatus(gw.Status)
	refChanged := gw.Reference != "" && (tx.TransactionReference == nil || *tx.TransactionReference != gw.Reference)
	if mapped != tx.Status || refChanged {
		update := repository.TransactionUpdate{}
		if mapped != tx.Status {
			update.Status = &mapped
		}
		if refChanged {
			update.TransactionReference = &gw.Reference
		}
		tx, err = s.repos.Transaction.Update(tx.ID, update)
		if err != nil {
			return nil, err
		}
		statistics.InvalidateTransactionStats(tx.MerchantID)
	}

	result := snapshotOf(tx)
	result.ClientFee = gw.ClientFee
	result.MerchantFee = gw.MerchantFee
	return result, nil
}

func snapshotOf(tx *models.Transaction) *StatusResult {
	return &StatusResult{
		OrderReference:       tx.OrderReference,
		TransactionReference: tx.TransactionReference,
		Status:               tx.Status,
		Amount:               tx.Amount,
		CurrencyCode:         tx.CurrencyCode,
		PaymentMethod:        tx.PaymentMethod,
		PaidAt:               tx.PaidAt,
	}
}

// Cancel aborts a PENDING transaction. The local record is cancelled whether
// or not the gateway was reachable (sandbox-friendly); only a confirmed
// gateway cancel carries the gateway's return URL back to the caller.
func (s *Service) Cancel(ctx context.Context, orderReference string) (*CancelResult, error) {
	tx, err := s.repos.Transaction.GetByOrderReference(orderReference)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if tx.Status != models.TransactionStatusPending {
		return nil, &InvalidStateError{Action: "cancel", Current: tx.Status}
	}

	cancelled := models.TransactionStatusCancelled

	resp, err := s.gateway.CancelPayment(ctx, orderReference)
	if err != nil {
		if !errors.Is(err, smilepay.ErrUnavailable) {
			return nil, err
		}
		if _, err := s.repos.Transaction.Update(tx.ID, repository.TransactionUpdate{Status: &cancelled}); err != nil {
			return nil, err
		}
		statistics.InvalidateTransactionStats(tx.MerchantID)
		return &CancelResult{
			Success:        true,
			OrderReference: orderReference,
			Status:         models.TransactionStatusCancelled,
			Message:        "Transaction cancelled (sandbox mode)",
		}, nil
	}

	if !resp.Success {
		message := resp.Description
		if message == "" {
			message = "Failed to cancel transaction"
		}
		return &CancelResult{
			Success:        false,
			OrderReference: orderReference,
			Status:         tx.Status,
			Message:        message,
		}, nil
	}

	if _, err := s.repos.Transaction.Update(tx.ID, repository.TransactionUpdate{Status: &cancelled}); err != nil {
		return nil, err
	}
	statistics.InvalidateTransactionStats(tx.MerchantID)
	return &CancelResult{
		Success:        true,
		OrderReference: orderReference,
		Status:         models.TransactionStatusCancelled,
		Message:        "Transaction cancelled successfully",
		ReturnURL:      resp.ReturnURL,
	}, nil
}

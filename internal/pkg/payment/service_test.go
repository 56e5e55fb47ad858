package payment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TinasheMavura/SmileCheckout/app/models"
	"github.com/TinasheMavura/SmileCheckout/app/repository"
	"github.com/TinasheMavura/SmileCheckout/internal/pkg/smilepay"
)

// unreachableGateway is a base URL nothing listens on; every call fails with a
// transport error and surfaces as smilepay.ErrUnavailable.
const unreachableGateway = "http://127.0.0.1:1"

func newTestService(t *testing.T, gatewayURL string) (*Service, *repository.Repositories) {
	t.Helper()

	repos := repository.NewMemoryRepositories()
	err := repos.Merchant.Create(&models.Merchant{Name: "Test Merchant", APIKeyHash: "irrelevant", IsActive: true})
	require.NoError(t, err)

	client := smilepay.NewClient(smilepay.Config{APIKey: "k", APISecret: "s", Environment: "sandbox"})
	client.BaseURL = gatewayURL

	svc := NewService(repos, client, Config{
		PublicBaseURL:         "http://localhost:4000",
		AllowUnsignedWebhooks: true,
	})
	return svc, repos
}

func testCustomer() CustomerDetails {
	return CustomerDetails{
		FirstName: "Tari",
		LastName:  "Moyo",
		Email:     "tari@example.com",
		Phone:     "0771234567",
	}
}

func standardIntent() StandardCheckoutIntent {
	return StandardCheckoutIntent{
		Amount:       25.50,
		CurrencyCode: models.CurrencyUSD,
		Customer:     testCustomer(),
		ReturnURL:    "https://shop.example/return",
		ResultURL:    "https://shop.example/result",
		ItemName:     "Order #42",
	}
}

func ecocashIntent() EcoCashIntent {
	return EcoCashIntent{
		Amount:       10,
		CurrencyCode: models.CurrencyUSD,
		Customer:     testCustomer(),
		PhoneNumber:  "0771234567",
		ReturnURL:    "https://shop.example/return",
		ResultURL:    "https://shop.example/result",
	}
}

func cardIntent() CardIntent {
	return CardIntent{
		Amount:       99.99,
		CurrencyCode: models.CurrencyZWG,
		Customer:     testCustomer(),
		CardNumber:   "4111 1111 1111 1111",
		ExpiryMonth:  "09",
		ExpiryYear:   "27",
		CVV:          "123",
		ReturnURL:    "https://shop.example/return",
		ResultURL:    "https://shop.example/result",
	}
}

func gatewayStub(t *testing.T, path, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if path != "" && r.URL.Path != path {
			t.Errorf("unexpected gateway path %q, want %q", r.URL.Path, path)
		}
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestInitiateStandardSuccess(t *testing.T) {
	srv := gatewayStub(t, "/payments-gateway/payments/initiate-transaction",
		`{"responseCode":"200","paymentUrl":"https://pay.example/abc","transactionReference":"TXN-1"}`)
	svc, repos := newTestService(t, srv.URL)

	result, err := svc.InitiateStandard(context.Background(), standardIntent())
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, "https://pay.example/abc", result.PaymentURL)
	assert.Equal(t, models.TransactionStatusPending, result.Status)
	assert.True(t, strings.HasPrefix(result.OrderReference, "ORD-"))

	tx, err := repos.Transaction.GetByOrderReference(result.OrderReference)
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusPending, tx.Status)
	require.NotNil(t, tx.PaymentURL)
	assert.Equal(t, "https://pay.example/abc", *tx.PaymentURL)
	require.NotNil(t, tx.TransactionReference)
	assert.Equal(t, "TXN-1", *tx.TransactionReference)
}

func TestInitiateStandardGatewayDecline(t *testing.T) {
	srv := gatewayStub(t, "", `{"responseCode":"400","responseMessage":"Amount below minimum"}`)
	svc, repos := newTestService(t, srv.URL)

	result, err := svc.InitiateStandard(context.Background(), standardIntent())
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, models.TransactionStatusFailed, result.Status)
	assert.Equal(t, "Amount below minimum", result.Message)

	tx, err := repos.Transaction.GetByOrderReference(result.OrderReference)
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusFailed, tx.Status)
}

func TestInitiateStandardSandboxFallback(t *testing.T) {
	svc, repos := newTestService(t, unreachableGateway)

	result, err := svc.InitiateStandard(context.Background(), standardIntent())
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.True(t, strings.HasPrefix(result.TransactionReference, "SIM-"))
	assert.Equal(t, "http://localhost:4000/checkout/payment?ref="+result.OrderReference, result.PaymentURL)
	assert.Contains(t, result.Message, "sandbox")

	tx, err := repos.Transaction.GetByOrderReference(result.OrderReference)
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusPending, tx.Status)
}

func TestInitiateRejectsDuplicateOrderReference(t *testing.T) {
	srv := gatewayStub(t, "", `{"responseCode":"200","paymentUrl":"https://pay.example/x"}`)
	svc, _ := newTestService(t, srv.URL)

	intent := standardIntent()
	intent.OrderReference = "ORD-CUSTOM-1"

	_, err := svc.InitiateStandard(context.Background(), intent)
	require.NoError(t, err)

	_, err = svc.InitiateStandard(context.Background(), intent)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "order_reference", verr.Field)
}

func TestExpressEcoCashSuccess(t *testing.T) {
	srv := gatewayStub(t, "/payments-gateway/payments/express-checkout/ecocash",
		`{"responseCode":"200","transactionReference":"ECO-TXN-1"}`)
	svc, repos := newTestService(t, srv.URL)

	result, err := svc.ExpressEcoCash(context.Background(), ecocashIntent())
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, "EcoCash payment initiated. Please check your phone for USSD prompt.", result.Message)

	tx, err := repos.Transaction.GetByOrderReference(result.OrderReference)
	require.NoError(t, err)
	require.NotNil(t, tx.PaymentMethod)
	assert.Equal(t, models.PaymentMethodEcoCash, *tx.PaymentMethod)
}

func TestExpressEcoCashSandboxFallback(t *testing.T) {
	svc, _ := newTestService(t, unreachableGateway)

	result, err := svc.ExpressEcoCash(context.Background(), ecocashIntent())
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.True(t, strings.HasPrefix(result.TransactionReference, "ECO-SIM-"))
}

func TestExpressEcoCashValidation(t *testing.T) {
	svc, repos := newTestService(t, unreachableGateway)

	intent := ecocashIntent()
	intent.PhoneNumber = "12345"

	_, err := svc.ExpressEcoCash(context.Background(), intent)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "phone_number", verr.Field)

	// Validation failures must not leave a ledger row behind.
	list, err := repos.Transaction.List(repository.TransactionFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestExpressCardApproved(t *testing.T) {
	srv := gatewayStub(t, "/payments-gateway/payments/express-checkout/mpgs",
		`{"responseCode":"200","transactionReference":"CARD-TXN-1"}`)
	svc, repos := newTestService(t, srv.URL)

	result, err := svc.ExpressCard(context.Background(), cardIntent())
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Empty(t, result.RedirectHTML)
	assert.Nil(t, result.Challenge)

	tx, err := repos.Transaction.GetByOrderReference(result.OrderReference)
	require.NoError(t, err)
	require.NotNil(t, tx.PaymentMethod)
	assert.Equal(t, models.PaymentMethodVisaMastercard, *tx.PaymentMethod)
}

func TestExpressCardThreeDS2Challenge(t *testing.T) {
	srv := gatewayStub(t, "",
		`{"responseCode":"200","customizedHtml":{"3ds2":{"acsUrl":"https://acs.example/c","cReq":"abc"}},"gatewayRecommendation":"PROCEED"}`)
	svc, _ := newTestService(t, srv.URL)

	result, err := svc.ExpressCard(context.Background(), cardIntent())
	require.NoError(t, err)

	assert.True(t, result.Success)
	require.NotNil(t, result.Challenge)
	assert.Equal(t, "https://acs.example/c", result.Challenge.ACSURL)
	assert.Equal(t, "abc", result.Challenge.CReq)
	assert.Equal(t, "PROCEED", result.GatewayRecommendation)
	assert.Empty(t, result.RedirectHTML)
}

func TestExpressCardLegacyRedirect(t *testing.T) {
	srv := gatewayStub(t, "", `{"responseCode":"200","redirectHtml":"<form action='https://acs.example'></form>"}`)
	svc, _ := newTestService(t, srv.URL)

	result, err := svc.ExpressCard(context.Background(), cardIntent())
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.NotEmpty(t, result.RedirectHTML)
	assert.Nil(t, result.Challenge)
}

func TestExpressCardSandboxFallback(t *testing.T) {
	svc, _ := newTestService(t, unreachableGateway)

	result, err := svc.ExpressCard(context.Background(), cardIntent())
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.True(t, strings.HasPrefix(result.TransactionReference, "CARD-SIM-"))
}

func TestCheckStatusNotFound(t *testing.T) {
	svc, _ := newTestService(t, unreachableGateway)

	_, err := svc.CheckStatus(context.Background(), "ORD-MISSING")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCheckStatusTerminalShortCircuit(t *testing.T) {
	// The gateway is unreachable; a terminal transaction must be answered from
	// the ledger without a gateway round trip.
	svc, repos := newTestService(t, unreachableGateway)

	tx := &models.Transaction{
		MerchantID:     "m1",
		OrderReference: "ORD-TERMINAL",
		Amount:         10,
		CurrencyCode:   models.CurrencyUSD,
		Status:         models.TransactionStatusPaid,
	}
	require.NoError(t, repos.Transaction.Create(tx))

	result, err := svc.CheckStatus(context.Background(), "ORD-TERMINAL")
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusPaid, result.Status)
}

func TestCheckStatusUpdatesFromGateway(t *testing.T) {
	srv := gatewayStub(t, "", `{"reference":"TXN-5","status":"SUCCESS","clientFee":0.5,"merchantFee":0.3}`)
	svc, repos := newTestService(t, srv.URL)

	tx := &models.Transaction{
		MerchantID:     "m1",
		OrderReference: "ORD-POLL",
		Amount:         10,
		CurrencyCode:   models.CurrencyUSD,
		Status:         models.TransactionStatusPending,
	}
	require.NoError(t, repos.Transaction.Create(tx))

	result, err := svc.CheckStatus(context.Background(), "ORD-POLL")
	require.NoError(t, err)

	assert.Equal(t, models.TransactionStatusPaid, result.Status)
	require.NotNil(t, result.PaidAt)
	assert.Equal(t, 0.5, result.ClientFee)
	assert.Equal(t, 0.3, result.MerchantFee)

	updated, err := repos.Transaction.GetByOrderReference("ORD-POLL")
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusPaid, updated.Status)
	require.NotNil(t, updated.TransactionReference)
	assert.Equal(t, "TXN-5", *updated.TransactionReference)

	// A second poll answers from the ledger and keeps the original paid_at.
	again, err := svc.CheckStatus(context.Background(), "ORD-POLL")
	require.NoError(t, err)
	require.NotNil(t, again.PaidAt)
	assert.Equal(t, *updated.PaidAt, *again.PaidAt)
}

func TestCheckStatusGatewayUnreachableFallsBack(t *testing.T) {
	svc, repos := newTestService(t, unreachableGateway)

	tx := &models.Transaction{
		MerchantID:     "m1",
		OrderReference: "ORD-OFFLINE",
		Amount:         10,
		CurrencyCode:   models.CurrencyUSD,
		Status:         models.TransactionStatusPending,
	}
	require.NoError(t, repos.Transaction.Create(tx))

	result, err := svc.CheckStatus(context.Background(), "ORD-OFFLINE")
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusPending, result.Status)
}

func TestCancelOnlyPending(t *testing.T) {
	svc, repos := newTestService(t, unreachableGateway)

	for _, status := range []string{
		models.TransactionStatusPaid,
		models.TransactionStatusFailed,
		models.TransactionStatusCancelled,
	} {
		tx := &models.Transaction{
			MerchantID:     "m1",
			OrderReference: "ORD-" + status,
			Amount:         10,
			CurrencyCode:   models.CurrencyUSD,
			Status:         status,
		}
		require.NoError(t, repos.Transaction.Create(tx))

		_, err := svc.Cancel(context.Background(), tx.OrderReference)
		var serr *InvalidStateError
		require.ErrorAs(t, err, &serr, "status %s", status)
		assert.Equal(t, status, serr.Current)
	}
}

func TestCancelGatewayUnreachable(t *testing.T) {
	svc, repos := newTestService(t, unreachableGateway)

	tx := &models.Transaction{
		MerchantID:     "m1",
		OrderReference: "ORD-CANCEL-OFFLINE",
		Amount:         10,
		CurrencyCode:   models.CurrencyUSD,
		Status:         models.TransactionStatusPending,
	}
	require.NoError(t, repos.Transaction.Create(tx))

	result, err := svc.Cancel(context.Background(), tx.OrderReference)
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Empty(t, result.ReturnURL)

	updated, err := repos.Transaction.GetByOrderReference(tx.OrderReference)
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusCancelled, updated.Status)
}

func TestCancelGatewayConfirmed(t *testing.T) {
	srv := gatewayStub(t, "/payments-gateway/payments/cancel/ORD-CANCEL-OK",
		`{"success":true,"returnUrl":"https://shop.example/back"}`)
	svc, repos := newTestService(t, srv.URL)

	tx := &models.Transaction{
		MerchantID:     "m1",
		OrderReference: "ORD-CANCEL-OK",
		Amount:         10,
		CurrencyCode:   models.CurrencyUSD,
		Status:         models.TransactionStatusPending,
	}
	require.NoError(t, repos.Transaction.Create(tx))

	result, err := svc.Cancel(context.Background(), tx.OrderReference)
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, "https://shop.example/back", result.ReturnURL)

	updated, err := repos.Transaction.GetByOrderReference(tx.OrderReference)
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusCancelled, updated.Status)
}

func TestCancelGatewayRefusal(t *testing.T) {
	srv := gatewayStub(t, "", `{"success":false,"description":"Transaction already settled"}`)
	svc, repos := newTestService(t, srv.URL)

	tx := &models.Transaction{
		MerchantID:     "m1",
		OrderReference: "ORD-CANCEL-NO",
		Amount:         10,
		CurrencyCode:   models.CurrencyUSD,
		Status:         models.TransactionStatusPending,
	}
	require.NoError(t, repos.Transaction.Create(tx))

	result, err := svc.Cancel(context.Background(), tx.OrderReference)
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, "Transaction already settled", result.Message)

	// A gateway refusal leaves the local record pending.
	updated, err := repos.Transaction.GetByOrderReference(tx.OrderReference)
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusPending, updated.Status)
}

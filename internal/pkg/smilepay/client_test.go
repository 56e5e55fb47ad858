package smilepay

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(baseURL string) *Client {
	c := NewClient(Config{APIKey: "test-key", APISecret: "test-secret", Environment: "sandbox"})
	c.BaseURL = baseURL
	return c
}

func TestNewClientBaseURLSelection(t *testing.T) {
	if c := NewClient(Config{Environment: "sandbox"}); c.BaseURL != sandboxBaseURL {
		t.Fatalf("sandbox client got base URL %q", c.BaseURL)
	}
	if c := NewClient(Config{Environment: "production"}); c.BaseURL != productionBaseURL {
		t.Fatalf("production client got base URL %q", c.BaseURL)
	}
	if c := NewClient(Config{Environment: "anything-else"}); c.BaseURL != sandboxBaseURL {
		t.Fatalf("unknown environment should default to sandbox, got %q", c.BaseURL)
	}
}

func TestInitiateStandardCheckout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/payments-gateway/payments/initiate-transaction" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		if r.Header.Get("x-api-key") != "test-key" || r.Header.Get("x-api-secret") != "test-secret" {
			t.Fatalf("missing credential headers")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"responseCode":"200","responseMessage":"OK","paymentUrl":"https://pay.example/abc","transactionReference":"TXN-1"}`))
	}))
	defer srv.Close()

	resp, err := newTestClient(srv.URL).InitiateStandardCheckout(context.Background(), InitiateRequest{OrderReference: "ORD-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.Accepted() {
		t.Fatalf("expected response to be accepted")
	}
	if resp.PaymentURL != "https://pay.example/abc" || resp.TransactionReference != "TXN-1" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestInitiateStandardCheckoutLegacyStatusFields(t *testing.T) {
	// Some gateway endpoints answer with statusCode/statusMessage instead of
	// responseCode/responseMessage.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"statusCode":"400","statusMessage":"Insufficient funds"}`))
	}))
	defer srv.Close()

	resp, err := newTestClient(srv.URL).InitiateStandardCheckout(context.Background(), InitiateRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Accepted() {
		t.Fatalf("declined response must not be accepted")
	}
	if resp.ResponseCode != "400" || resp.ResponseMessage != "Insufficient funds" {
		t.Fatalf("legacy fields not normalized: %+v", resp)
	}
}

func TestExpressCheckoutCardOutcomes(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantOutcome CardOutcome
	}{
		{
			name:        "approved",
			body:        `{"responseCode":"200","transactionReference":"TXN-2"}`,
			wantOutcome: CardOutcomeApproved,
		},
		{
			name:        "legacy redirect",
			body:        `{"responseCode":"200","redirectHtml":"<form action='https://acs.example'></form>"}`,
			wantOutcome: CardOutcomeThreeDSRedirect,
		},
		{
			name:        "3ds2 challenge",
			body:        `{"responseCode":"200","customizedHtml":{"3ds2":{"acsUrl":"https://acs.example/challenge","cReq":"abc123"}}}`,
			wantOutcome: CardOutcomeThreeDS2Challenge,
		},
		{
			name:        "3ds2 takes precedence over redirect",
			body:        `{"responseCode":"200","redirectHtml":"<form></form>","customizedHtml":{"3ds2":{"acsUrl":"https://acs.example","cReq":"x"}}}`,
			wantOutcome: CardOutcomeThreeDS2Challenge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/payments-gateway/payments/express-checkout/mpgs" {
					t.Fatalf("unexpected path %q", r.URL.Path)
				}
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			resp, err := newTestClient(srv.URL).ExpressCheckoutCard(context.Background(), ExpressCardRequest{})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if resp.Outcome != tt.wantOutcome {
				t.Fatalf("outcome = %d, want %d", resp.Outcome, tt.wantOutcome)
			}
			if tt.wantOutcome == CardOutcomeThreeDS2Challenge && resp.Challenge == nil {
				t.Fatalf("challenge outcome must carry challenge data")
			}
			if tt.wantOutcome == CardOutcomeThreeDSRedirect && resp.RedirectHTML == "" {
				t.Fatalf("redirect outcome must carry the redirect page")
			}
		})
	}
}

func TestCheckPaymentStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Fatalf("status check must be GET, got %s", r.Method)
		}
		if r.URL.Path != "/payments-gateway/payments/transaction/ORD-9/status/check" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		w.Write([]byte(`{"reference":"TXN-9","orderReference":"ORD-9","status":"SUCCESS","amount":10.5,"clientFee":0.2}`))
	}))
	defer srv.Close()

	resp, err := newTestClient(srv.URL).CheckPaymentStatus(context.Background(), "ORD-9")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Status != "SUCCESS" || resp.Reference != "TXN-9" || resp.ClientFee != 0.2 {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestCancelPayment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("cancel must be POST, got %s", r.Method)
		}
		if r.URL.Path != "/payments-gateway/payments/cancel/ORD-9" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		w.Write([]byte(`{"success":true,"description":"cancelled","returnUrl":"https://shop.example/back"}`))
	}))
	defer srv.Close()

	resp, err := newTestClient(srv.URL).CancelPayment(context.Background(), "ORD-9")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.Success || resp.ReturnURL != "https://shop.example/back" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestTransportFailureWrapsErrUnavailable(t *testing.T) {
	c := newTestClient("http://127.0.0.1:1")

	_, err := c.InitiateStandardCheckout(context.Background(), InitiateRequest{})
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}

	_, err = c.CheckPaymentStatus(context.Background(), "ORD-1")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable from status check, got %v", err)
	}
}

func TestMissingCredentialsWrapsErrUnavailable(t *testing.T) {
	c := NewClient(Config{Environment: "sandbox"})

	_, err := c.InitiateStandardCheckout(context.Background(), InitiateRequest{})
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable without credentials, got %v", err)
	}
}

func TestUnparseableBodyWrapsErrUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>upstream error</html>"))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).InitiateStandardCheckout(context.Background(), InitiateRequest{})
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable for unparseable body, got %v", err)
	}
}

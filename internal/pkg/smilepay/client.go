package smilepay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/TinasheMavura/SmileCheckout/internal/pkg/env"
)

const (
	sandboxBaseURL    = "https://zbnet.zb.co.zw/wallet_sandbox_api"
	productionBaseURL = "https://zbnet.zb.co.zw/wallet_api"
)

// ErrUnavailable marks transport and parse failures talking to the gateway.
// Callers decide the fallback policy (sandbox simulation, answer from ledger);
// this client never masks an unreachable gateway as a success response.
var ErrUnavailable = errors.New("smilepay gateway unavailable")

// Client talks to the SmilePay payments gateway. Construct it explicitly and
// inject it; it carries its own configuration and HTTP client.
type Client struct {
	BaseURL       string
	APIKey        string
	APISecret     string
	WebhookSecret string

	HTTPClient *http.Client
}

// NewClient builds a client from injected configuration.
func NewClient(cfg Config) *Client {
	baseURL := sandboxBaseURL
	if strings.EqualFold(cfg.Environment, "production") {
		baseURL = productionBaseURL
	}
	return &Client{
		BaseURL:       baseURL,
		APIKey:        cfg.APIKey,
		APISecret:     cfg.APISecret,
		WebhookSecret: cfg.WebhookSecret,
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// NewClientFromEnv builds a client from SMILEPAY_* environment configuration.
func NewClientFromEnv() *Client {
	return NewClient(Config{
		APIKey:        strings.TrimSpace(env.GetEnv("SMILEPAY_API_KEY", "")),
		APISecret:     strings.TrimSpace(env.GetEnv("SMILEPAY_API_SECRET", "")),
		Environment:   strings.TrimSpace(env.GetEnv("SMILEPAY_ENVIRONMENT", "sandbox")),
		WebhookSecret: strings.TrimSpace(env.GetEnv("SMILEPAY_WEBHOOK_SECRET", "")),
	})
}

func (c *Client) doRequest(ctx context.Context, method, path string, body any, out *rawResponse) error {
	if strings.TrimSpace(c.APIKey) == "" || strings.TrimSpace(c.APISecret) == "" {
		return fmt.Errorf("smilepay API credentials not configured: %w", ErrUnavailable)
	}

	var reader io.Reader
	if body != nil && method == http.MethodPost {
		encoded, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("x-api-key", c.APIKey)
	req.Header.Set("x-api-secret", c.APISecret)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("smilepay request %s failed: %v: %w", path, err, ErrUnavailable)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("smilepay response read %s failed: %v: %w", path, err, ErrUnavailable)
	}

	// The gateway reports declines in the body, not via HTTP status; any body
	// that fails to parse counts as the gateway being unreachable.
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("smilepay response parse %s failed (status=%d): %v: %w", path, resp.StatusCode, err, ErrUnavailable)
	}
	return nil
}

// InitiateStandardCheckout starts a hosted-page checkout. An accepted request
// returns a paymentUrl the payer is redirected to.
func (c *Client) InitiateStandardCheckout(ctx context.Context, req InitiateRequest) (*InitiateResponse, error) {
	var raw rawResponse
	if err := c.doRequest(ctx, http.MethodPost, "/payments-gateway/payments/initiate-transaction", req, &raw); err != nil {
		return nil, err
	}
	return &InitiateResponse{
		ResponseCode:         raw.code(),
		ResponseMessage:      raw.message(),
		PaymentURL:           raw.PaymentURL,
		TransactionReference: raw.TransactionReference,
	}, nil
}

// ExpressCheckoutEcoCash pushes a USSD payment prompt to the payer's phone.
func (c *Client) ExpressCheckoutEcoCash(ctx context.Context, req ExpressEcoCashRequest) (*EcoCashResponse, error) {
	var raw rawResponse
	if err := c.doRequest(ctx, http.MethodPost, "/payments-gateway/payments/express-checkout/ecocash", req, &raw); err != nil {
		return nil, err
	}
	return &EcoCashResponse{
		ResponseCode:         raw.code(),
		ResponseMessage:      raw.message(),
		Status:               raw.Status,
		TransactionReference: raw.TransactionReference,
	}, nil
}

// ExpressCheckoutCard submits card details on the MPGS rails. The three
// step-up variants (approved, legacy redirect, 3DS2 challenge) are resolved
// here so callers consume a single tagged shape.
func (c *Client) ExpressCheckoutCard(ctx context.Context, req ExpressCardRequest) (*CardResponse, error) {
	var raw rawResponse
	if err := c.doRequest(ctx, http.MethodPost, "/payments-gateway/payments/express-checkout/mpgs", req, &raw); err != nil {
		return nil, err
	}

	out := &CardResponse{
		ResponseCode:          raw.code(),
		ResponseMessage:       raw.message(),
		Status:                raw.Status,
		TransactionReference:  raw.TransactionReference,
		GatewayRecommendation: raw.GatewayRecommendation,
		AuthenticationStatus:  raw.AuthenticationStatus,
		Outcome:               CardOutcomeApproved,
	}
	if threeDS2, ok := raw.CustomizedHTML["3ds2"]; ok && threeDS2.ACSURL != "" {
		out.Outcome = CardOutcomeThreeDS2Challenge
		out.Challenge = &ThreeDS2Challenge{ACSURL: threeDS2.ACSURL, CReq: threeDS2.CReq}
	} else if raw.RedirectHTML != "" {
		out.Outcome = CardOutcomeThreeDSRedirect
		out.RedirectHTML = raw.RedirectHTML
	}
	return out, nil
}

// CheckPaymentStatus polls the gateway-side state for an order reference.
// Idempotent; safe to call repeatedly.
func (c *Client) CheckPaymentStatus(ctx context.Context, orderReference string) (*StatusResponse, error) {
	path := fmt.Sprintf("/payments-gateway/payments/transaction/%s/status/check", orderReference)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("x-api-key", c.APIKey)
	req.Header.Set("x-api-secret", c.APISecret)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("smilepay status check failed: %v: %w", err, ErrUnavailable)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("smilepay status read failed: %v: %w", err, ErrUnavailable)
	}

	var out StatusResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("smilepay status parse failed (status=%d): %v: %w", resp.StatusCode, err, ErrUnavailable)
	}
	return &out, nil
}

// CancelPayment asks the gateway to cancel a pending payment attempt.
func (c *Client) CancelPayment(ctx context.Context, orderReference string) (*CancelResponse, error) {
	path := fmt.Sprintf("/payments-gateway/payments/cancel/%s", orderReference)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("x-api-key", c.APIKey)
	req.Header.Set("x-api-secret", c.APISecret)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("smilepay cancel failed: %v: %w", err, ErrUnavailable)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("smilepay cancel read failed: %v: %w", err, ErrUnavailable)
	}

	var out CancelResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("smilepay cancel parse failed (status=%d): %v: %w", resp.StatusCode, err, ErrUnavailable)
	}
	return &out, nil
}

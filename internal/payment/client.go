// Package payment implements the two-step payment-token exchange: a raw
// payment method is traded for a constrained-use shared payment token, which
// is then redeemed as a charge through the payment provider.
package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/williamkasasa/hackathon-seaweed/pkg/logger"
	"github.com/williamkasasa/hackathon-seaweed/pkg/metrics"
)

// tokenLifetime is the expiry window granted to issued tokens.
const tokenLifetime = time.Hour

// Client talks to the token issuer and the charge endpoint.
type Client struct {
	httpClient *http.Client
	sptURL     string
	chargeURL  string
	networkID  string
	externalID string
	logger     *logger.Logger
	now        func() time.Time
}

// Config holds the external endpoints and seller identity for the exchange.
type Config struct {
	SPTURL     string
	ChargeURL  string
	NetworkID  string
	ExternalID string
}

// NewClient creates a payment exchange client.
func NewClient(cfg Config, log *logger.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		sptURL:     strings.TrimRight(cfg.SPTURL, "/"),
		chargeURL:  strings.TrimRight(cfg.ChargeURL, "/"),
		networkID:  cfg.NetworkID,
		externalID: cfg.ExternalID,
		logger:     log,
		now:        time.Now,
	}
}

// TokenRequest describes the constraints of a token to issue.
type TokenRequest struct {
	PaymentMethod string
	Currency      string
	MaxAmount     int64
}

// ChargeRequest describes a charge to place with an issued token.
type ChargeRequest struct {
	Token      string
	Provider   string
	CheckoutID string
	Currency   string
	Amount     int64
}

// ChargeResult is the provider's record of a successful charge.
type ChargeResult struct {
	ID string `json:"id"`
}

type issuedToken struct {
	ID string `json:"id"`
}

// IssueToken exchanges a payment method for a constrained-use token scoped
// to the given currency, amount and a one-hour expiry.
func (c *Client) IssueToken(ctx context.Context, req TokenRequest) (string, error) {
	// The issuer expects form-encoded data with square bracket notation.
	params := url.Values{}
	params.Set("payment_method", req.PaymentMethod)
	params.Set("usage_limits[currency]", req.Currency)
	params.Set("usage_limits[max_amount]", strconv.FormatInt(req.MaxAmount, 10))
	params.Set("usage_limits[expires_at]", strconv.FormatInt(c.now().Add(tokenLifetime).Unix(), 10))
	params.Set("seller_details[network_id]", c.networkID)
	params.Set("seller_details[external_id]", c.externalID)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.sptURL+"/v1/shared_payment/issued_tokens",
		strings.NewReader(params.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to build token request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		metrics.RecordPaymentExchange("issue_token", "error")
		return "", fmt.Errorf("token issuer unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		metrics.RecordPaymentExchange("issue_token", "error")
		c.logger.Error("token issuance failed",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body),
		)
		return "", fmt.Errorf("failed to create payment token: status %d", resp.StatusCode)
	}

	var token issuedToken
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		metrics.RecordPaymentExchange("issue_token", "error")
		return "", fmt.Errorf("failed to decode issued token: %w", err)
	}
	if token.ID == "" {
		metrics.RecordPaymentExchange("issue_token", "error")
		return "", fmt.Errorf("token issuer returned an empty token id")
	}

	metrics.RecordPaymentExchange("issue_token", "success")
	return token.ID, nil
}

// Charge redeems an issued token for an actual charge.
func (c *Client) Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	payload, err := json.Marshal(map[string]any{
		"token":       req.Token,
		"provider":    req.Provider,
		"checkout_id": req.CheckoutID,
		"currency":    req.Currency,
		"amount":      req.Amount,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode charge request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.chargeURL+"/v1/charges", strings.NewReader(string(payload)))
	if err != nil {
		return nil, fmt.Errorf("failed to build charge request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		metrics.RecordPaymentExchange("charge", "error")
		return nil, fmt.Errorf("payment provider unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		metrics.RecordPaymentExchange("charge", "error")
		c.logger.Error("charge failed",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body),
		)
		return nil, fmt.Errorf("failed to complete charge: status %d", resp.StatusCode)
	}

	var result ChargeResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		metrics.RecordPaymentExchange("charge", "error")
		return nil, fmt.Errorf("failed to decode charge result: %w", err)
	}

	metrics.RecordPaymentExchange("charge", "success")
	return &result, nil
}

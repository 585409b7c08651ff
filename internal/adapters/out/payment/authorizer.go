// Package payment authorizes checkout payments. Cash is collected on delivery and always
// authorizes; card and wallet payments go to the external gateway.
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"gasdelivery/internal/core/domain/model/ledger"
	"gasdelivery/internal/core/ports"
	"gasdelivery/internal/pkg/errs"
)

const defaultTimeout = 10 * time.Second

// Authorizer routes a request by payment method.
type Authorizer struct {
	gateway *GatewayClient
}

// NewAuthorizer accepts a nil gateway, in which case only cash is accepted.
func NewAuthorizer(gateway *GatewayClient) Authorizer {
	return Authorizer{gateway: gateway}
}

func (a Authorizer) Authorize(ctx context.Context, req ports.PaymentRequest) (ports.PaymentResult, error) {
	if req.Method == ledger.PaymentCash {
		return ports.PaymentResult{Success: true}, nil
	}
	if a.gateway == nil {
		return ports.PaymentResult{}, errs.NewValueIsInvalidErrorWithCause("paymentMethod",
			fmt.Errorf("%s payments are not available", req.Method))
	}
	return a.gateway.Authorize(ctx, req)
}

// GatewayClient calls POST {baseURL}/authorize.
type GatewayClient struct {
	baseURL string
	client  *http.Client
}

func NewGatewayClient(baseURL string, client *http.Client) *GatewayClient {
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return &GatewayClient{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

type authorizeRequest struct {
	OrderID string `json:"orderId"`
	BuyerID string `json:"buyerId"`
	Amount  string `json:"amount"`
	Method  string `json:"method"`
}

type authorizeResponse struct {
	Success       bool   `json:"success"`
	TransactionID string `json:"transactionId"`
}

func (g *GatewayClient) Authorize(ctx context.Context, req ports.PaymentRequest) (ports.PaymentResult, error) {
	body, err := json.Marshal(authorizeRequest{
		OrderID: req.OrderID.String(),
		BuyerID: req.BuyerID.String(),
		Amount:  req.Amount.StringFixed(2),
		Method:  string(req.Method),
	})
	if err != nil {
		return ports.PaymentResult{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/authorize", bytes.NewReader(body))
	if err != nil {
		return ports.PaymentResult{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Idempotency-Key", req.OrderID.String())

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return ports.PaymentResult{}, fmt.Errorf("payment gateway: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return ports.PaymentResult{}, fmt.Errorf("payment gateway: %s: %s", resp.Status, strings.TrimSpace(string(msg)))
	}
	if resp.StatusCode >= http.StatusBadRequest {
		// the gateway refused the charge
		return ports.PaymentResult{Success: false}, nil
	}

	var out authorizeResponse
	if err = json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return ports.PaymentResult{}, fmt.Errorf("payment gateway: decode response: %w", err)
	}
	return ports.PaymentResult{Success: out.Success, TransactionID: out.TransactionID}, nil
}

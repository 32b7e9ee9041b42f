package pixgateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Gateway is the PIX payout provider interface. Amount is in centavos.
type Gateway interface {
	SendPayout(ctx context.Context, pixKey, keyType string, amount int64) (string, error)
	GetPayoutStatus(ctx context.Context, reference string) (string, error)
}

// HTTPGateway talks to a real PIX payment service provider
type HTTPGateway struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// MockGateway simulates payouts for local development and tests
type MockGateway struct{}

// NewHTTPGateway creates a gateway backed by a PSP's HTTP API
func NewHTTPGateway(baseURL, apiKey string) *HTTPGateway {
	return &HTTPGateway{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// NewMockGateway creates a mock PIX gateway
func NewMockGateway() *MockGateway {
	return &MockGateway{}
}

// SendPayout submits a payout order to the PSP and returns its reference
func (g *HTTPGateway) SendPayout(ctx context.Context, pixKey, keyType string, amount int64) (string, error) {
	requestBody := map[string]interface{}{
		"pixKey":         pixKey,
		"pixKeyType":     keyType,
		"amount":         amount,
		"idempotencyKey": uuid.NewString(),
	}

	jsonBody, err := json.Marshal(requestBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/payouts", bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", g.apiKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("payout request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var response struct {
		Reference string `json:"reference"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	return response.Reference, nil
}

// GetPayoutStatus fetches the status of a previously submitted payout
func (g *HTTPGateway) GetPayoutStatus(ctx context.Context, reference string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/payouts/%s", g.baseURL, reference), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-API-Key", g.apiKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var response struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	return response.Status, nil
}

// SendPayout simulates a payout and returns a synthetic reference
func (g *MockGateway) SendPayout(ctx context.Context, pixKey, keyType string, amount int64) (string, error) {
	return "PIX-MOCK-" + uuid.NewString(), nil
}

// GetPayoutStatus always reports mock payouts as settled
func (g *MockGateway) GetPayoutStatus(ctx context.Context, reference string) (string, error) {
	return "PAID", nil
}

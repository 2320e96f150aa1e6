package workflow

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ognlabs/token-transfer/pkg/domain"
)

// HTTPClient talks to the token-transfer API with a bearer token.
type HTTPClient struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewHTTPClient creates an API client.
func NewHTTPClient(baseURL, token string) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		token:   token,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type errorEnvelope struct {
	Errors []domain.FieldError `json:"errors"`
}

func (c *HTTPClient) post(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnprocessableEntity {
		var envelope errorEnvelope
		if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
			// Malformed error payloads are dropped rather than crashing the
			// form; the caller sees a plain transport-level failure.
			return fmt.Errorf("unreadable validation payload: %w", err)
		}
		return &APIError{Status: resp.StatusCode, Errors: envelope.Errors}
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("request failed: status %d", resp.StatusCode)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

// CreateAccount implements Client.
func (c *HTTPClient) CreateAccount(ctx context.Context, nickname, address string) (*domain.Account, error) {
	payload := map[string]string{"nickname": nickname, "address": address}
	var account domain.Account
	if err := c.post(ctx, "/api/accounts", payload, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// SubmitTransfer implements Client.
func (c *HTTPClient) SubmitTransfer(ctx context.Context, amount, address, code string) error {
	payload := map[string]string{"amount": amount, "address": address, "code": code}
	return c.post(ctx, "/api/transfers", payload, nil)
}

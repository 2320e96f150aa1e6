// Package insights submits wallet registrations to the external mailing-list
// endpoint. Calls are strictly fire-and-forget for the caller; both success
// and failure only ever end up in the logs.
package insights

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Registration is one mailing-list signup tied to a wallet address.
type Registration struct {
	Email       string
	EthAddress  string
	Name        string
	IP          string
	CountryCode string
}

// Client posts registrations to the mailing-list endpoint.
type Client struct {
	endpoint string
	client   *http.Client
}

// New creates a mailing-list client.
func New(endpoint string, timeout time.Duration) *Client {
	return &Client{
		endpoint: endpoint,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

type joinResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Join submits a registration. A 200 with success=false is still an error so
// the dispatcher can log the endpoint's reason.
func (c *Client) Join(ctx context.Context, reg Registration) error {
	form := url.Values{}
	form.Set("email", reg.Email)
	form.Set("investor", "1")
	form.Set("eth_address", reg.EthAddress)
	form.Set("name", reg.Name)
	form.Set("ip_addr", reg.IP)
	form.Set("country_code", reg.CountryCode)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to join mailing list: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to join mailing list: status %d", resp.StatusCode)
	}
	var body joinResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("failed to decode mailing list response: %w", err)
	}
	if !body.Success {
		return fmt.Errorf("mailing list rejected registration: %s", body.Message)
	}
	return nil
}

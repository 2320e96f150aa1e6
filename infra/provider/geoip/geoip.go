// Package geoip resolves an IP address to a country code through an external
// geolocation endpoint.
package geoip

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Client is a client for a JSON IP geolocation API.
type Client struct {
	baseURL string
	client  *http.Client
}

// New creates a geolocation client.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

type geoResponse struct {
	CountryCode string `json:"countryCode"`
}

// CountryCode resolves ip to an ISO country code.
func (c *Client) CountryCode(ctx context.Context, ip string) (string, error) {
	endpoint := fmt.Sprintf("%s/json/%s", c.baseURL, url.PathEscape(ip))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to resolve ip: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to resolve ip: status %d", resp.StatusCode)
	}
	var geo geoResponse
	if err := json.NewDecoder(resp.Body).Decode(&geo); err != nil {
		return "", fmt.Errorf("failed to decode geo response: %w", err)
	}
	return geo.CountryCode, nil
}

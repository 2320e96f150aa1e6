package geoip

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountryCode(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"countryCode":"DE","city":"Berlin"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	cc, err := c.CountryCode(context.Background(), "203.0.113.7")

	require.NoError(t, err)
	assert.Equal(t, "DE", cc)
	assert.Equal(t, "/json/203.0.113.7", gotPath)
}

func TestCountryCodeNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	_, err := c.CountryCode(context.Background(), "203.0.113.7")
	assert.Error(t, err)
}

func TestCountryCodeUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	c := New(srv.URL, time.Second)
	_, err := c.CountryCode(context.Background(), "203.0.113.7")
	assert.Error(t, err)
}

package rates

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	pkgerrors "github.com/angelmondragon/merchantry-backend/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchRatesParsesResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/latest", r.URL.Path)
		assert.Equal(t, "USD", r.URL.Query().Get("base"))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"base":"USD","rates":{"eur":0.9,"GBP":0.8,"BAD":0,"NEG":-1}}`))
	}))
	defer server.Close()

	provider, err := NewHTTPProvider(server.URL, "secret", 5*time.Second)
	require.NoError(t, err)

	rates, err := provider.FetchRates(context.Background(), "usd")
	require.NoError(t, err)

	// Zero and negative quotes are dropped, codes are normalized.
	require.Len(t, rates, 2)
	assert.True(t, rates["EUR"].Equal(decimal.RequireFromString("0.9")))
	assert.True(t, rates["GBP"].Equal(decimal.RequireFromString("0.8")))
}

func TestFetchRatesNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "quota exhausted", http.StatusTooManyRequests)
	}))
	defer server.Close()

	provider, err := NewHTTPProvider(server.URL, "", 5*time.Second)
	require.NoError(t, err)

	_, err = provider.FetchRates(context.Background(), "USD")
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeDependency))
}

func TestFetchRatesRequiresBaseCode(t *testing.T) {
	provider, err := NewHTTPProvider("https://rates.example.com", "", 5*time.Second)
	require.NoError(t, err)

	_, err = provider.FetchRates(context.Background(), "  ")
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
}

func TestNewHTTPProviderRequiresURL(t *testing.T) {
	_, err := NewHTTPProvider("   ", "", 5*time.Second)
	require.Error(t, err)
}

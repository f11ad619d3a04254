package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	pkgerrors "github.com/angelmondragon/merchantry-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

const responseBodyReadLimit int64 = 1024

// Provider fetches current exchange rates for a base currency. Implementations
// must bound their own network timeouts; rate refresh is maintenance work and
// must never hang the worker.
type Provider interface {
	FetchRates(ctx context.Context, baseCurrencyCode string) (map[string]decimal.Decimal, error)
}

// HTTPProvider talks to an external exchange-rate HTTP API.
type HTTPProvider struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// ProviderOption configures optional provider behavior.
type ProviderOption func(*HTTPProvider)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) ProviderOption {
	return func(p *HTTPProvider) {
		if client != nil {
			p.httpClient = client
		}
	}
}

// NewHTTPProvider builds a provider for the configured rates endpoint.
func NewHTTPProvider(baseURL, apiKey string, timeout time.Duration, opts ...ProviderOption) (*HTTPProvider, error) {
	trimmedURL := strings.TrimSpace(baseURL)
	if trimmedURL == "" {
		return nil, fmt.Errorf("rate provider URL is required")
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	provider := &HTTPProvider{
		baseURL:    strings.TrimRight(trimmedURL, "/"),
		apiKey:     strings.TrimSpace(apiKey),
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(provider)
		}
	}
	return provider, nil
}

// FetchRates retrieves the latest rates quoted against the base currency. The
// returned map only contains the codes the provider actually quoted; callers
// must leave anything absent untouched.
func (p *HTTPProvider) FetchRates(ctx context.Context, baseCurrencyCode string) (map[string]decimal.Decimal, error) {
	if p == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "rate provider not configured")
	}
	base := strings.ToUpper(strings.TrimSpace(baseCurrencyCode))
	if base == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "base currency code is required")
	}

	endpoint := fmt.Sprintf("%s/latest?base=%s", p.baseURL, url.QueryEscape(base))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build rates request")
	}
	req.Header.Set("Accept", "application/json")
	if p.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute rates request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "rates request failed")
	}

	var apiResp struct {
		Base  string                     `json:"base"`
		Rates map[string]decimal.Decimal `json:"rates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode rates response")
	}

	rates := make(map[string]decimal.Decimal, len(apiResp.Rates))
	for code, rate := range apiResp.Rates {
		if rate.IsZero() || rate.IsNegative() {
			continue
		}
		rates[strings.ToUpper(code)] = rate
	}
	return rates, nil
}

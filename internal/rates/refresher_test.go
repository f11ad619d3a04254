package rates

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/angelmondragon/merchantry-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/merchantry-backend/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	fetchFn func(ctx context.Context, base string) (map[string]decimal.Decimal, error)
}

func (f *fakeProvider) FetchRates(ctx context.Context, base string) (map[string]decimal.Decimal, error) {
	return f.fetchFn(ctx, base)
}

type fakeStore struct {
	defaultFn    func(ctx context.Context) (*models.Currency, error)
	listActiveFn func(ctx context.Context) ([]models.Currency, error)
	updateRateFn func(ctx context.Context, code string, rate decimal.Decimal, fetchedAt time.Time) error
}

func (f *fakeStore) GetDefault(ctx context.Context) (*models.Currency, error) {
	return f.defaultFn(ctx)
}

func (f *fakeStore) ListActive(ctx context.Context) ([]models.Currency, error) {
	return f.listActiveFn(ctx)
}

func (f *fakeStore) UpdateRate(ctx context.Context, code string, rate decimal.Decimal, fetchedAt time.Time) error {
	return f.updateRateFn(ctx, code, rate, fetchedAt)
}

func catalog() []models.Currency {
	return []models.Currency{
		{Code: "USD", IsDefault: true, IsActive: true, ExchangeRate: decimal.NewFromInt(1)},
		{Code: "EUR", IsActive: true, ExchangeRate: decimal.RequireFromString("0.85")},
		{Code: "GBP", IsActive: true, ExchangeRate: decimal.RequireFromString("0.75")},
	}
}

func fastRetry() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, InitialBackoff: time.Millisecond, MaximumBackoff: 2 * time.Millisecond}
}

func TestRefreshAllAppliesOnlyQuotedRates(t *testing.T) {
	updated := map[string]decimal.Decimal{}
	store := &fakeStore{
		defaultFn:    func(context.Context) (*models.Currency, error) { return &models.Currency{Code: "USD", IsDefault: true}, nil },
		listActiveFn: func(context.Context) ([]models.Currency, error) { return catalog(), nil },
		updateRateFn: func(_ context.Context, code string, rate decimal.Decimal, _ time.Time) error {
			updated[code] = rate
			return nil
		},
	}
	provider := &fakeProvider{
		fetchFn: func(_ context.Context, base string) (map[string]decimal.Decimal, error) {
			assert.Equal(t, "USD", base)
			// GBP is not quoted this cycle; its stored rate must survive.
			return map[string]decimal.Decimal{"EUR": decimal.RequireFromString("0.9")}, nil
		},
	}

	refresher, err := NewRefresher(provider, store, fastRetry(), nil, nil)
	require.NoError(t, err)

	require.NoError(t, refresher.RefreshAll(context.Background()))

	require.Len(t, updated, 1)
	assert.True(t, updated["EUR"].Equal(decimal.RequireFromString("0.9")))
	_, touched := updated["GBP"]
	assert.False(t, touched)
}

func TestRefreshAllRetriesTransientFailures(t *testing.T) {
	calls := 0
	provider := &fakeProvider{
		fetchFn: func(context.Context, string) (map[string]decimal.Decimal, error) {
			calls++
			if calls < 3 {
				return nil, fmt.Errorf("connection reset")
			}
			return map[string]decimal.Decimal{"EUR": decimal.RequireFromString("0.9")}, nil
		},
	}
	updated := 0
	store := &fakeStore{
		defaultFn:    func(context.Context) (*models.Currency, error) { return &models.Currency{Code: "USD", IsDefault: true}, nil },
		listActiveFn: func(context.Context) ([]models.Currency, error) { return catalog(), nil },
		updateRateFn: func(context.Context, string, decimal.Decimal, time.Time) error {
			updated++
			return nil
		},
	}

	refresher, err := NewRefresher(provider, store, fastRetry(), nil, nil)
	require.NoError(t, err)

	require.NoError(t, refresher.RefreshAll(context.Background()))
	assert.Equal(t, 3, calls)
	assert.Equal(t, 1, updated)
}

func TestRefreshAllProviderDownLeavesRatesAlone(t *testing.T) {
	provider := &fakeProvider{
		fetchFn: func(context.Context, string) (map[string]decimal.Decimal, error) {
			return nil, fmt.Errorf("provider down")
		},
	}
	store := &fakeStore{
		defaultFn:    func(context.Context) (*models.Currency, error) { return &models.Currency{Code: "USD", IsDefault: true}, nil },
		listActiveFn: func(context.Context) ([]models.Currency, error) { return catalog(), nil },
		updateRateFn: func(context.Context, string, decimal.Decimal, time.Time) error {
			t.Fatal("no rate may be written when the provider is down")
			return nil
		},
	}

	refresher, err := NewRefresher(provider, store, fastRetry(), nil, nil)
	require.NoError(t, err)

	err = refresher.RefreshAll(context.Background())
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeDependency))
}

func TestRefreshAllAggregatesPartialUpdateFailures(t *testing.T) {
	provider := &fakeProvider{
		fetchFn: func(context.Context, string) (map[string]decimal.Decimal, error) {
			return map[string]decimal.Decimal{
				"EUR": decimal.RequireFromString("0.9"),
				"GBP": decimal.RequireFromString("0.8"),
			}, nil
		},
	}
	applied := 0
	store := &fakeStore{
		defaultFn:    func(context.Context) (*models.Currency, error) { return &models.Currency{Code: "USD", IsDefault: true}, nil },
		listActiveFn: func(context.Context) ([]models.Currency, error) { return catalog(), nil },
		updateRateFn: func(_ context.Context, code string, _ decimal.Decimal, _ time.Time) error {
			if code == "EUR" {
				return fmt.Errorf("row locked")
			}
			applied++
			return nil
		},
	}

	refresher, err := NewRefresher(provider, store, fastRetry(), nil, nil)
	require.NoError(t, err)

	err = refresher.RefreshAll(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "EUR")
	// The GBP update still landed.
	assert.Equal(t, 1, applied)
}

func TestRefreshAllSkipsDefaultCurrency(t *testing.T) {
	provider := &fakeProvider{
		fetchFn: func(context.Context, string) (map[string]decimal.Decimal, error) {
			// A sloppy provider echoes the base currency back.
			return map[string]decimal.Decimal{"USD": decimal.RequireFromString("1.01")}, nil
		},
	}
	store := &fakeStore{
		defaultFn:    func(context.Context) (*models.Currency, error) { return &models.Currency{Code: "USD", IsDefault: true}, nil },
		listActiveFn: func(context.Context) ([]models.Currency, error) { return catalog(), nil },
		updateRateFn: func(context.Context, string, decimal.Decimal, time.Time) error {
			t.Fatal("the default currency's rate is pinned at 1 and must not be rewritten")
			return nil
		},
	}

	refresher, err := NewRefresher(provider, store, fastRetry(), nil, nil)
	require.NoError(t, err)

	require.NoError(t, refresher.RefreshAll(context.Background()))
}

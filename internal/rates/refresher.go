package rates

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/merchantry-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/merchantry-backend/pkg/errors"
	"github.com/angelmondragon/merchantry-backend/pkg/logger"
	"github.com/angelmondragon/merchantry-backend/pkg/metrics"
	"github.com/sethvargo/go-retry"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
)

// RetryPolicy bounds the fetch attempts against the external provider.
type RetryPolicy struct {
	MaxAttempts    int
	InitialBackoff time.Duration
	MaximumBackoff time.Duration
}

type currencyStore interface {
	GetDefault(ctx context.Context) (*models.Currency, error)
	ListActive(ctx context.Context) ([]models.Currency, error)
	UpdateRate(ctx context.Context, code string, rate decimal.Decimal, fetchedAt time.Time) error
}

// Refresher pulls fresh exchange rates and applies them to the catalog.
// Provider failures never touch stored rates; a partial provider response
// updates only the codes it quoted and leaves the rest unchanged.
type Refresher struct {
	provider Provider
	store    currencyStore
	retry    RetryPolicy
	logg     *logger.Logger
	jobs     *metrics.JobMetrics
	now      func() time.Time
}

// NewRefresher constructs a rate refresher.
func NewRefresher(provider Provider, store currencyStore, retry RetryPolicy, logg *logger.Logger, jobs *metrics.JobMetrics) (*Refresher, error) {
	if provider == nil {
		return nil, fmt.Errorf("rate provider required")
	}
	if store == nil {
		return nil, fmt.Errorf("currency store required")
	}
	if retry.MaxAttempts <= 0 {
		retry.MaxAttempts = 1
	}
	if retry.InitialBackoff <= 0 {
		retry.InitialBackoff = 250 * time.Millisecond
	}
	if retry.MaximumBackoff < retry.InitialBackoff {
		retry.MaximumBackoff = retry.InitialBackoff
	}
	return &Refresher{
		provider: provider,
		store:    store,
		retry:    retry,
		logg:     logg,
		jobs:     jobs,
		now:      time.Now,
	}, nil
}

// RefreshAll fetches rates quoted against the default currency and stores them
// for every active non-default currency the provider quoted. Per-currency
// store failures are aggregated so one bad row does not abort the sweep.
func (r *Refresher) RefreshAll(ctx context.Context) error {
	base, err := r.store.GetDefault(ctx)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeConfiguration, err, "load default currency")
	}

	fetched, err := r.fetchWithRetry(ctx, base.Code)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetch exchange rates")
	}

	active, err := r.store.ListActive(ctx)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list active currencies")
	}

	fetchedAt := r.now().UTC()
	applied := 0
	var updateErrs error
	for i := range active {
		currency := &active[i]
		if currency.IsDefault {
			continue
		}
		rate, ok := fetched[currency.Code]
		if !ok {
			continue
		}
		if err := r.store.UpdateRate(ctx, currency.Code, rate, fetchedAt); err != nil {
			updateErrs = multierr.Append(updateErrs, fmt.Errorf("update rate for %s: %w", currency.Code, err))
			continue
		}
		applied++
	}

	if r.jobs != nil {
		r.jobs.AddRefreshedRates(applied)
	}
	if r.logg != nil {
		infoCtx := r.logg.WithFields(ctx, map[string]any{
			"base":    base.Code,
			"fetched": len(fetched),
			"applied": applied,
		})
		r.logg.Info(infoCtx, "exchange rates refreshed")
	}
	return updateErrs
}

func (r *Refresher) fetchWithRetry(ctx context.Context, baseCode string) (map[string]decimal.Decimal, error) {
	backoff := retry.WithCappedDuration(r.retry.MaximumBackoff, retry.NewExponential(r.retry.InitialBackoff))
	backoff = retry.WithMaxRetries(uint64(r.retry.MaxAttempts-1), backoff)

	attempt := 0
	var rates map[string]decimal.Decimal
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		fetched, err := r.provider.FetchRates(ctx, baseCode)
		if err != nil {
			if r.logg != nil && attempt < r.retry.MaxAttempts {
				r.logg.Warn(ctx, fmt.Sprintf("rate fetch attempt %d failed, retrying", attempt))
			}
			return retry.RetryableError(err)
		}
		rates = fetched
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rates, nil
}

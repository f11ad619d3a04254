package cron

import (
	"context"
	"errors"
)

// rateRefresher is the surface the job needs from the rates refresher.
type rateRefresher interface {
	RefreshAll(ctx context.Context) error
}

// RatesRefreshJob pulls fresh exchange rates on every cron cycle.
type RatesRefreshJob struct {
	refresher rateRefresher
}

// NewRatesRefreshJob builds the exchange-rate refresh job.
func NewRatesRefreshJob(refresher rateRefresher) (*RatesRefreshJob, error) {
	if refresher == nil {
		return nil, errors.New("rate refresher required")
	}
	return &RatesRefreshJob{refresher: refresher}, nil
}

// Name implements Job.
func (j *RatesRefreshJob) Name() string {
	return "exchange_rates_refresh"
}

// Run implements Job.
func (j *RatesRefreshJob) Run(ctx context.Context) error {
	return j.refresher.RefreshAll(ctx)
}

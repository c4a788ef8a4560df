package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/Dan9191/fincalc/internal/models"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const fetchTimeout = 30 * time.Second

// Fetcher retrieves a fresh key rate
type Fetcher interface {
	FetchKeyRate(ctx context.Context) (models.KeyRate, error)
}

// Saver stores a fetched key rate
type Saver interface {
	Save(kr models.KeyRate)
}

// RateRefresher periodically copies the key rate from a Fetcher into a Saver
type RateRefresher struct {
	cron    *cron.Cron
	fetcher Fetcher
	store   Saver
	log     *logrus.Logger
}

// NewRateRefresher registers the refresh job on schedule
func NewRateRefresher(schedule string, fetcher Fetcher, store Saver, log *logrus.Logger) (*RateRefresher, error) {
	r := &RateRefresher{
		cron:    cron.New(),
		fetcher: fetcher,
		store:   store,
		log:     log,
	}
	if _, err := r.cron.AddFunc(schedule, func() { r.Refresh(context.Background()) }); err != nil {
		return nil, fmt.Errorf("invalid schedule %q: %w", schedule, err)
	}
	return r, nil
}

// Refresh fetches once. Failures are logged and the previous snapshot kept.
func (r *RateRefresher) Refresh(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	kr, err := r.fetcher.FetchKeyRate(ctx)
	if err != nil {
		r.log.WithError(err).Warn("Key rate refresh failed")
		return false
	}
	r.store.Save(kr)
	return true
}

// Start refreshes immediately in the background and then on schedule
func (r *RateRefresher) Start() {
	go r.Refresh(context.Background())
	r.cron.Start()
	r.log.Info("Key rate refresher started")
}

// Stop halts the schedule and waits for a running job to finish or ctx to end
func (r *RateRefresher) Stop(ctx context.Context) {
	select {
	case <-r.cron.Stop().Done():
	case <-ctx.Done():
	}
	r.log.Info("Key rate refresher stopped")
}

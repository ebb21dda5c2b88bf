package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/placement-dashboard/internal/model"
)

// BaselineRefresher rewrites a cached copy of the baseline table.
type BaselineRefresher interface {
	Refresh(ctx context.Context) (model.RegionBaseline, error)
}

const refreshTimeout = 30 * time.Second

// BaselineRefreshWorker keeps the Redis baseline cache warm so view renders
// never wait on PostgreSQL after the first load.
type BaselineRefreshWorker struct {
	refresher BaselineRefresher
	interval  time.Duration
	log       zerolog.Logger
}

func NewBaselineRefreshWorker(refresher BaselineRefresher, interval time.Duration, log zerolog.Logger) *BaselineRefreshWorker {
	return &BaselineRefreshWorker{
		refresher: refresher,
		interval:  interval,
		log:       log.With().Str("component", "baseline_refresh_worker").Logger(),
	}
}

// ----------------------------------------------------------------
// Worker loop
// ----------------------------------------------------------------

// Start refreshes once immediately and then every interval until ctx is done.
func (w *BaselineRefreshWorker) Start(ctx context.Context) {
	w.log.Info().Dur("interval", w.interval).Msg("BaselineRefreshWorker started")

	w.refreshSafe(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("BaselineRefreshWorker stopped")
			return
		case <-ticker.C:
			w.refreshSafe(ctx)
		}
	}
}

func (w *BaselineRefreshWorker) refreshSafe(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			w.log.Error().Interface("panic", r).Msg("Recovered panic in baseline refresh")
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, refreshTimeout)
	defer cancel()

	start := time.Now()
	baseline, err := w.refresher.Refresh(ctx)
	if err != nil {
		if ctx.Err() == nil {
			w.log.Error().Err(err).Msg("Baseline refresh failed")
		}
		return
	}

	w.log.Debug().
		Int("states", len(baseline)).
		Dur("took", time.Since(start)).
		Msg("Baseline cache refreshed")
}

// Package matrixengine owns the matrix cache's watermark and drives the
// refresh protocol: find the earliest affected month bucket, delete and
// reinsert it within a transaction, retry transient failures with
// backoff, and advance the watermark only after a successful commit.
package matrixengine

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/kyogre-go/fisheries/internal/domain/matrix"
	"github.com/kyogre-go/fisheries/internal/domain/ports"
	"github.com/kyogre-go/fisheries/internal/domain/shared"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const maxRefreshRetries = 3

type Metrics struct {
	RefreshDuration *prometheus.HistogramVec
	RefreshTotal    *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RefreshDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: "fisheries_matrix_refresh_duration_seconds",
			Help: "Duration of a single matrix cache refresh cycle.",
		}, []string{"source", "outcome"}),
		RefreshTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fisheries_matrix_refresh_total",
			Help: "Matrix cache refresh cycles, by source and outcome.",
		}, []string{"source", "outcome"}),
	}
	reg.MustRegister(m.RefreshDuration, m.RefreshTotal)
	return m
}

// Refresher is the single task that owns the watermark and the write
// side of a cube. Only one refresher runs per source at a time; read
// queries acquire only read handles and may interleave freely with a
// refresh in progress on a different month bucket.
type Refresher struct {
	cache   ports.MatrixCache
	metrics *Metrics
	log     zerolog.Logger
	limiter *rate.Limiter
}

func NewRefresher(cache ports.MatrixCache, metrics *Metrics, log zerolog.Logger, tickInterval time.Duration) *Refresher {
	r := rate.Every(tickInterval)
	return &Refresher{
		cache:   cache,
		metrics: metrics,
		log:     log.With().Str("component", "matrix_refresher").Logger(),
		limiter: rate.NewLimiter(r, 1),
	}
}

// RefreshOnce runs a single refresh cycle for source: it reads the
// pending data_version rows, resolves the earliest affected bucket, and
// refreshes it. Cancelling mid-cycle is safe — the watermark is left
// unchanged and the next cycle retries from the same bucket.
func (r *Refresher) RefreshOnce(ctx context.Context, source matrix.Source) error {
	start := time.Now()

	wm, err := r.cache.Watermark(ctx, source)
	if err != nil {
		return shared.NewStorageTransientError(err)
	}

	pending, err := r.cache.PendingVersions(ctx, source, wm)
	if err != nil {
		return shared.NewStorageTransientError(err)
	}

	bucket, nextVersion, ok := matrix.PlanRefresh(wm, pending)
	if !ok {
		r.observe(source, "noop", start)
		return nil
	}

	operation := func() error {
		if err := ctx.Err(); err != nil {
			return backoff.Permanent(err)
		}
		return r.cache.RefreshBucket(ctx, source, bucket)
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxRefreshRetries), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		r.observe(source, "error", start)
		return shared.NewStorageTransientError(err)
	}

	if err := r.cache.AdvanceWatermark(ctx, matrix.Watermark{Source: source, Version: nextVersion}); err != nil {
		r.observe(source, "error", start)
		return shared.NewStoragePermanentError(err)
	}

	r.observe(source, "ok", start)
	return nil
}

func (r *Refresher) observe(source matrix.Source, outcome string, start time.Time) {
	r.metrics.RefreshTotal.WithLabelValues(source.String(), outcome).Inc()
	r.metrics.RefreshDuration.WithLabelValues(source.String(), outcome).Observe(time.Since(start).Seconds())
}

// Loop ticks RefreshOnce for both sources on the configured interval
// until ctx is cancelled, waiting on the rate limiter before each tick
// so cycles run at most once per interval.
func (r *Refresher) Loop(ctx context.Context) {
	for {
		if err := r.limiter.Wait(ctx); err != nil {
			return
		}
		for _, source := range []matrix.Source{matrix.Hauls, matrix.Landings} {
			if err := r.RefreshOnce(ctx, source); err != nil {
				r.log.Error().Err(err).Str("source", source.String()).Msg("refresh cycle failed")
			}
		}
	}
}

package telemetry

import (
	"context"
	"sync"
	"time"

	"github.com/kasflow/txbuilder/settings"
	"github.com/kasflow/txbuilder/ulogger"
	"github.com/kasflow/txbuilder/util"
)

// source is a single-flight, TTL-bounded cache in front of one summary
// endpoint. On fetch failure it serves the last known value, downgraded to
// a stale classification by age. It never returns an error: telemetry only
// attenuates the fee, it never blocks a build.
type source[T any] struct {
	name    string
	url     string
	ttl     time.Duration
	soft    time.Duration
	hard    time.Duration
	timeout time.Duration
	logger  ulogger.Logger
	now     func() time.Time
	cache   *util.ExpiringConcurrentCache[string, T]

	mu      sync.Mutex
	last    T
	lastAt  time.Time
	hasLast bool
}

func newSource[T any](name, url string, tSettings *settings.Settings, logger ulogger.Logger, now func() time.Time) *source[T] {
	return &source[T]{
		name:    name,
		url:     url,
		ttl:     tSettings.Telemetry.TTL,
		soft:    tSettings.Telemetry.StaleSoftWindow,
		hard:    tSettings.Telemetry.StaleHardWindow,
		timeout: tSettings.Telemetry.Timeout,
		logger:  logger,
		now:     now,
		cache:   util.NewExpiringConcurrentCache[string, T](tSettings.Telemetry.TTL),
	}
}

// get returns the current summary and its freshness. The fetch is detached
// from the request context: an abandoned request must not kill a fetch that
// concurrent or future callers will share.
func (s *source[T]) get(ctx context.Context) (T, FreshnessState) {
	prometheusTelemetryGets.WithLabelValues(s.name).Inc()

	value, err := s.cache.GetOrSet("summary", func() (T, error) {
		prometheusTelemetryFetches.WithLabelValues(s.name).Inc()

		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
		defer cancel()

		summary, err := fetchSummary[T](fetchCtx, s.url)
		if err != nil {
			return summary, err
		}

		// Recorded here, not on cache hits: staleness is measured from the
		// last successful fetch.
		s.mu.Lock()
		s.last = summary
		s.lastAt = s.now()
		s.hasLast = true
		s.mu.Unlock()

		return summary, nil
	})

	if err == nil {
		return value, FreshnessFresh
	}

	prometheusTelemetryErrors.WithLabelValues(s.name).Inc()
	s.logger.Warnf("[telemetry] %s summary fetch failed, degrading: %v", s.name, err)

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasLast {
		var zero T
		return zero, FreshnessStaleHard
	}

	prometheusTelemetryStale.WithLabelValues(s.name).Inc()

	age := s.now().Sub(s.lastAt)

	if age <= s.ttl+s.soft {
		return s.last, FreshnessStaleSoft
	}

	if age <= s.ttl+s.hard {
		return s.last, FreshnessStaleHard
	}

	// too old to be worth anything
	var zero T

	return zero, FreshnessStaleHard
}

// Cache fronts the two congestion/latency summary endpoints. It is the only
// shared mutable state between concurrent build requests.
type Cache struct {
	logger    ulogger.Logger
	receipts  *source[receiptsSummary]
	scheduler *source[schedulerSummary]
}

type CacheOption func(*Cache)

// WithClock injects the time source used for staleness classification.
func WithClock(now func() time.Time) CacheOption {
	return func(c *Cache) {
		if c.receipts != nil {
			c.receipts.now = now
		}

		if c.scheduler != nil {
			c.scheduler.now = now
		}
	}
}

func NewCache(logger ulogger.Logger, tSettings *settings.Settings, opts ...CacheOption) *Cache {
	initPrometheusMetrics()

	c := &Cache{logger: logger}

	if tSettings.Telemetry.ReceiptsURL != "" {
		c.receipts = newSource[receiptsSummary]("receipts", tSettings.Telemetry.ReceiptsURL, tSettings, logger, time.Now)
	}

	if tSettings.Telemetry.SchedulerURL != "" {
		c.scheduler = newSource[schedulerSummary]("scheduler", tSettings.Telemetry.SchedulerURL, tSettings, logger, time.Now)
	}

	for _, o := range opts {
		o(c)
	}

	return c
}

// Snapshot merges a caller-supplied partial snapshot over cached summaries.
// Caller-supplied fields win and are always treated as fresh; the snapshot's
// freshness is the weakest classification among cached fields actually used.
func (c *Cache) Snapshot(ctx context.Context, partial *Snapshot) *Snapshot {
	snap := &Snapshot{Freshness: FreshnessFresh}

	if partial != nil {
		snap.ObservedConfirmLatencyP95Ms = partial.ObservedConfirmLatencyP95Ms
		snap.DAACongestionPct = partial.DAACongestionPct
		snap.ReceiptLagP95Ms = partial.ReceiptLagP95Ms
		snap.SchedulerCallbackLatencyP95Ms = partial.SchedulerCallbackLatencyP95Ms
	}

	if c.receipts != nil && (snap.ObservedConfirmLatencyP95Ms == nil || snap.ReceiptLagP95Ms == nil) {
		summary, freshness := c.receipts.get(ctx)

		used := false

		if snap.ObservedConfirmLatencyP95Ms == nil && summary.Receipts.ConfirmationLatencyMs.P95 != nil {
			snap.ObservedConfirmLatencyP95Ms = summary.Receipts.ConfirmationLatencyMs.P95
			used = true
		}

		if snap.ReceiptLagP95Ms == nil && summary.Receipts.ReceiptLagMs.P95 != nil {
			snap.ReceiptLagP95Ms = summary.Receipts.ReceiptLagMs.P95
			used = true
		}

		if used {
			snap.Freshness = snap.Freshness.Worst(freshness)
		}
	}

	if c.scheduler != nil && (snap.DAACongestionPct == nil || snap.SchedulerCallbackLatencyP95Ms == nil) {
		summary, freshness := c.scheduler.get(ctx)

		used := false

		if snap.DAACongestionPct == nil && summary.Scheduler.SaturationProxyPct != nil {
			snap.DAACongestionPct = summary.Scheduler.SaturationProxyPct
			used = true
		}

		if snap.SchedulerCallbackLatencyP95Ms == nil && summary.Callbacks.LatencyP95BucketMs != nil {
			snap.SchedulerCallbackLatencyP95Ms = summary.Callbacks.LatencyP95BucketMs
			used = true
		}

		if used {
			snap.Freshness = snap.Freshness.Worst(freshness)
		}
	}

	return snap
}

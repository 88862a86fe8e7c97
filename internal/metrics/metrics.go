package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

type providerStats struct {
	calls           int
	errors          int
	rateLimitHits   int
	lastRetryAfter  time.Duration
	lastCallLatency time.Duration
}

// Recorder captures in-memory provider stats and forwards everything to otel instruments when configured.
type Recorder struct {
	mu          sync.Mutex
	stats       map[string]*providerStats
	cacheHits   atomic.Int64
	cacheMisses atomic.Int64
	quota       atomic.Int64
	varRuns     map[string]int
	otel        *otelInstruments
}

func NewRecorder() *Recorder {
	return newRecorder(nil)
}

func newRecorder(otel *otelInstruments) *Recorder {
	r := &Recorder{
		stats:   make(map[string]*providerStats),
		varRuns: make(map[string]int),
		otel:    otel,
	}
	r.quota.Store(-1)
	if otel != nil {
		otel.quotaSource = r.QuotaRemaining
	}
	return r
}

// RecordProviderAttempt increments counters for a provider call and stores the last observed latency.
func (r *Recorder) RecordProviderAttempt(provider string, duration time.Duration, err error) {
	if r == nil {
		return
	}

	stats := r.ensureStats(provider)
	r.mu.Lock()
	stats.calls++
	stats.lastCallLatency = duration
	if err != nil {
		stats.errors++
	}
	r.mu.Unlock()
	if r.otel != nil {
		r.otel.recordProviderAttempt(provider, duration, err)
	}
}

// RecordRateLimit tracks that a provider response hit a rate limit and stores the last Retry-After.
func (r *Recorder) RecordRateLimit(provider string, retryAfter time.Duration) {
	if r == nil {
		return
	}

	stats := r.ensureStats(provider)
	r.mu.Lock()
	stats.rateLimitHits++
	if retryAfter > 0 {
		stats.lastRetryAfter = retryAfter
	}
	r.mu.Unlock()
	if r.otel != nil {
		r.otel.recordRateLimit(provider, retryAfter)
	}
}

// RecordCache counts a cache lookup for the named cache.
func (r *Recorder) RecordCache(cache string, hit bool) {
	if r == nil {
		return
	}
	if hit {
		r.cacheHits.Add(1)
	} else {
		r.cacheMisses.Add(1)
	}
	if r.otel != nil {
		r.otel.recordCache(cache, hit)
	}
}

// CacheStats returns hit and miss totals across caches.
func (r *Recorder) CacheStats() (hits, misses int64) {
	if r == nil {
		return 0, 0
	}
	return r.cacheHits.Load(), r.cacheMisses.Load()
}

// SetQuotaRemaining stores the latest odds API remaining quota. The otel gauge observes it on collection.
func (r *Recorder) SetQuotaRemaining(remaining int) {
	if r == nil {
		return
	}
	r.quota.Store(int64(remaining))
}

// QuotaRemaining returns the last stored quota, or -1 when none was observed.
func (r *Recorder) QuotaRemaining() int64 {
	if r == nil {
		return -1
	}
	return r.quota.Load()
}

// RecordVaR counts a VaR computation by method.
func (r *Recorder) RecordVaR(method string, duration time.Duration, err error) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.varRuns[method]++
	r.mu.Unlock()
	if r.otel != nil {
		r.otel.recordVaR(method, duration, err)
	}
}

// VaRRuns returns how many computations were recorded for method.
func (r *Recorder) VaRRuns(method string) int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.varRuns[method]
}

// RecordBackfillDay tracks one day of an odds backfill with its outcome (written, skipped, failed).
func (r *Recorder) RecordBackfillDay(sport, result string) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordBackfillDay(sport, result)
}

// ProviderCalls returns the total attempts recorded for a provider.
func (r *Recorder) ProviderCalls(provider string) int {
	return r.Snapshot(provider).Calls
}

// ProviderErrors returns the total failed attempts recorded for a provider.
func (r *Recorder) ProviderErrors(provider string) int {
	return r.Snapshot(provider).Errors
}

// RateLimitHits returns the number of rate limit events seen for a provider.
func (r *Recorder) RateLimitHits(provider string) int {
	return r.Snapshot(provider).RateLimitHits
}

// LastRetryAfter returns the most recent Retry-After recorded for a provider.
func (r *Recorder) LastRetryAfter(provider string) time.Duration {
	return r.Snapshot(provider).LastRetryAfter
}

// LastCallLatency returns the last recorded latency for a provider call.
func (r *Recorder) LastCallLatency(provider string) time.Duration {
	return r.Snapshot(provider).LastCallLatency
}

// Snapshot returns a copy of the current stats for the provider.
type Snapshot struct {
	Calls           int
	Errors          int
	RateLimitHits   int
	LastRetryAfter  time.Duration
	LastCallLatency time.Duration
}

func (r *Recorder) Snapshot(provider string) Snapshot {
	if r == nil {
		return Snapshot{}
	}
	stats := r.snapshot(provider)
	return Snapshot{
		Calls:           stats.calls,
		Errors:          stats.errors,
		RateLimitHits:   stats.rateLimitHits,
		LastRetryAfter:  stats.lastRetryAfter,
		LastCallLatency: stats.lastCallLatency,
	}
}

// RecordHTTPRequest tracks basic HTTP metrics.
func (r *Recorder) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordHTTPRequest(method, path, status, duration)
}

// RecordPollerCycle tracks poller cycles and errors.
func (r *Recorder) RecordPollerCycle(duration time.Duration, err error) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordPoller(duration, err)
}

func (r *Recorder) ensureStats(provider string) *providerStats {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats, ok := r.stats[provider]
	if !ok {
		stats = &providerStats{}
		r.stats[provider] = stats
	}
	return stats
}

func (r *Recorder) snapshot(provider string) providerStats {
	r.mu.Lock()
	defer r.mu.Unlock()

	if stats, ok := r.stats[provider]; ok && stats != nil {
		return *stats
	}
	return providerStats{}
}

package providers

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/preston-bernstein/better-bets-service/internal/logging"
	"github.com/preston-bernstein/better-bets-service/internal/metrics"
)

const (
	defaultRetryAttempts = 3
	defaultBackoff       = 200 * time.Millisecond
)

type backoffFunc func(attempt int) time.Duration

// Retrier runs upstream calls with linear, jittered backoff. It is safe for concurrent use.
type Retrier struct {
	logger      *slog.Logger
	metrics     *metrics.Recorder
	maxAttempts int
	backoffFn   backoffFunc

	mu  sync.Mutex
	rng *rand.Rand
}

// NewRetrier builds a Retrier. If maxAttempts/backoff are <= 0, defaults are used.
func NewRetrier(logger *slog.Logger, recorder *metrics.Recorder, maxAttempts int, backoff time.Duration) *Retrier {
	return NewRetrierWithRNG(logger, recorder, nil, maxAttempts, backoff)
}

// NewRetrierWithRNG is NewRetrier with an explicit jitter source.
func NewRetrierWithRNG(logger *slog.Logger, recorder *metrics.Recorder, rng *rand.Rand, maxAttempts int, backoff time.Duration) *Retrier {
	if maxAttempts <= 0 {
		maxAttempts = defaultRetryAttempts
	}
	if backoff <= 0 {
		backoff = defaultBackoff
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Retrier{
		logger:      logger,
		metrics:     recorder,
		maxAttempts: maxAttempts,
		backoffFn: func(attempt int) time.Duration {
			return time.Duration(attempt) * backoff
		},
		rng: rng,
	}
}

// Retry calls fn until it succeeds, returns a permanent error, runs out of attempts,
// or ctx is done. Every attempt is recorded against name.
func Retry[T any](ctx context.Context, r *Retrier, name string, fn func(context.Context) (T, error)) (T, error) {
	if r == nil {
		return fn(ctx)
	}

	var (
		zero    T
		lastErr error
	)
	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		start := time.Now()
		value, err := fn(ctx)
		r.metrics.RecordProviderAttempt(name, time.Since(start), err)
		if err == nil {
			return value, nil
		}
		lastErr = err

		if rl, ok := AsRateLimitError(err); ok {
			r.metrics.RecordRateLimit(name, rl.RetryAfter)
		}
		if !retryable(err) || attempt == r.maxAttempts {
			break
		}

		r.logWarn(ctx, "provider call retry",
			slog.String(logging.FieldProvider, name),
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", r.maxAttempts),
			slog.Any("err", err),
		)

		timer := time.NewTimer(r.computeDelay(err, attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}
	}

	r.logWarn(ctx, "provider call failed", slog.String(logging.FieldProvider, name), slog.Any("err", lastErr))
	return zero, lastErr
}

// Once calls fn a single time and records the attempt against name. It suits calls that
// spend upstream quota on every request.
func Once[T any](ctx context.Context, r *Retrier, name string, fn func(context.Context) (T, error)) (T, error) {
	if r == nil {
		return fn(ctx)
	}
	start := time.Now()
	value, err := fn(ctx)
	r.metrics.RecordProviderAttempt(name, time.Since(start), err)
	if err != nil {
		if rl, ok := AsRateLimitError(err); ok {
			r.metrics.RecordRateLimit(name, rl.RetryAfter)
		}
		r.logWarn(ctx, "provider call failed", slog.String(logging.FieldProvider, name), slog.Any("err", err))
	}
	return value, err
}

// Do is Retry for calls that only return an error.
func Do(ctx context.Context, r *Retrier, name string, fn func(context.Context) error) error {
	_, err := Retry(ctx, r, name, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}

func (r *Retrier) computeDelay(err error, attempt int) time.Duration {
	if rl, ok := AsRateLimitError(err); ok && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}
	base := r.backoffFn(attempt)
	if base <= 0 {
		return 0
	}
	r.mu.Lock()
	jitter := r.rng.Int63n(int64(base)/2 + 1)
	r.mu.Unlock()
	return base - time.Duration(jitter)
}

func (r *Retrier) logWarn(ctx context.Context, msg string, args ...any) {
	logging.Warn(logging.FromContext(ctx, r.logger), msg, args...)
}

func retryable(err error) bool {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return false
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrProviderUnavailable):
		return false
	}
	if se, ok := AsStatusError(err); ok {
		return se.Temporary()
	}
	return true
}

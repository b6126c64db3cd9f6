package resilience

import (
	"context"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/cityhop/route-engine/pkg/logger"
)

// RetryConfig controls retry behavior for transient failures
type RetryConfig struct {
	MaxAttempts       int
	InitialBackoff    time.Duration
	MaxBackoff        time.Duration
	BackoffMultiplier float64
	EnableJitter      bool
	// RetryableChecker decides whether an error is worth retrying.
	// When nil, every error is retried.
	RetryableChecker func(error) bool
}

// DefaultRetryConfig returns sensible defaults for upstream HTTP calls
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:       3,
		InitialBackoff:    1 * time.Second,
		MaxBackoff:        4 * time.Second,
		BackoffMultiplier: 2.0,
		EnableJitter:      true,
	}
}

// Retry executes fn up to MaxAttempts times, backing off between attempts.
// It respects context cancellation while sleeping.
func Retry(ctx context.Context, name string, cfg RetryConfig, fn func(ctx context.Context) error) error {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}

	var lastErr error
	backoff := cfg.InitialBackoff

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			if attempt > 1 {
				RecordRetrySuccess(name)
			}
			return nil
		}

		if cfg.RetryableChecker != nil && !cfg.RetryableChecker(lastErr) {
			return lastErr
		}

		if attempt == cfg.MaxAttempts {
			break
		}

		RecordRetryAttempt(name)
		logger.Warn("retrying after failure",
			zap.String("operation", name),
			zap.Int("attempt", attempt),
			zap.Duration("backoff", backoff),
			zap.Error(lastErr))

		wait := backoff
		if cfg.EnableJitter {
			wait = addJitter(wait)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}

		backoff = nextBackoff(backoff, cfg)
	}

	return lastErr
}

func nextBackoff(current time.Duration, cfg RetryConfig) time.Duration {
	multiplier := cfg.BackoffMultiplier
	if multiplier <= 1 {
		multiplier = 2.0
	}
	next := time.Duration(float64(current) * multiplier)
	if cfg.MaxBackoff > 0 && next > cfg.MaxBackoff {
		next = cfg.MaxBackoff
	}
	return next
}

// addJitter spreads waits by +/-25% to avoid thundering herds
func addJitter(d time.Duration) time.Duration {
	if d <= 0 {
		return d
	}
	jitter := time.Duration(rand.Int63n(int64(d) / 2))
	return d - d/4 + jitter
}

package resilience

import (
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/cityhop/route-engine/pkg/logger"
)

// BreakerConfig controls circuit breaker behavior for a single upstream
type BreakerConfig struct {
	// FailureThreshold is the number of consecutive failures that trips
	// the breaker from closed to open.
	FailureThreshold uint32
	// Timeout is how long the breaker stays open before probing half-open.
	Timeout time.Duration
	// MaxHalfOpenRequests limits concurrent probes while half-open.
	MaxHalfOpenRequests uint32
}

// DefaultBreakerConfig returns defaults suitable for routing providers
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		FailureThreshold:    5,
		Timeout:             30 * time.Second,
		MaxHalfOpenRequests: 1,
	}
}

// NewCircuitBreaker builds a gobreaker instance named after the upstream it
// protects. State transitions are logged and exported as metrics.
func NewCircuitBreaker(name string, cfg BreakerConfig) *gobreaker.CircuitBreaker {
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxHalfOpenRequests,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
			RecordBreakerState(name, to)
		},
	}

	return gobreaker.NewCircuitBreaker(settings)
}

// IsBreakerOpen reports whether err is a breaker rejection rather than an
// actual upstream failure.
func IsBreakerOpen(err error) bool {
	return err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests
}

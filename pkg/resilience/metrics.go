package resilience

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sony/gobreaker"
)

var (
	retryAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "resilience_retry_attempts_total",
		Help: "Number of retry attempts per operation",
	}, []string{"operation"})

	retrySuccessTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "resilience_retry_success_total",
		Help: "Number of operations that succeeded after at least one retry",
	}, []string{"operation"})

	breakerState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "resilience_circuit_breaker_state",
		Help: "Current circuit breaker state (0=closed, 1=half-open, 2=open)",
	}, []string{"breaker"})
)

// RecordRetryAttempt increments the retry counter for an operation
func RecordRetryAttempt(operation string) {
	retryAttemptsTotal.WithLabelValues(operation).Inc()
}

// RecordRetrySuccess marks an operation that recovered via retry
func RecordRetrySuccess(operation string) {
	retrySuccessTotal.WithLabelValues(operation).Inc()
}

// RecordBreakerState exports the breaker state as a gauge
func RecordBreakerState(name string, state gobreaker.State) {
	var value float64
	switch state {
	case gobreaker.StateClosed:
		value = 0
	case gobreaker.StateHalfOpen:
		value = 1
	case gobreaker.StateOpen:
		value = 2
	}
	breakerState.WithLabelValues(name).Set(value)
}

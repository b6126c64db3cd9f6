package routing

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	resolutionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "routing_resolutions_total",
		Help: "Resolved routes by the stage that produced them (cache, provider name, or synthetic)",
	}, []string{"source", "mode"})

	providerFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "routing_provider_failures_total",
		Help: "Provider attempt failures by provider and failure kind",
	}, []string{"provider", "kind"})

	resolutionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "routing_resolution_duration_seconds",
		Help:    "End-to-end route resolution latency",
		Buckets: []float64{0.005, 0.05, 0.25, 1, 2.5, 5, 10, 20, 40},
	}, []string{"source"})
)

func recordResolution(source string, mode TravelMode, seconds float64) {
	resolutionsTotal.WithLabelValues(source, string(mode)).Inc()
	resolutionDuration.WithLabelValues(source).Observe(seconds)
}

func recordProviderFailure(provider Provider, kind FailureKind) {
	providerFailuresTotal.WithLabelValues(string(provider), string(kind)).Inc()
}

package routing

import (
	"context"
)

// ProviderClient issues one network request to an external routing service
// and normalizes its response into the common Route shape.
type ProviderClient interface {
	// Name identifies the provider for logging, metrics, and breakers
	Name() Provider

	// Resolve requests a route between origin and destination. Failures are
	// returned as *ProviderError so the resolver can classify them.
	Resolve(ctx context.Context, origin, destination Coordinate, mode TravelMode) (*Route, error)
}

// isDegenerateDistance reports whether a provider-reported distance rounds
// to 0.0 km on display and must be rejected rather than shown.
func isDegenerateDistance(km float64) bool {
	return km < 0.05
}

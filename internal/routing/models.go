package routing

import (
	"fmt"
	"math"
)

// Provider identifies an external routing service
type Provider string

const (
	ProviderOSRM      Provider = "osrm"
	ProviderOpenRoute Provider = "openrouteservice"
	ProviderGoogle    Provider = "google"
	ProviderMapbox    Provider = "mapbox"
)

// SourceSynthetic marks routes produced by the estimated route generator
// rather than any provider.
const SourceSynthetic = "synthetic"

// SourceCache marks routes served from the route cache.
const SourceCache = "cache"

// TravelMode is the requested mode of travel
type TravelMode string

const (
	ModeDriving   TravelMode = "driving"
	ModeWalking   TravelMode = "walking"
	ModeBicycling TravelMode = "bicycling"
	ModeTransit   TravelMode = "transit"
)

// AllModes lists every supported travel mode, in precompute order
var AllModes = []TravelMode{ModeDriving, ModeWalking, ModeBicycling, ModeTransit}

// Valid reports whether the mode is one of the supported values
func (m TravelMode) Valid() bool {
	switch m {
	case ModeDriving, ModeWalking, ModeBicycling, ModeTransit:
		return true
	}
	return false
}

// TrafficCondition is the heuristic congestion level
type TrafficCondition string

const (
	TrafficLight    TrafficCondition = "light"
	TrafficModerate TrafficCondition = "moderate"
	TrafficHeavy    TrafficCondition = "heavy"
)

// Coordinate represents a geographic point in WGS-84 degrees. The zero value
// (0, 0) is a valid point.
type Coordinate struct {
	Latitude  float64 `json:"latitude" validate:"latitude"`
	Longitude float64 `json:"longitude" validate:"longitude"`
}

// TrafficInfo is a heuristic congestion estimate derived from time of day,
// distance, and travel mode. It is a presentation feature, not measured
// traffic.
type TrafficInfo struct {
	Condition         TrafficCondition `json:"condition"`
	EstimatedDelay    string           `json:"estimated_delay"`
	AlternativeRoutes int              `json:"alternative_routes"`
}

// Route is a resolved path between two points. Immutable once constructed;
// a new Route replaces rather than mutates a cached one.
type Route struct {
	Coordinates     []Coordinate `json:"coordinates"`
	DistanceKm      float64      `json:"distance_km"`
	DurationMinutes float64      `json:"duration_minutes"`
	DistanceText    string       `json:"distance_text"`
	DurationText    string       `json:"duration_text"`
	Traffic         TrafficInfo  `json:"traffic"`
	Source          string       `json:"source"`
}

// formatDistanceKm renders a distance in kilometers for display
func formatDistanceKm(km float64) string {
	return fmt.Sprintf("%.1f km", km)
}

// formatDurationMinutes renders a duration in minutes for display,
// splitting into hours past sixty minutes.
func formatDurationMinutes(minutes float64) string {
	total := int(math.Round(minutes))
	if total < 1 {
		total = 1
	}
	if total < 60 {
		return fmt.Sprintf("%d min", total)
	}
	hours := total / 60
	rem := total % 60
	if rem == 0 {
		return fmt.Sprintf("%d hr", hours)
	}
	return fmt.Sprintf("%d hr %d min", hours, rem)
}

package routing

import (
	"fmt"
	"math"
	"time"
)

// TrafficEstimator produces heuristic congestion estimates from time of
// day, distance, and travel mode. It presents a plausible picture, not
// measured traffic, and its output must not be treated as ground truth.
type TrafficEstimator struct {
	now func() time.Time
}

// NewTrafficEstimator creates an estimator using wall-clock time
func NewTrafficEstimator() *TrafficEstimator {
	return &TrafficEstimator{now: time.Now}
}

// NewTrafficEstimatorWithClock creates an estimator with an injected clock
func NewTrafficEstimatorWithClock(now func() time.Time) *TrafficEstimator {
	return &TrafficEstimator{now: now}
}

// Estimate derives traffic info for a trip starting now
func (e *TrafficEstimator) Estimate(distanceKm float64, mode TravelMode) TrafficInfo {
	return EstimateTraffic(distanceKm, mode, e.now().Hour())
}

// isPeakHour reports whether the hour falls in the morning or evening rush
func isPeakHour(hour int) bool {
	return (hour >= 7 && hour < 9) || (hour >= 17 && hour < 19)
}

// EstimateTraffic is the pure heuristic over (distance, mode, hour of day).
// Peak windows are 07:00-09:00 and 17:00-19:00.
func EstimateTraffic(distanceKm float64, mode TravelMode, hour int) TrafficInfo {
	peak := isPeakHour(hour)

	var condition TrafficCondition
	switch mode {
	case ModeDriving:
		switch {
		case peak && distanceKm > 2:
			condition = TrafficHeavy
		case peak || distanceKm > 5:
			condition = TrafficModerate
		default:
			condition = TrafficLight
		}
	case ModeTransit:
		if peak {
			condition = TrafficModerate
		} else {
			condition = TrafficLight
		}
	default:
		// Walking and bicycling are unaffected by road congestion
		condition = TrafficLight
	}

	return TrafficInfo{
		Condition:         condition,
		EstimatedDelay:    delayText(condition, distanceKm, mode),
		AlternativeRoutes: alternativeRouteCount(condition),
	}
}

// delayText scales delay with distance for driving; transit gets fixed text
func delayText(condition TrafficCondition, distanceKm float64, mode TravelMode) string {
	if mode == ModeTransit {
		if condition == TrafficModerate {
			return "Minor delays expected"
		}
		return "No delays"
	}

	switch condition {
	case TrafficHeavy:
		return fmt.Sprintf("+%d min", delayMinutes(distanceKm, 2))
	case TrafficModerate:
		return fmt.Sprintf("+%d min", delayMinutes(distanceKm, 1))
	default:
		return "No delays"
	}
}

func delayMinutes(distanceKm float64, perKm float64) int {
	minutes := int(math.Round(distanceKm * perKm))
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}

func alternativeRouteCount(condition TrafficCondition) int {
	switch condition {
	case TrafficHeavy:
		return 3
	case TrafficModerate:
		return 2
	default:
		return 1
	}
}

package routing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEstimateTraffic_Driving(t *testing.T) {
	tests := []struct {
		name       string
		distanceKm float64
		hour       int
		want       TrafficCondition
	}{
		{"peak long trip", 5, 8, TrafficHeavy},
		{"peak evening long trip", 3, 17, TrafficHeavy},
		{"peak short trip", 1.5, 8, TrafficModerate},
		{"off-peak long trip", 8, 13, TrafficModerate},
		{"off-peak short trip", 1.5, 13, TrafficLight},
		{"boundary distance off-peak", 5, 13, TrafficLight},
		{"hour before morning peak", 4, 6, TrafficLight},
		{"hour after morning peak", 4, 9, TrafficLight},
		{"hour after evening peak", 4, 19, TrafficLight},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := EstimateTraffic(tt.distanceKm, ModeDriving, tt.hour)
			assert.Equal(t, tt.want, info.Condition)
		})
	}
}

func TestEstimateTraffic_DelayScalesWithDistance(t *testing.T) {
	heavy := EstimateTraffic(10, ModeDriving, 8)
	assert.Equal(t, TrafficHeavy, heavy.Condition)
	assert.Equal(t, "+20 min", heavy.EstimatedDelay)

	moderate := EstimateTraffic(10, ModeDriving, 13)
	assert.Equal(t, TrafficModerate, moderate.Condition)
	assert.Equal(t, "+10 min", moderate.EstimatedDelay)

	light := EstimateTraffic(1, ModeDriving, 13)
	assert.Equal(t, "No delays", light.EstimatedDelay)
}

func TestEstimateTraffic_Transit(t *testing.T) {
	peak := EstimateTraffic(10, ModeTransit, 8)
	assert.Equal(t, TrafficModerate, peak.Condition)
	assert.Equal(t, "Minor delays expected", peak.EstimatedDelay)

	offPeak := EstimateTraffic(10, ModeTransit, 13)
	assert.Equal(t, TrafficLight, offPeak.Condition)
	assert.Equal(t, "No delays", offPeak.EstimatedDelay)
}

func TestEstimateTraffic_WalkingAndBicyclingAlwaysLight(t *testing.T) {
	for _, mode := range []TravelMode{ModeWalking, ModeBicycling} {
		for _, hour := range []int{8, 13, 18} {
			info := EstimateTraffic(20, mode, hour)
			assert.Equal(t, TrafficLight, info.Condition, "mode=%s hour=%d", mode, hour)
			assert.Equal(t, "No delays", info.EstimatedDelay)
			assert.Equal(t, 1, info.AlternativeRoutes)
		}
	}
}

func TestEstimateTraffic_AlternativeRouteCounts(t *testing.T) {
	assert.Equal(t, 3, EstimateTraffic(5, ModeDriving, 8).AlternativeRoutes)
	assert.Equal(t, 2, EstimateTraffic(8, ModeDriving, 13).AlternativeRoutes)
	assert.Equal(t, 1, EstimateTraffic(1, ModeDriving, 13).AlternativeRoutes)
}

func TestTrafficEstimator_UsesInjectedClock(t *testing.T) {
	peakClock := func() time.Time {
		return time.Date(2026, 3, 14, 8, 30, 0, 0, time.UTC)
	}
	estimator := NewTrafficEstimatorWithClock(peakClock)

	info := estimator.Estimate(5, ModeDriving)
	assert.Equal(t, TrafficHeavy, info.Condition)
}

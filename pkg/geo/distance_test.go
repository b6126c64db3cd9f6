package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineKm_Identity(t *testing.T) {
	points := [][2]float64{
		{0, 0},
		{10.7989, 122.9744},
		{-33.8688, 151.2093},
		{89.9, -179.9},
	}

	for _, p := range points {
		assert.InDelta(t, 0.0, HaversineKm(p[0], p[1], p[0], p[1]), 1e-9)
	}
}

func TestHaversineKm_Symmetry(t *testing.T) {
	pairs := [][4]float64{
		{10.7989, 122.9744, 10.8050, 122.9800},
		{37.7749, -122.4194, 34.0522, -118.2437},
		{51.5074, -0.1278, 40.7128, -74.0060},
	}

	for _, p := range pairs {
		ab := HaversineKm(p[0], p[1], p[2], p[3])
		ba := HaversineKm(p[2], p[3], p[0], p[1])
		assert.InDelta(t, ab, ba, 1e-9)
	}
}

func TestHaversineKm_KnownDistances(t *testing.T) {
	tests := []struct {
		name  string
		a, b  [2]float64
		minKm float64
		maxKm float64
	}{
		{
			name:  "SF to LA ~550km",
			a:     [2]float64{37.7749, -122.4194},
			b:     [2]float64{34.0522, -118.2437},
			minKm: 530,
			maxKm: 580,
		},
		{
			name:  "NYC to London ~5500km",
			a:     [2]float64{40.7128, -74.0060},
			b:     [2]float64{51.5074, -0.1278},
			minKm: 5500,
			maxKm: 5700,
		},
		{
			name:  "short city hop under 1km",
			a:     [2]float64{10.7989, 122.9744},
			b:     [2]float64{10.8050, 122.9800},
			minKm: 0.5,
			maxKm: 1.2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := HaversineKm(tt.a[0], tt.a[1], tt.b[0], tt.b[1])
			assert.GreaterOrEqual(t, d, tt.minKm)
			assert.LessOrEqual(t, d, tt.maxKm)
		})
	}
}

func TestDistanceMeters_MatchesKilometres(t *testing.T) {
	km := HaversineKm(10.7989, 122.9744, 10.8050, 122.9800)
	m := DistanceMeters(10.7989, 122.9744, 10.8050, 122.9800)
	assert.InDelta(t, km*1000, m, 1e-6)
}

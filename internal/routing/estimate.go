package routing

import (
	"math"
	"math/rand"
	"sync"

	"github.com/cityhop/route-engine/pkg/geo"
)

// modeSpeedsKmh is the average speed table used for synthetic timing
var modeSpeedsKmh = map[TravelMode]float64{
	ModeDriving:   40,
	ModeWalking:   5,
	ModeBicycling: 15,
	ModeTransit:   25,
}

const (
	minSyntheticWaypoints = 2
	maxSyntheticWaypoints = 15
	// jitterDegrees keeps rendered synthetic lines from looking ruler-straight
	jitterDegrees = 0.0005
)

// EstimatedRouteGenerator synthesizes a plausible multi-waypoint path when
// every provider has failed. Waypoints alternate horizontal-first and
// vertical-first interpolation to emulate a street grid; timing comes from
// straight-line distance and an average speed table, not from the waypoint
// path length.
type EstimatedRouteGenerator struct {
	// mu guards rng: one generator is shared across concurrent resolutions
	// and *rand.Rand is not safe for concurrent use
	mu  sync.Mutex
	rng *rand.Rand
}

// NewEstimatedRouteGenerator creates a generator with the given random seed
func NewEstimatedRouteGenerator(seed int64) *EstimatedRouteGenerator {
	return &EstimatedRouteGenerator{rng: rand.New(rand.NewSource(seed))}
}

// Generate builds a synthetic route between origin and destination
func (g *EstimatedRouteGenerator) Generate(origin, destination Coordinate, mode TravelMode) *Route {
	distanceKm := geo.HaversineKm(
		origin.Latitude, origin.Longitude,
		destination.Latitude, destination.Longitude)

	coords := g.waypoints(origin, destination, distanceKm)

	speed := modeSpeedsKmh[mode]
	if speed <= 0 {
		speed = modeSpeedsKmh[ModeDriving]
	}
	durationMin := distanceKm / speed * 60

	return &Route{
		Coordinates:     coords,
		DistanceKm:      distanceKm,
		DurationMinutes: durationMin,
		DistanceText:    formatDistanceKm(distanceKm),
		DurationText:    formatDurationMinutes(durationMin),
		Source:          SourceSynthetic,
	}
}

// waypoints interpolates between the endpoints, alternating which axis moves
// first and perturbing interior points slightly.
func (g *EstimatedRouteGenerator) waypoints(origin, destination Coordinate, distanceKm float64) []Coordinate {
	// Roughly one waypoint per 300 m of straight-line distance
	count := int(math.Ceil(distanceKm / 0.3))
	if count < minSyntheticWaypoints {
		count = minSyntheticWaypoints
	}
	if count > maxSyntheticWaypoints {
		count = maxSyntheticWaypoints
	}

	coords := make([]Coordinate, 0, count)
	coords = append(coords, origin)

	dLat := destination.Latitude - origin.Latitude
	dLng := destination.Longitude - origin.Longitude

	for i := 1; i < count-1; i++ {
		t := float64(i) / float64(count-1)

		var lat, lng float64
		if i%2 == 0 {
			// Horizontal-first: advance longitude ahead of latitude
			lng = origin.Longitude + dLng*math.Min(t*1.3, 1)
			lat = origin.Latitude + dLat*t
		} else {
			// Vertical-first: advance latitude ahead of longitude
			lat = origin.Latitude + dLat*math.Min(t*1.3, 1)
			lng = origin.Longitude + dLng*t
		}

		lat += g.jitter()
		lng += g.jitter()

		coords = append(coords, Coordinate{Latitude: lat, Longitude: lng})
	}

	coords = append(coords, destination)
	return coords
}

func (g *EstimatedRouteGenerator) jitter() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return (g.rng.Float64()*2 - 1) * jitterDegrees
}

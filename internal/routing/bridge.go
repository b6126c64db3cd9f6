package routing

import (
	"github.com/cityhop/route-engine/pkg/geo"
)

const (
	// gapThresholdMeters is the drift beyond which a connector is drawn
	gapThresholdMeters = 20.0
	// dotSpacingMeters is the interval between connector dots
	dotSpacingMeters = 30.0
)

// Connector is a dashed segment bridging a resolved route's endpoint to the
// true user or destination location. Dots are interior markers only; the
// segment ends already coincide with existing map markers.
type Connector struct {
	From Coordinate   `json:"from"`
	To   Coordinate   `json:"to"`
	Dots []Coordinate `json:"dots"`
}

// BridgeGaps compares the route's first and last points against the true
// origin and destination. For each pair drifting more than 20 meters apart
// it emits a connector with dots every 30 meters. Pairs within the
// threshold produce nothing.
func BridgeGaps(route *Route, trueOrigin, trueDestination Coordinate) []Connector {
	if route == nil || len(route.Coordinates) == 0 {
		return nil
	}

	var connectors []Connector
	if c := bridgeGap(trueOrigin, route.Coordinates[0]); c != nil {
		connectors = append(connectors, *c)
	}
	if c := bridgeGap(route.Coordinates[len(route.Coordinates)-1], trueDestination); c != nil {
		connectors = append(connectors, *c)
	}
	return connectors
}

func bridgeGap(from, to Coordinate) *Connector {
	gap := geo.DistanceMeters(from.Latitude, from.Longitude, to.Latitude, to.Longitude)
	if gap <= gapThresholdMeters {
		return nil
	}

	return &Connector{
		From: from,
		To:   to,
		Dots: interiorDots(from, to, gap),
	}
}

// interiorDots places dots at 30 m intervals along the segment, skipping any
// that would land on the segment ends.
func interiorDots(from, to Coordinate, lengthMeters float64) []Coordinate {
	count := int(lengthMeters / dotSpacingMeters)
	if count < 1 {
		return nil
	}

	var dots []Coordinate
	for i := 1; i <= count; i++ {
		t := float64(i) * dotSpacingMeters / lengthMeters
		if t >= 0.999 {
			// Coincides with the far end, which has its own marker
			continue
		}
		dots = append(dots, Coordinate{
			Latitude:  from.Latitude + (to.Latitude-from.Latitude)*t,
			Longitude: from.Longitude + (to.Longitude-from.Longitude)*t,
		})
	}
	return dots
}

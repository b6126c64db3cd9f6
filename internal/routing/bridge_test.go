package routing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// offsetMeters shifts a coordinate north by approximately the given meters
func offsetMeters(c Coordinate, meters float64) Coordinate {
	return Coordinate{
		Latitude:  c.Latitude + meters/111320.0,
		Longitude: c.Longitude,
	}
}

func bridgeTestRoute() *Route {
	return &Route{
		Coordinates: []Coordinate{
			{Latitude: 10.7989, Longitude: 122.9744},
			{Latitude: 10.8010, Longitude: 122.9770},
			{Latitude: 10.8050, Longitude: 122.9800},
		},
		DistanceKm: 1.2,
	}
}

func TestBridgeGaps_NoGapNoConnector(t *testing.T) {
	route := bridgeTestRoute()

	connectors := BridgeGaps(route, route.Coordinates[0], route.Coordinates[2])
	assert.Empty(t, connectors)
}

func TestBridgeGaps_SmallGapBelowThreshold(t *testing.T) {
	route := bridgeTestRoute()
	trueOrigin := offsetMeters(route.Coordinates[0], 15)

	connectors := BridgeGaps(route, trueOrigin, route.Coordinates[2])
	assert.Empty(t, connectors, "15 m gap is under the 20 m threshold")
}

func TestBridgeGaps_FiftyMeterGapOneDot(t *testing.T) {
	route := bridgeTestRoute()
	trueOrigin := offsetMeters(route.Coordinates[0], 50)

	connectors := BridgeGaps(route, trueOrigin, route.Coordinates[2])
	require.Len(t, connectors, 1)

	c := connectors[0]
	assert.Equal(t, trueOrigin, c.From)
	assert.Equal(t, route.Coordinates[0], c.To)
	assert.Len(t, c.Dots, 1, "floor(50/30) = 1 interior dot")
}

func TestBridgeGaps_DotsAreInterior(t *testing.T) {
	route := bridgeTestRoute()
	trueDestination := offsetMeters(route.Coordinates[2], 100)

	connectors := BridgeGaps(route, route.Coordinates[0], trueDestination)
	require.Len(t, connectors, 1)

	c := connectors[0]
	assert.Equal(t, route.Coordinates[2], c.From)
	assert.Equal(t, trueDestination, c.To)
	require.Len(t, c.Dots, 3, "floor(100/30) = 3 interior dots")
	for _, dot := range c.Dots {
		assert.NotEqual(t, c.From, dot)
		assert.NotEqual(t, c.To, dot)
	}
}

func TestBridgeGaps_BothEndsDrifted(t *testing.T) {
	route := bridgeTestRoute()
	trueOrigin := offsetMeters(route.Coordinates[0], 40)
	trueDestination := offsetMeters(route.Coordinates[2], 70)

	connectors := BridgeGaps(route, trueOrigin, trueDestination)
	require.Len(t, connectors, 2)
	assert.Len(t, connectors[0].Dots, 1)
	assert.Len(t, connectors[1].Dots, 2)
}

func TestBridgeGaps_NilRoute(t *testing.T) {
	assert.Nil(t, BridgeGaps(nil, Coordinate{}, Coordinate{}))
	assert.Nil(t, BridgeGaps(&Route{}, Coordinate{}, Coordinate{}))
}

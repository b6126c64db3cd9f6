package routing

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cityhop/route-engine/pkg/config"
	"github.com/cityhop/route-engine/pkg/httpclient"
)

const osrmBaseURL = "https://router.project-osrm.org/route/v1"

// osrmProfiles maps travel modes to OSRM routing profiles. OSRM has no
// transit profile, so transit falls back to driving.
var osrmProfiles = map[TravelMode]string{
	ModeDriving:   "driving",
	ModeWalking:   "walking",
	ModeBicycling: "cycling",
	ModeTransit:   "driving",
}

// OSRMProvider is the primary provider: keyless, geometry plus steps.
type OSRMProvider struct {
	client *httpclient.Client
}

// NewOSRMProvider creates an OSRM routing provider
func NewOSRMProvider(cfg config.ProviderConfig) *OSRMProvider {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = osrmBaseURL
	}
	return &OSRMProvider{
		client: httpclient.NewClient(baseURL, cfg.Timeout()),
	}
}

// Name returns the provider name
func (p *OSRMProvider) Name() Provider {
	return ProviderOSRM
}

type osrmResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Geometry struct {
			Coordinates [][]float64 `json:"coordinates"`
		} `json:"geometry"`
		Distance float64 `json:"distance"` // meters
		Duration float64 `json:"duration"` // seconds
	} `json:"routes"`
}

// Resolve requests a route from OSRM. Coordinates go into the path as
// lon,lat pairs.
func (p *OSRMProvider) Resolve(ctx context.Context, origin, destination Coordinate, mode TravelMode) (*Route, error) {
	path := fmt.Sprintf("/%s/%f,%f;%f,%f?overview=full&geometries=geojson&steps=true",
		osrmProfiles[mode],
		origin.Longitude, origin.Latitude,
		destination.Longitude, destination.Latitude)

	body, err := p.client.Get(ctx, path, nil)
	if err != nil {
		if httpErr, ok := err.(*httpclient.HTTPError); ok {
			return nil, newInvalidResponseError(ProviderOSRM,
				fmt.Sprintf("status %d", httpErr.StatusCode), httpErr.Body)
		}
		return nil, classifyTransportError(ProviderOSRM, err)
	}

	var resp osrmResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, newInvalidResponseError(ProviderOSRM, "malformed JSON", string(body))
	}

	if resp.Code != "Ok" || len(resp.Routes) == 0 {
		return nil, newInvalidResponseError(ProviderOSRM,
			fmt.Sprintf("code %q with %d routes", resp.Code, len(resp.Routes)), string(body))
	}

	best := resp.Routes[0]
	if len(best.Geometry.Coordinates) < 2 {
		return nil, newInvalidResponseError(ProviderOSRM, "geometry has fewer than 2 points", string(body))
	}

	distanceKm := best.Distance / 1000.0
	if isDegenerateDistance(distanceKm) {
		return nil, newDegenerateDistanceError(ProviderOSRM, distanceKm)
	}

	coords := make([]Coordinate, 0, len(best.Geometry.Coordinates))
	for _, pair := range best.Geometry.Coordinates {
		if len(pair) < 2 {
			return nil, newInvalidResponseError(ProviderOSRM, "geometry pair missing component", string(body))
		}
		coords = append(coords, Coordinate{Latitude: pair[1], Longitude: pair[0]})
	}

	durationMin := best.Duration / 60.0
	return &Route{
		Coordinates:     coords,
		DistanceKm:      distanceKm,
		DurationMinutes: durationMin,
		DistanceText:    formatDistanceKm(distanceKm),
		DurationText:    formatDurationMinutes(durationMin),
		Source:          string(ProviderOSRM),
	}, nil
}

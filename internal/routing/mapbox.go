package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/cityhop/route-engine/pkg/config"
	"github.com/cityhop/route-engine/pkg/httpclient"
)

const mapboxBaseURL = "https://api.mapbox.com/directions/v5/mapbox"

// mapboxProfiles maps travel modes to Mapbox Directions profiles.
// Transit is not supported and falls back to driving.
var mapboxProfiles = map[TravelMode]string{
	ModeDriving:   "driving",
	ModeWalking:   "walking",
	ModeBicycling: "cycling",
	ModeTransit:   "driving",
}

// MapboxProvider is the last alternate in the fallback chain.
type MapboxProvider struct {
	accessToken string
	client      *httpclient.Client
}

// NewMapboxProvider creates a Mapbox Directions provider
func NewMapboxProvider(cfg config.ProviderConfig) *MapboxProvider {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = mapboxBaseURL
	}
	return &MapboxProvider{
		accessToken: cfg.APIKey,
		client:      httpclient.NewClient(baseURL, cfg.Timeout()),
	}
}

// Name returns the provider name
func (p *MapboxProvider) Name() Provider {
	return ProviderMapbox
}

type mapboxResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Geometry struct {
			Coordinates [][]float64 `json:"coordinates"`
		} `json:"geometry"`
		Distance float64 `json:"distance"` // meters
		Duration float64 `json:"duration"` // seconds
	} `json:"routes"`
}

// Resolve requests a route from Mapbox. Coordinates go into the path as
// lon,lat pairs.
func (p *MapboxProvider) Resolve(ctx context.Context, origin, destination Coordinate, mode TravelMode) (*Route, error) {
	params := url.Values{}
	params.Set("geometries", "geojson")
	params.Set("access_token", p.accessToken)

	path := fmt.Sprintf("/%s/%f,%f;%f,%f?%s",
		mapboxProfiles[mode],
		origin.Longitude, origin.Latitude,
		destination.Longitude, destination.Latitude,
		params.Encode())

	body, err := p.client.Get(ctx, path, nil)
	if err != nil {
		if httpErr, ok := err.(*httpclient.HTTPError); ok {
			return nil, newInvalidResponseError(ProviderMapbox,
				fmt.Sprintf("status %d", httpErr.StatusCode), httpErr.Body)
		}
		return nil, classifyTransportError(ProviderMapbox, err)
	}

	var resp mapboxResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, newInvalidResponseError(ProviderMapbox, "malformed JSON", string(body))
	}

	if resp.Code != "Ok" || len(resp.Routes) == 0 {
		return nil, newInvalidResponseError(ProviderMapbox,
			fmt.Sprintf("code %q with %d routes", resp.Code, len(resp.Routes)), string(body))
	}

	best := resp.Routes[0]
	if len(best.Geometry.Coordinates) < 2 {
		return nil, newInvalidResponseError(ProviderMapbox, "geometry has fewer than 2 points", string(body))
	}

	distanceKm := best.Distance / 1000.0
	if isDegenerateDistance(distanceKm) {
		return nil, newDegenerateDistanceError(ProviderMapbox, distanceKm)
	}

	coords := make([]Coordinate, 0, len(best.Geometry.Coordinates))
	for _, pair := range best.Geometry.Coordinates {
		if len(pair) < 2 {
			return nil, newInvalidResponseError(ProviderMapbox, "geometry pair missing component", string(body))
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
		Source:          string(ProviderMapbox),
	}, nil
}

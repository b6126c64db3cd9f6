package routing

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cityhop/route-engine/pkg/config"
	"github.com/cityhop/route-engine/pkg/httpclient"
)

const openRouteBaseURL = "https://api.openrouteservice.org"

// openRouteProfiles maps travel modes to OpenRouteService profiles.
// Transit is not supported and falls back to driving.
var openRouteProfiles = map[TravelMode]string{
	ModeDriving:   "driving-car",
	ModeWalking:   "foot-walking",
	ModeBicycling: "cycling-regular",
	ModeTransit:   "driving-car",
}

// OpenRouteProvider is the geometry-rich alternate. Requires an API key.
type OpenRouteProvider struct {
	apiKey string
	client *httpclient.Client
}

// NewOpenRouteProvider creates an OpenRouteService provider
func NewOpenRouteProvider(cfg config.ProviderConfig) *OpenRouteProvider {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = openRouteBaseURL
	}
	return &OpenRouteProvider{
		apiKey: cfg.APIKey,
		client: httpclient.NewClient(baseURL, cfg.Timeout()),
	}
}

// Name returns the provider name
func (p *OpenRouteProvider) Name() Provider {
	return ProviderOpenRoute
}

type openRouteRequest struct {
	Coordinates [][]float64 `json:"coordinates"`
	Units       string      `json:"units"`
}

type openRouteResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates [][]float64 `json:"coordinates"`
		} `json:"geometry"`
		Properties struct {
			Summary struct {
				Distance float64 `json:"distance"` // kilometers, units=km
				Duration float64 `json:"duration"` // seconds
			} `json:"summary"`
		} `json:"properties"`
	} `json:"features"`
}

// Resolve requests a route from OpenRouteService. The request body carries
// coordinates as lon,lat pairs.
func (p *OpenRouteProvider) Resolve(ctx context.Context, origin, destination Coordinate, mode TravelMode) (*Route, error) {
	path := fmt.Sprintf("/v2/directions/%s/geojson", openRouteProfiles[mode])
	reqBody := openRouteRequest{
		Coordinates: [][]float64{
			{origin.Longitude, origin.Latitude},
			{destination.Longitude, destination.Latitude},
		},
		Units: "km",
	}
	headers := map[string]string{
		"Authorization": p.apiKey,
	}

	body, err := p.client.Post(ctx, path, reqBody, headers)
	if err != nil {
		if httpErr, ok := err.(*httpclient.HTTPError); ok {
			return nil, newInvalidResponseError(ProviderOpenRoute,
				fmt.Sprintf("status %d", httpErr.StatusCode), httpErr.Body)
		}
		return nil, classifyTransportError(ProviderOpenRoute, err)
	}

	var resp openRouteResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, newInvalidResponseError(ProviderOpenRoute, "malformed JSON", string(body))
	}

	if len(resp.Features) == 0 {
		return nil, newInvalidResponseError(ProviderOpenRoute, "no features in response", string(body))
	}

	feature := resp.Features[0]
	if len(feature.Geometry.Coordinates) < 2 {
		return nil, newInvalidResponseError(ProviderOpenRoute, "geometry has fewer than 2 points", string(body))
	}

	distanceKm := feature.Properties.Summary.Distance
	if isDegenerateDistance(distanceKm) {
		return nil, newDegenerateDistanceError(ProviderOpenRoute, distanceKm)
	}

	coords := make([]Coordinate, 0, len(feature.Geometry.Coordinates))
	for _, pair := range feature.Geometry.Coordinates {
		if len(pair) < 2 {
			return nil, newInvalidResponseError(ProviderOpenRoute, "geometry pair missing component", string(body))
		}
		coords = append(coords, Coordinate{Latitude: pair[1], Longitude: pair[0]})
	}

	durationMin := feature.Properties.Summary.Duration / 60.0
	return &Route{
		Coordinates:     coords,
		DistanceKm:      distanceKm,
		DurationMinutes: durationMin,
		DistanceText:    formatDistanceKm(distanceKm),
		DurationText:    formatDurationMinutes(durationMin),
		Source:          string(ProviderOpenRoute),
	}, nil
}

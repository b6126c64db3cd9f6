package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/cityhop/route-engine/pkg/config"
	"github.com/cityhop/route-engine/pkg/httpclient"
)

const (
	googleMapsBaseURL        = "https://maps.googleapis.com/maps/api"
	googleDirectionsEndpoint = "/directions/json"
)

// googleModes maps travel modes to the Directions API vocabulary, which
// matches ours directly.
var googleModes = map[TravelMode]string{
	ModeDriving:   "driving",
	ModeWalking:   "walking",
	ModeBicycling: "bicycling",
	ModeTransit:   "transit",
}

// GoogleProvider is the first alternate. Geometry arrives as an encoded
// polyline rather than GeoJSON.
type GoogleProvider struct {
	apiKey string
	client *httpclient.Client
}

// NewGoogleProvider creates a Google Directions provider
func NewGoogleProvider(cfg config.ProviderConfig) *GoogleProvider {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = googleMapsBaseURL
	}
	return &GoogleProvider{
		apiKey: cfg.APIKey,
		client: httpclient.NewClient(baseURL, cfg.Timeout()),
	}
}

// Name returns the provider name
func (p *GoogleProvider) Name() Provider {
	return ProviderGoogle
}

type googleResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Routes       []struct {
		OverviewPolyline struct {
			Points string `json:"points"`
		} `json:"overview_polyline"`
		Legs []struct {
			Distance struct {
				Text  string  `json:"text"`
				Value float64 `json:"value"` // meters
			} `json:"distance"`
			Duration struct {
				Text  string  `json:"text"`
				Value float64 `json:"value"` // seconds
			} `json:"duration"`
		} `json:"legs"`
	} `json:"routes"`
}

// Resolve requests a route from the Directions API. Coordinates go into the
// query string as lat,lng pairs.
func (p *GoogleProvider) Resolve(ctx context.Context, origin, destination Coordinate, mode TravelMode) (*Route, error) {
	params := url.Values{}
	params.Set("origin", fmt.Sprintf("%f,%f", origin.Latitude, origin.Longitude))
	params.Set("destination", fmt.Sprintf("%f,%f", destination.Latitude, destination.Longitude))
	params.Set("mode", googleModes[mode])
	params.Set("key", p.apiKey)

	body, err := p.client.Get(ctx, googleDirectionsEndpoint+"?"+params.Encode(), nil)
	if err != nil {
		if httpErr, ok := err.(*httpclient.HTTPError); ok {
			return nil, newInvalidResponseError(ProviderGoogle,
				fmt.Sprintf("status %d", httpErr.StatusCode), httpErr.Body)
		}
		return nil, classifyTransportError(ProviderGoogle, err)
	}

	var resp googleResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, newInvalidResponseError(ProviderGoogle, "malformed JSON", string(body))
	}

	if resp.Status != "OK" || len(resp.Routes) == 0 {
		return nil, newInvalidResponseError(ProviderGoogle,
			fmt.Sprintf("status %q: %s", resp.Status, resp.ErrorMessage), string(body))
	}

	best := resp.Routes[0]
	if len(best.Legs) == 0 {
		return nil, newInvalidResponseError(ProviderGoogle, "route has no legs", string(body))
	}

	coords := decodePolyline(best.OverviewPolyline.Points)
	if len(coords) < 2 {
		return nil, newInvalidResponseError(ProviderGoogle, "polyline decoded to fewer than 2 points", string(body))
	}

	var distanceMeters, durationSeconds float64
	for _, leg := range best.Legs {
		distanceMeters += leg.Distance.Value
		durationSeconds += leg.Duration.Value
	}

	distanceKm := distanceMeters / 1000.0
	if isDegenerateDistance(distanceKm) {
		return nil, newDegenerateDistanceError(ProviderGoogle, distanceKm)
	}

	durationMin := durationSeconds / 60.0
	return &Route{
		Coordinates:     coords,
		DistanceKm:      distanceKm,
		DurationMinutes: durationMin,
		DistanceText:    formatDistanceKm(distanceKm),
		DurationText:    formatDurationMinutes(durationMin),
		Source:          string(ProviderGoogle),
	}, nil
}

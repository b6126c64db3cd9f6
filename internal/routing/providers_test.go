package routing

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cityhop/route-engine/pkg/config"
)

func testProviderConfig(baseURL string) config.ProviderConfig {
	return config.ProviderConfig{
		BaseURL:        baseURL,
		APIKey:         "test-key",
		TimeoutSeconds: 2,
	}
}

// ========================================
// OSRM
// ========================================

func osrmBody(distanceMeters, durationSeconds float64) string {
	body, _ := json.Marshal(map[string]interface{}{
		"code": "Ok",
		"routes": []map[string]interface{}{{
			"geometry": map[string]interface{}{
				"coordinates": [][]float64{
					{122.9744, 10.7989},
					{122.9770, 10.8010},
					{122.9800, 10.8050},
				},
			},
			"distance": distanceMeters,
			"duration": durationSeconds,
		}},
	})
	return string(body)
}

func TestOSRM_RequestAndParse(t *testing.T) {
	var gotPath, gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Write([]byte(osrmBody(1200, 900)))
	}))
	defer server.Close()

	p := NewOSRMProvider(testProviderConfig(server.URL))
	route, err := p.Resolve(context.Background(), testOrigin, testDestination, ModeWalking)
	require.NoError(t, err)

	// Coordinates travel as lon,lat in the path
	assert.Equal(t, "/walking/122.974400,10.798900;122.980000,10.805000", gotPath)
	assert.Contains(t, gotQuery, "overview=full")
	assert.Contains(t, gotQuery, "geometries=geojson")
	assert.Contains(t, gotQuery, "steps=true")

	assert.Equal(t, string(ProviderOSRM), route.Source)
	assert.InDelta(t, 1.2, route.DistanceKm, 1e-9)
	assert.InDelta(t, 15, route.DurationMinutes, 1e-9)
	assert.Equal(t, "1.2 km", route.DistanceText)
	assert.Equal(t, "15 min", route.DurationText)
	require.Len(t, route.Coordinates, 3)
	// Response lon,lat pairs become lat,lon coordinates
	assert.Equal(t, Coordinate{Latitude: 10.7989, Longitude: 122.9744}, route.Coordinates[0])
}

func TestOSRM_ModeProfiles(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(osrmBody(1200, 900)))
	}))
	defer server.Close()

	p := NewOSRMProvider(testProviderConfig(server.URL))

	tests := []struct {
		mode    TravelMode
		profile string
	}{
		{ModeDriving, "driving"},
		{ModeWalking, "walking"},
		{ModeBicycling, "cycling"},
		{ModeTransit, "driving"},
	}
	for _, tt := range tests {
		_, err := p.Resolve(context.Background(), testOrigin, testDestination, tt.mode)
		require.NoError(t, err)
		assert.Contains(t, gotPath, "/"+tt.profile+"/", "mode %s", tt.mode)
	}
}

func TestOSRM_DegenerateDistance(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(osrmBody(0, 0)))
	}))
	defer server.Close()

	p := NewOSRMProvider(testProviderConfig(server.URL))
	_, err := p.Resolve(context.Background(), testOrigin, testDestination, ModeDriving)

	require.Error(t, err)
	assert.Equal(t, FailureDegenerateDistance, failureKind(err))
}

func TestOSRM_InvalidResponses(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"error code", `{"code":"NoRoute","routes":[]}`},
		{"malformed JSON", `{{{`},
		{"single point geometry", `{"code":"Ok","routes":[{"geometry":{"coordinates":[[122.97,10.79]]},"distance":1200,"duration":900}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			p := NewOSRMProvider(testProviderConfig(server.URL))
			_, err := p.Resolve(context.Background(), testOrigin, testDestination, ModeDriving)
			require.Error(t, err)
			assert.Equal(t, FailureInvalidResponse, failureKind(err))
		})
	}
}

func TestOSRM_HTTPErrorCarriesDiagnostic(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	}))
	defer server.Close()

	p := NewOSRMProvider(testProviderConfig(server.URL))
	_, err := p.Resolve(context.Background(), testOrigin, testDestination, ModeDriving)

	var perr *ProviderError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, FailureInvalidResponse, perr.Kind)
	assert.Contains(t, perr.Diagnostic, "upstream exploded")
}

func TestOSRM_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
		w.Write([]byte(osrmBody(1200, 900)))
	}))
	defer server.Close()

	p := NewOSRMProvider(testProviderConfig(server.URL))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := p.Resolve(ctx, testOrigin, testDestination, ModeDriving)

	require.Error(t, err)
	assert.Equal(t, FailureTimeout, failureKind(err))
}

// ========================================
// OpenRouteService
// ========================================

func openRouteBody(distanceKm, durationSeconds float64) string {
	body, _ := json.Marshal(map[string]interface{}{
		"features": []map[string]interface{}{{
			"geometry": map[string]interface{}{
				"coordinates": [][]float64{
					{122.9744, 10.7989},
					{122.9800, 10.8050},
				},
			},
			"properties": map[string]interface{}{
				"summary": map[string]interface{}{
					"distance": distanceKm,
					"duration": durationSeconds,
				},
			},
		}},
	})
	return string(body)
}

func TestOpenRoute_RequestAndParse(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody openRouteRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(openRouteBody(1.2, 900)))
	}))
	defer server.Close()

	p := NewOpenRouteProvider(testProviderConfig(server.URL))
	route, err := p.Resolve(context.Background(), testOrigin, testDestination, ModeWalking)
	require.NoError(t, err)

	assert.Equal(t, "/v2/directions/foot-walking/geojson", gotPath)
	assert.Equal(t, "test-key", gotAuth)
	assert.Equal(t, "km", gotBody.Units)
	// Body carries lon,lat pairs
	require.Len(t, gotBody.Coordinates, 2)
	assert.Equal(t, []float64{122.9744, 10.7989}, gotBody.Coordinates[0])
	assert.Equal(t, []float64{122.9800, 10.8050}, gotBody.Coordinates[1])

	assert.InDelta(t, 1.2, route.DistanceKm, 1e-9)
	assert.Equal(t, "15 min", route.DurationText)
	assert.Equal(t, string(ProviderOpenRoute), route.Source)
}

func TestOpenRoute_NoFeatures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"features":[]}`))
	}))
	defer server.Close()

	p := NewOpenRouteProvider(testProviderConfig(server.URL))
	_, err := p.Resolve(context.Background(), testOrigin, testDestination, ModeDriving)
	require.Error(t, err)
	assert.Equal(t, FailureInvalidResponse, failureKind(err))
}

func TestOpenRoute_DegenerateDistance(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(openRouteBody(0.0, 0)))
	}))
	defer server.Close()

	p := NewOpenRouteProvider(testProviderConfig(server.URL))
	_, err := p.Resolve(context.Background(), testOrigin, testDestination, ModeDriving)
	require.Error(t, err)
	assert.Equal(t, FailureDegenerateDistance, failureKind(err))
}

// ========================================
// Google Directions
// ========================================

func googleBody(status, polyline string, distanceMeters, durationSeconds float64) string {
	body, _ := json.Marshal(map[string]interface{}{
		"status": status,
		"routes": []map[string]interface{}{{
			"overview_polyline": map[string]interface{}{"points": polyline},
			"legs": []map[string]interface{}{{
				"distance": map[string]interface{}{"text": "preformatted", "value": distanceMeters},
				"duration": map[string]interface{}{"text": "preformatted", "value": durationSeconds},
			}},
		}},
	})
	return string(body)
}

func TestGoogle_RequestAndParse(t *testing.T) {
	var gotQuery map[string][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/directions/json", r.URL.Path)
		gotQuery = r.URL.Query()
		w.Write([]byte(googleBody("OK", "_p~iF~ps|U_ulLnnqC_mqNvxq`@", 1200, 900)))
	}))
	defer server.Close()

	p := NewGoogleProvider(testProviderConfig(server.URL))
	route, err := p.Resolve(context.Background(), testOrigin, testDestination, ModeTransit)
	require.NoError(t, err)

	// Query carries lat,lng pairs, unlike the lon,lat providers
	assert.Equal(t, "10.798900,122.974400", gotQuery["origin"][0])
	assert.Equal(t, "10.805000,122.980000", gotQuery["destination"][0])
	assert.Equal(t, "transit", gotQuery["mode"][0])
	assert.Equal(t, "test-key", gotQuery["key"][0])

	require.Len(t, route.Coordinates, 3)
	assert.InDelta(t, 38.5, route.Coordinates[0].Latitude, 1e-5)
	assert.InDelta(t, -120.2, route.Coordinates[0].Longitude, 1e-5)

	// Display text comes from the numeric values, not the provider's strings
	assert.Equal(t, "1.2 km", route.DistanceText)
	assert.Equal(t, "15 min", route.DurationText)
}

func TestGoogle_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"REQUEST_DENIED","error_message":"bad key","routes":[]}`))
	}))
	defer server.Close()

	p := NewGoogleProvider(testProviderConfig(server.URL))
	_, err := p.Resolve(context.Background(), testOrigin, testDestination, ModeDriving)

	var perr *ProviderError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, FailureInvalidResponse, perr.Kind)
	assert.Contains(t, perr.Message, "REQUEST_DENIED")
}

func TestGoogle_DegenerateDistance(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(googleBody("OK", "_p~iF~ps|U_ulLnnqC", 0, 0)))
	}))
	defer server.Close()

	p := NewGoogleProvider(testProviderConfig(server.URL))
	_, err := p.Resolve(context.Background(), testOrigin, testDestination, ModeDriving)
	require.Error(t, err)
	assert.Equal(t, FailureDegenerateDistance, failureKind(err))
}

// ========================================
// Mapbox
// ========================================

func TestMapbox_RequestAndParse(t *testing.T) {
	var gotPath string
	var gotQuery map[string][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		w.Write([]byte(osrmBody(1200, 900))) // Mapbox shares the OSRM response shape
	}))
	defer server.Close()

	p := NewMapboxProvider(testProviderConfig(server.URL))
	route, err := p.Resolve(context.Background(), testOrigin, testDestination, ModeBicycling)
	require.NoError(t, err)

	// Coordinates travel as lon,lat in the path; bicycling maps to cycling
	assert.Equal(t, "/cycling/122.974400,10.798900;122.980000,10.805000", gotPath)
	assert.Equal(t, "geojson", gotQuery["geometries"][0])
	assert.Equal(t, "test-key", gotQuery["access_token"][0])

	assert.Equal(t, string(ProviderMapbox), route.Source)
	assert.InDelta(t, 1.2, route.DistanceKm, 1e-9)
}

func TestMapbox_ErrorCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":"InvalidInput","routes":[]}`))
	}))
	defer server.Close()

	p := NewMapboxProvider(testProviderConfig(server.URL))
	_, err := p.Resolve(context.Background(), testOrigin, testDestination, ModeDriving)
	require.Error(t, err)
	assert.Equal(t, FailureInvalidResponse, failureKind(err))
}

package routing

import (
	"context"
	"fmt"
	"sync"
)

// RouteCache memoizes resolved routes by (origin, destination, mode) key.
// Only the resolver writes entries; routes are immutable once stored, so
// concurrent readers never observe partial values.
type RouteCache interface {
	Get(ctx context.Context, key string) (*Route, bool)
	Set(ctx context.Context, key string, route *Route)
}

// CacheKey builds the composite cache key from rounded coordinates and
// mode. Six decimal places is roughly 10 cm, well under provider snapping
// distance, so nearby re-requests share an entry without colliding across
// genuinely different trips.
func CacheKey(origin, destination Coordinate, mode TravelMode) string {
	return fmt.Sprintf("route:%.6f,%.6f:%.6f,%.6f:%s",
		origin.Latitude, origin.Longitude,
		destination.Latitude, destination.Longitude,
		mode)
}

// MemoryCache is an in-process RouteCache with no eviction. Keys are per
// (trip, mode) and sessions are short-lived, so growth stays bounded.
type MemoryCache struct {
	mu     sync.RWMutex
	routes map[string]*Route
}

// NewMemoryCache creates an empty in-memory route cache
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{routes: make(map[string]*Route)}
}

// Get returns the cached route for key, if present
func (c *MemoryCache) Get(ctx context.Context, key string) (*Route, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	route, ok := c.routes[key]
	return route, ok
}

// Set stores a route under key, replacing any previous entry
func (c *MemoryCache) Set(ctx context.Context, key string, route *Route) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.routes[key] = route
}

// Len returns the number of cached routes
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.routes)
}

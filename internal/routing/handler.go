package routing

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cityhop/route-engine/pkg/logger"
	"github.com/cityhop/route-engine/pkg/validation"
)

// RouteResolver is the resolution surface consumed by the handler
type RouteResolver interface {
	Resolve(ctx context.Context, origin, destination Coordinate, mode TravelMode) (*Route, error)
	ResolveAll(ctx context.Context, origin, destination Coordinate, modes []TravelMode) []PrecomputeResult
}

// Handler handles HTTP requests for route resolution
type Handler struct {
	resolver RouteResolver
}

// NewHandler creates a new routing handler
func NewHandler(resolver RouteResolver) *Handler {
	return &Handler{resolver: resolver}
}

// RegisterRoutes registers all routing routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	routes := rg.Group("/routes")
	{
		routes.POST("/resolve", h.ResolveRoute)
		routes.POST("/precompute", h.PrecomputeRoutes)
		routes.POST("/bridge", h.BridgeRoute)
		routes.GET("/health", h.HealthCheck)
	}
}

// ResolveRequest is the body for a single route resolution
type ResolveRequest struct {
	Origin      Coordinate `json:"origin"`
	Destination Coordinate `json:"destination"`
	Mode        string     `json:"mode" validate:"travel_mode"`
}

// PrecomputeRequest resolves a trip for several modes at once. An empty
// mode list means all supported modes.
type PrecomputeRequest struct {
	Origin      Coordinate `json:"origin"`
	Destination Coordinate `json:"destination"`
	Modes       []string   `json:"modes"`
}

// BridgeRequest asks for connector geometry between a resolved route and
// the true endpoints
type BridgeRequest struct {
	Route       Route      `json:"route"`
	Origin      Coordinate `json:"origin"`
	Destination Coordinate `json:"destination"`
}

// ResolveRoute handles route resolution requests
func (h *Handler) ResolveRoute(c *gin.Context) {
	var req ResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	if err := validation.ValidateStruct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	route, err := h.resolver.Resolve(ctx, req.Origin, req.Destination, TravelMode(req.Mode))
	if err != nil {
		logger.WithContext(ctx).Error("Failed to resolve route", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, route)
}

// PrecomputeRoutes resolves the trip for every requested mode and reports
// per-mode outcomes
func (h *Handler) PrecomputeRoutes(c *gin.Context) {
	var req PrecomputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	if err := validation.ValidateStruct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	modes := make([]TravelMode, 0, len(req.Modes))
	for _, m := range req.Modes {
		mode := TravelMode(m)
		if !mode.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid travel mode: " + m})
			return
		}
		modes = append(modes, mode)
	}
	if len(modes) == 0 {
		modes = AllModes
	}

	results := h.resolver.ResolveAll(c.Request.Context(), req.Origin, req.Destination, modes)

	routes := make(map[string]*Route, len(results))
	succeeded := 0
	for _, res := range results {
		if res.Err != nil {
			continue
		}
		routes[string(res.Mode)] = res.Route
		succeeded++
	}

	c.JSON(http.StatusOK, gin.H{
		"routes":    routes,
		"requested": len(modes),
		"succeeded": succeeded,
	})
}

// BridgeRoute computes connector geometry between the route's endpoints and
// the true origin/destination
func (h *Handler) BridgeRoute(c *gin.Context) {
	var req BridgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	if err := validation.ValidateStruct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.Route.Coordinates) < 2 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "route must have at least 2 coordinates"})
		return
	}

	connectors := BridgeGaps(&req.Route, req.Origin, req.Destination)
	c.JSON(http.StatusOK, gin.H{"connectors": connectors})
}

// HealthCheck reports service liveness
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "routes"})
}

package routing

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/cityhop/route-engine/pkg/config"
	"github.com/cityhop/route-engine/pkg/logger"
	"github.com/cityhop/route-engine/pkg/resilience"
	"github.com/cityhop/route-engine/pkg/validation"
)

// Resolver drives the provider fallback chain with caching, retries, and
// graceful degradation to synthetic routes. Providers are tried one at a
// time in priority order; they are paid, rate-limited services with
// substitutable results, so racing them would burn quota for nothing.
type Resolver struct {
	providers      []ProviderClient
	cache          RouteCache
	traffic        *TrafficEstimator
	synthesizer    *EstimatedRouteGenerator
	breakers       map[Provider]*gobreaker.CircuitBreaker
	retryCfg       resilience.RetryConfig
	cacheSynthetic bool
}

// ResolverOption customizes a Resolver
type ResolverOption func(*Resolver)

// WithTrafficEstimator overrides the traffic estimator, used by tests to
// pin the clock
func WithTrafficEstimator(e *TrafficEstimator) ResolverOption {
	return func(r *Resolver) { r.traffic = e }
}

// WithSynthesizer overrides the synthetic route generator
func WithSynthesizer(g *EstimatedRouteGenerator) ResolverOption {
	return func(r *Resolver) { r.synthesizer = g }
}

// NewResolver creates a resolver over the given provider chain. The first
// provider is the primary and the only one retried on transient failures;
// the rest are tried at most once each.
func NewResolver(cfg config.ResolverConfig, providers []ProviderClient, cache RouteCache, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		providers:      providers,
		cache:          cache,
		traffic:        NewTrafficEstimator(),
		synthesizer:    NewEstimatedRouteGenerator(time.Now().UnixNano()),
		breakers:       make(map[Provider]*gobreaker.CircuitBreaker),
		cacheSynthetic: cfg.CacheSynthetic,
		retryCfg: resilience.RetryConfig{
			MaxAttempts:       1 + cfg.PrimaryRetries,
			InitialBackoff:    time.Duration(cfg.RetryBackoffSeconds) * time.Second,
			MaxBackoff:        time.Duration(cfg.RetryMaxBackoffSeconds) * time.Second,
			BackoffMultiplier: 2.0,
			EnableJitter:      true,
			RetryableChecker:  isRetryableProviderError,
		},
	}

	if cfg.BreakerEnabled {
		for _, p := range providers {
			r.breakers[p.Name()] = resilience.NewCircuitBreaker(
				fmt.Sprintf("routing-%s", p.Name()),
				resilience.BreakerConfig{
					FailureThreshold:    uint32(cfg.BreakerFailureThreshold),
					Timeout:             time.Duration(cfg.BreakerTimeoutSeconds) * time.Second,
					MaxHalfOpenRequests: 1,
				})
		}
	}

	for _, opt := range opts {
		opt(r)
	}
	return r
}

func isRetryableProviderError(err error) bool {
	if resilience.IsBreakerOpen(err) {
		return false
	}
	var perr *ProviderError
	if errors.As(err, &perr) {
		return perr.Retryable()
	}
	return true
}

// Resolve produces a usable route for the request. It consults the cache
// first, then walks the provider chain, and finally synthesizes a route if
// every provider fails, so callers always receive a Route rather than a
// hard failure. The returned error is non-nil only for invalid input or a
// cancelled context.
func (r *Resolver) Resolve(ctx context.Context, origin, destination Coordinate, mode TravelMode) (*Route, error) {
	if err := validateRequest(origin, destination, mode); err != nil {
		return nil, err
	}

	start := time.Now()
	log := logger.WithContext(ctx)
	key := CacheKey(origin, destination, mode)

	if cached, ok := r.cache.Get(ctx, key); ok {
		log.Debug("route resolved from cache",
			zap.String("key", key), zap.String("mode", string(mode)))
		recordResolution(SourceCache, mode, time.Since(start).Seconds())
		return cached, nil
	}

	for i, provider := range r.providers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		route, err := r.tryProvider(ctx, provider, origin, destination, mode, i == 0)
		if err != nil {
			recordProviderFailure(provider.Name(), failureKind(err))
			log.Warn("routing provider failed",
				zap.String("provider", string(provider.Name())),
				zap.String("kind", string(failureKind(err))),
				zap.Error(err))
			continue
		}

		final := r.finalize(route, origin, destination, mode)
		r.cache.Set(ctx, key, final)
		log.Info("route resolved",
			zap.String("provider", string(provider.Name())),
			zap.String("mode", string(mode)),
			zap.Float64("distance_km", final.DistanceKm))
		recordResolution(final.Source, mode, time.Since(start).Seconds())
		return final, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Every provider failed; mask the failure with a synthetic route
	log.Error("all routing providers failed, synthesizing route",
		zap.String("mode", string(mode)),
		zap.Error(ErrAllProvidersFailed))

	synthetic := r.finalize(r.synthesizer.Generate(origin, destination, mode), origin, destination, mode)
	if r.cacheSynthetic {
		r.cache.Set(ctx, key, synthetic)
	}
	recordResolution(SourceSynthetic, mode, time.Since(start).Seconds())
	return synthetic, nil
}

// tryProvider runs one provider attempt, wrapped in its circuit breaker.
// The primary provider additionally gets the retry policy.
func (r *Resolver) tryProvider(ctx context.Context, provider ProviderClient, origin, destination Coordinate, mode TravelMode, isPrimary bool) (*Route, error) {
	attempt := func(ctx context.Context) (*Route, error) {
		breaker, ok := r.breakers[provider.Name()]
		if !ok {
			return provider.Resolve(ctx, origin, destination, mode)
		}

		result, err := breaker.Execute(func() (interface{}, error) {
			return provider.Resolve(ctx, origin, destination, mode)
		})
		if err != nil {
			return nil, err
		}
		return result.(*Route), nil
	}

	if !isPrimary {
		return attempt(ctx)
	}

	var route *Route
	err := resilience.Retry(ctx, fmt.Sprintf("resolve-%s", provider.Name()), r.retryCfg, func(ctx context.Context) error {
		var attemptErr error
		route, attemptErr = attempt(ctx)
		return attemptErr
	})
	if err != nil {
		return nil, err
	}
	return route, nil
}

// finalize post-processes any successful result: the polyline is thinned,
// traffic is estimated, and a fresh Route is built since cached routes are
// immutable.
func (r *Resolver) finalize(route *Route, origin, destination Coordinate, mode TravelMode) *Route {
	return &Route{
		Coordinates:     Simplify(route.Coordinates, origin, destination),
		DistanceKm:      route.DistanceKm,
		DurationMinutes: route.DurationMinutes,
		DistanceText:    route.DistanceText,
		DurationText:    route.DurationText,
		Traffic:         r.traffic.Estimate(route.DistanceKm, mode),
		Source:          route.Source,
	}
}

// PrecomputeResult is the outcome of one mode's resolution in ResolveAll
type PrecomputeResult struct {
	Mode  TravelMode
	Route *Route
	Err   error
}

// ResolveAll resolves the same trip for every given mode concurrently.
// Failures of one mode never cancel the others; the method waits for all to
// settle and logs the success count.
func (r *Resolver) ResolveAll(ctx context.Context, origin, destination Coordinate, modes []TravelMode) []PrecomputeResult {
	results := make([]PrecomputeResult, len(modes))

	var wg sync.WaitGroup
	for i, mode := range modes {
		wg.Add(1)
		go func(i int, mode TravelMode) {
			defer wg.Done()
			route, err := r.Resolve(ctx, origin, destination, mode)
			results[i] = PrecomputeResult{Mode: mode, Route: route, Err: err}
		}(i, mode)
	}
	wg.Wait()

	succeeded := 0
	for _, res := range results {
		if res.Err == nil {
			succeeded++
		}
	}
	logger.WithContext(ctx).Info("route precompute settled",
		zap.Int("requested", len(modes)),
		zap.Int("succeeded", succeeded))

	return results
}

func validateRequest(origin, destination Coordinate, mode TravelMode) error {
	if err := validation.ValidateCoordinates(origin.Latitude, origin.Longitude); err != nil {
		return fmt.Errorf("invalid origin: %w", err)
	}
	if err := validation.ValidateCoordinates(destination.Latitude, destination.Longitude); err != nil {
		return fmt.Errorf("invalid destination: %w", err)
	}
	if !mode.Valid() {
		return fmt.Errorf("invalid travel mode: %q", mode)
	}
	return nil
}

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/cityhop/route-engine/internal/routing"
	"github.com/cityhop/route-engine/pkg/config"
	"github.com/cityhop/route-engine/pkg/errors"
	"github.com/cityhop/route-engine/pkg/logger"
	"github.com/cityhop/route-engine/pkg/middleware"
	redisClient "github.com/cityhop/route-engine/pkg/redis"
)

const (
	serviceName = "routes-service"
	version     = "1.0.0"
)

func main() {
	if os.Getenv("PORT") == "" {
		os.Setenv("PORT", "8080")
	}
	cfg, err := config.Load(serviceName)
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	if err := logger.Init(cfg.Server.Environment); err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	logger.Info("Starting routes service",
		zap.String("service", serviceName),
		zap.String("version", version),
	)

	sentryConfig := errors.DefaultSentryConfig()
	sentryConfig.ServerName = serviceName
	sentryConfig.Release = version
	if err := errors.InitSentry(sentryConfig); err != nil {
		logger.Warn("Failed to initialize Sentry, continuing without error tracking", zap.Error(err))
	} else {
		defer errors.Flush(2 * time.Second)
		logger.Info("Sentry error tracking initialized")
	}

	// Cache backend: Redis when configured, in-process otherwise
	var cache routing.RouteCache
	var redis *redisClient.Client
	if cfg.Redis.Enabled {
		redis, err = redisClient.NewRedisClient(&cfg.Redis)
		if err != nil {
			logger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redis.Close()
		cache = routing.NewRedisCache(redis, cfg.Resolver.CacheTTL())
		logger.Info("Route cache backed by Redis")
	} else {
		cache = routing.NewMemoryCache()
		logger.Info("Route cache in memory")
	}

	// Provider chain, richest geometry first
	providers := []routing.ProviderClient{
		routing.NewOSRMProvider(cfg.Providers.OSRM),
		routing.NewOpenRouteProvider(cfg.Providers.OpenRoute),
		routing.NewGoogleProvider(cfg.Providers.Google),
		routing.NewMapboxProvider(cfg.Providers.Mapbox),
	}

	resolver := routing.NewResolver(cfg.Resolver, providers, cache)
	handler := routing.NewHandler(resolver)

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(middleware.RecoveryWithSentry())
	router.Use(middleware.SentryMiddleware())
	router.Use(middleware.CorrelationID())
	router.Use(middleware.RequestLogger(serviceName))
	router.Use(middleware.RequestTimeout(cfg.Server.RequestTimeoutDuration()))
	router.Use(corsMiddleware(cfg.Server.CORSOrigins))
	router.Use(middleware.ErrorHandler())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": serviceName, "version": version})
	})
	router.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"service": serviceName, "version": version})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")
	handler.RegisterRoutes(api)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("Server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	logger.Info("Server exited")
}

func corsMiddleware(originsStr string) gin.HandlerFunc {
	corsConfig := cors.DefaultConfig()
	if originsStr != "" {
		origins := strings.Split(originsStr, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
		corsConfig.AllowOrigins = origins
	} else {
		corsConfig.AllowOrigins = []string{"http://localhost:3000"}
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "X-Request-ID"}
	return cors.New(corsConfig)
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Redis     RedisConfig
	Providers ProvidersConfig
	Resolver  ResolverConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port           string
	Environment    string
	ServiceName    string
	ReadTimeout    int
	WriteTimeout   int
	RequestTimeout int    // Per-request deadline enforced by middleware, seconds
	CORSOrigins    string // Comma-separated list of allowed origins
}

// RedisConfig holds Redis configuration. Redis is optional; when disabled the
// route cache is kept in process memory.
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
}

// ProviderConfig holds the endpoint and credentials for one routing provider.
// Base URLs default to the public endpoints but are overridable so tests and
// self-hosted deployments can point elsewhere.
type ProviderConfig struct {
	BaseURL        string
	APIKey         string
	TimeoutSeconds int
}

// ProvidersConfig groups the four routing providers in fallback priority order.
type ProvidersConfig struct {
	OSRM      ProviderConfig
	OpenRoute ProviderConfig
	Google    ProviderConfig
	Mapbox    ProviderConfig
}

// ResolverConfig captures route resolution tuning.
type ResolverConfig struct {
	PrimaryRetries          int
	RetryBackoffSeconds     int
	RetryMaxBackoffSeconds  int
	CacheTTLSeconds         int
	CacheSynthetic          bool
	BreakerEnabled          bool
	BreakerFailureThreshold int
	BreakerTimeoutSeconds   int
}

// Load loads configuration from environment variables
func Load(serviceName string) (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			Environment:    getEnv("ENVIRONMENT", "development"),
			ServiceName:    serviceName,
			ReadTimeout:    getEnvAsInt("READ_TIMEOUT", 10),
			WriteTimeout:   getEnvAsInt("WRITE_TIMEOUT", 75),
			RequestTimeout: getEnvAsInt("REQUEST_TIMEOUT", 60),
			CORSOrigins:    getEnv("CORS_ORIGINS", "http://localhost:3000"),
		},
		Redis: RedisConfig{
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Providers: ProvidersConfig{
			OSRM: ProviderConfig{
				BaseURL:        getEnv("OSRM_BASE_URL", "https://router.project-osrm.org/route/v1"),
				TimeoutSeconds: getEnvAsInt("OSRM_TIMEOUT_SECONDS", 15),
			},
			OpenRoute: ProviderConfig{
				BaseURL:        getEnv("ORS_BASE_URL", "https://api.openrouteservice.org"),
				APIKey:         getEnv("ORS_API_KEY", ""),
				TimeoutSeconds: getEnvAsInt("ORS_TIMEOUT_SECONDS", 8),
			},
			Google: ProviderConfig{
				BaseURL:        getEnv("GOOGLE_MAPS_BASE_URL", "https://maps.googleapis.com/maps/api"),
				APIKey:         getEnv("GOOGLE_MAPS_API_KEY", ""),
				TimeoutSeconds: getEnvAsInt("GOOGLE_MAPS_TIMEOUT_SECONDS", 8),
			},
			Mapbox: ProviderConfig{
				BaseURL:        getEnv("MAPBOX_BASE_URL", "https://api.mapbox.com/directions/v5/mapbox"),
				APIKey:         getEnv("MAPBOX_ACCESS_TOKEN", ""),
				TimeoutSeconds: getEnvAsInt("MAPBOX_TIMEOUT_SECONDS", 8),
			},
		},
		Resolver: ResolverConfig{
			PrimaryRetries:          getEnvAsInt("RESOLVER_PRIMARY_RETRIES", 2),
			RetryBackoffSeconds:     getEnvAsInt("RESOLVER_RETRY_BACKOFF_SECONDS", 1),
			RetryMaxBackoffSeconds:  getEnvAsInt("RESOLVER_RETRY_MAX_BACKOFF_SECONDS", 4),
			CacheTTLSeconds:         getEnvAsInt("RESOLVER_CACHE_TTL_SECONDS", 1800),
			CacheSynthetic:          getEnvAsBool("RESOLVER_CACHE_SYNTHETIC", true),
			BreakerEnabled:          getEnvAsBool("RESOLVER_BREAKER_ENABLED", true),
			BreakerFailureThreshold: getEnvAsInt("RESOLVER_BREAKER_FAILURE_THRESHOLD", 5),
			BreakerTimeoutSeconds:   getEnvAsInt("RESOLVER_BREAKER_TIMEOUT_SECONDS", 30),
		},
	}

	if cfg.Resolver.PrimaryRetries < 0 {
		cfg.Resolver.PrimaryRetries = 0
	}
	if cfg.Resolver.RetryBackoffSeconds <= 0 {
		cfg.Resolver.RetryBackoffSeconds = 1
	}
	if cfg.Resolver.RetryMaxBackoffSeconds < cfg.Resolver.RetryBackoffSeconds {
		cfg.Resolver.RetryMaxBackoffSeconds = cfg.Resolver.RetryBackoffSeconds
	}

	return cfg, nil
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// Timeout returns the provider timeout as a duration.
func (c ProviderConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 8 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// RequestTimeoutDuration returns the per-request deadline as a duration.
func (c ServerConfig) RequestTimeoutDuration() time.Duration {
	if c.RequestTimeout <= 0 {
		return 60 * time.Second
	}
	return time.Duration(c.RequestTimeout) * time.Second
}

// CacheTTL returns the route cache TTL duration; zero disables expiry.
func (c ResolverConfig) CacheTTL() time.Duration {
	if c.CacheTTLSeconds <= 0 {
		return 0
	}
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

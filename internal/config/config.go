// Branchfinder - Bank Branch and ATM Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/branchfinder

// Package config loads Branchfinder configuration from defaults, an optional
// YAML file and environment variables, in that order of precedence.
package config

import (
	"time"

	"github.com/tomtom215/branchfinder/internal/logging"
	"github.com/tomtom215/branchfinder/internal/recommend"
	"github.com/tomtom215/branchfinder/internal/routing"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Dataset   DatasetConfig   `koanf:"dataset"`
	Routing   RoutingConfig   `koanf:"routing"`
	Recommend RecommendConfig `koanf:"recommend"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"` // development, staging, production
}

// IsProduction reports whether production-only protections apply.
func (s *ServerConfig) IsProduction() bool {
	return s.Environment == "production"
}

// DatasetConfig points at the ATM and office JSON files. Both are re-read on
// every request so replacing a file takes effect without a restart.
type DatasetConfig struct {
	ATMPath    string `koanf:"atm_path"`
	OfficePath string `koanf:"office_path"`

	// ProbeInterval is how often the background probe re-reads both files.
	// Zero disables the probe.
	ProbeInterval time.Duration `koanf:"probe_interval"`
}

// Routing providers.
const (
	ProviderAuto     = "auto" // mapquest when an api key is set, direct otherwise
	ProviderMapQuest = "mapquest"
	ProviderDirect   = "direct"
)

// RoutingConfig selects and tunes the walking-route provider.
type RoutingConfig struct {
	Provider          string        `koanf:"provider"`
	BaseURL           string        `koanf:"base_url"`
	APIKey            string        `koanf:"api_key"`
	RouteType         string        `koanf:"route_type"`
	Timeout           time.Duration `koanf:"timeout"`
	RequestsPerSecond float64       `koanf:"requests_per_second"`
	Burst             int           `koanf:"burst"`
	Breaker           BreakerConfig `koanf:"breaker"`

	// CacheSize caps remembered routes; zero disables the cache.
	CacheSize int           `koanf:"cache_size"`
	CacheTTL  time.Duration `koanf:"cache_ttl"`
}

// BreakerConfig tunes the circuit breaker in front of the provider.
type BreakerConfig struct {
	Enabled      bool          `koanf:"enabled"`
	MaxRequests  uint32        `koanf:"max_requests"`
	Interval     time.Duration `koanf:"interval"`
	Timeout      time.Duration `koanf:"timeout"`
	MinRequests  uint32        `koanf:"min_requests"`
	FailureRatio float64       `koanf:"failure_ratio"`
}

// ResolvedProvider returns the provider to build, resolving "auto".
func (r *RoutingConfig) ResolvedProvider() string {
	if r.Provider != ProviderAuto && r.Provider != "" {
		return r.Provider
	}
	if r.APIKey != "" {
		return ProviderMapQuest
	}
	return ProviderDirect
}

// MapQuest returns the MapQuest client settings.
func (r *RoutingConfig) MapQuest() routing.MapQuestConfig {
	return routing.MapQuestConfig{
		BaseURL:           r.BaseURL,
		APIKey:            r.APIKey,
		RouteType:         r.RouteType,
		Timeout:           r.Timeout,
		RequestsPerSecond: r.RequestsPerSecond,
		Burst:             r.Burst,
	}
}

// CacheSettings returns the route cache bounds.
func (r *RoutingConfig) CacheSettings() routing.CacheConfig {
	return routing.CacheConfig{Size: r.CacheSize, TTL: r.CacheTTL, CallTimeout: r.Timeout}
}

// BreakerSettings returns the circuit breaker settings for the provider.
func (r *RoutingConfig) BreakerSettings() routing.BreakerConfig {
	return routing.BreakerConfig{
		Name:         "routing-" + r.ResolvedProvider(),
		MaxRequests:  r.Breaker.MaxRequests,
		Interval:     r.Breaker.Interval,
		Timeout:      r.Breaker.Timeout,
		MinRequests:  r.Breaker.MinRequests,
		FailureRatio: r.Breaker.FailureRatio,
	}
}

// RecommendConfig mirrors recommend.Config in flat, file-friendly form.
type RecommendConfig struct {
	Seed                int64         `koanf:"seed"`
	DurationMode        string        `koanf:"duration_mode"`
	RouteTimeout        time.Duration `koanf:"route_timeout"`
	MaxConcurrentRoutes int           `koanf:"max_concurrent_routes"`

	MinutesPerLevel float64 `koanf:"minutes_per_level"`
	WalkingSpeedKMH float64 `koanf:"walking_speed_kmh"`

	ATMMaxBalance    int64    `koanf:"atm_max_balance"`
	BranchMaxBalance int64    `koanf:"branch_max_balance"`
	MinOperations    int      `koanf:"min_operations"`
	MaxOperations    int      `koanf:"max_operations"`
	MinWorkload      int      `koanf:"min_workload"`
	MaxWorkload      int      `koanf:"max_workload"`
	Hours            []string `koanf:"hours"`
}

// EngineConfig converts the section into the engine's configuration.
func (r *RecommendConfig) EngineConfig() *recommend.Config {
	return &recommend.Config{
		Seed:                r.Seed,
		DurationMode:        recommend.DurationMode(r.DurationMode),
		RouteTimeout:        r.RouteTimeout,
		MaxConcurrentRoutes: r.MaxConcurrentRoutes,
		Penalty: recommend.PenaltyConfig{
			MinutesPerLevel: r.MinutesPerLevel,
			WalkingSpeedKMH: r.WalkingSpeedKMH,
		},
		Synthetic: recommend.SyntheticConfig{
			ATMMaxBalance:    r.ATMMaxBalance,
			BranchMaxBalance: r.BranchMaxBalance,
			MinOperations:    r.MinOperations,
			MaxOperations:    r.MaxOperations,
			MinWorkload:      r.MinWorkload,
			MaxWorkload:      r.MaxWorkload,
			Hours:            append([]string(nil), r.Hours...),
		},
	}
}

// SecurityConfig holds HTTP hardening settings.
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`

	// TrustProxyHeaders takes the client IP from X-Forwarded-For/X-Real-IP.
	// Enable only behind a proxy that sets them, or clients can dodge the
	// per-IP rate limit.
	TrustProxyHeaders bool `koanf:"trust_proxy_headers"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level"`

	// Format is json or console.
	// Default: json
	Format string `koanf:"format"`

	// Caller adds file:line to log events.
	Caller bool `koanf:"caller"`
}

// LoggerConfig converts the section for logging.Init.
//
//nolint:gocritic // value receiver is intentional for immutable semantics
func (l LoggingConfig) LoggerConfig() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = l.Level
	if l.Format != "" {
		cfg.Format = l.Format
	}
	cfg.Caller = l.Caller
	return cfg
}

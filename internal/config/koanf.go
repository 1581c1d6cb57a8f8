// Branchfinder - Bank Branch and ATM Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/branchfinder

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/branchfinder/internal/recommend"
	"github.com/tomtom215/branchfinder/internal/routing"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/branchfinder/config.yaml",
	"/etc/branchfinder/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all sensible default values.
// Dataset paths and the MapQuest key have no defaults.
func defaultConfig() *Config {
	engine := recommend.DefaultConfig()
	breaker := routing.DefaultBreakerConfig()

	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second,
			IdleTimeout:     120 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			Environment:     "development",
		},
		Dataset: DatasetConfig{
			ProbeInterval: time.Minute,
		},
		Routing: RoutingConfig{
			Provider:          ProviderAuto,
			BaseURL:           "https://www.mapquestapi.com",
			RouteType:         "pedestrian",
			Timeout:           10 * time.Second,
			RequestsPerSecond: 10,
			Burst:             10,
			CacheSize:         10000,
			CacheTTL:          24 * time.Hour,
			Breaker: BreakerConfig{
				Enabled:      true,
				MaxRequests:  breaker.MaxRequests,
				Interval:     breaker.Interval,
				Timeout:      breaker.Timeout,
				MinRequests:  breaker.MinRequests,
				FailureRatio: breaker.FailureRatio,
			},
		},
		Recommend: RecommendConfig{
			Seed:                engine.Seed,
			DurationMode:        string(engine.DurationMode),
			RouteTimeout:        engine.RouteTimeout,
			MaxConcurrentRoutes: engine.MaxConcurrentRoutes,
			MinutesPerLevel:     engine.Penalty.MinutesPerLevel,
			WalkingSpeedKMH:     engine.Penalty.WalkingSpeedKMH,
			ATMMaxBalance:       engine.Synthetic.ATMMaxBalance,
			BranchMaxBalance:    engine.Synthetic.BranchMaxBalance,
			MinOperations:       engine.Synthetic.MinOperations,
			MaxOperations:       engine.Synthetic.MaxOperations,
			MinWorkload:         engine.Synthetic.MinWorkload,
			MaxWorkload:         engine.Synthetic.MaxWorkload,
			Hours:               engine.Synthetic.Hours,
		},
		Security: SecurityConfig{
			RateLimitReqs:   60,
			RateLimitWindow: time.Minute,
			CORSOrigins:     []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// LoadWithKoanf loads configuration using Koanf with layered sources:
//  1. Struct defaults
//  2. Config file (optional, YAML)
//  3. Environment variables (highest priority)
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths are config keys that arrive from env vars as comma-separated strings.
var sliceConfigPaths = []string{
	"security.cors_origins",
	"recommend.hours",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps flat environment variable names (lower-cased) to config keys.
var envMappings = map[string]string{
	// Server
	"http_host":          "server.host",
	"http_port":          "server.port",
	"http_read_timeout":  "server.read_timeout",
	"http_write_timeout": "server.write_timeout",
	"http_idle_timeout":  "server.idle_timeout",
	"shutdown_timeout":   "server.shutdown_timeout",
	"environment":        "server.environment",

	// Dataset
	"atm_data_path":          "dataset.atm_path",
	"office_data_path":       "dataset.office_path",
	"dataset_probe_interval": "dataset.probe_interval",

	// Routing
	"routing_provider":              "routing.provider",
	"mapquest_base_url":             "routing.base_url",
	"mapquest_api_key":              "routing.api_key",
	"mapquest_route_type":           "routing.route_type",
	"routing_timeout":               "routing.timeout",
	"routing_requests_per_second":   "routing.requests_per_second",
	"routing_burst":                 "routing.burst",
	"routing_cache_size":            "routing.cache_size",
	"routing_cache_ttl":             "routing.cache_ttl",
	"routing_breaker_enabled":       "routing.breaker.enabled",
	"routing_breaker_max_requests":  "routing.breaker.max_requests",
	"routing_breaker_interval":      "routing.breaker.interval",
	"routing_breaker_timeout":       "routing.breaker.timeout",
	"routing_breaker_min_requests":  "routing.breaker.min_requests",
	"routing_breaker_failure_ratio": "routing.breaker.failure_ratio",

	// Recommendation engine
	"recommend_seed":                  "recommend.seed",
	"recommend_duration_mode":         "recommend.duration_mode",
	"recommend_route_timeout":         "recommend.route_timeout",
	"recommend_max_concurrent_routes": "recommend.max_concurrent_routes",
	"recommend_minutes_per_level":     "recommend.minutes_per_level",
	"recommend_walking_speed_kmh":     "recommend.walking_speed_kmh",
	"recommend_atm_max_balance":       "recommend.atm_max_balance",
	"recommend_branch_max_balance":    "recommend.branch_max_balance",
	"recommend_min_operations":        "recommend.min_operations",
	"recommend_max_operations":        "recommend.max_operations",
	"recommend_min_workload":          "recommend.min_workload",
	"recommend_max_workload":          "recommend.max_workload",
	"recommend_hours":                 "recommend.hours",

	// Security
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"cors_origins":        "security.cors_origins",
	"trust_proxy_headers": "security.trust_proxy_headers",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - MAPQUEST_API_KEY -> routing.api_key
//   - ATM_DATA_PATH -> dataset.atm_path
//   - HTTP_PORT -> server.port
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	// Unmapped variables are skipped so the environment cannot pollute config.
	return ""
}

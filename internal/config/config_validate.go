// Branchfinder - Bank Branch and ATM Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/branchfinder

package config

import (
	"fmt"
	"net/url"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateDataset(); err != nil {
		return err
	}
	if err := c.validateRouting(); err != nil {
		return err
	}
	if err := c.validateRecommend(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	return c.validateLogging()
}

var validEnvironments = map[string]bool{
	"development": true,
	"staging":     true,
	"production":  true,
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("HTTP_READ_TIMEOUT and HTTP_WRITE_TIMEOUT must be positive")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive")
	}
	if !validEnvironments[c.Server.Environment] {
		return fmt.Errorf("ENVIRONMENT must be one of: development, staging, production")
	}
	return nil
}

func (c *Config) validateDataset() error {
	if c.Dataset.ATMPath == "" {
		return fmt.Errorf("ATM_DATA_PATH is required")
	}
	if c.Dataset.OfficePath == "" {
		return fmt.Errorf("OFFICE_DATA_PATH is required")
	}
	if c.Dataset.ProbeInterval < 0 {
		return fmt.Errorf("DATASET_PROBE_INTERVAL must not be negative")
	}
	return nil
}

func (c *Config) validateRouting() error {
	r := &c.Routing
	switch r.Provider {
	case ProviderAuto, ProviderDirect:
	case ProviderMapQuest:
		if r.APIKey == "" {
			return fmt.Errorf("MAPQUEST_API_KEY is required when ROUTING_PROVIDER=mapquest")
		}
	default:
		return fmt.Errorf("ROUTING_PROVIDER must be one of: auto, mapquest, direct")
	}

	if r.ResolvedProvider() == ProviderMapQuest {
		u, err := url.Parse(r.BaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("MAPQUEST_BASE_URL must be an absolute http(s) URL, got %q", r.BaseURL)
		}
		if r.Timeout <= 0 {
			return fmt.Errorf("ROUTING_TIMEOUT must be positive")
		}
	}
	if r.RequestsPerSecond < 0 || r.Burst < 0 {
		return fmt.Errorf("ROUTING_REQUESTS_PER_SECOND and ROUTING_BURST must be non-negative")
	}
	if r.CacheSize < 0 {
		return fmt.Errorf("ROUTING_CACHE_SIZE must be non-negative")
	}
	if r.CacheSize > 0 && r.CacheTTL <= 0 {
		return fmt.Errorf("ROUTING_CACHE_TTL must be positive when the cache is enabled")
	}

	if !r.Breaker.Enabled {
		return nil
	}
	if r.Breaker.MaxRequests == 0 {
		return fmt.Errorf("ROUTING_BREAKER_MAX_REQUESTS must be positive")
	}
	if r.Breaker.Timeout <= 0 {
		return fmt.Errorf("ROUTING_BREAKER_TIMEOUT must be positive")
	}
	if r.Breaker.FailureRatio <= 0 || r.Breaker.FailureRatio > 1 {
		return fmt.Errorf("ROUTING_BREAKER_FAILURE_RATIO must be in (0, 1], got %v", r.Breaker.FailureRatio)
	}
	return nil
}

func (c *Config) validateRecommend() error {
	if err := c.Recommend.EngineConfig().Validate(); err != nil {
		return fmt.Errorf("recommend: %w", err)
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < 1 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be positive, got %d", c.Security.RateLimitReqs)
	}
	if c.Security.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
	}
	return nil
}

// validLogLevels defines the allowed log levels
var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validLogFormats defines the allowed log formats
var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

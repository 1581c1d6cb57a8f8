// Branchfinder - Bank Branch and ATM Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/branchfinder

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestDefaultConfig verifies that defaultConfig() returns proper defaults
func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Server.Environment != "development" {
		t.Errorf("Server.Environment = %q, want development", cfg.Server.Environment)
	}
	if cfg.Dataset.ATMPath != "" || cfg.Dataset.OfficePath != "" {
		t.Error("dataset paths must not have defaults")
	}
	if cfg.Routing.APIKey != "" {
		t.Error("Routing.APIKey must not have a default")
	}
	if cfg.Routing.Provider != ProviderAuto {
		t.Errorf("Routing.Provider = %q, want auto", cfg.Routing.Provider)
	}
	if !cfg.Routing.Breaker.Enabled {
		t.Error("Routing.Breaker.Enabled should be true by default")
	}
	if cfg.Recommend.RouteTimeout != 5*time.Second {
		t.Errorf("Recommend.RouteTimeout = %v, want 5s", cfg.Recommend.RouteTimeout)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info", cfg.Logging.Level)
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		env  string
		want string
	}{
		{"MAPQUEST_API_KEY", "routing.api_key"},
		{"ATM_DATA_PATH", "dataset.atm_path"},
		{"OFFICE_DATA_PATH", "dataset.office_path"},
		{"DATASET_PROBE_INTERVAL", "dataset.probe_interval"},
		{"ROUTING_CACHE_TTL", "routing.cache_ttl"},
		{"HTTP_PORT", "server.port"},
		{"RECOMMEND_DURATION_MODE", "recommend.duration_mode"},
		{"ROUTING_BREAKER_FAILURE_RATIO", "routing.breaker.failure_ratio"},
		{"LOG_LEVEL", "logging.level"},
		{"PATH", ""},
		{"HOME", ""},
	}
	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			if got := envTransformFunc(tt.env); got != tt.want {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.env, got, tt.want)
			}
		})
	}
}

func TestLoadWithKoanf_EnvOverrides(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("ATM_DATA_PATH", "/srv/atms.json")
	t.Setenv("OFFICE_DATA_PATH", "/srv/offices.json")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("MAPQUEST_API_KEY", "env-key")
	t.Setenv("RECOMMEND_ROUTE_TIMEOUT", "2s")
	t.Setenv("RECOMMEND_SEED", "42")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Dataset.ATMPath != "/srv/atms.json" {
		t.Errorf("Dataset.ATMPath = %q", cfg.Dataset.ATMPath)
	}
	if cfg.Routing.ResolvedProvider() != ProviderMapQuest {
		t.Errorf("provider = %q, want mapquest once a key is set", cfg.Routing.ResolvedProvider())
	}
	if cfg.Recommend.RouteTimeout != 2*time.Second {
		t.Errorf("Recommend.RouteTimeout = %v, want 2s", cfg.Recommend.RouteTimeout)
	}
	if cfg.Recommend.Seed != 42 {
		t.Errorf("Recommend.Seed = %d, want 42", cfg.Recommend.Seed)
	}
	if len(cfg.Security.CORSOrigins) != 2 || cfg.Security.CORSOrigins[1] != "https://b.example" {
		t.Errorf("Security.CORSOrigins = %v", cfg.Security.CORSOrigins)
	}
}

func TestLoadWithKoanf_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
dataset:
  atm_path: /data/atms.json
  office_path: /data/offices.json
routing:
  provider: direct
recommend:
  duration_mode: representative
  max_concurrent_routes: 1
logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Routing.Provider != ProviderDirect {
		t.Errorf("Routing.Provider = %q, want direct", cfg.Routing.Provider)
	}
	if cfg.Recommend.DurationMode != "representative" {
		t.Errorf("Recommend.DurationMode = %q, want representative", cfg.Recommend.DurationMode)
	}
	if cfg.Recommend.MaxConcurrentRoutes != 1 {
		t.Errorf("Recommend.MaxConcurrentRoutes = %d, want 1", cfg.Recommend.MaxConcurrentRoutes)
	}
	if cfg.Recommend.MinutesPerLevel != 6 {
		t.Errorf("defaults lost under file layer: MinutesPerLevel = %v", cfg.Recommend.MinutesPerLevel)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, env must win over file", cfg.Logging.Level)
	}
}

func TestLoadWithKoanf_ValidationFailure(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("ATM_DATA_PATH", "")
	t.Setenv("OFFICE_DATA_PATH", "")

	if _, err := LoadWithKoanf(); err == nil {
		t.Fatal("expected error without dataset paths")
	}
}

func TestProcessSliceFields_FromEnv(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("ATM_DATA_PATH", "a")
	t.Setenv("OFFICE_DATA_PATH", "b")
	t.Setenv("RECOMMEND_HOURS", "09:00-18:00,выходной")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}
	if len(cfg.Recommend.Hours) != 2 || cfg.Recommend.Hours[1] != "выходной" {
		t.Errorf("Recommend.Hours = %v", cfg.Recommend.Hours)
	}
}

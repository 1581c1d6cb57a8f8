// Branchfinder - Bank Branch and ATM Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/branchfinder

package recommend

import (
	"fmt"
	"time"
)

// DurationMode selects which service time the schedule check uses.
type DurationMode string

const (
	// DurationPerRecord uses each branch's own service time.
	DurationPerRecord DurationMode = "per_record"

	// DurationRepresentative applies the first surviving branch's service
	// time to every branch. Kept for parity with the legacy scoring sheet.
	DurationRepresentative DurationMode = "representative"
)

// Config contains all configuration for the recommendation engine.
type Config struct {
	// Seed drives every synthetic draw. Zero means a fresh seed per request;
	// the seed actually used is reported in Result.Seed.
	Seed int64 `json:"seed"`

	// DurationMode selects per-record or representative service time.
	// Default: per_record.
	DurationMode DurationMode `json:"duration_mode"`

	// RouteTimeout bounds a single routing query. A timeout counts as a
	// routing failure for that candidate only.
	// Default: 5s.
	RouteTimeout time.Duration `json:"route_timeout"`

	// MaxConcurrentRoutes caps in-flight routing queries per request.
	// 1 reproduces strictly sequential routing.
	// Default: 8.
	MaxConcurrentRoutes int `json:"max_concurrent_routes"`

	// Penalty converts workload into meters.
	Penalty PenaltyConfig `json:"penalty"`

	// Synthetic bounds the stand-in data feeds.
	Synthetic SyntheticConfig `json:"synthetic"`
}

// PenaltyConfig turns a workload level into an equivalent walking distance:
// level × MinutesPerLevel/60 × WalkingSpeedKMH × 1000.
type PenaltyConfig struct {
	// MinutesPerLevel is the expected extra wait per workload level.
	// Default: 6.
	MinutesPerLevel float64 `json:"minutes_per_level"`

	// WalkingSpeedKMH converts waiting time to meters.
	// Default: 4.
	WalkingSpeedKMH float64 `json:"walking_speed_kmh"`
}

// Meters returns the penalty for a workload level.
//
//nolint:gocritic // value receiver is intentional for immutable semantics
func (p PenaltyConfig) Meters(level int) float64 {
	return float64(level) * p.MinutesPerLevel / 60 * p.WalkingSpeedKMH * 1000
}

// SyntheticConfig bounds the random stand-in feeds.
type SyntheticConfig struct {
	// ATMMaxBalance is the exclusive upper bound for an ATM's cash.
	// Default: 300000.
	ATMMaxBalance int64 `json:"atm_max_balance"`

	// BranchMaxBalance is the exclusive upper bound for a branch's cash.
	// Default: 1000000.
	BranchMaxBalance int64 `json:"branch_max_balance"`

	// MinOperations and MaxOperations bound the size of a branch's
	// operation subset (inclusive). Defaults: 3 and 10.
	MinOperations int `json:"min_operations"`
	MaxOperations int `json:"max_operations"`

	// MinWorkload and MaxWorkload bound a branch's workload (inclusive).
	// Defaults: 1 and 10.
	MinWorkload int `json:"min_workload"`
	MaxWorkload int `json:"max_workload"`

	// Hours is the pool of window strings a branch's hours are drawn from.
	Hours []string `json:"hours"`
}

// DefaultConfig returns a Config with production defaults.
func DefaultConfig() *Config {
	return &Config{
		DurationMode:        DurationPerRecord,
		RouteTimeout:        5 * time.Second,
		MaxConcurrentRoutes: 8,
		Penalty: PenaltyConfig{
			MinutesPerLevel: 6,
			WalkingSpeedKMH: 4,
		},
		Synthetic: SyntheticConfig{
			ATMMaxBalance:    300000,
			BranchMaxBalance: 1000000,
			MinOperations:    3,
			MaxOperations:    len(catalog),
			MinWorkload:      1,
			MaxWorkload:      10,
			Hours: []string{
				"09:00-20:00",
				"07:00-19:00",
				"08:00-18:00",
				"10:00-20:00",
				"09:00-21:00",
				ClosedSentinel,
			},
		},
	}
}

// Validate checks the configuration for errors.
//
//nolint:gocyclo // validation needs to check many fields
func (c *Config) Validate() error {
	switch c.DurationMode {
	case DurationPerRecord, DurationRepresentative:
	default:
		return fmt.Errorf("duration_mode must be %q or %q, got %q",
			DurationPerRecord, DurationRepresentative, c.DurationMode)
	}
	if c.RouteTimeout <= 0 {
		return fmt.Errorf("route_timeout must be positive, got %v", c.RouteTimeout)
	}
	if c.MaxConcurrentRoutes < 1 {
		return fmt.Errorf("max_concurrent_routes must be positive, got %d", c.MaxConcurrentRoutes)
	}
	if c.Penalty.MinutesPerLevel < 0 {
		return fmt.Errorf("penalty.minutes_per_level must be non-negative, got %f", c.Penalty.MinutesPerLevel)
	}
	if c.Penalty.WalkingSpeedKMH <= 0 {
		return fmt.Errorf("penalty.walking_speed_kmh must be positive, got %f", c.Penalty.WalkingSpeedKMH)
	}

	s := c.Synthetic
	if s.ATMMaxBalance < 1 || s.BranchMaxBalance < 1 {
		return fmt.Errorf("synthetic balances must be positive, got atm=%d branch=%d",
			s.ATMMaxBalance, s.BranchMaxBalance)
	}
	if s.MinOperations < 1 || s.MaxOperations > len(catalog) || s.MinOperations > s.MaxOperations {
		return fmt.Errorf("synthetic operations must satisfy 1 <= min <= max <= %d, got [%d, %d]",
			len(catalog), s.MinOperations, s.MaxOperations)
	}
	if s.MinWorkload < 1 || s.MinWorkload > s.MaxWorkload {
		return fmt.Errorf("synthetic workload must satisfy 1 <= min <= max, got [%d, %d]",
			s.MinWorkload, s.MaxWorkload)
	}
	if len(s.Hours) == 0 {
		return fmt.Errorf("synthetic.hours must not be empty")
	}
	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	out := *c
	out.Synthetic.Hours = append([]string(nil), c.Synthetic.Hours...)
	return &out
}

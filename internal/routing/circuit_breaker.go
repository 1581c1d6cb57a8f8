// Branchfinder - Bank Branch and ATM Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/branchfinder

package routing

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/branchfinder/internal/geo"
	"github.com/tomtom215/branchfinder/internal/metrics"
)

// BreakerConfig configures CircuitBreakerRouter.
type BreakerConfig struct {
	// Name labels the breaker in metrics and logs.
	Name string

	// MaxRequests is the number of trial requests allowed while half-open.
	MaxRequests uint32

	// Interval resets the closed-state counts. Zero never resets.
	Interval time.Duration

	// Timeout is how long the breaker stays open before going half-open.
	Timeout time.Duration

	// MinRequests is the sample size needed before the breaker may trip.
	MinRequests uint32

	// FailureRatio trips the breaker once reached.
	FailureRatio float64
}

// DefaultBreakerConfig opens after 60% failures over at least 10 requests
// and probes again after two minutes.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Name:         "routing",
		MaxRequests:  3,
		Interval:     time.Minute,
		Timeout:      2 * time.Minute,
		MinRequests:  10,
		FailureRatio: 0.6,
	}
}

// CircuitBreakerRouter stops calling a failing provider. While open, every
// route fails fast with gobreaker.ErrOpenState, which the recommender treats
// like any other routing failure, so requests degrade to the fallback path
// instead of waiting on timeouts.
type CircuitBreakerRouter struct {
	next   Router
	cb     *gobreaker.CircuitBreaker[[]geo.Coordinate]
	name   string
	logger zerolog.Logger
}

// NewCircuitBreakerRouter wraps next with a circuit breaker.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewCircuitBreakerRouter(next Router, cfg BreakerConfig, logger zerolog.Logger) *CircuitBreakerRouter {
	if cfg.Name == "" {
		cfg.Name = "routing"
	}
	r := &CircuitBreakerRouter{
		next:   next,
		name:   cfg.Name,
		logger: logger.With().Str("component", "routing").Str("breaker", cfg.Name).Logger(),
	}

	metrics.CircuitBreakerState.WithLabelValues(cfg.Name).Set(0)
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(cfg.Name).Set(0)

	r.cb = gobreaker.NewCircuitBreaker[[]geo.Coordinate](gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			trip := ratio >= cfg.FailureRatio
			if trip {
				r.logger.Warn().Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", ratio*100).Msg("opening circuit")
			}
			return trip
		},
		IsSuccessful: healthy,
		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr, toStr := stateToString(from), stateToString(to)
			r.logger.Info().Str("from", fromStr).Str("to", toStr).Msg("circuit state transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},
	})
	return r
}

// Route implements Router.
func (r *CircuitBreakerRouter) Route(ctx context.Context, origin, destination geo.Coordinate) ([]geo.Coordinate, error) {
	path, err := r.cb.Execute(func() ([]geo.Coordinate, error) {
		return r.next.Route(ctx, origin, destination)
	})

	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.CircuitBreakerRequests.WithLabelValues(r.name, "rejected").Inc()
		r.logger.Debug().Err(err).Msg("route rejected")
	case !healthy(err):
		metrics.CircuitBreakerRequests.WithLabelValues(r.name, "failure").Inc()
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(r.name).
			Set(float64(r.cb.Counts().ConsecutiveFailures))
	default:
		metrics.CircuitBreakerRequests.WithLabelValues(r.name, "success").Inc()
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(r.name).Set(0)
	}
	return path, err
}

// State returns the current breaker state as "closed", "half-open" or "open".
func (r *CircuitBreakerRouter) State() string {
	return stateToString(r.cb.State())
}

// healthy reports whether err leaves the provider's health untouched.
// Unroutable points and callers that gave up are not provider failures.
func healthy(err error) bool {
	return err == nil ||
		errors.Is(err, ErrNoRoute) ||
		errors.Is(err, context.Canceled)
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

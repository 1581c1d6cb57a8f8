// Branchfinder - Bank Branch and ATM Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/branchfinder

package recommend

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Note: this package depends only on internal/geo. Dataset loading and
// routing providers plug in through LocationSource and Router.

// LocationSource loads a fresh snapshot of ATMs and branches.
type LocationSource interface {
	Load(ctx context.Context) (Snapshot, error)
}

// Engine runs the recommendation pipeline. It holds no per-request state
// and is safe for concurrent use.
type Engine struct {
	config *Config
	logger zerolog.Logger

	source LocationSource
	router Router

	feedsMu sync.RWMutex
	feeds   FeedFactory

	requestCount atomic.Int64
	errorCount   atomic.Int64
}

// Stats is a snapshot of engine counters.
type Stats struct {
	RequestCount int64 `json:"request_count"`
	ErrorCount   int64 `json:"error_count"`
}

// NewEngine creates a new recommendation engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, source LocationSource, router Router, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if source == nil {
		return nil, errors.New("location source is required")
	}
	if router == nil {
		return nil, errors.New("router is required")
	}

	return &Engine{
		config: cfg,
		logger: logger.With().Str("component", "recommend").Logger(),
		source: source,
		router: router,
		feeds:  SyntheticFactory(cfg.Synthetic),
	}, nil
}

// SetFeedFactory replaces the synthetic feeds, e.g. with live bank feeds.
func (e *Engine) SetFeedFactory(f FeedFactory) {
	e.feedsMu.Lock()
	defer e.feedsMu.Unlock()
	e.feeds = f
}

// Ready reports whether the dataset can currently be loaded.
func (e *Engine) Ready(ctx context.Context) error {
	if _, err := e.source.Load(ctx); err != nil {
		return datasetError(err)
	}
	return nil
}

// GetConfig returns a copy of the current configuration.
func (e *Engine) GetConfig() *Config {
	return e.config.Clone()
}

// GetStats returns request and error counters.
func (e *Engine) GetStats() Stats {
	return Stats{
		RequestCount: e.requestCount.Load(),
		ErrorCount:   e.errorCount.Load(),
	}
}

// Recommend runs one full pipeline pass and returns the best location.
// Finding nothing is reported through Result.Outcome, not as an error.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) Recommend(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()
	e.requestCount.Add(1)

	if err := validateRequest(&req); err != nil {
		e.errorCount.Add(1)
		return nil, err
	}
	if req.RequestID == "" {
		req.RequestID = fmt.Sprintf("rec-%d", start.UnixNano())
	}
	seed := e.seedFor(req)
	logger := e.createRequestLogger(req, seed)
	logger.Debug().Msg("processing recommendation request")

	snap, err := e.source.Load(ctx)
	if err != nil {
		e.errorCount.Add(1)
		logger.Error().Err(err).Msg("dataset load failed")
		return nil, datasetError(err)
	}

	run := &pipeline{
		cfg:    e.config,
		router: e.router,
		feeds:  e.feedFactory()(rand.New(rand.NewSource(seed))), //nolint:gosec // synthetic stand-in data, not security sensitive
		req:    req,
		logger: logger,
	}

	result := &Result{
		RequestID: req.RequestID,
		Outcome:   OutcomeNoCandidate,
		Seed:      seed,
		Timestamp: start.UTC(),
	}
	result.Stages.ATMs = len(snap.ATMs)
	result.Stages.Branches = len(snap.Branches)

	pool := run.balanceStage(ctx, snap, &result.Stages)

	if best := run.primary(ctx, pool, &result.Stages); best != nil {
		result.Outcome, result.Best = OutcomePrimary, best
	} else if best := run.fallback(ctx, pool, &result.Stages); best != nil {
		result.Outcome, result.Best = OutcomeFallback, best
	}

	// A cancelled caller must not be told that nothing was found.
	if err := ctx.Err(); err != nil && result.Best == nil {
		e.errorCount.Add(1)
		return nil, fmt.Errorf("recommend: %w", err)
	}

	result.LatencyMS = time.Since(start).Milliseconds()
	e.logResult(logger, result)
	return result, nil
}

// validateRequest checks the fields that make a request unusable as a whole.
// Bad arrival times and unknown operations are not among them; those just
// match no branch.
func validateRequest(req *Request) error {
	if req.Amount.IsNegative() {
		return fmt.Errorf("%w: amount must be non-negative, got %s", ErrInvalidRequest, req.Amount)
	}
	if req.Category != CategoryIndividual && req.Category != CategoryLegal {
		return fmt.Errorf("%w: category must be individual or legal", ErrInvalidRequest)
	}
	if !req.Origin.Valid() {
		return fmt.Errorf("%w: origin %v out of range", ErrInvalidRequest, req.Origin)
	}
	return nil
}

//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) seedFor(req Request) int64 {
	switch {
	case req.Seed != nil:
		return *req.Seed
	case e.config.Seed != 0:
		return e.config.Seed
	default:
		return time.Now().UnixNano()
	}
}

func (e *Engine) feedFactory() FeedFactory {
	e.feedsMu.RLock()
	defer e.feedsMu.RUnlock()
	return e.feeds
}

// createRequestLogger creates a logger with request context.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) createRequestLogger(req Request, seed int64) zerolog.Logger {
	return e.logger.With().
		Str("request_id", req.RequestID).
		Str("category", req.Category.String()).
		Str("operation", req.Operation).
		Int64("seed", seed).
		Logger()
}

//nolint:gocritic // logger passed by value is acceptable for zerolog
func (e *Engine) logResult(logger zerolog.Logger, r *Result) {
	ev := logger.Info().
		Str("outcome", string(r.Outcome)).
		Int("balance", r.Stages.Balance).
		Int("operation", r.Stages.Operation).
		Int("schedule", r.Stages.Schedule).
		Int("routed", r.Stages.Routed).
		Int("accessibility", r.Stages.Accessibility).
		Int64("latency_ms", r.LatencyMS)
	if r.Best != nil {
		ev = ev.Str("best", r.Best.ID).Float64("final_score", r.Best.FinalScore)
	}
	ev.Msg("recommendation complete")
}

func datasetError(err error) error {
	if errors.Is(err, ErrDatasetUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrDatasetUnavailable, err)
}

// Branchfinder - Bank Branch and ATM Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/branchfinder

package main

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/branchfinder/internal/config"
	"github.com/tomtom215/branchfinder/internal/dataset"
	"github.com/tomtom215/branchfinder/internal/recommend"
	"github.com/tomtom215/branchfinder/internal/routing"
	"github.com/tomtom215/branchfinder/internal/supervisor"
	"github.com/tomtom215/branchfinder/internal/supervisor/services"
)

// RecommendComponents holds everything the recommendation path needs.
type RecommendComponents struct {
	Engine *recommend.Engine
	Router routing.Router
	Probe  *services.DatasetProbeService
}

// initRecommend builds the routing provider and engine and, when enabled,
// registers the dataset probe with the data layer.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func initRecommend(cfg *config.Config, logger zerolog.Logger, tree *supervisor.SupervisorTree) (*RecommendComponents, error) {
	router, err := buildRouter(&cfg.Routing, logger)
	if err != nil {
		return nil, err
	}

	source := dataset.NewFileSource(cfg.Dataset.ATMPath, cfg.Dataset.OfficePath, logger)

	engine, err := recommend.NewEngine(cfg.Recommend.EngineConfig(), source, router, logger)
	if err != nil {
		return nil, fmt.Errorf("create recommendation engine: %w", err)
	}

	logger.Info().
		Str("atm_path", cfg.Dataset.ATMPath).
		Str("office_path", cfg.Dataset.OfficePath).
		Str("duration_mode", cfg.Recommend.DurationMode).
		Int("max_concurrent_routes", cfg.Recommend.MaxConcurrentRoutes).
		Msg("recommendation engine initialized")

	comps := &RecommendComponents{Engine: engine, Router: router}

	if cfg.Dataset.ProbeInterval > 0 && tree != nil {
		comps.Probe = services.NewDatasetProbeService(engine, cfg.Dataset.ProbeInterval, logger)
		tree.AddDataService(comps.Probe)
		logger.Info().Dur("interval", cfg.Dataset.ProbeInterval).Msg("dataset probe added to supervisor tree")
	}

	return comps, nil
}

// buildRouter resolves the configured provider, wraps it in a circuit breaker
// when enabled and puts the route cache in front. The direct provider is
// never wrapped; it cannot fail upstream and costs nothing to call.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func buildRouter(cfg *config.RoutingConfig, logger zerolog.Logger) (routing.Router, error) {
	provider := cfg.ResolvedProvider()

	var router routing.Router
	switch provider {
	case config.ProviderMapQuest:
		mq, err := routing.NewMapQuestRouter(cfg.MapQuest(), logger)
		if err != nil {
			return nil, fmt.Errorf("create mapquest router: %w", err)
		}
		router = mq
	case config.ProviderDirect:
		router = routing.NewDirectRouter()
	default:
		return nil, fmt.Errorf("unknown routing provider %q", provider)
	}

	upstream := provider != config.ProviderDirect
	if upstream && cfg.Breaker.Enabled {
		router = routing.NewCircuitBreakerRouter(router, cfg.BreakerSettings(), logger)
	}
	if upstream && cfg.CacheSize > 0 {
		router = routing.NewCachingRouter(router, cfg.CacheSettings())
	}

	logger.Info().
		Str("provider", provider).
		Bool("circuit_breaker", upstream && cfg.Breaker.Enabled).
		Int("cache_size", cfg.CacheSize).
		Msg("routing provider selected")

	return router, nil
}

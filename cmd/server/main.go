// Branchfinder - Bank Branch and ATM Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/branchfinder

// Package main is the entry point for the Branchfinder server.
//
// Branchfinder answers "where should I go?" for a bank customer: given an
// amount, an arrival time, a customer category, an operation and any
// accessibility needs, it returns the single best branch or ATM.
//
// # Startup
//
//  1. Configuration: defaults, then config.yaml, then environment (Koanf v2)
//  2. Logging: zerolog per LOG_LEVEL / LOG_FORMAT / LOG_CALLER
//  3. Routing: MapQuest (behind a circuit breaker) or straight-line direct
//  4. Engine: dataset file source plus the recommendation pipeline
//  5. Supervisor: dataset probe and HTTP server under suture
//
// # Example
//
//	export ATM_DATA_PATH=/srv/bank/atms.json
//	export OFFICE_DATA_PATH=/srv/bank/offices.json
//	export MAPQUEST_API_KEY=...
//	./branchfinder
//
// SIGINT and SIGTERM drain in-flight requests for SHUTDOWN_TIMEOUT.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/tomtom215/branchfinder/internal/api"
	"github.com/tomtom215/branchfinder/internal/config"
	"github.com/tomtom215/branchfinder/internal/logging"
	"github.com/tomtom215/branchfinder/internal/supervisor"
	"github.com/tomtom215/branchfinder/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(cfg.Logging.LoggerConfig())
	logging.Info().
		Str("version", version).
		Str("environment", cfg.Server.Environment).
		Str("routing_provider", cfg.Routing.ResolvedProvider()).
		Msg("Starting Branchfinder with supervisor tree")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	comps, err := initRecommend(cfg, logging.WithComponent("recommend"), tree)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize recommendation engine")
	}

	router := api.NewRouter(
		api.NewHandler(comps.Engine, version),
		api.NewChiMiddleware(api.ChiMiddlewareConfigFrom(cfg)),
	)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	tree.AddAPIService(services.NewHTTPServerService(server, addr, cfg.Server.ShutdownTimeout, logging.WithComponent("http")))

	// suture sends exactly one value and never closes the channel.
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Shutdown signal received, waiting for supervisor to finish")
		err = <-errCh
	case err = <-errCh:
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree error")
	}

	if unstopped, _ := tree.UnstoppedServiceReport(); len(unstopped) > 0 {
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
		}
	}

	logging.Info().Msg("Branchfinder stopped")
}

// Branchfinder - Bank Branch and ATM Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/branchfinder

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/branchfinder/internal/metrics"
)

// ReadinessChecker reports whether the dataset can currently be loaded.
// *recommend.Engine satisfies it.
type ReadinessChecker interface {
	Ready(ctx context.Context) error
}

// DatasetProbeService re-reads the dataset on a fixed interval so a broken or
// missing export shows up in logs and the dataset_available gauge before a
// customer request hits it. Requests never wait on the probe.
type DatasetProbeService struct {
	checker  ReadinessChecker
	interval time.Duration
	timeout  time.Duration
	logger   zerolog.Logger

	healthy *bool
}

// NewDatasetProbeService creates a probe. A non-positive interval means 1m.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewDatasetProbeService(checker ReadinessChecker, interval time.Duration, logger zerolog.Logger) *DatasetProbeService {
	if interval <= 0 {
		interval = time.Minute
	}
	return &DatasetProbeService{
		checker:  checker,
		interval: interval,
		timeout:  interval / 2,
		logger:   logger.With().Str("service", "dataset-probe").Logger(),
	}
}

// Serve implements suture.Service. It probes once immediately and then on
// every tick until ctx is canceled.
func (s *DatasetProbeService) Serve(ctx context.Context) error {
	s.logger.Info().Dur("interval", s.interval).Msg("dataset probe starting")
	s.probe(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.probe(ctx)
		}
	}
}

// probe logs only on state changes; steady state is visible in metrics.
func (s *DatasetProbeService) probe(ctx context.Context) {
	probeCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	err := s.checker.Ready(probeCtx)
	if ctx.Err() != nil {
		return
	}
	ok := err == nil
	metrics.SetDatasetAvailable(ok)

	if s.healthy != nil && *s.healthy == ok {
		return
	}
	s.healthy = &ok
	if ok {
		s.logger.Info().Msg("dataset available")
	} else {
		s.logger.Error().Err(err).Msg("dataset unavailable")
	}
}

func (s *DatasetProbeService) String() string {
	return "dataset-probe"
}

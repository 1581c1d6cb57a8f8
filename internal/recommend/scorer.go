// Branchfinder - Bank Branch and ATM Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/branchfinder

package recommend

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/branchfinder/internal/geo"
)

// Router resolves a walking path between two points. Any error, including
// a context deadline, marks only the candidate being routed as unreachable.
type Router interface {
	Route(ctx context.Context, origin, destination geo.Coordinate) ([]geo.Coordinate, error)
}

// routeAll resolves distances for every candidate in place. Queries run
// concurrently up to limit; each writes only its own candidate, so input
// order is untouched. It returns the number of routed candidates.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func routeAll(ctx context.Context, router Router, origin geo.Coordinate, cands []*Candidate,
	limit int, timeout time.Duration, logger zerolog.Logger) int {
	var g errgroup.Group
	g.SetLimit(limit)

	for _, c := range cands {
		g.Go(func() error {
			routeOne(ctx, router, origin, c, timeout, logger)
			return nil
		})
	}
	_ = g.Wait() // per-candidate failures are absorbed in routeOne

	routed := 0
	for _, c := range cands {
		if c.Routed {
			routed++
		}
	}
	return routed
}

//nolint:gocritic // logger passed by value is acceptable for zerolog
func routeOne(ctx context.Context, router Router, origin geo.Coordinate, c *Candidate,
	timeout time.Duration, logger zerolog.Logger) {
	c.Routed = false
	c.Distance = 0
	c.Route = nil

	rctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	path, err := router.Route(rctx, origin, c.Coordinate)
	if err == nil {
		var meters float64
		meters, err = geo.PathLength(path)
		if err == nil {
			c.Distance = meters
			c.Route = path
			c.Routed = true
			return
		}
	}
	logger.Debug().Err(err).Str("candidate", c.ID).Msg("route unavailable, candidate excluded")
}

// scoreWorkload assigns each branch a workload level and folds it into the
// final score. Levels are drawn in candidate order before any routing so a
// seeded feed yields the same levels regardless of routing concurrency.
// Branches whose workload feed fails are dropped.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func scoreWorkload(ctx context.Context, feed WorkloadFeed, cands []*Candidate, logger zerolog.Logger) []*Candidate {
	out := make([]*Candidate, 0, len(cands))
	for _, c := range cands {
		level, err := feed.Workload(ctx, &c.Location)
		if err != nil {
			logger.Warn().Err(err).Str("candidate", c.ID).Msg("workload unavailable, candidate excluded")
			continue
		}
		c.WorkloadLevel = level
		out = append(out, c)
	}
	return out
}

// applyPenalty sets FinalScore on every routed candidate.
//
//nolint:gocritic // hugeParam: penalty config is small
func applyPenalty(cands []*Candidate, p PenaltyConfig) {
	for _, c := range cands {
		if c.Routed {
			c.FinalScore = c.Distance + p.Meters(c.WorkloadLevel)
		}
	}
}

// Branchfinder - Bank Branch and ATM Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/branchfinder

package recommend

import (
	"context"

	"github.com/rs/zerolog"
)

// pipeline is the state of a single Recommend call. Feed calls happen on the
// calling goroutine in a fixed order so a seeded run is reproducible.
type pipeline struct {
	cfg    *Config
	router Router
	feeds  Feeds
	req    Request
	logger zerolog.Logger
}

// balanceStage annotates every ATM and branch with its balance and keeps
// those that can pay out the requested amount. The survivors feed both the
// primary and the fallback path, so each location is drawn exactly once.
func (p *pipeline) balanceStage(ctx context.Context, snap Snapshot, stages *StageCounts) []*Candidate {
	all := make([]*Candidate, 0, len(snap.ATMs)+len(snap.Branches))
	for _, group := range [][]Location{snap.ATMs, snap.Branches} {
		for i := range group {
			c := &Candidate{Location: group[i]}
			bal, err := p.feeds.Balance.Balance(ctx, &c.Location)
			if err != nil {
				p.logger.Warn().Err(err).Str("candidate", c.ID).Msg("balance unavailable, candidate excluded")
				continue
			}
			c.Balance = bal
			all = append(all, c)
		}
	}

	pool := FilterBalance(all, p.req.Amount)
	stages.Balance = len(pool)
	return pool
}

// primary narrows the branches in pool by operation and hours, scores them
// by distance plus workload and returns the best, or nil.
func (p *pipeline) primary(ctx context.Context, pool []*Candidate, stages *StageCounts) *Candidate {
	branches := make([]*Candidate, 0, len(pool))
	for _, c := range pool {
		if c.Kind != KindBranch {
			continue
		}
		ops, err := p.feeds.Operations.Operations(ctx, &c.Location)
		if err != nil {
			p.logger.Warn().Err(err).Str("candidate", c.ID).Msg("operations unavailable, candidate excluded")
			continue
		}
		c.setOperations(ops)
		branches = append(branches, c)
	}

	if _, ok := LookupOperation(p.req.Operation); !ok {
		p.logger.Info().Msg("operation not in catalog, no branch can match")
	}
	offering := FilterOperation(branches, p.req.Operation)
	stages.Operation = len(offering)

	withHours := make([]*Candidate, 0, len(offering))
	for _, c := range offering {
		hours, err := p.feeds.Hours.Hours(ctx, &c.Location, p.req.Category)
		if err != nil {
			p.logger.Warn().Err(err).Str("candidate", c.ID).Msg("hours unavailable, candidate excluded")
			continue
		}
		c.Hours = hours
		withHours = append(withHours, c)
	}
	open := FilterSchedule(withHours, p.req.ArrivalTime, p.cfg.DurationMode)
	stages.Schedule = len(open)
	if len(open) == 0 {
		return nil
	}

	scored := scoreWorkload(ctx, p.feeds.Workload, open, p.logger)
	stages.Routed = routeAll(ctx, p.router, p.req.Origin, scored,
		p.cfg.MaxConcurrentRoutes, p.cfg.RouteTimeout, p.logger)
	applyPenalty(scored, p.cfg.Penalty)

	return Best(scored, ByFinalScore)
}

// fallback drops the schedule and operation constraints, restricts the
// whole balance-surviving pool by accessibility and ranks by distance only.
func (p *pipeline) fallback(ctx context.Context, pool []*Candidate, stages *StageCounts) *Candidate {
	accessible := FilterAccessibility(pool, p.req.NeedWheelchair, p.req.NeedBlind)
	stages.Accessibility = len(accessible)
	if len(accessible) == 0 {
		return nil
	}
	p.logger.Debug().Int("pool", len(accessible)).Msg("no branch on primary path, falling back")

	// Fresh candidates so nothing from the primary path leaks into the answer.
	cands := make([]*Candidate, 0, len(accessible))
	for _, c := range accessible {
		cands = append(cands, &Candidate{Location: c.Location, Balance: c.Balance})
	}
	stages.FallbackRouted = routeAll(ctx, p.router, p.req.Origin, cands,
		p.cfg.MaxConcurrentRoutes, p.cfg.RouteTimeout, p.logger)
	for _, c := range cands {
		if c.Routed {
			c.FinalScore = c.Distance
		}
	}

	return Best(cands, ByDistance)
}

// Branchfinder - Bank Branch and ATM Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/branchfinder

package recommend

import (
	"context"
	"math/rand"

	"github.com/shopspring/decimal"
)

// BalanceFeed supplies the cash currently held by a location.
type BalanceFeed interface {
	Balance(ctx context.Context, loc *Location) (decimal.Decimal, error)
}

// HoursFeed supplies a branch's hours string for a customer category.
type HoursFeed interface {
	Hours(ctx context.Context, loc *Location, category Category) (string, error)
}

// OfferedOperation is an operation a branch performs. Minutes of zero
// means the catalog service time applies.
type OfferedOperation struct {
	Name    string
	Minutes int
}

// OperationFeed supplies the operations a branch offers.
type OperationFeed interface {
	Operations(ctx context.Context, loc *Location) ([]OfferedOperation, error)
}

// WorkloadFeed supplies a branch's current congestion level.
type WorkloadFeed interface {
	Workload(ctx context.Context, loc *Location) (int, error)
}

// Feeds bundles the per-record data providers used by one pipeline run.
// An error from any feed excludes only the record it was asked about.
type Feeds struct {
	Balance    BalanceFeed
	Hours      HoursFeed
	Operations OperationFeed
	Workload   WorkloadFeed
}

// FeedFactory builds the feeds for one request from its seeded source.
type FeedFactory func(rng *rand.Rand) Feeds

// SyntheticFeed stands in for the bank's live feeds with uniform draws from
// an explicitly passed random source. It is not safe for concurrent use;
// the engine only calls it from the request goroutine.
type SyntheticFeed struct {
	rng *rand.Rand
	cfg SyntheticConfig
}

// NewSyntheticFeed creates a SyntheticFeed.
//
//nolint:gocritic // hugeParam: config copied once per request
func NewSyntheticFeed(rng *rand.Rand, cfg SyntheticConfig) *SyntheticFeed {
	return &SyntheticFeed{rng: rng, cfg: cfg}
}

// SyntheticFactory returns a FeedFactory backed by SyntheticFeed.
//
//nolint:gocritic // hugeParam: config captured once
func SyntheticFactory(cfg SyntheticConfig) FeedFactory {
	return func(rng *rand.Rand) Feeds {
		f := NewSyntheticFeed(rng, cfg)
		return Feeds{Balance: f, Hours: f, Operations: f, Workload: f}
	}
}

// Balance draws uniformly from [0, max) where max depends on the kind.
func (f *SyntheticFeed) Balance(_ context.Context, loc *Location) (decimal.Decimal, error) {
	limit := f.cfg.BranchMaxBalance
	if loc.Kind == KindATM {
		limit = f.cfg.ATMMaxBalance
	}
	return decimal.NewFromInt(f.rng.Int63n(limit)), nil
}

// Hours picks one window from the configured pool.
func (f *SyntheticFeed) Hours(_ context.Context, _ *Location, _ Category) (string, error) {
	return f.cfg.Hours[f.rng.Intn(len(f.cfg.Hours))], nil
}

// Operations draws a subset of the catalog without replacement.
func (f *SyntheticFeed) Operations(_ context.Context, _ *Location) ([]OfferedOperation, error) {
	n := f.between(f.cfg.MinOperations, f.cfg.MaxOperations)
	perm := f.rng.Perm(len(catalog))
	out := make([]OfferedOperation, 0, n)
	for _, i := range perm[:n] {
		out = append(out, OfferedOperation{Name: catalog[i].Name, Minutes: catalog[i].Minutes})
	}
	return out, nil
}

// Workload draws uniformly from the configured inclusive range.
func (f *SyntheticFeed) Workload(_ context.Context, _ *Location) (int, error) {
	return f.between(f.cfg.MinWorkload, f.cfg.MaxWorkload), nil
}

func (f *SyntheticFeed) between(lo, hi int) int {
	return lo + f.rng.Intn(hi-lo+1)
}

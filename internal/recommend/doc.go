// Branchfinder - Bank Branch and ATM Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/branchfinder

// Package recommend picks the single best bank branch or ATM for a customer.
//
// # Pipeline
//
// Every request loads a fresh dataset snapshot and runs:
//
//   - Balance: ATMs and branches whose cash covers the amount
//   - Operation: branches offering the requested operation (records its service time)
//   - Schedule: branches whose hours cover arrival through the end of the operation
//   - Workload: a congestion level per branch, folded into the walking distance
//   - Rank: lowest final score wins, ties broken by ID
//
// When no branch survives, or none of the survivors can be routed to, the
// fallback path takes every balance survivor (ATMs included), keeps those
// offering the requested accessibility services and ranks them by walking
// distance alone. If that is empty too the result carries OutcomeNoCandidate.
//
// # Determinism
//
// Balances, hours, operation sets and workload come from pluggable feeds.
// The built-in SyntheticFeed draws from a per-request seeded source, so the
// same seed and a deterministic Router reproduce a run exactly. Routing
// queries may run concurrently but each writes only its own candidate.
//
// # Usage
//
//	engine, err := recommend.NewEngine(cfg, source, router, logger)
//	res, err := engine.Recommend(ctx, recommend.Request{
//	    Amount:      decimal.NewFromInt(10000),
//	    ArrivalTime: "18:25",
//	    Category:    recommend.CategoryLegal,
//	    Operation:   "Открыть вклад",
//	    Origin:      geo.Coordinate{Latitude: 55.3318, Longitude: 37.9732},
//	})
package recommend

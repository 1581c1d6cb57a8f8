// Branchfinder - Bank Branch and ATM Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/branchfinder

package recommend

import "sort"

// ScoreKey extracts the ranking key; lower is better.
type ScoreKey func(c *Candidate) float64

// ByFinalScore ranks the primary path.
func ByFinalScore(c *Candidate) float64 { return c.FinalScore }

// ByDistance ranks the fallback path.
func ByDistance(c *Candidate) float64 { return c.Distance }

// Rank returns routed candidates ordered by key, then by ID so equal keys
// always order the same way. Unrouted candidates are dropped.
func Rank(cands []*Candidate, key ScoreKey) []*Candidate {
	ranked := make([]*Candidate, 0, len(cands))
	for _, c := range cands {
		if c.Routed {
			ranked = append(ranked, c)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		ki, kj := key(ranked[i]), key(ranked[j])
		if ki != kj {
			return ki < kj
		}
		return ranked[i].ID < ranked[j].ID
	})
	return ranked
}

// Best returns the top-ranked candidate or nil.
func Best(cands []*Candidate, key ScoreKey) *Candidate {
	ranked := Rank(cands, key)
	if len(ranked) == 0 {
		return nil
	}
	return ranked[0]
}

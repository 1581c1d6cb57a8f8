// Branchfinder - Bank Branch and ATM Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/branchfinder

package recommend

import (
	"github.com/shopspring/decimal"
)

// FilterBalance keeps candidates whose balance covers amount.
// Passing at a threshold implies passing at every lower threshold.
func FilterBalance(cands []*Candidate, amount decimal.Decimal) []*Candidate {
	out := make([]*Candidate, 0, len(cands))
	for _, c := range cands {
		if c.Balance.GreaterThanOrEqual(amount) {
			out = append(out, c)
		}
	}
	return out
}

// FilterOperation keeps branches offering the target operation and records
// its service time on each survivor. A target outside the catalog matches
// nothing.
func FilterOperation(cands []*Candidate, target string) []*Candidate {
	op, ok := LookupOperation(target)
	if !ok {
		return []*Candidate{}
	}
	key := operationKey(op.Name)

	out := make([]*Candidate, 0, len(cands))
	for _, c := range cands {
		minutes, offered := c.offered[key]
		if !offered {
			continue
		}
		if minutes <= 0 {
			minutes = op.Minutes
		}
		c.OperationMinutes = minutes
		out = append(out, c)
	}
	return out
}

// FilterSchedule keeps branches that are open at the moment the operation
// would be done, arrival plus its service time. Closed and unparseable hours exclude the
// branch; an unparseable arrival excludes every branch.
func FilterSchedule(cands []*Candidate, arrival string, mode DurationMode) []*Candidate {
	out := make([]*Candidate, 0, len(cands))
	at, err := ParseClock(arrival)
	if err != nil || len(cands) == 0 {
		return out
	}

	representative := cands[0].OperationMinutes
	for _, c := range cands {
		minutes := c.OperationMinutes
		if mode == DurationRepresentative {
			minutes = representative
		}
		if ParseWindow(c.Hours).Admits(at, minutes) {
			out = append(out, c)
		}
	}
	return out
}

// FilterAccessibility keeps candidates that positively offer every
// requested service. Unknown accessibility never satisfies a need.
func FilterAccessibility(cands []*Candidate, wheelchair, blind bool) []*Candidate {
	out := make([]*Candidate, 0, len(cands))
	for _, c := range cands {
		if wheelchair && c.Wheelchair != AccessAvailable {
			continue
		}
		if blind && c.Blind != AccessAvailable {
			continue
		}
		out = append(out, c)
	}
	return out
}

// setOperations records what a branch offers, keyed for lookup.
func (c *Candidate) setOperations(ops []OfferedOperation) {
	c.Operations = make([]string, 0, len(ops))
	c.offered = make(map[string]int, len(ops))
	for _, op := range ops {
		c.Operations = append(c.Operations, op.Name)
		c.offered[operationKey(op.Name)] = op.Minutes
	}
}

// Branchfinder - Bank Branch and ATM Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/branchfinder

package recommend

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tomtom215/branchfinder/internal/geo"
)

var (
	// ErrDatasetUnavailable means the location dataset could not be loaded.
	// It is the only failure besides ErrInvalidRequest that reaches callers.
	ErrDatasetUnavailable = errors.New("location dataset unavailable")

	// ErrInvalidRequest means the request itself is unusable.
	ErrInvalidRequest = errors.New("invalid recommendation request")
)

// Kind distinguishes staffed branches from ATMs.
type Kind string

const (
	KindATM    Kind = "atm"
	KindBranch Kind = "branch"
)

// Category is the customer category that selects a branch's hours.
type Category int

const (
	CategoryUnknown Category = iota
	CategoryIndividual
	CategoryLegal
)

// String returns the canonical name.
func (c Category) String() string {
	switch c {
	case CategoryIndividual:
		return "individual"
	case CategoryLegal:
		return "legal"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// ParseCategory accepts the canonical names and the Russian labels used by
// the bank's own tooling ("Физ лицо", "Юр.лицо", ...).
func ParseCategory(s string) (Category, error) {
	key := strings.ToLower(strings.Join(strings.Fields(strings.ReplaceAll(s, ".", " ")), " "))
	switch key {
	case "individual", "физ лицо", "физлицо":
		return CategoryIndividual, nil
	case "legal", "юр лицо", "юрлицо":
		return CategoryLegal, nil
	default:
		return CategoryUnknown, fmt.Errorf("%w: unknown category %q", ErrInvalidRequest, s)
	}
}

// Accessibility is a tri-state service flag. Unknown never satisfies a need.
type Accessibility int

const (
	AccessUnknown Accessibility = iota
	AccessAvailable
	AccessUnavailable
)

// String returns the lowercase name.
func (a Accessibility) String() string {
	switch a {
	case AccessAvailable:
		return "available"
	case AccessUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (a Accessibility) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// Location is a loaded ATM or branch before any per-request annotation.
type Location struct {
	ID         string         `json:"id"`
	Kind       Kind           `json:"kind"`
	Name       string         `json:"name,omitempty"`
	Address    string         `json:"address"`
	Coordinate geo.Coordinate `json:"coordinate"`
	Wheelchair Accessibility  `json:"wheelchair"`
	Blind      Accessibility  `json:"blind"`
}

// Snapshot is one fresh load of the dataset.
type Snapshot struct {
	ATMs     []Location
	Branches []Location
}

// Candidate is a Location annotated as it moves through the pipeline.
// Fields are filled stage by stage and are only meaningful once the
// corresponding stage has run.
type Candidate struct {
	Location

	Balance          decimal.Decimal `json:"balance"`
	Hours            string          `json:"hours,omitempty"`
	Operations       []string        `json:"operations,omitempty"`
	OperationMinutes int             `json:"operation_minutes,omitempty"`
	WorkloadLevel    int             `json:"workload_level,omitempty"`

	// Routed is false until a route was resolved; Distance is meaningless
	// while it is false.
	Routed     bool             `json:"routed"`
	Distance   float64          `json:"distance_m"`
	FinalScore float64          `json:"final_score"`
	Route      []geo.Coordinate `json:"route,omitempty"`

	offered map[string]int
}

// Request is a single recommendation query.
type Request struct {
	// Amount is the cash the customer needs. Must be non-negative.
	Amount decimal.Decimal `json:"amount"`

	// ArrivalTime is "HH:MM". An unparseable value closes every branch.
	ArrivalTime string `json:"arrival_time"`

	Category  Category       `json:"category"`
	Operation string         `json:"operation"`
	Origin    geo.Coordinate `json:"origin"`

	NeedWheelchair bool `json:"need_wheelchair"`
	NeedBlind      bool `json:"need_blind"`

	// RequestID is generated when empty.
	RequestID string `json:"request_id,omitempty"`

	// Seed pins every synthetic draw for this request.
	Seed *int64 `json:"seed,omitempty"`
}

// Outcome tells which path produced the result.
type Outcome string

const (
	OutcomePrimary     Outcome = "primary"
	OutcomeFallback    Outcome = "fallback"
	OutcomeNoCandidate Outcome = "no_candidate"
)

// StageCounts records how many records survived each stage.
type StageCounts struct {
	ATMs           int `json:"atms"`
	Branches       int `json:"branches"`
	Balance        int `json:"balance"`
	Operation      int `json:"operation"`
	Schedule       int `json:"schedule"`
	Routed         int `json:"routed"`
	Accessibility  int `json:"accessibility"`
	FallbackRouted int `json:"fallback_routed"`
}

// Result is the answer to a Request. Best is nil iff Outcome is
// OutcomeNoCandidate.
type Result struct {
	RequestID string      `json:"request_id"`
	Outcome   Outcome     `json:"outcome"`
	Best      *Candidate  `json:"best,omitempty"`
	Stages    StageCounts `json:"stages"`
	Seed      int64       `json:"seed"`
	LatencyMS int64       `json:"latency_ms"`
	Timestamp time.Time   `json:"timestamp"`
}

// Found reports whether a location was recommended.
func (r *Result) Found() bool {
	return r != nil && r.Best != nil
}

// Branchfinder - Bank Branch and ATM Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/branchfinder

package dataset

import (
	"strings"

	"github.com/tomtom215/branchfinder/internal/recommend"
)

// atmRecord mirrors one entry of the bank's ATM export.
type atmRecord struct {
	Address   string             `json:"address"`
	Latitude  *float64           `json:"latitude"`
	Longitude *float64           `json:"longitude"`
	Services  map[string]service `json:"services"`
}

type service struct {
	Activity string `json:"serviceActivity"`
}

// officeRecord mirrors one entry of the bank's office export. Only the
// fields the recommender uses are decoded.
type officeRecord struct {
	SalePointName string   `json:"salePointName"`
	Address       string   `json:"address"`
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
	HasRamp       *string  `json:"hasRamp"`
}

// activity flattens services.<name>.serviceActivity.
func (r *atmRecord) activity(name string) recommend.Accessibility {
	s, ok := r.Services[name]
	if !ok {
		return recommend.AccessUnknown
	}
	switch strings.ToUpper(strings.TrimSpace(s.Activity)) {
	case "AVAILABLE":
		return recommend.AccessAvailable
	case "UNAVAILABLE":
		return recommend.AccessUnavailable
	default:
		return recommend.AccessUnknown
	}
}

// ramp maps hasRamp "Y"/"N" to wheelchair accessibility.
func (r *officeRecord) ramp() recommend.Accessibility {
	if r.HasRamp == nil {
		return recommend.AccessUnknown
	}
	switch strings.ToUpper(strings.TrimSpace(*r.HasRamp)) {
	case "Y", "YES", "TRUE":
		return recommend.AccessAvailable
	case "N", "NO", "FALSE":
		return recommend.AccessUnavailable
	default:
		return recommend.AccessUnknown
	}
}

// Branchfinder - Bank Branch and ATM Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/branchfinder

package models

import (
	"github.com/shopspring/decimal"
)

// RecommendationRequest is the body of POST /api/v1/recommendations.
// Amount accepts a JSON number or a decimal string. The origin is required;
// an omitted coordinate is rejected rather than read as zero.
type RecommendationRequest struct {
	Amount      decimal.Decimal `json:"amount" validate:"gte=0"`
	ArrivalTime string          `json:"arrival_time" validate:"required,max=16"`
	Category    string          `json:"category" validate:"required,category"`
	Operation   string          `json:"operation" validate:"required,max=200"`
	Latitude    *float64        `json:"latitude" validate:"required,latitude"`
	Longitude   *float64        `json:"longitude" validate:"required,longitude"`
	Wheelchair  bool            `json:"wheelchair"`
	Blind       bool            `json:"blind"`
	Seed        *int64          `json:"seed,omitempty"`
}

// OperationInfo is one catalog entry.
type OperationInfo struct {
	Name    string `json:"name"`
	Minutes int    `json:"minutes"`
}

// HealthStatus is returned by the health endpoints.
type HealthStatus struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Detail  string `json:"detail,omitempty"`
}

// Branchfinder - Bank Branch and ATM Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/branchfinder

// Package models holds the HTTP API's request and response shapes.
package models

import (
	"time"
)

// APIResponse is the envelope every endpoint answers with.
//
// Success:
//
//	{
//	  "status": "success",
//	  "data": {"outcome": "primary", "best": {...}},
//	  "metadata": {"timestamp": "2026-06-01T10:00:00Z", "request_id": "...", "query_time_ms": 42}
//	}
//
// Error:
//
//	{
//	  "status": "error",
//	  "error": {"code": "VALIDATION_ERROR", "message": "...", "details": {"fields": [...]}},
//	  "metadata": {"timestamp": "2026-06-01T10:00:00Z", "request_id": "..."}
//	}
//
// An error response may still carry data; NO_CANDIDATE includes the stage
// counts and the seed that produced the empty result.
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data,omitempty"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata is attached to every response.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	RequestID   string    `json:"request_id,omitempty"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
}

// APIError describes a failed request. Details never carries internal error
// text.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

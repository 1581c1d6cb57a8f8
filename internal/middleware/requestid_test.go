// Branchfinder - Bank Branch and ATM Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/branchfinder

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/tomtom215/branchfinder/internal/logging"
)

func captureIDs(requestID, correlationID *string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*requestID = GetRequestID(r.Context())
		*correlationID = logging.CorrelationIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequestID_GeneratesNewID(t *testing.T) {
	var gotID, gotCorrelation string
	handler := RequestID(captureIDs(&gotID, &gotCorrelation))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/test", nil))

	responseID := rec.Header().Get(RequestIDHeader)
	if _, err := uuid.Parse(responseID); err != nil {
		t.Errorf("response X-Request-ID %q is not a UUID: %v", responseID, err)
	}
	if gotID != responseID {
		t.Errorf("context ID %q does not match response header %q", gotID, responseID)
	}
	if gotCorrelation == "" {
		t.Error("expected a correlation ID in context")
	}
}

func TestRequestID_HeaderHandling(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		wantKeep bool
	}{
		{name: "plain id", header: "req-12345", wantKeep: true},
		{name: "uuid", header: "6ba7b810-9dad-11d1-80b4-00c04fd430c8", wantKeep: true},
		{name: "contains newline", header: "abc\ninjected", wantKeep: false},
		{name: "contains space", header: "abc def", wantKeep: false},
		{name: "too long", header: strings.Repeat("a", maxIDLength+1), wantKeep: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotID, gotCorrelation string
			handler := RequestID(captureIDs(&gotID, &gotCorrelation))

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			req.Header.Set(RequestIDHeader, tt.header)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if kept := gotID == tt.header; kept != tt.wantKeep {
				t.Errorf("kept = %v, want %v (got %q)", kept, tt.wantKeep, gotID)
			}
			if gotID == "" {
				t.Error("request ID must never be empty")
			}
		})
	}
}

func TestRequestID_PreservesCorrelationID(t *testing.T) {
	var gotID, gotCorrelation string
	handler := RequestID(captureIDs(&gotID, &gotCorrelation))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(CorrelationIDHeader, "trace-42")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if gotCorrelation != "trace-42" {
		t.Errorf("correlation ID = %q, want trace-42", gotCorrelation)
	}
}

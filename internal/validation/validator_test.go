// Branchfinder - Bank Branch and ATM Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/branchfinder

package validation

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestGetValidator_Singleton(t *testing.T) {
	v1 := GetValidator()
	v2 := GetValidator()

	if v1 == nil {
		t.Fatal("GetValidator() should not return nil")
	}
	if v1 != v2 {
		t.Error("GetValidator() should return the same singleton instance")
	}
}

type testRequest struct {
	Amount    decimal.Decimal `json:"amount" validate:"gte=0"`
	Category  string          `json:"category" validate:"required,category"`
	Operation string          `json:"operation" validate:"required,max=200"`
	Latitude  float64         `json:"latitude" validate:"latitude"`
	Longitude float64         `json:"longitude" validate:"longitude"`
}

func validRequest() testRequest {
	return testRequest{
		Amount:    decimal.NewFromInt(10000),
		Category:  "legal",
		Operation: "Открыть вклад",
		Latitude:  55.3318,
		Longitude: 37.9732,
	}
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(*testRequest)
		wantField string
		wantTag   string
	}{
		{name: "valid", modify: func(r *testRequest) {}},
		{name: "zero amount", modify: func(r *testRequest) { r.Amount = decimal.Zero }},
		{name: "russian category", modify: func(r *testRequest) { r.Category = "Физ лицо" }},
		{name: "russian category with dot", modify: func(r *testRequest) { r.Category = "Юр.лицо" }},
		{
			name:      "negative amount",
			modify:    func(r *testRequest) { r.Amount = decimal.RequireFromString("-0.01") },
			wantField: "amount", wantTag: "gte",
		},
		{
			name:      "unknown category",
			modify:    func(r *testRequest) { r.Category = "corporate" },
			wantField: "category", wantTag: "category",
		},
		{
			name:      "missing category",
			modify:    func(r *testRequest) { r.Category = "" },
			wantField: "category", wantTag: "required",
		},
		{
			name:      "missing operation",
			modify:    func(r *testRequest) { r.Operation = "" },
			wantField: "operation", wantTag: "required",
		},
		{
			name:      "latitude out of range",
			modify:    func(r *testRequest) { r.Latitude = 91 },
			wantField: "latitude", wantTag: "latitude",
		},
		{
			name:      "longitude out of range",
			modify:    func(r *testRequest) { r.Longitude = -181 },
			wantField: "longitude", wantTag: "longitude",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.modify(&req)

			err := ValidateStruct(&req)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("ValidateStruct() = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatal("ValidateStruct() = nil, want error")
			}
			errs := err.Errors()
			if len(errs) != 1 {
				t.Fatalf("len(Errors()) = %d, want 1: %v", len(errs), err)
			}
			if errs[0].Field() != tt.wantField || errs[0].Tag() != tt.wantTag {
				t.Errorf("got %s/%s, want %s/%s", errs[0].Field(), errs[0].Tag(), tt.wantField, tt.wantTag)
			}
		})
	}
}

func TestRequestValidationError_ToAPIError(t *testing.T) {
	t.Run("single error", func(t *testing.T) {
		req := validRequest()
		req.Category = "corporate"

		apiErr := ValidateStruct(&req).ToAPIError()
		if apiErr.Code != "VALIDATION_ERROR" {
			t.Errorf("Code = %q, want VALIDATION_ERROR", apiErr.Code)
		}
		if apiErr.Message != "category must be individual or legal" {
			t.Errorf("Message = %q", apiErr.Message)
		}
		if apiErr.Details["field"] != "category" {
			t.Errorf("Details[field] = %v, want category", apiErr.Details["field"])
		}
	})

	t.Run("multiple errors", func(t *testing.T) {
		req := validRequest()
		req.Category = ""
		req.Latitude = 100

		apiErr := ValidateStruct(&req).ToAPIError()
		if !strings.Contains(apiErr.Message, "category: category is required") {
			t.Errorf("Message = %q, missing category", apiErr.Message)
		}
		if !strings.Contains(apiErr.Message, "latitude: latitude must be a valid latitude") {
			t.Errorf("Message = %q, missing latitude", apiErr.Message)
		}
		fields, ok := apiErr.Details["fields"].([]map[string]interface{})
		if !ok || len(fields) != 2 {
			t.Errorf("Details[fields] = %v, want 2 entries", apiErr.Details["fields"])
		}
	})

	t.Run("empty", func(t *testing.T) {
		apiErr := (&RequestValidationError{}).ToAPIError()
		if apiErr.Message != "Validation failed" {
			t.Errorf("Message = %q", apiErr.Message)
		}
	})
}

func TestTranslateMinMax(t *testing.T) {
	type short struct {
		Name string `json:"name" validate:"min=3"`
		N    int    `json:"n" validate:"max=2"`
	}
	err := ValidateStruct(&short{Name: "ab", N: 5})
	if err == nil {
		t.Fatal("expected errors")
	}
	msg := err.Error()
	if !strings.Contains(msg, "name must be at least 3 characters") {
		t.Errorf("message %q lacks string min", msg)
	}
	if !strings.Contains(msg, "n must be at most 2") {
		t.Errorf("message %q lacks numeric max", msg)
	}
}

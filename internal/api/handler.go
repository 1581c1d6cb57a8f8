// Branchfinder - Bank Branch and ATM Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/branchfinder

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/branchfinder/internal/geo"
	"github.com/tomtom215/branchfinder/internal/logging"
	"github.com/tomtom215/branchfinder/internal/metrics"
	"github.com/tomtom215/branchfinder/internal/models"
	"github.com/tomtom215/branchfinder/internal/recommend"
	"github.com/tomtom215/branchfinder/internal/validation"
)

// maxBodyBytes bounds a recommendation request body.
const maxBodyBytes = 64 << 10

var errMissingOrigin = errors.New("latitude and longitude are required")

// Recommender is the engine surface the HTTP layer needs.
type Recommender interface {
	Recommend(ctx context.Context, req recommend.Request) (*recommend.Result, error)
	Ready(ctx context.Context) error
}

// Handler serves the recommendation API.
type Handler struct {
	engine    Recommender
	version   string
	startTime time.Time
}

// NewHandler creates a Handler.
func NewHandler(engine Recommender, version string) *Handler {
	return &Handler{engine: engine, version: version, startTime: time.Now()}
}

// Recommend handles POST /api/v1/recommendations.
//
// 200 with the recommended location, 404 NO_CANDIDATE when nothing qualifies
// (the stage counts are still returned), 400 for bad input and 503 when the
// dataset cannot be read.
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var body models.RecommendationRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeInvalidRequest, "Request body must be a JSON object", err)
		return
	}

	if verr := validation.ValidateStruct(&body); verr != nil {
		apiErr := verr.ToAPIError()
		respondErrorDetails(w, r, http.StatusBadRequest,
			&models.APIError{Code: apiErr.Code, Message: apiErr.Message, Details: apiErr.Details}, nil, nil)
		return
	}

	req, err := toEngineRequest(r.Context(), &body)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error(), nil)
		return
	}

	result, err := h.engine.Recommend(r.Context(), req)
	if err != nil {
		metrics.RecordRecommendation("error", time.Since(start), nil)
		status, code, message := recommendErrorStatus(err)
		respondError(w, r, status, code, message, err)
		return
	}

	metrics.RecordRecommendation(string(result.Outcome), time.Since(start), stageCounts(&result.Stages))

	if !result.Found() {
		respondErrorDetails(w, r, http.StatusNotFound, &models.APIError{
			Code:    ErrCodeNoCandidate,
			Message: "No branch or ATM satisfies the request",
		}, result, nil)
		return
	}

	logging.Ctx(r.Context()).Debug().
		Str("outcome", string(result.Outcome)).
		Str("best", result.Best.ID).
		Msg("recommendation served")
	respondSuccess(w, r, start, result)
}

func toEngineRequest(ctx context.Context, body *models.RecommendationRequest) (recommend.Request, error) {
	category, err := recommend.ParseCategory(body.Category)
	if err != nil {
		return recommend.Request{}, err
	}
	if body.Latitude == nil || body.Longitude == nil {
		return recommend.Request{}, errMissingOrigin
	}
	return recommend.Request{
		Amount:         body.Amount,
		ArrivalTime:    body.ArrivalTime,
		Category:       category,
		Operation:      body.Operation,
		Origin:         geo.Coordinate{Latitude: *body.Latitude, Longitude: *body.Longitude},
		NeedWheelchair: body.Wheelchair,
		NeedBlind:      body.Blind,
		RequestID:      logging.RequestIDFromContext(ctx),
		Seed:           body.Seed,
	}, nil
}

func stageCounts(s *recommend.StageCounts) []metrics.StageCount {
	return []metrics.StageCount{
		{Stage: "balance", Count: s.Balance},
		{Stage: "operation", Count: s.Operation},
		{Stage: "schedule", Count: s.Schedule},
		{Stage: "routed", Count: s.Routed},
		{Stage: "accessibility", Count: s.Accessibility},
		{Stage: "fallback_routed", Count: s.FallbackRouted},
	}
}

// Operations handles GET /api/v1/recommendations/operations.
func (h *Handler) Operations(w http.ResponseWriter, r *http.Request) {
	catalog := recommend.Catalog()
	out := make([]models.OperationInfo, len(catalog))
	for i, op := range catalog {
		out[i] = models.OperationInfo{Name: op.Name, Minutes: op.Minutes}
	}
	respondSuccess(w, r, time.Time{}, out)
}

// HealthLive handles GET /api/v1/health/live. It only proves the process
// serves HTTP.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, r, time.Time{}, models.HealthStatus{Status: "alive", Version: h.version})
}

// HealthReady handles GET /api/v1/health/ready: ready when the dataset loads.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if err := h.engine.Ready(r.Context()); err != nil {
		respondErrorDetails(w, r, http.StatusServiceUnavailable, &models.APIError{
			Code:    ErrCodeDatasetUnavailable,
			Message: "Location dataset is unavailable",
		}, models.HealthStatus{Status: "not_ready", Version: h.version}, err)
		return
	}
	respondSuccess(w, r, time.Time{}, models.HealthStatus{
		Status:  "ready",
		Version: h.version,
		Detail:  "uptime " + time.Since(h.startTime).Truncate(time.Second).String(),
	})
}

// Branchfinder - Bank Branch and ATM Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/branchfinder

package routing

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/tomtom215/branchfinder/internal/geo"
	"github.com/tomtom215/branchfinder/internal/metrics"
)

const providerMapQuest = "mapquest"

// MapQuestConfig configures the MapQuest Directions client.
type MapQuestConfig struct {
	// BaseURL is the API root, e.g. https://www.mapquestapi.com.
	BaseURL string

	// APIKey is the consumer key. Required.
	APIKey string

	// RouteType is the MapQuest routeType parameter. Default: pedestrian.
	RouteType string

	// Timeout bounds a single HTTP call. Default: 10s.
	Timeout time.Duration

	// RequestsPerSecond and Burst throttle outgoing calls. Zero disables
	// throttling.
	RequestsPerSecond float64
	Burst             int
}

// MapQuestRouter resolves pedestrian routes with the MapQuest Directions API.
// Safe for concurrent use.
type MapQuestRouter struct {
	client    *http.Client
	endpoint  string
	apiKey    string
	routeType string
	limiter   *rate.Limiter
	logger    zerolog.Logger
}

// mapQuestResponse is the subset of /directions/v2/route we read.
type mapQuestResponse struct {
	Route struct {
		Legs []struct {
			Maneuvers []struct {
				StartPoint *struct {
					Lat float64 `json:"lat"`
					Lng float64 `json:"lng"`
				} `json:"startPoint"`
			} `json:"maneuvers"`
		} `json:"legs"`
	} `json:"route"`
	Info struct {
		StatusCode int      `json:"statuscode"`
		Messages   []string `json:"messages"`
	} `json:"info"`
}

// NewMapQuestRouter creates a MapQuest client.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewMapQuestRouter(cfg MapQuestConfig, logger zerolog.Logger) (*MapQuestRouter, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("mapquest: api key is required")
	}
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("mapquest: invalid base url %q", cfg.BaseURL)
	}
	if cfg.RouteType == "" {
		cfg.RouteType = "pedestrian"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}

	return &MapQuestRouter{
		client:    &http.Client{Timeout: cfg.Timeout},
		endpoint:  base.String() + "/directions/v2/route",
		apiKey:    cfg.APIKey,
		routeType: cfg.RouteType,
		limiter:   limiter,
		logger:    logger.With().Str("component", "routing").Str("provider", providerMapQuest).Logger(),
	}, nil
}

// Route implements Router. The waypoints are the start point of every
// maneuver followed by the destination itself.
func (m *MapQuestRouter) Route(ctx context.Context, origin, destination geo.Coordinate) ([]geo.Coordinate, error) {
	start := time.Now()
	path, result, err := m.route(ctx, origin, destination)
	metrics.RecordRoutingRequest(providerMapQuest, result, time.Since(start))
	if err != nil {
		m.logger.Debug().Err(err).Str("result", result).
			Str("to", destination.String()).Msg("route request failed")
	}
	return path, err
}

func (m *MapQuestRouter) route(ctx context.Context, origin, destination geo.Coordinate) ([]geo.Coordinate, string, error) {
	if err := m.limiter.Wait(ctx); err != nil {
		return nil, "throttled", fmt.Errorf("mapquest: wait for rate limiter: %w", err)
	}

	q := url.Values{}
	q.Set("key", m.apiKey)
	q.Set("from", origin.String())
	q.Set("to", destination.String())
	q.Set("routeType", m.routeType)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.endpoint+"?"+q.Encode(), http.NoBody)
	if err != nil {
		return nil, "transport_error", fmt.Errorf("mapquest: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, "transport_error", fmt.Errorf("mapquest: %w", redact(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "upstream_error", fmt.Errorf("%w: mapquest returned HTTP %d", ErrUpstream, resp.StatusCode)
	}

	var body mapQuestResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, "malformed", fmt.Errorf("%w: %w", ErrMalformedRoute, err)
	}
	if err := statusError(body.Info.StatusCode, body.Info.Messages); err != nil {
		if errors.Is(err, ErrNoRoute) {
			return nil, "no_route", err
		}
		return nil, "upstream_error", err
	}

	path, err := waypoints(&body, destination)
	if err != nil {
		return nil, "malformed", err
	}
	return path, "success", nil
}

// statusError maps MapQuest's info.statuscode. 4xx codes other than key
// problems describe the request (unroutable points); everything else
// describes the provider.
func statusError(code int, messages []string) error {
	if code == 0 {
		return nil
	}
	msg := "no message"
	if len(messages) > 0 {
		msg = messages[0]
	}
	if code >= 400 && code < 500 && code != 401 && code != 403 {
		return fmt.Errorf("%w: mapquest status %d: %s", ErrNoRoute, code, msg)
	}
	return fmt.Errorf("%w: mapquest status %d: %s", ErrUpstream, code, msg)
}

func waypoints(body *mapQuestResponse, destination geo.Coordinate) ([]geo.Coordinate, error) {
	if len(body.Route.Legs) == 0 || len(body.Route.Legs[0].Maneuvers) == 0 {
		return nil, fmt.Errorf("%w: no maneuvers", ErrMalformedRoute)
	}
	maneuvers := body.Route.Legs[0].Maneuvers
	path := make([]geo.Coordinate, 0, len(maneuvers)+1)
	for i, mv := range maneuvers {
		if mv.StartPoint == nil {
			return nil, fmt.Errorf("%w: maneuver %d has no start point", ErrMalformedRoute, i)
		}
		p := geo.Coordinate{Latitude: mv.StartPoint.Lat, Longitude: mv.StartPoint.Lng}
		if !p.Valid() {
			return nil, fmt.Errorf("%w: maneuver %d start point %v out of range", ErrMalformedRoute, i, p)
		}
		path = append(path, p)
	}
	return append(path, destination), nil
}

// redact drops the request URL, which carries the API key, from client errors.
func redact(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return uerr.Err
	}
	return err
}

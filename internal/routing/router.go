// Branchfinder - Bank Branch and ATM Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/branchfinder

// Package routing provides walking-route providers for the recommender.
// Every provider satisfies recommend.Router: given two coordinates it returns
// the ordered waypoints of a pedestrian path or an error.
package routing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/branchfinder/internal/geo"
	"github.com/tomtom215/branchfinder/internal/metrics"
)

var (
	// ErrUpstream is a provider-side failure: bad status, bad key, outage.
	ErrUpstream = errors.New("routing provider error")

	// ErrNoRoute means the provider answered but found no path between the
	// two points. It says nothing about provider health.
	ErrNoRoute = errors.New("no route between points")

	// ErrMalformedRoute means the provider's answer could not be used.
	ErrMalformedRoute = errors.New("malformed route response")
)

// Router is implemented by every provider in this package.
type Router interface {
	Route(ctx context.Context, origin, destination geo.Coordinate) ([]geo.Coordinate, error)
}

// DirectRouter returns the straight line between the two points. It needs
// no network and is used for development and when no provider is set up.
type DirectRouter struct{}

// NewDirectRouter creates a DirectRouter.
func NewDirectRouter() *DirectRouter {
	return &DirectRouter{}
}

// Route implements Router.
func (DirectRouter) Route(ctx context.Context, origin, destination geo.Coordinate) ([]geo.Coordinate, error) {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		metrics.RecordRoutingRequest("direct", "cancelled", time.Since(start))
		return nil, err
	}
	if !origin.Valid() || !destination.Valid() {
		metrics.RecordRoutingRequest("direct", "malformed", time.Since(start))
		return nil, fmt.Errorf("%w: coordinates out of range", ErrMalformedRoute)
	}
	metrics.RecordRoutingRequest("direct", "success", time.Since(start))
	return []geo.Coordinate{origin, destination}, nil
}

// Branchfinder - Bank Branch and ATM Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/branchfinder

package routing

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/tomtom215/branchfinder/internal/cache"
	"github.com/tomtom215/branchfinder/internal/geo"
	"github.com/tomtom215/branchfinder/internal/metrics"
)

// CacheConfig bounds the route cache.
type CacheConfig struct {
	Size int
	TTL  time.Duration

	// CallTimeout bounds a provider call shared by concurrent lookups.
	// Defaults to 10s.
	CallTimeout time.Duration
}

const defaultCallTimeout = 10 * time.Second

// CachingRouter remembers successful routes. Branches do not move and a
// customer typically asks several times from the same spot, so most repeat
// lookups never reach the provider. Concurrent lookups for the same pair
// share one provider call.
//
// Coordinates are keyed at five decimal places (about a meter). Errors are
// never cached.
//
// The shared provider call runs detached from any one caller's deadline and
// is bounded by CallTimeout instead; each caller still stops waiting when its
// own context ends.
type CachingRouter struct {
	next        Router
	lru         *cache.LRU[[]geo.Coordinate]
	group       singleflight.Group
	callTimeout time.Duration
}

// NewCachingRouter wraps next with an LRU of the given size and TTL.
func NewCachingRouter(next Router, cfg CacheConfig) *CachingRouter {
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = defaultCallTimeout
	}
	return &CachingRouter{
		next:        next,
		lru:         cache.NewLRU[[]geo.Coordinate](cfg.Size, cfg.TTL),
		callTimeout: cfg.CallTimeout,
	}
}

// Route implements Router. Callers get their own copy of the waypoints.
func (r *CachingRouter) Route(ctx context.Context, origin, destination geo.Coordinate) ([]geo.Coordinate, error) {
	key := routeKey(origin, destination)
	if path, ok := r.lru.Get(key); ok {
		metrics.RoutingCacheLookups.WithLabelValues("hit").Inc()
		return clonePath(path), nil
	}
	metrics.RoutingCacheLookups.WithLabelValues("miss").Inc()

	ch := r.group.DoChan(key, func() (interface{}, error) {
		callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.callTimeout)
		defer cancel()

		path, err := r.next.Route(callCtx, origin, destination)
		if err != nil {
			return nil, err
		}
		r.lru.Add(key, path)
		return path, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return clonePath(res.Val.([]geo.Coordinate)), nil
	}
}

// Len returns the number of cached routes.
func (r *CachingRouter) Len() int {
	return r.lru.Len()
}

func routeKey(origin, destination geo.Coordinate) string {
	return fmt.Sprintf("%.5f,%.5f>%.5f,%.5f",
		origin.Latitude, origin.Longitude, destination.Latitude, destination.Longitude)
}

func clonePath(path []geo.Coordinate) []geo.Coordinate {
	return append([]geo.Coordinate(nil), path...)
}

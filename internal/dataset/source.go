// Branchfinder - Bank Branch and ATM Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/branchfinder

// Package dataset loads the bank's ATM and office exports into
// recommend.Location values. Files are read on every Load; nothing is cached.
package dataset

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/branchfinder/internal/geo"
	"github.com/tomtom215/branchfinder/internal/metrics"
	"github.com/tomtom215/branchfinder/internal/recommend"
)

// FileSource reads the ATM and office exports from disk.
type FileSource struct {
	ATMPath    string
	OfficePath string
	logger     zerolog.Logger
}

// NewFileSource creates a FileSource.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewFileSource(atmPath, officePath string, logger zerolog.Logger) *FileSource {
	return &FileSource{
		ATMPath:    atmPath,
		OfficePath: officePath,
		logger:     logger.With().Str("component", "dataset").Logger(),
	}
}

// Load implements recommend.LocationSource. Any read or decode failure is
// returned wrapped in recommend.ErrDatasetUnavailable; individual records
// with unusable coordinates are skipped.
func (s *FileSource) Load(ctx context.Context) (recommend.Snapshot, error) {
	start := time.Now()
	snap, err := s.load(ctx)
	metrics.RecordDatasetLoad(time.Since(start), len(snap.ATMs), len(snap.Branches), err)
	if err != nil {
		return recommend.Snapshot{}, fmt.Errorf("%w: %w", recommend.ErrDatasetUnavailable, err)
	}
	return snap, nil
}

func (s *FileSource) load(ctx context.Context) (recommend.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return recommend.Snapshot{}, err
	}

	atmData, err := os.ReadFile(s.ATMPath)
	if err != nil {
		return recommend.Snapshot{}, fmt.Errorf("read atms: %w", err)
	}
	officeData, err := os.ReadFile(s.OfficePath)
	if err != nil {
		return recommend.Snapshot{}, fmt.Errorf("read offices: %w", err)
	}

	atms, err := decodeList[atmRecord](atmData, "atms")
	if err != nil {
		return recommend.Snapshot{}, fmt.Errorf("decode atms %s: %w", s.ATMPath, err)
	}
	offices, err := decodeList[officeRecord](officeData, "offices")
	if err != nil {
		return recommend.Snapshot{}, fmt.Errorf("decode offices %s: %w", s.OfficePath, err)
	}

	return recommend.Snapshot{
		ATMs:     s.flattenATMs(atms),
		Branches: s.flattenOffices(offices),
	}, nil
}

func (s *FileSource) flattenATMs(recs []atmRecord) []recommend.Location {
	out := make([]recommend.Location, 0, len(recs))
	for i := range recs {
		r := &recs[i]
		coord, ok := coordinate(r.Latitude, r.Longitude)
		if !ok {
			s.skip("atm", i, r.Address)
			continue
		}
		out = append(out, recommend.Location{
			ID:         fmt.Sprintf("atm-%d", i),
			Kind:       recommend.KindATM,
			Address:    r.Address,
			Coordinate: coord,
			Wheelchair: r.activity("wheelchair"),
			Blind:      r.activity("blind"),
		})
	}
	return out
}

func (s *FileSource) flattenOffices(recs []officeRecord) []recommend.Location {
	out := make([]recommend.Location, 0, len(recs))
	for i := range recs {
		r := &recs[i]
		coord, ok := coordinate(r.Latitude, r.Longitude)
		if !ok {
			s.skip("branch", i, r.Address)
			continue
		}
		out = append(out, recommend.Location{
			ID:         fmt.Sprintf("branch-%d", i),
			Kind:       recommend.KindBranch,
			Name:       r.SalePointName,
			Address:    r.Address,
			Coordinate: coord,
			Wheelchair: r.ramp(),
			Blind:      recommend.AccessUnknown, // offices do not publish it
		})
	}
	return out
}

func (s *FileSource) skip(kind string, index int, address string) {
	metrics.DatasetSkippedRecords.WithLabelValues(kind, "coordinates").Inc()
	s.logger.Warn().
		Str("kind", kind).
		Int("index", index).
		Str("address", address).
		Msg("skipping record with missing or invalid coordinates")
}

func coordinate(lat, lon *float64) (geo.Coordinate, bool) {
	if lat == nil || lon == nil {
		return geo.Coordinate{}, false
	}
	c := geo.Coordinate{Latitude: *lat, Longitude: *lon}
	return c, c.Valid()
}

var errNoRecords = errors.New("no record list found")

// decodeList accepts either a bare JSON array of records or an object that
// holds the array under key. An object with a single field is accepted
// whatever that field is called.
func decodeList[T any](data []byte, key string) ([]T, error) {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var list []T
		if err := json.Unmarshal(data, &list); err != nil {
			return nil, err
		}
		return list, nil
	}

	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return nil, err
	}
	raw, ok := wrapper[key]
	if !ok && len(wrapper) == 1 {
		for _, v := range wrapper {
			raw, ok = v, true
		}
	}
	if !ok {
		return nil, fmt.Errorf("%w under %q", errNoRecords, key)
	}

	var list []T
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, err
	}
	return list, nil
}

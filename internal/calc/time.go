// SPDX-FileCopyrightText: The skyscrub authors
//
// SPDX-License-Identifier: MIT

// Package calc contains the pure calculation layer of the synchronization
// core: timezone-bucketed time math, point-in-time lookups, statistical
// summaries and merged interval construction. Nothing in this package
// performs I/O or mutates its inputs.
package calc

import (
	"strconv"
	"strings"
	"time"
)

// Granularity selects the bucket size for BucketStart.
type Granularity int

const (
	GranularityHour Granularity = iota
	GranularityDay
)

// BucketStart returns the start of the hour or day containing ms, computed in
// the given IANA timezone rather than UTC. Forecast hours are generated per
// location-local time, so the local wall clock decides the bucket. The
// function only snaps; across a DST transition neighbouring day buckets may be
// 23 or 25 real-world hours apart. An unknown timezone falls back to UTC.
func BucketStart(ms int64, granularity Granularity, tzName string) int64 {
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		loc = time.UTC
	}
	t := time.UnixMilli(ms).In(loc)
	switch granularity {
	case GranularityDay:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc).UnixMilli()
	default:
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, loc).UnixMilli()
	}
}

// Celsius converts a temperature from Fahrenheit to Celsius.
func Celsius(fahrenheit float64) float64 {
	return (fahrenheit - 32) * 5 / 9
}

// FormatInZone renders a timestamp using the location's timezone. The literal
// zone token "MST" in the layout is substituted with the provider-supplied
// abbreviation. It fails closed: an unrecognized timezone yields the raw
// numeric timestamp string instead of an error.
func FormatInZone(ms int64, tzName, abbreviation, layout string) string {
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return strconv.FormatInt(ms, 10)
	}
	t := time.UnixMilli(ms).In(loc)
	if abbreviation == "" {
		return t.Format(layout)
	}

	// Format the layout around the zone token so an abbreviation containing
	// layout-significant characters never reaches time.Format.
	parts := strings.Split(layout, "MST")
	if len(parts) == 1 {
		return t.Format(layout)
	}
	formatted := make([]string, len(parts))
	for i, part := range parts {
		formatted[i] = t.Format(part)
	}
	return strings.Join(formatted, abbreviation)
}

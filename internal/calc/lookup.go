// SPDX-FileCopyrightText: The skyscrub authors
//
// SPDX-License-Identifier: MIT

package calc

import (
	"github.com/skyscrub/skyscrub/internal/weather"
)

// HourlyMap indexes hourly forecast points by their timezone-local hour
// bucket start.
type HourlyMap map[int64]weather.HourlyPoint

// AirQualityMap indexes hourly air-quality points by their timezone-local
// hour bucket start. Its coverage may be coarser than the forecast map's.
type AirQualityMap map[int64]weather.AirQualityPoint

// BuildHourlyMap builds an HourlyMap from an hourly series.
func BuildHourlyMap(points []weather.HourlyPoint, tzName string) HourlyMap {
	m := make(HourlyMap, len(points))
	for _, p := range points {
		m[BucketStart(p.TimestampMs, GranularityHour, tzName)] = p
	}
	return m
}

// BuildAirQualityMap builds an AirQualityMap from an hourly series.
func BuildAirQualityMap(points []weather.AirQualityPoint, tzName string) AirQualityMap {
	m := make(AirQualityMap, len(points))
	for _, p := range points {
		m[BucketStart(p.TimestampMs, GranularityHour, tzName)] = p
	}
	return m
}

// HourlyAt returns the forecast point covering ms, or nil when no matching
// hour bucket exists. A nil result is the standard "no data yet" signal, not
// an error.
func HourlyAt(m HourlyMap, ms int64, tzName string) *weather.HourlyPoint {
	p, ok := m[BucketStart(ms, GranularityHour, tzName)]
	if !ok {
		return nil
	}
	return &p
}

// AirQualityAt returns the air-quality point covering ms, or nil when no
// matching hour bucket exists.
func AirQualityAt(m AirQualityMap, ms int64, tzName string) *weather.AirQualityPoint {
	p, ok := m[BucketStart(ms, GranularityHour, tzName)]
	if !ok {
		return nil
	}
	return &p
}

// MinutelyPrecipAt returns the precipitation rate of the 1-minute interval
// containing ms, or nil when ms precedes the first point or follows the last
// interval. The last point's interval is [lastTs, lastTs+60000). The series
// is bounded (at most 61 points), so a linear scan is fine.
func MinutelyPrecipAt(series weather.MinutelySeries, ms int64) *float64 {
	if len(series) == 0 || ms < series[0].TimestampMs {
		return nil
	}
	step := weather.MinutelyPointInterval.Milliseconds()
	for i := len(series) - 1; i >= 0; i-- {
		if ms >= series[i].TimestampMs {
			if ms >= series[i].TimestampMs+step {
				return nil
			}
			rate := series[i].Precipitation
			return &rate
		}
	}
	return nil
}

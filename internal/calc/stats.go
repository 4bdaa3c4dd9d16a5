// SPDX-FileCopyrightText: The skyscrub authors
//
// SPDX-License-Identifier: MIT

package calc

import (
	"time"

	"github.com/skyscrub/skyscrub/internal/weather"
)

// DefaultDayStartHour is the default hour (local time) a "weather day" starts
// at. Daily aggregates run over [dayStart+DayStartHour, +24h) instead of the
// calendar day.
const DefaultDayStartHour = 6

// TemperatureStats summarizes the temperature extent of an hourly map. Min
// folds dew-point values into the floor because dew point is physically never
// above temperature and must stay visible on a shared axis; Max considers
// temperatures only.
type TemperatureStats struct {
	Min                float64 `json:"min"`
	Max                float64 `json:"max"`
	Range              float64 `json:"range"`
	MinTemperatureOnly float64 `json:"minTemperatureOnly"`
}

// ComputeTemperatureStats returns the temperature statistics of the given
// hourly map, or nil when the map is empty.
func ComputeTemperatureStats(m HourlyMap) *TemperatureStats {
	if len(m) == 0 {
		return nil
	}
	first := true
	stats := TemperatureStats{}
	for _, p := range m {
		if first {
			stats.Min = min(p.Temperature, p.DewPoint)
			stats.Max = p.Temperature
			stats.MinTemperatureOnly = p.Temperature
			first = false
			continue
		}
		stats.Min = min(stats.Min, p.Temperature, p.DewPoint)
		stats.Max = max(stats.Max, p.Temperature)
		stats.MinTemperatureOnly = min(stats.MinTemperatureOnly, p.Temperature)
	}
	stats.Range = stats.Max - stats.Min
	return &stats
}

// dayWindow returns the subset of points within the weather day starting at
// dayStartMs, offset by startHour.
func dayWindow(dayStartMs int64, startHour int, hourly []weather.HourlyPoint) []weather.HourlyPoint {
	start := dayStartMs + int64(startHour)*time.Hour.Milliseconds()
	end := start + 24*time.Hour.Milliseconds()
	var subset []weather.HourlyPoint
	for _, p := range hourly {
		if p.TimestampMs >= start && p.TimestampMs < end {
			subset = append(subset, p)
		}
	}
	return subset
}

// DayAverageTemperature returns the mean temperature of the weather day
// starting at dayStartMs, or nil when no hourly points fall into the window.
// The mean is unweighted: every hour in the window counts equally.
func DayAverageTemperature(dayStartMs int64, startHour int, hourly []weather.HourlyPoint) *float64 {
	subset := dayWindow(dayStartMs, startHour, hourly)
	if len(subset) == 0 {
		return nil
	}
	var sum float64
	for _, p := range subset {
		sum += p.Temperature
	}
	avg := sum / float64(len(subset))
	return &avg
}

// DayHighTemperature returns the maximum temperature of the weather day
// starting at dayStartMs, or nil when the window is empty.
func DayHighTemperature(dayStartMs int64, startHour int, hourly []weather.HourlyPoint) *float64 {
	subset := dayWindow(dayStartMs, startHour, hourly)
	if len(subset) == 0 {
		return nil
	}
	high := subset[0].Temperature
	for _, p := range subset[1:] {
		high = max(high, p.Temperature)
	}
	return &high
}

// DayLowTemperature returns the minimum temperature of the weather day
// starting at dayStartMs, or nil when the window is empty.
func DayLowTemperature(dayStartMs int64, startHour int, hourly []weather.HourlyPoint) *float64 {
	subset := dayWindow(dayStartMs, startHour, hourly)
	if len(subset) == 0 {
		return nil
	}
	low := subset[0].Temperature
	for _, p := range subset[1:] {
		low = min(low, p.Temperature)
	}
	return &low
}

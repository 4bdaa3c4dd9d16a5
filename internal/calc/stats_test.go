// SPDX-FileCopyrightText: The skyscrub authors
//
// SPDX-License-Identifier: MIT

package calc

import (
	"testing"
	"time"

	"github.com/skyscrub/skyscrub/internal/weather"
)

func TestComputeTemperatureStats(t *testing.T) {
	t.Run("empty map yields nil", func(t *testing.T) {
		if got := ComputeTemperatureStats(HourlyMap{}); got != nil {
			t.Errorf("expected nil for empty map, got %+v", got)
		}
	})
	t.Run("dew point folds into the floor only", func(t *testing.T) {
		m := HourlyMap{
			0: {Temperature: 70, DewPoint: 55},
			1: {Temperature: 64, DewPoint: 60},
			2: {Temperature: 81, DewPoint: 66},
		}
		stats := ComputeTemperatureStats(m)
		if stats == nil {
			t.Fatal("expected stats, got nil")
		}
		if stats.Min != 55 {
			t.Errorf("expected min 55 (coldest dew point), got %f", stats.Min)
		}
		if stats.Max != 81 {
			t.Errorf("expected max 81 (warmest temperature), got %f", stats.Max)
		}
		if stats.MinTemperatureOnly != 64 {
			t.Errorf("expected temperature-only min 64, got %f", stats.MinTemperatureOnly)
		}
		if stats.Range != 26 {
			t.Errorf("expected range 26, got %f", stats.Range)
		}
	})
	t.Run("ordering invariant min <= minTemperatureOnly <= max", func(t *testing.T) {
		maps := []HourlyMap{
			{0: {Temperature: 50, DewPoint: 50}},
			{0: {Temperature: -3, DewPoint: -20}, 1: {Temperature: 12, DewPoint: 1}},
			{0: {Temperature: 99, DewPoint: 70}, 1: {Temperature: 70, DewPoint: 70}, 2: {Temperature: 85, DewPoint: 84}},
		}
		for _, m := range maps {
			stats := ComputeTemperatureStats(m)
			if stats == nil {
				t.Fatal("expected stats, got nil")
			}
			if stats.Min > stats.MinTemperatureOnly || stats.MinTemperatureOnly > stats.Max {
				t.Errorf("ordering violated: %f <= %f <= %f", stats.Min, stats.MinTemperatureOnly, stats.Max)
			}
		}
	})
}

func TestDayAggregates(t *testing.T) {
	dayStart := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC).UnixMilli()
	hour := time.Hour.Milliseconds()

	hourly := []weather.HourlyPoint{
		{TimestampMs: dayStart + 5*hour, Temperature: 50},  // before the weather day
		{TimestampMs: dayStart + 6*hour, Temperature: 60},  // first hour of the weather day
		{TimestampMs: dayStart + 12*hour, Temperature: 80}, // midday
		{TimestampMs: dayStart + 29*hour, Temperature: 70}, // last hour of the window
		{TimestampMs: dayStart + 30*hour, Temperature: 90}, // next weather day
	}

	t.Run("window is offset by the day start hour", func(t *testing.T) {
		avg := DayAverageTemperature(dayStart, DefaultDayStartHour, hourly)
		if avg == nil {
			t.Fatal("expected an average, got nil")
		}
		if *avg != 70 {
			t.Errorf("expected unweighted mean 70, got %f", *avg)
		}
	})
	t.Run("high and low honour the same window", func(t *testing.T) {
		high := DayHighTemperature(dayStart, DefaultDayStartHour, hourly)
		low := DayLowTemperature(dayStart, DefaultDayStartHour, hourly)
		if high == nil || low == nil {
			t.Fatal("expected high and low, got nil")
		}
		if *high != 80 {
			t.Errorf("expected high 80, got %f", *high)
		}
		if *low != 60 {
			t.Errorf("expected low 60, got %f", *low)
		}
	})
	t.Run("empty window yields nil", func(t *testing.T) {
		nextWeek := dayStart + 7*24*hour
		if got := DayAverageTemperature(nextWeek, DefaultDayStartHour, hourly); got != nil {
			t.Errorf("expected nil for empty window, got %v", got)
		}
	})
}

// SPDX-FileCopyrightText: The skyscrub authors
//
// SPDX-License-Identifier: MIT

package calc

import (
	"testing"
	"time"

	"github.com/skyscrub/skyscrub/internal/weather"
)

func TestHourlyAt(t *testing.T) {
	t0 := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC).UnixMilli()
	hour := time.Hour.Milliseconds()
	points := []weather.HourlyPoint{
		{TimestampMs: t0, Temperature: 72},
		{TimestampMs: t0 + hour, Temperature: 70},
	}
	m := BuildHourlyMap(points, "UTC")

	t.Run("snaps down to the containing hour bucket", func(t *testing.T) {
		got := HourlyAt(m, t0+30*time.Minute.Milliseconds(), "UTC")
		if got == nil {
			t.Fatal("expected a forecast point, got nil")
		}
		if got.Temperature != 72 {
			t.Errorf("expected the 72F entry, got %f", got.Temperature)
		}
	})
	t.Run("returns the entry keyed by BucketStart", func(t *testing.T) {
		for _, p := range points {
			probe := p.TimestampMs + 59*time.Minute.Milliseconds()
			got := HourlyAt(m, probe, "UTC")
			if got == nil {
				t.Fatalf("expected a forecast point at %d, got nil", probe)
			}
			if got.TimestampMs != BucketStart(probe, GranularityHour, "UTC") {
				t.Errorf("expected entry keyed by bucket start %d, got %d",
					BucketStart(probe, GranularityHour, "UTC"), got.TimestampMs)
			}
		}
	})
	t.Run("misses return nil", func(t *testing.T) {
		if got := HourlyAt(m, t0-1, "UTC"); got != nil {
			t.Errorf("expected nil before coverage, got %+v", got)
		}
		if got := HourlyAt(m, t0+2*hour, "UTC"); got != nil {
			t.Errorf("expected nil after coverage, got %+v", got)
		}
	})
}

func TestAirQualityAt(t *testing.T) {
	t0 := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC).UnixMilli()
	m := BuildAirQualityMap([]weather.AirQualityPoint{{TimestampMs: t0, USAQI: 42}}, "UTC")

	if got := AirQualityAt(m, t0+time.Minute.Milliseconds(), "UTC"); got == nil || got.USAQI != 42 {
		t.Errorf("expected the 42 AQI entry, got %+v", got)
	}
	if got := AirQualityAt(m, t0+time.Hour.Milliseconds(), "UTC"); got != nil {
		t.Errorf("expected nil on coarser coverage miss, got %+v", got)
	}
}

func TestMinutelyPrecipAt(t *testing.T) {
	series := weather.MinutelySeries{
		{TimestampMs: 0, Precipitation: 1},
		{TimestampMs: 60000, Precipitation: 2},
	}

	tests := []struct {
		name string
		ms   int64
		want *float64
	}{
		{"inside first interval", 30000, ptr(1.0)},
		{"inside last half-open interval", 90000, ptr(2.0)},
		{"exactly at last interval start", 60000, ptr(2.0)},
		{"before first point", -1, nil},
		{"after last interval", 120000, nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := MinutelyPrecipAt(series, tc.ms)
			if (got == nil) != (tc.want == nil) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
			if got != nil && *got != *tc.want {
				t.Errorf("expected %f, got %f", *tc.want, *got)
			}
		})
	}

	t.Run("empty series returns nil", func(t *testing.T) {
		if got := MinutelyPrecipAt(nil, 0); got != nil {
			t.Errorf("expected nil for empty series, got %v", got)
		}
	})
}

func ptr(f float64) *float64 {
	return &f
}

// SPDX-FileCopyrightText: The skyscrub authors
//
// SPDX-License-Identifier: MIT

package snapshot

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/skyscrub/skyscrub/internal/weather"
)

func testState() weather.State {
	base := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC).UnixMilli()
	hour := time.Hour.Milliseconds()

	st := weather.State{
		Location: weather.Location{
			Coordinates: weather.Coordinates{Latitude: 40.7128, Longitude: -74.006},
			Name:        "New York",
			CountryCode: "US",
			Source:      weather.SourceSearch,
		},
		Timezone: weather.TimezoneContext{
			IANAName:         "America/New_York",
			Abbreviation:     "EDT",
			UTCOffsetSeconds: -4 * 3600,
		},
		Units: weather.Units{Temperature: weather.UnitFahrenheit},
		Forecast: weather.ForecastBundle{
			Hourly: []weather.HourlyPoint{
				{TimestampMs: base, WeatherCode: 3, Temperature: 72, RelativeHumidity: 55, DewPoint: 54, Precipitation: 0.1},
				{TimestampMs: base + hour, WeatherCode: 61, Temperature: 70, RelativeHumidity: 60, DewPoint: 56},
			},
			// Local midnight; base is 6:00 AM EDT.
			Daily: []weather.DailyPoint{
				{TimestampMs: base - 6*hour, WeatherCode: 3, TemperatureMax: 75.2, TemperatureMin: 60.1},
			},
		},
		ForecastSet: true,
		AirQuality: weather.AirQualityBundle{
			Hourly: []weather.AirQualityPoint{{TimestampMs: base, USAQI: 42, EuropeanAQI: 31}},
		},
		AirQualitySet: true,
		Radar: weather.Radar{
			Host: "https://tilecache.rainviewer.com",
			Frames: []weather.RadarFrame{
				{TimestampMs: base, Path: "/v2/radar/1"},
				{TimestampMs: base + 10*time.Minute.Milliseconds(), Path: "/v2/radar/2"},
			},
		},
		RadarSet:    true,
		Minutely:    weather.MinutelySeries{{TimestampMs: base, Precipitation: 0.5}},
		FetchedAtMs: base,
		Hot:         weather.HotState{DisplayTimeMs: base + 30*time.Minute.Milliseconds(), RawTimeMs: base},
	}
	return st
}

func TestBuilder_Build(t *testing.T) {
	builder := Builder{DayStartHour: 6}

	t.Run("two builds over identical state are structurally equal", func(t *testing.T) {
		st := testState()
		first := builder.Build(st, 7)
		second := builder.Build(st, 7)
		if !reflect.DeepEqual(first, second) {
			t.Error("expected structurally identical snapshots for identical state")
		}
	})
	t.Run("display fields resolve at the display time", func(t *testing.T) {
		st := testState()
		snap := builder.Build(st, 1)
		if snap.Display.Temperature != "72°F" {
			t.Errorf("expected 72°F, got %q", snap.Display.Temperature)
		}
		if snap.Display.Humidity != "55%" {
			t.Errorf("expected 55%%, got %q", snap.Display.Humidity)
		}
		if snap.Display.USAQI != "42" {
			t.Errorf("expected AQI 42, got %q", snap.Display.USAQI)
		}
		if snap.Display.TemperatureRaw == nil || *snap.Display.TemperatureRaw != 72 {
			t.Errorf("expected raw temperature 72, got %v", snap.Display.TemperatureRaw)
		}
		if snap.Display.LocationName != "New York" {
			t.Errorf("expected location name New York, got %q", snap.Display.LocationName)
		}
		if !strings.Contains(snap.Display.Time, "EDT") {
			t.Errorf("expected formatted time with the EDT abbreviation, got %q", snap.Display.Time)
		}
	})
	t.Run("toggling units changes formatting only", func(t *testing.T) {
		st := testState()
		fahrenheit := builder.Build(st, 1)
		st.Units.Temperature = weather.UnitCelsius
		celsius := builder.Build(st, 2)

		if celsius.Display.Temperature != "22°C" {
			t.Errorf("expected 22°C, got %q", celsius.Display.Temperature)
		}
		if !reflect.DeepEqual(fahrenheit.Forecast, celsius.Forecast) {
			t.Error("expected raw forecast bundle to be preserved across a unit toggle")
		}
		if *fahrenheit.Display.TemperatureRaw != *celsius.Display.TemperatureRaw {
			t.Error("expected raw temperature value to be unit-independent")
		}
	})
	t.Run("empty state renders placeholders", func(t *testing.T) {
		snap := builder.Build(weather.State{}, 0)
		for name, got := range map[string]string{
			"temperature":   snap.Display.Temperature,
			"humidity":      snap.Display.Humidity,
			"dew point":     snap.Display.DewPoint,
			"precipitation": snap.Display.Precipitation,
			"us aqi":        snap.Display.USAQI,
			"minutely rate": snap.Display.MinutelyRate,
		} {
			if got != Placeholder {
				t.Errorf("expected %s placeholder, got %q", name, got)
			}
		}
		if snap.Display.LocationName != NamePlaceholder {
			t.Errorf("expected location name placeholder, got %q", snap.Display.LocationName)
		}
		if snap.Display.TemperatureRaw != nil {
			t.Error("expected raw temperature to be nil without data")
		}
	})
	t.Run("radar frame times are formatted in the location timezone", func(t *testing.T) {
		st := testState()
		snap := builder.Build(st, 1)
		if len(snap.RadarFrameTimes) != len(st.Radar.Frames) {
			t.Fatalf("expected %d radar frame times, got %d", len(st.Radar.Frames), len(snap.RadarFrameTimes))
		}
		if snap.RadarFrameTimes[0] != "6:00 AM EDT" {
			t.Errorf("expected 6:00 AM EDT, got %q", snap.RadarFrameTimes[0])
		}
	})
	t.Run("minutely rate resolves within its interval", func(t *testing.T) {
		st := testState()
		st.Hot.DisplayTimeMs = st.Minutely[0].TimestampMs + 30*time.Second.Milliseconds()
		snap := builder.Build(st, 1)
		if snap.Display.MinutelyRateRaw == nil || *snap.Display.MinutelyRateRaw != 0.5 {
			t.Errorf("expected minutely rate 0.5, got %v", snap.Display.MinutelyRateRaw)
		}
	})
	t.Run("computed sunrise uses the location-local calendar day", func(t *testing.T) {
		st := testState()
		st.Location.Coordinates = weather.Coordinates{Latitude: -36.8485, Longitude: 174.7633}
		st.Timezone = weather.TimezoneContext{IANAName: "Pacific/Auckland", Abbreviation: "NZST"}
		st.Forecast.Daily = nil
		// 13:00 UTC is already past midnight of the next day in Auckland.
		st.Hot.DisplayTimeMs = time.Date(2025, 6, 15, 13, 0, 0, 0, time.UTC).UnixMilli()
		snap := builder.Build(st, 1)

		loc, err := time.LoadLocation("Pacific/Auckland")
		if err != nil {
			t.Fatalf("failed to load timezone: %s", err)
		}
		if snap.Display.SunriseMs == 0 {
			t.Fatal("expected a computed sunrise")
		}
		if got := time.UnixMilli(snap.Display.SunriseMs).In(loc).Day(); got != 16 {
			t.Errorf("expected sunrise on the 16th local time, got day %d", got)
		}
	})
	t.Run("day summaries aggregate the weather day", func(t *testing.T) {
		st := testState()
		snap := builder.Build(st, 1)
		if len(snap.DaySummaries) != 1 {
			t.Fatalf("expected 1 day summary, got %d", len(snap.DaySummaries))
		}
		day := snap.DaySummaries[0]
		if day.AverageTemperatureRaw == nil || *day.AverageTemperatureRaw != 71 {
			t.Errorf("expected average temperature 71, got %v", day.AverageTemperatureRaw)
		}
		if day.HighTemperature != "72°F" {
			t.Errorf("expected high 72°F, got %q", day.HighTemperature)
		}
		if day.LowTemperature != "70°F" {
			t.Errorf("expected low 70°F, got %q", day.LowTemperature)
		}
	})
	t.Run("day start hour bounds the aggregation window", func(t *testing.T) {
		st := testState()
		// Hourly points sit at 6 and 7 AM local; a noon day start excludes
		// them, so the day has no coverage and is skipped.
		snap := Builder{DayStartHour: 12}.Build(st, 1)
		if len(snap.DaySummaries) != 0 {
			t.Errorf("expected no day summaries outside the window, got %d", len(snap.DaySummaries))
		}
	})
	t.Run("temperature stats span the hourly series", func(t *testing.T) {
		st := testState()
		snap := builder.Build(st, 1)
		if snap.TemperatureStats == nil {
			t.Fatal("expected temperature stats, got nil")
		}
		if snap.TemperatureStats.Min != 54 {
			t.Errorf("expected stats min 54 (dew point), got %f", snap.TemperatureStats.Min)
		}
		if snap.TemperatureStats.Max != 72 {
			t.Errorf("expected stats max 72, got %f", snap.TemperatureStats.Max)
		}
	})
}

func TestFormatPrecipitation(t *testing.T) {
	v := 0.12
	if got := FormatPrecipitation(&v); got != "0.12 in" {
		t.Errorf("expected 0.12 in, got %q", got)
	}
	if got := FormatPrecipitation(nil); got != Placeholder {
		t.Errorf("expected placeholder for nil input, got %q", got)
	}
}

func TestFormatTemperature(t *testing.T) {
	f := 32.0
	if got := FormatTemperature(&f, weather.Units{Temperature: weather.UnitCelsius}); got != "0°C" {
		t.Errorf("expected 0°C, got %q", got)
	}
	if got := FormatTemperature(&f, weather.Units{Temperature: weather.UnitFahrenheit}); got != "32°F" {
		t.Errorf("expected 32°F, got %q", got)
	}
	if got := FormatTemperature(nil, weather.Units{}); got != Placeholder {
		t.Errorf("expected placeholder for nil input, got %q", got)
	}
}

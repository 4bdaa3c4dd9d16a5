// SPDX-FileCopyrightText: The skyscrub authors
//
// SPDX-License-Identifier: MIT

package openmeteo

import (
	"io"
	"log/slog"
	stdhttp "net/http"
	"strings"
	"testing"

	"github.com/skyscrub/skyscrub/internal/http"
	"github.com/skyscrub/skyscrub/internal/logger"
	"github.com/skyscrub/skyscrub/internal/testhelper"
	"github.com/skyscrub/skyscrub/internal/weather"
)

const testBody = `{
	"timezone": "America/New_York",
	"timezone_abbreviation": "EDT",
	"utc_offset_seconds": -14400,
	"current": {
		"time": 1749981600,
		"weather_code": 3,
		"temperature_2m": 72.5,
		"relative_humidity_2m": 55,
		"dew_point_2m": 54.1,
		"precipitation": 0
	},
	"hourly": {
		"time": [1749981600, 1749985200, 1749988800],
		"weather_code": [3, null, 61],
		"temperature_2m": [72.5, 70.2, 68.9],
		"relative_humidity_2m": [55, 60, 72],
		"dew_point_2m": [54.1, 55.0, 58.3],
		"precipitation_probability": [0, 10, 80],
		"precipitation": [0, 0, 0.12]
	},
	"daily": {
		"time": [1749960000],
		"weather_code": [61],
		"temperature_2m_max": [75.2],
		"temperature_2m_min": [60.1],
		"precipitation_sum": [0.3],
		"rain_sum": [0.3],
		"showers_sum": [0],
		"snowfall_sum": [0],
		"precipitation_hours": [4],
		"precipitation_probability_max": [80],
		"sunrise": [1749979800],
		"sunset": [1750034400]
	}
}`

func testClient(t *testing.T, body string, status int) *http.Client {
	t.Helper()
	client := http.New(logger.New(slog.LevelError))
	client.Transport = testhelper.MockRoundTripper{Fn: func(req *stdhttp.Request) (*stdhttp.Response, error) {
		query := req.URL.Query()
		if got := query.Get("timeformat"); got != "unixtime" {
			t.Errorf("expected timeformat=unixtime, got %q", got)
		}
		if got := query.Get("temperature_unit"); got != "fahrenheit" {
			t.Errorf("expected temperature_unit=fahrenheit, got %q", got)
		}
		if got := query.Get("precipitation_unit"); got != "inch" {
			t.Errorf("expected precipitation_unit=inch, got %q", got)
		}
		return &stdhttp.Response{
			StatusCode: status,
			Body:       io.NopCloser(strings.NewReader(body)),
			Header:     make(stdhttp.Header),
		}, nil
	}}
	return client
}

func TestOpenMeteo_Forecast(t *testing.T) {
	coords := weather.Coordinates{Latitude: 40.7128, Longitude: -74.0060}
	provider := New(testClient(t, testBody, 200))

	bundle, tz, err := provider.Forecast(t.Context(), coords)
	if err != nil {
		t.Fatalf("failed to fetch forecast: %s", err)
	}

	t.Run("timezone context is carried over", func(t *testing.T) {
		if tz.IANAName != "America/New_York" {
			t.Errorf("expected timezone America/New_York, got %q", tz.IANAName)
		}
		if tz.Abbreviation != "EDT" {
			t.Errorf("expected abbreviation EDT, got %q", tz.Abbreviation)
		}
		if tz.UTCOffsetSeconds != -14400 {
			t.Errorf("expected offset -14400, got %d", tz.UTCOffsetSeconds)
		}
	})
	t.Run("timestamps are converted to milliseconds", func(t *testing.T) {
		if len(bundle.Hourly) == 0 {
			t.Fatal("expected hourly points")
		}
		if got := bundle.Hourly[0].TimestampMs; got != 1749981600000 {
			t.Errorf("expected timestamp 1749981600000, got %d", got)
		}
		if got := bundle.Current.TimestampMs; got != 1749981600000 {
			t.Errorf("expected current timestamp 1749981600000, got %d", got)
		}
	})
	t.Run("entries with null weather code are filtered", func(t *testing.T) {
		if len(bundle.Hourly) != 2 {
			t.Fatalf("expected 2 hourly points after filtering, got %d", len(bundle.Hourly))
		}
		if bundle.Hourly[1].WeatherCode != 61 {
			t.Errorf("expected surviving point to carry weather code 61, got %d", bundle.Hourly[1].WeatherCode)
		}
	})
	t.Run("hourly values are mapped", func(t *testing.T) {
		point := bundle.Hourly[0]
		if point.Temperature != 72.5 {
			t.Errorf("expected temperature 72.5, got %f", point.Temperature)
		}
		if point.DewPoint != 54.1 {
			t.Errorf("expected dew point 54.1, got %f", point.DewPoint)
		}
	})
	t.Run("daily values are mapped with sunrise and sunset", func(t *testing.T) {
		if len(bundle.Daily) != 1 {
			t.Fatalf("expected 1 daily point, got %d", len(bundle.Daily))
		}
		day := bundle.Daily[0]
		if day.TemperatureMax != 75.2 {
			t.Errorf("expected max temperature 75.2, got %f", day.TemperatureMax)
		}
		if day.SunriseMs != 1749979800000 {
			t.Errorf("expected sunrise 1749979800000, got %d", day.SunriseMs)
		}
		if day.SunsetMs != 1750034400000 {
			t.Errorf("expected sunset 1750034400000, got %d", day.SunsetMs)
		}
	})
}

func TestOpenMeteo_Forecast_InvalidJSON(t *testing.T) {
	client := http.New(logger.New(slog.LevelError))
	client.Transport = testhelper.MockRoundTripper{Fn: func(_ *stdhttp.Request) (*stdhttp.Response, error) {
		return &stdhttp.Response{
			StatusCode: 200,
			Body:       io.NopCloser(strings.NewReader("not json")),
			Header:     make(stdhttp.Header),
		}, nil
	}}
	provider := New(client)

	if _, _, err := provider.Forecast(t.Context(), weather.Coordinates{Latitude: 1, Longitude: 1}); err == nil {
		t.Error("expected forecast fetch to fail on invalid JSON")
	}
}

// SPDX-FileCopyrightText: The skyscrub authors
//
// SPDX-License-Identifier: MIT

// Package snapshot builds the immutable, fully-formatted aggregate that all
// consumers read. A snapshot replaces ad-hoc cross-referencing of mutable
// state: it is rebuilt on every cold-state change and swapped atomically.
package snapshot

import (
	"github.com/skyscrub/skyscrub/internal/calc"
	"github.com/skyscrub/skyscrub/internal/weather"
)

// DisplayBundle carries every formatted display field resolved at the
// snapshot's display time. Formatted strings render "--" when the underlying
// lookup missed; the raw values alongside stay nil in that case so
// precision-sensitive consumers can tell "no data" from zero.
type DisplayBundle struct {
	Temperature    string   `json:"temperature"`
	TemperatureRaw *float64 `json:"temperatureRaw"`

	Humidity    string   `json:"humidity"`
	HumidityRaw *float64 `json:"humidityRaw"`

	DewPoint    string   `json:"dewPoint"`
	DewPointRaw *float64 `json:"dewPointRaw"`

	Precipitation    string   `json:"precipitation"`
	PrecipitationRaw *float64 `json:"precipitationRaw"`

	MinutelyRate    string   `json:"minutelyRate"`
	MinutelyRateRaw *float64 `json:"minutelyRateRaw"`

	USAQI          string   `json:"usAqi"`
	USAQIRaw       *float64 `json:"usAqiRaw"`
	EuropeanAQI    string   `json:"europeanAqi"`
	EuropeanAQIRaw *float64 `json:"europeanAqiRaw"`

	Time         string `json:"time"`
	Date         string `json:"date"`
	LocationName string `json:"locationName"`

	MoonPhase     string `json:"moonPhase"`
	MoonPhaseIcon string `json:"moonPhaseIcon"`
	SunriseMs     int64  `json:"sunriseMs"`
	SunsetMs      int64  `json:"sunsetMs"`
	IsDaytime     bool   `json:"isDaytime"`
}

// DaySummary aggregates the hourly temperatures of one weather day. A weather
// day runs 24 hours from the configured start hour in local time instead of
// the calendar day, so overnight lows land on the evening they belong to.
type DaySummary struct {
	TimestampMs int64  `json:"timestampMs"`
	Date        string `json:"date"`

	AverageTemperature    string   `json:"averageTemperature"`
	AverageTemperatureRaw *float64 `json:"averageTemperatureRaw"`
	HighTemperature       string   `json:"highTemperature"`
	HighTemperatureRaw    *float64 `json:"highTemperatureRaw"`
	LowTemperature        string   `json:"lowTemperature"`
	LowTemperatureRaw     *float64 `json:"lowTemperatureRaw"`
}

// Snapshot is one immutable aggregate of the cold state plus the display
// fields resolved at the hot display time. Consumers must never reach past it
// into mutable state.
type Snapshot struct {
	Version  uint64                  `json:"version"`
	Timezone weather.TimezoneContext `json:"timezone"`
	Units    weather.Units           `json:"units"`
	Location weather.Location        `json:"location"`

	Display DisplayBundle `json:"display"`

	// Raw pass-through bundles for consumers that iterate.
	Forecast   weather.ForecastBundle   `json:"forecast"`
	AirQuality weather.AirQualityBundle `json:"airQuality"`
	Radar      weather.Radar            `json:"radar"`
	Minutely   weather.MinutelySeries   `json:"minutely"`

	// RadarFrameTimes holds the radar frame timestamps formatted in the
	// location's timezone. Rebuilt whenever the timezone becomes known after
	// radar data arrived.
	RadarFrameTimes []string `json:"radarFrameTimes"`

	// DaySummaries carries the weather-day temperature aggregates, one per
	// forecast day that has hourly coverage.
	DaySummaries []DaySummary `json:"daySummaries"`

	// TemperatureStats spans the hourly series; nil until forecast data
	// exists.
	TemperatureStats *calc.TemperatureStats `json:"temperatureStats"`

	// DisplayTimeMs is the hot display time the display bundle was resolved
	// at.
	DisplayTimeMs int64 `json:"displayTimeMs"`

	// FetchedAtMs is the time of the last successful forecast fetch.
	FetchedAtMs int64 `json:"fetchedAtMs"`
}

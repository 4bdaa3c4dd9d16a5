// SPDX-FileCopyrightText: The skyscrub authors
//
// SPDX-License-Identifier: MIT

// Package weather holds the domain types of the synchronization core: the
// provider bundles, the active location and the mutable cold/hot state.
package weather

import "time"

// Source records the provenance of the active location.
type Source string

const (
	SourceGPS       Source = "gps"
	SourceSearch    Source = "search"
	SourceGeoIP     Source = "geo-ip"
	SourceHardcoded Source = "hardcoded"
)

// RadarFrameInterval is the fixed cadence of radar frames.
const RadarFrameInterval = 10 * time.Minute

// MinutelyPointInterval is the fixed cadence of minutely precipitation points.
const MinutelyPointInterval = time.Minute

// Coordinates represents a geographic coordinate pair.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Valid checks if the coordinates are valid according to the EPSG logic.
func (c Coordinates) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 && c.Longitude >= -180 && c.Longitude <= 180
}

// Location is the single active location. It is mutated only by a
// location-change intent.
type Location struct {
	Coordinates Coordinates `json:"coordinates"`
	Name        string      `json:"name"`
	CountryCode string      `json:"countryCode"`
	Source      Source      `json:"source"`
}

// TimezoneContext carries the location-local timezone derived from the most
// recent successful forecast or air-quality fetch. Both fetch paths set it
// independently; last writer wins.
type TimezoneContext struct {
	IANAName         string `json:"ianaName"`
	Abbreviation     string `json:"abbreviation"`
	UTCOffsetSeconds int    `json:"utcOffsetSeconds"`
}

// HourlyPoint is one hour of forecast data. Timestamps are milliseconds since
// epoch, strictly increasing within a bundle, one entry per hour.
type HourlyPoint struct {
	TimestampMs              int64   `json:"timestampMs"`
	WeatherCode              int     `json:"weatherCode"`
	Temperature              float64 `json:"temperature"`
	RelativeHumidity         float64 `json:"relativeHumidity"`
	DewPoint                 float64 `json:"dewPoint"`
	PrecipitationProbability float64 `json:"precipitationProbability"`
	Precipitation            float64 `json:"precipitation"`
}

// DailyPoint is one day of forecast data.
type DailyPoint struct {
	TimestampMs                 int64   `json:"timestampMs"`
	WeatherCode                 int     `json:"weatherCode"`
	TemperatureMax              float64 `json:"temperatureMax"`
	TemperatureMin              float64 `json:"temperatureMin"`
	PrecipitationSum            float64 `json:"precipitationSum"`
	RainSum                     float64 `json:"rainSum"`
	ShowersSum                  float64 `json:"showersSum"`
	SnowfallSum                 float64 `json:"snowfallSum"`
	PrecipitationHours          float64 `json:"precipitationHours"`
	PrecipitationProbabilityMax float64 `json:"precipitationProbabilityMax"`
	SunriseMs                   int64   `json:"sunriseMs"`
	SunsetMs                    int64   `json:"sunsetMs"`
}

// CurrentConditions is the provider's current-weather block.
type CurrentConditions struct {
	TimestampMs      int64   `json:"timestampMs"`
	WeatherCode      int     `json:"weatherCode"`
	Temperature      float64 `json:"temperature"`
	RelativeHumidity float64 `json:"relativeHumidity"`
	DewPoint         float64 `json:"dewPoint"`
	Precipitation    float64 `json:"precipitation"`
}

// ForecastBundle aggregates the forecast provider's current, hourly and daily
// series.
type ForecastBundle struct {
	Current CurrentConditions `json:"current"`
	Hourly  []HourlyPoint     `json:"hourly"`
	Daily   []DailyPoint      `json:"daily"`
}

// AirQualityPoint is one hour of air-quality data, keyed by the same hour grid
// as the forecast bundle.
type AirQualityPoint struct {
	TimestampMs int64   `json:"timestampMs"`
	USAQI       float64 `json:"usAqi"`
	EuropeanAQI float64 `json:"europeanAqi"`
}

// AirQualityBundle aggregates the air-quality provider's current and hourly
// series.
type AirQualityBundle struct {
	Current AirQualityPoint   `json:"current"`
	Hourly  []AirQualityPoint `json:"hourly"`
}

// RadarFrame is a single radar image frame. Path is the provider-relative
// tile path used to build a tile URL.
type RadarFrame struct {
	TimestampMs int64  `json:"timestampMs"`
	Path        string `json:"path"`
}

// Radar holds the radar provider's frame sequence, ordered by timestamp at a
// fixed 10-minute cadence.
type Radar struct {
	GeneratedAtMs int64        `json:"generatedAtMs"`
	Host          string       `json:"host"`
	Frames        []RadarFrame `json:"frames"`
}

// EndBoundaryMs returns the synthetic end boundary of the radar sequence:
// last frame time plus one frame interval. Zero when no frames are known.
func (r Radar) EndBoundaryMs() int64 {
	if len(r.Frames) == 0 {
		return 0
	}
	return r.Frames[len(r.Frames)-1].TimestampMs + RadarFrameInterval.Milliseconds()
}

// MinutelyPoint is one minute of precipitation data.
type MinutelyPoint struct {
	TimestampMs   int64   `json:"timestampMs"`
	Precipitation float64 `json:"precipitation"`
}

// MinutelySeries is an ordered sequence of minutely precipitation points at
// 1-minute cadence, up to 61 points.
type MinutelySeries []MinutelyPoint

// TemperatureUnit is the display unit for temperatures.
type TemperatureUnit string

const (
	UnitCelsius    TemperatureUnit = "C"
	UnitFahrenheit TemperatureUnit = "F"
)

// Units is the cold display-unit state. Changing it invalidates only display
// formatting, never raw data.
type Units struct {
	Temperature TemperatureUnit `json:"temperature"`
}

// HotState is the high-frequency state driven by the frame clock during
// interactive scrubbing and playback. RawTimeMs updates on every tick;
// DisplayTimeMs updates only while no interactive control is tracked.
type HotState struct {
	DisplayTimeMs  int64  `json:"displayTimeMs"`
	RawTimeMs      int64  `json:"rawTimeMs"`
	Playing        bool   `json:"playing"`
	TrackedElement string `json:"trackedElement"`
}

// Tracking reports whether an interactive control is currently tracked.
func (h HotState) Tracking() bool {
	return h.TrackedElement != ""
}

// State is the single mutable source of truth. The orchestrator is its only
// writer; every field group is written by exactly one operation so that
// interleaved fetches and intents never conflict.
type State struct {
	Location Location
	Timezone TimezoneContext
	Units    Units

	Forecast    ForecastBundle
	ForecastSet bool

	AirQuality    AirQualityBundle
	AirQualitySet bool

	Radar    Radar
	RadarSet bool

	Minutely MinutelySeries

	// FetchedAtMs is the time of the last successful forecast fetch.
	FetchedAtMs int64

	Hot HotState

	// TimesReset marks that display/raw time currently sit at "now" (after
	// tracking end or playback overflow), so a play intent starts from the
	// first radar frame.
	TimesReset bool
}

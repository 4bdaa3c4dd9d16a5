// SPDX-FileCopyrightText: The skyscrub authors
//
// SPDX-License-Identifier: MIT

// Package openmeteo implements the forecast provider backed by the
// Open-Meteo forecast API.
package openmeteo

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/skyscrub/skyscrub/internal/http"
	"github.com/skyscrub/skyscrub/internal/provider"
	"github.com/skyscrub/skyscrub/internal/weather"
)

const (
	APIEndpoint = "https://api.open-meteo.com/v1/forecast"
	APITimeout  = time.Second * 10
	name        = "open-meteo"

	hourlyFields = "weather_code,temperature_2m,relative_humidity_2m,dew_point_2m," +
		"precipitation_probability,precipitation"
	dailyFields = "weather_code,temperature_2m_max,temperature_2m_min,precipitation_sum," +
		"rain_sum,showers_sum,snowfall_sum,precipitation_hours,precipitation_probability_max," +
		"sunrise,sunset"
	currentFields = "weather_code,temperature_2m,relative_humidity_2m,dew_point_2m,precipitation"

	forecastDays = 10
	pastDays     = 1
)

type OpenMeteo struct {
	http   *http.Client
	caller *provider.Caller
}

type apiResponse struct {
	Timezone             string     `json:"timezone"`
	TimezoneAbbreviation string     `json:"timezone_abbreviation"`
	UTCOffsetSeconds     int        `json:"utc_offset_seconds"`
	Current              apiCurrent `json:"current"`
	Hourly               apiHourly  `json:"hourly"`
	Daily                apiDaily   `json:"daily"`
}

type apiCurrent struct {
	Time             int64   `json:"time"`
	WeatherCode      *int    `json:"weather_code"`
	Temperature      float64 `json:"temperature_2m"`
	RelativeHumidity float64 `json:"relative_humidity_2m"`
	DewPoint         float64 `json:"dew_point_2m"`
	Precipitation    float64 `json:"precipitation"`
}

type apiHourly struct {
	Time                     []int64   `json:"time"`
	WeatherCode              []*int    `json:"weather_code"`
	Temperature              []float64 `json:"temperature_2m"`
	RelativeHumidity         []float64 `json:"relative_humidity_2m"`
	DewPoint                 []float64 `json:"dew_point_2m"`
	PrecipitationProbability []float64 `json:"precipitation_probability"`
	Precipitation            []float64 `json:"precipitation"`
}

type apiDaily struct {
	Time                        []int64   `json:"time"`
	WeatherCode                 []*int    `json:"weather_code"`
	TemperatureMax              []float64 `json:"temperature_2m_max"`
	TemperatureMin              []float64 `json:"temperature_2m_min"`
	PrecipitationSum            []float64 `json:"precipitation_sum"`
	RainSum                     []float64 `json:"rain_sum"`
	ShowersSum                  []float64 `json:"showers_sum"`
	SnowfallSum                 []float64 `json:"snowfall_sum"`
	PrecipitationHours          []float64 `json:"precipitation_hours"`
	PrecipitationProbabilityMax []float64 `json:"precipitation_probability_max"`
	Sunrise                     []int64   `json:"sunrise"`
	Sunset                      []int64   `json:"sunset"`
}

// New returns a new Open-Meteo forecast provider.
func New(client *http.Client) *OpenMeteo {
	return &OpenMeteo{
		http:   client,
		caller: provider.NewCaller(name),
	}
}

// Name satisfies the orchestrator's ForecastProvider interface.
func (o *OpenMeteo) Name() string {
	return name
}

// Forecast satisfies the orchestrator's ForecastProvider interface. Raw
// temperatures are requested in Fahrenheit and precipitation in inches; unit
// conversion is a display concern. Hourly and daily entries missing a weather
// code are filtered out instead of failing the whole bundle.
func (o *OpenMeteo) Forecast(ctx context.Context, coords weather.Coordinates) (weather.ForecastBundle,
	weather.TimezoneContext, error,
) {
	query := url.Values{}
	query.Set("latitude", strconv.FormatFloat(coords.Latitude, 'f', 4, 64))
	query.Set("longitude", strconv.FormatFloat(coords.Longitude, 'f', 4, 64))
	query.Set("hourly", hourlyFields)
	query.Set("daily", dailyFields)
	query.Set("current", currentFields)
	query.Set("temperature_unit", "fahrenheit")
	query.Set("precipitation_unit", "inch")
	query.Set("timeformat", "unixtime")
	query.Set("timezone", "auto")
	query.Set("forecast_days", strconv.Itoa(forecastDays))
	query.Set("past_days", strconv.Itoa(pastDays))

	var response apiResponse
	err := o.caller.Call(ctx, func(ctx context.Context) error {
		code, err := o.http.GetWithTimeout(ctx, APIEndpoint, &response, query, APITimeout)
		if err != nil {
			return fmt.Errorf("failed to fetch weather data from Open-Meteo API: %w", err)
		}
		if code != 200 {
			return fmt.Errorf("Open-Meteo API returned non-positive response code: %d", code)
		}
		return nil
	})
	if err != nil {
		return weather.ForecastBundle{}, weather.TimezoneContext{}, err
	}

	tz := weather.TimezoneContext{
		IANAName:         response.Timezone,
		Abbreviation:     response.TimezoneAbbreviation,
		UTCOffsetSeconds: response.UTCOffsetSeconds,
	}
	return buildBundle(response), tz, nil
}

func buildBundle(response apiResponse) weather.ForecastBundle {
	bundle := weather.ForecastBundle{
		Current: weather.CurrentConditions{
			TimestampMs:      response.Current.Time * 1000,
			Temperature:      response.Current.Temperature,
			RelativeHumidity: response.Current.RelativeHumidity,
			DewPoint:         response.Current.DewPoint,
			Precipitation:    response.Current.Precipitation,
		},
	}
	if response.Current.WeatherCode != nil {
		bundle.Current.WeatherCode = *response.Current.WeatherCode
	}

	hourly := response.Hourly
	for i, ts := range hourly.Time {
		code := at(hourly.WeatherCode, i)
		if code == nil {
			continue
		}
		bundle.Hourly = append(bundle.Hourly, weather.HourlyPoint{
			TimestampMs:              ts * 1000,
			WeatherCode:              *code,
			Temperature:              value(hourly.Temperature, i),
			RelativeHumidity:         value(hourly.RelativeHumidity, i),
			DewPoint:                 value(hourly.DewPoint, i),
			PrecipitationProbability: value(hourly.PrecipitationProbability, i),
			Precipitation:            value(hourly.Precipitation, i),
		})
	}

	daily := response.Daily
	for i, ts := range daily.Time {
		code := at(daily.WeatherCode, i)
		if code == nil {
			continue
		}
		bundle.Daily = append(bundle.Daily, weather.DailyPoint{
			TimestampMs:                 ts * 1000,
			WeatherCode:                 *code,
			TemperatureMax:              value(daily.TemperatureMax, i),
			TemperatureMin:              value(daily.TemperatureMin, i),
			PrecipitationSum:            value(daily.PrecipitationSum, i),
			RainSum:                     value(daily.RainSum, i),
			ShowersSum:                  value(daily.ShowersSum, i),
			SnowfallSum:                 value(daily.SnowfallSum, i),
			PrecipitationHours:          value(daily.PrecipitationHours, i),
			PrecipitationProbabilityMax: value(daily.PrecipitationProbabilityMax, i),
			SunriseMs:                   seconds(daily.Sunrise, i) * 1000,
			SunsetMs:                    seconds(daily.Sunset, i) * 1000,
		})
	}
	return bundle
}

func at(codes []*int, i int) *int {
	if i >= len(codes) {
		return nil
	}
	return codes[i]
}

func value(values []float64, i int) float64 {
	if i >= len(values) {
		return 0
	}
	return values[i]
}

func seconds(values []int64, i int) int64 {
	if i >= len(values) {
		return 0
	}
	return values[i]
}

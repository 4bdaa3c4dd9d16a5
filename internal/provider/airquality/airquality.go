// SPDX-FileCopyrightText: The skyscrub authors
//
// SPDX-License-Identifier: MIT

// Package airquality implements the air-quality provider backed by the
// Open-Meteo air-quality API.
package airquality

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
	APIEndpoint = "https://air-quality-api.open-meteo.com/v1/air-quality"
	APITimeout  = time.Second * 10
	name        = "open-meteo-air-quality"

	aqiFields = "us_aqi,european_aqi"
)

type AirQuality struct {
	http   *http.Client
	caller *provider.Caller
}

type apiResponse struct {
	Timezone             string     `json:"timezone"`
	TimezoneAbbreviation string     `json:"timezone_abbreviation"`
	UTCOffsetSeconds     int        `json:"utc_offset_seconds"`
	Current              apiCurrent `json:"current"`
	Hourly               apiHourly  `json:"hourly"`
}

type apiCurrent struct {
	Time        int64   `json:"time"`
	USAQI       float64 `json:"us_aqi"`
	EuropeanAQI float64 `json:"european_aqi"`
}

type apiHourly struct {
	Time        []int64    `json:"time"`
	USAQI       []*float64 `json:"us_aqi"`
	EuropeanAQI []*float64 `json:"european_aqi"`
}

// New returns a new Open-Meteo air-quality provider.
func New(client *http.Client) *AirQuality {
	return &AirQuality{
		http:   client,
		caller: provider.NewCaller(name),
	}
}

// Name satisfies the orchestrator's AirQualityProvider interface.
func (a *AirQuality) Name() string {
	return name
}

// AirQuality satisfies the orchestrator's AirQualityProvider interface.
// Hourly entries with no AQI value at all (outside the model's coverage
// window) are filtered out.
func (a *AirQuality) AirQuality(ctx context.Context, coords weather.Coordinates) (weather.AirQualityBundle,
	weather.TimezoneContext, error,
) {
	query := url.Values{}
	query.Set("latitude", strconv.FormatFloat(coords.Latitude, 'f', 4, 64))
	query.Set("longitude", strconv.FormatFloat(coords.Longitude, 'f', 4, 64))
	query.Set("hourly", aqiFields)
	query.Set("current", aqiFields)
	query.Set("timeformat", "unixtime")
	query.Set("timezone", "auto")

	var response apiResponse
	err := a.caller.Call(ctx, func(ctx context.Context) error {
		code, err := a.http.GetWithTimeout(ctx, APIEndpoint, &response, query, APITimeout)
		if err != nil {
			return fmt.Errorf("failed to fetch air-quality data from Open-Meteo API: %w", err)
		}
		if code != 200 {
			return fmt.Errorf("Open-Meteo air-quality API returned non-positive response code: %d", code)
		}
		return nil
	})
	if err != nil {
		return weather.AirQualityBundle{}, weather.TimezoneContext{}, err
	}

	bundle := weather.AirQualityBundle{
		Current: weather.AirQualityPoint{
			TimestampMs: response.Current.Time * 1000,
			USAQI:       response.Current.USAQI,
			EuropeanAQI: response.Current.EuropeanAQI,
		},
	}
	for i, ts := range response.Hourly.Time {
		us := at(response.Hourly.USAQI, i)
		eu := at(response.Hourly.EuropeanAQI, i)
		if us == nil && eu == nil {
			continue
		}
		point := weather.AirQualityPoint{TimestampMs: ts * 1000}
		if us != nil {
			point.USAQI = *us
		}
		if eu != nil {
			point.EuropeanAQI = *eu
		}
		bundle.Hourly = append(bundle.Hourly, point)
	}

	tz := weather.TimezoneContext{
		IANAName:         response.Timezone,
		Abbreviation:     response.TimezoneAbbreviation,
		UTCOffsetSeconds: response.UTCOffsetSeconds,
	}
	return bundle, tz, nil
}

func at(values []*float64, i int) *float64 {
	if i >= len(values) {
		return nil
	}
	return values[i]
}

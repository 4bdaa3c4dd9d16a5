// SPDX-FileCopyrightText: The skyscrub authors
//
// SPDX-License-Identifier: MIT

// Package openweather implements the optional minutely-precipitation provider
// backed by the OpenWeather One Call API. It requires an API key.
package openweather

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
	APIEndpoint = "https://api.openweathermap.org/data/3.0/onecall"
	APITimeout  = time.Second * 10
	name        = "openweather"

	// maxMinutelyPoints caps the series to the provider's documented maximum.
	maxMinutelyPoints = 61

	// mmPerInch converts the One Call mm/h rate to inches; the API has no
	// unit parameter and all raw precipitation values are carried in inches.
	mmPerInch = 25.4
)

type OpenWeather struct {
	http   *http.Client
	caller *provider.Caller
	apiKey string
}

type apiResponse struct {
	Minutely []apiMinutelyPoint `json:"minutely"`
}

type apiMinutelyPoint struct {
	Time          int64   `json:"dt"`
	Precipitation float64 `json:"precipitation"`
}

// New returns a new OpenWeather minutely-precipitation provider.
func New(client *http.Client, apiKey string) *OpenWeather {
	return &OpenWeather{
		http:   client,
		caller: provider.NewCaller(name),
		apiKey: apiKey,
	}
}

// Name satisfies the orchestrator's MinutelyProvider interface.
func (o *OpenWeather) Name() string {
	return name
}

// Minutely satisfies the orchestrator's MinutelyProvider interface.
func (o *OpenWeather) Minutely(ctx context.Context, coords weather.Coordinates) (weather.MinutelySeries, error) {
	query := url.Values{}
	query.Set("lat", strconv.FormatFloat(coords.Latitude, 'f', 4, 64))
	query.Set("lon", strconv.FormatFloat(coords.Longitude, 'f', 4, 64))
	query.Set("exclude", "current,hourly,daily,alerts")
	query.Set("appid", o.apiKey)

	var response apiResponse
	err := o.caller.Call(ctx, func(ctx context.Context) error {
		code, err := o.http.GetWithTimeout(ctx, APIEndpoint, &response, query, APITimeout)
		if err != nil {
			return fmt.Errorf("failed to fetch minutely precipitation from OpenWeather API: %w", err)
		}
		if code != 200 {
			return fmt.Errorf("OpenWeather API returned non-positive response code: %d", code)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	points := response.Minutely
	if len(points) > maxMinutelyPoints {
		points = points[:maxMinutelyPoints]
	}
	series := make(weather.MinutelySeries, 0, len(points))
	for _, point := range points {
		series = append(series, weather.MinutelyPoint{
			TimestampMs:   point.Time * 1000,
			Precipitation: point.Precipitation / mmPerInch,
		})
	}
	return series, nil
}

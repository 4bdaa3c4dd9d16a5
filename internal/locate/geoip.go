// SPDX-FileCopyrightText: The skyscrub authors
//
// SPDX-License-Identifier: MIT

package locate

import (
	"context"
	"fmt"
	"time"

	"github.com/skyscrub/skyscrub/internal/http"
	"github.com/skyscrub/skyscrub/internal/weather"
)

const (
	GeoIPEndpoint = "https://reallyfreegeoip.org/json/"
	GeoIPTimeout  = time.Second * 5
)

// GeoIP resolves a coarse position from the host's public IP address.
type GeoIP struct {
	http *http.Client
}

type geoIPResult struct {
	IP          string  `json:"ip"`
	CountryCode string  `json:"country_code"`
	Country     string  `json:"country_name"`
	RegionCode  string  `json:"region_code,omitempty"`
	Region      string  `json:"region_name,omitempty"`
	City        string  `json:"city,omitempty"`
	ZipCode     string  `json:"zip_code,omitempty"`
	TimeZone    string  `json:"time_zone"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}

// NewGeoIP returns a new GeoIP locator.
func NewGeoIP(client *http.Client) *GeoIP {
	return &GeoIP{http: client}
}

// Lookup resolves the host's position once.
func (g *GeoIP) Lookup(ctx context.Context) (Fix, error) {
	ctx, cancel := context.WithTimeout(ctx, GeoIPTimeout)
	defer cancel()

	result := new(geoIPResult)
	if _, err := g.http.Get(ctx, GeoIPEndpoint, result, nil); err != nil {
		return Fix{}, fmt.Errorf("failed to get geolocation data from API: %w", err)
	}

	fix := Fix{
		Coordinates: weather.Coordinates{
			Latitude:  truncate(result.Latitude),
			Longitude: truncate(result.Longitude),
		},
		Source:      weather.SourceGeoIP,
		City:        result.City,
		CountryCode: result.CountryCode,
	}
	if !fix.Coordinates.Valid() {
		return Fix{}, fmt.Errorf("geolocation API returned invalid coordinates: %f/%f",
			result.Latitude, result.Longitude)
	}
	return fix, nil
}

// SPDX-FileCopyrightText: The skyscrub authors
//
// SPDX-License-Identifier: MIT

// Package nominatim implements reverse geocoding against the OSM Nominatim
// API.
package nominatim

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"golang.org/x/text/language"

	"github.com/skyscrub/skyscrub/internal/geocode"
	"github.com/skyscrub/skyscrub/internal/http"
	"github.com/skyscrub/skyscrub/internal/weather"
)

const (
	APIReverseEndpoint = "https://nominatim.openstreetmap.org/reverse"
	APITimeout         = time.Second * 10
	name               = "osm-nominatim"
)

type Nominatim struct {
	http *http.Client
	lang language.Tag
}

type reverseResult struct {
	Name        string  `json:"name"`
	DisplayName string  `json:"display_name"`
	Address     address `json:"address"`
}

type address struct {
	City        string `json:"city"`
	Town        string `json:"town"`
	Village     string `json:"village"`
	State       string `json:"state"`
	Country     string `json:"country"`
	CountryCode string `json:"country_code"`
}

// New returns a new Nominatim reverse geocoder.
func New(client *http.Client, lang language.Tag) *Nominatim {
	return &Nominatim{
		lang: lang,
		http: client,
	}
}

// Name satisfies the geocode.Geocoder interface.
func (n *Nominatim) Name() string {
	return name
}

// Reverse satisfies the geocode.Geocoder interface. A coordinate pair the API
// knows nothing about yields an empty Place with Found unset, not an error.
func (n *Nominatim) Reverse(ctx context.Context, coords weather.Coordinates) (geocode.Place, error) {
	var result reverseResult

	query := url.Values{}
	query.Set("format", "jsonv2")
	query.Set("lat", fmt.Sprintf("%f", coords.Latitude))
	query.Set("lon", fmt.Sprintf("%f", coords.Longitude))
	query.Set("accept-language", n.lang.String())

	code, err := n.http.GetWithTimeout(ctx, APIReverseEndpoint, &result, query, APITimeout)
	if err != nil {
		return geocode.Place{}, fmt.Errorf("failed to fetch reverse address details from Nominatim API: %w", err)
	}
	if code != 200 {
		return geocode.Place{}, fmt.Errorf("Nominatim API returned non-positive response code: %d", code)
	}
	if result.DisplayName == "" && result.Name == "" {
		return geocode.Place{}, nil
	}

	place := geocode.Place{
		Found:       true,
		Name:        result.Name,
		Region:      result.Address.State,
		Country:     result.Address.Country,
		CountryCode: strings.ToUpper(result.Address.CountryCode),
	}
	if place.Name == "" {
		place.Name = result.Address.City
	}
	if place.Name == "" && result.Address.Town != "" {
		place.Name = result.Address.Town
	}
	if place.Name == "" && result.Address.Village != "" {
		place.Name = result.Address.Village
	}
	if place.Name == "" {
		place.Name = result.DisplayName
	}
	return place, nil
}

// SPDX-FileCopyrightText: The skyscrub authors
//
// SPDX-License-Identifier: MIT

// Package geocode resolves a display name for coordinates via reverse
// geocoding. The core treats it as an external collaborator: a lookup that
// returns nothing is not an error, the display falls back to a placeholder.
package geocode

import (
	"context"

	"github.com/skyscrub/skyscrub/internal/weather"
)

// Place is the resolved descriptor for a coordinate pair.
type Place struct {
	Found       bool
	Name        string
	Region      string
	Country     string
	CountryCode string
	CacheHit    bool
}

// Geocoder is implemented by each reverse-geocoding backend.
type Geocoder interface {
	Name() string
	Reverse(ctx context.Context, coords weather.Coordinates) (Place, error)
}

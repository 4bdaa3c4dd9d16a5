// SPDX-FileCopyrightText: The skyscrub authors
//
// SPDX-License-Identifier: MIT

// Package locate resolves the initial or live position of the host: a one-off
// GeoIP lookup when no location is configured, and an optional gpsd stream
// for hosts with a GPS receiver.
package locate

import (
	"math"

	"github.com/skyscrub/skyscrub/internal/weather"
)

// coordPrecision truncates fix coordinates to ~11 m so jitter in consecutive
// GPS reports does not register as movement.
const coordPrecision = 1e-4

// Fix is one resolved position.
type Fix struct {
	Coordinates weather.Coordinates
	Source      weather.Source
	City        string
	CountryCode string
}

func truncate(value float64) float64 {
	return math.Trunc(value/coordPrecision) * coordPrecision
}

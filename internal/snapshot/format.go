// SPDX-FileCopyrightText: The skyscrub authors
//
// SPDX-License-Identifier: MIT

package snapshot

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/skyscrub/skyscrub/internal/calc"
	"github.com/skyscrub/skyscrub/internal/weather"
)

// Placeholder is rendered whenever a display input is nil. Formatting
// functions must never emit NaN or empty text for missing data.
const Placeholder = "--"

// NamePlaceholder is shown while no display name is known for the location.
const NamePlaceholder = "..."

// moonPhaseIcons maps go-moonphase phase names to their icons.
var moonPhaseIcons = map[string]string{
	"New Moon":        "🌑",
	"Waxing Crescent": "🌒",
	"First Quarter":   "🌓",
	"Waxing Gibbous":  "🌔",
	"Full Moon":       "🌕",
	"Waning Gibbous":  "🌖",
	"Third Quarter":   "🌗",
	"Waning Crescent": "🌘",
}

// FormatTemperature renders a raw Fahrenheit temperature in the configured
// display unit.
func FormatTemperature(fahrenheit *float64, units weather.Units) string {
	if fahrenheit == nil {
		return Placeholder
	}
	if units.Temperature == weather.UnitCelsius {
		return fmt.Sprintf("%.0f°C", calc.Celsius(*fahrenheit))
	}
	return fmt.Sprintf("%.0f°F", *fahrenheit)
}

// FormatPercent renders a relative humidity or probability value.
func FormatPercent(value *float64) string {
	if value == nil {
		return Placeholder
	}
	return fmt.Sprintf("%.0f%%", *value)
}

// FormatPrecipitation renders a precipitation amount or rate.
func FormatPrecipitation(value *float64) string {
	if value == nil {
		return Placeholder
	}
	return fmt.Sprintf("%.2f in", *value)
}

// FormatAQI renders an air-quality index value.
func FormatAQI(value *float64) string {
	if value == nil {
		return Placeholder
	}
	return fmt.Sprintf("%.0f", *value)
}

// MoonPhaseIcon returns the icon for a moon phase name, padded so that
// double-width glyphs align in monospaced output. Unknown phases yield the
// empty string.
func MoonPhaseIcon(phase string) string {
	icon, ok := moonPhaseIcons[phase]
	if !ok {
		return ""
	}
	pad := runewidth.StringWidth(icon) - 1
	if pad < 0 {
		pad = 0
	}
	return icon + strings.Repeat(" ", pad)
}

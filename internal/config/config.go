// SPDX-FileCopyrightText: The skyscrub authors
//
// SPDX-License-Identifier: MIT

// Package config handles the skyscrub configuration.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/Xuanwo/go-locale"
	"github.com/kkyr/fig"
	"golang.org/x/text/language"
)

const configEnv = "SKYSCRUB"

// Config represents the application's configuration structure.
type Config struct {
	// Allowed values: celsius, fahrenheit
	Units    string     `fig:"units" default:"fahrenheit"`
	Locale   string     `fig:"locale"`
	LogLevel slog.Level `fig:"loglevel" default:"0"`

	Location struct {
		Latitude  float64 `fig:"latitude"`
		Longitude float64 `fig:"longitude"`
		Name      string  `fig:"name"`
	} `fig:"location"`

	Weather struct {
		// Hour of the day (local time) a "weather day" starts at, used for
		// daily aggregate statistics instead of the calendar day.
		DayStartHour int `fig:"day_start_hour" default:"6"`
		// OpenWeather API key; the minutely precipitation provider stays
		// disabled without it.
		OpenWeatherAPIKey string `fig:"openweather_api_key"`
	} `fig:"weather"`

	Intervals struct {
		WeatherUpdate time.Duration `fig:"weather_update" default:"15m"`
		RadarUpdate   time.Duration `fig:"radar_update" default:"10m"`
	} `fig:"intervals"`

	Server struct {
		Listen        string `fig:"listen" default:"127.0.0.1:8553"`
		MetricsListen string `fig:"metrics_listen"`
	} `fig:"server"`

	GeoLocation struct {
		DisableGeoIP bool   `fig:"disable_geoip"`
		EnableGPSD   bool   `fig:"enable_gpsd"`
		GPSDAddress  string `fig:"gpsd_address" default:"localhost:2947"`
	} `fig:"geolocation"`
}

// NewFromFile loads the configuration from the given path and file.
func NewFromFile(path, file string) (*Config, error) {
	conf := new(Config)
	_, err := os.Stat(filepath.Join(path, file))
	if err != nil {
		return conf, fmt.Errorf("failed to read Config: %w", err)
	}
	if err = fig.Load(conf, fig.Dirs(path), fig.File(file), fig.UseEnv(configEnv)); err != nil {
		return conf, fmt.Errorf("failed to load Config: %w", err)
	}

	return conf, conf.Validate()
}

// New loads the configuration from the environment with defaults applied.
func New() (*Config, error) {
	conf := new(Config)
	if err := fig.Load(conf, fig.AllowNoFile(), fig.UseEnv(configEnv)); err != nil {
		return conf, fmt.Errorf("failed to load Config: %w", err)
	}

	return conf, conf.Validate()
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Units != "celsius" && c.Units != "fahrenheit" {
		return fmt.Errorf("invalid units: %s", c.Units)
	}
	if c.Weather.DayStartHour < 0 || c.Weather.DayStartHour > 23 {
		return fmt.Errorf("invalid day start hour: %d", c.Weather.DayStartHour)
	}
	if c.Location.Latitude < -90 || c.Location.Latitude > 90 {
		return fmt.Errorf("invalid latitude: %f", c.Location.Latitude)
	}
	if c.Location.Longitude < -180 || c.Location.Longitude > 180 {
		return fmt.Errorf("invalid longitude: %f", c.Location.Longitude)
	}
	if c.Intervals.WeatherUpdate <= 0 || c.Intervals.RadarUpdate <= 0 {
		return fmt.Errorf("update intervals must be positive")
	}
	return nil
}

// HasLocation reports whether a starting location is configured.
func (c *Config) HasLocation() bool {
	return c.Location.Latitude != 0 || c.Location.Longitude != 0
}

// LanguageTag returns the configured locale as a language tag. An empty locale
// falls back to system detection and finally to English.
func (c *Config) LanguageTag() language.Tag {
	if c.Locale != "" {
		return language.Make(c.Locale)
	}
	tag, err := locale.Detect()
	if err != nil {
		return language.English
	}
	return tag
}

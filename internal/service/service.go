// SPDX-FileCopyrightText: The skyscrub authors
//
// SPDX-License-Identifier: MIT

// Package service wires the synchronization core together: providers, the
// orchestrator, the store, the HTTP API, the metrics listener and the
// periodic refresh jobs.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/skyscrub/skyscrub/internal/api"
	"github.com/skyscrub/skyscrub/internal/bus"
	"github.com/skyscrub/skyscrub/internal/config"
	"github.com/skyscrub/skyscrub/internal/geocode"
	"github.com/skyscrub/skyscrub/internal/geocode/provider/nominatim"
	"github.com/skyscrub/skyscrub/internal/http"
	"github.com/skyscrub/skyscrub/internal/locate"
	"github.com/skyscrub/skyscrub/internal/logger"
	"github.com/skyscrub/skyscrub/internal/metrics"
	"github.com/skyscrub/skyscrub/internal/orchestrator"
	"github.com/skyscrub/skyscrub/internal/provider/airquality"
	"github.com/skyscrub/skyscrub/internal/provider/openmeteo"
	"github.com/skyscrub/skyscrub/internal/provider/openweather"
	"github.com/skyscrub/skyscrub/internal/provider/rainviewer"
	"github.com/skyscrub/skyscrub/internal/store"
	"github.com/skyscrub/skyscrub/internal/weather"
)

const (
	// geocodeHitTTL and geocodeMissTTL control the reverse-geocode cache.
	geocodeHitTTL  = 24 * time.Hour
	geocodeMissTTL = time.Hour

	busBufferSize = 256
)

type Service struct {
	config       *config.Config
	logger       *logger.Logger
	scheduler    gocron.Scheduler
	bus          *bus.Bus
	store        *store.Store
	orchestrator *orchestrator.Orchestrator
	api          *api.Server
	geoip        *locate.GeoIP
	gpsd         *locate.GPSD
}

// New initializes and returns a new Service from the given configuration.
func New(conf *config.Config, log *logger.Logger) (*Service, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	httpClient := http.New(log)
	geocoder := geocode.NewCachedGeocoder(
		nominatim.New(httpClient, conf.LanguageTag()),
		geocodeHitTTL, geocodeMissTTL,
	)

	providers := orchestrator.Providers{
		Forecast:   openmeteo.New(httpClient),
		AirQuality: airquality.New(httpClient),
		Radar:      rainviewer.New(httpClient),
		Geocoder:   geocoder,
	}
	if conf.Weather.OpenWeatherAPIKey != "" {
		providers.Minutely = openweather.New(httpClient, conf.Weather.OpenWeatherAPIKey)
	}

	units := weather.Units{Temperature: weather.UnitFahrenheit}
	if conf.Units == "celsius" {
		units.Temperature = weather.UnitCelsius
	}

	notifyBus := bus.New()
	orch := orchestrator.New(providers, notifyBus, log, orchestrator.Options{
		Units:        units,
		DayStartHour: conf.Weather.DayStartHour,
	})
	snapStore := store.New()

	service := &Service{
		config:       conf,
		logger:       log,
		scheduler:    scheduler,
		bus:          notifyBus,
		store:        snapStore,
		orchestrator: orch,
		api:          api.New(orch, snapStore, log, conf.LanguageTag()),
		geoip:        locate.NewGeoIP(httpClient),
	}
	if conf.GeoLocation.EnableGPSD {
		service.gpsd = locate.NewGPSD(conf.GeoLocation.GPSDAddress, log)
	}
	return service, nil
}

// Run starts all components and blocks until ctx is cancelled or the API
// listener fails.
func (s *Service) Run(ctx context.Context) error {
	notifyChan, unsub := s.bus.Subscribe(busBufferSize)
	defer unsub()
	go s.store.Run(ctx, notifyChan)
	s.orchestrator.EmitSnapshot()

	if err := s.createScheduledJob(ctx, s.config.Intervals.WeatherUpdate, s.orchestrator.Refresh,
		"weather_update_job"); err != nil {
		return err
	}
	if err := s.createScheduledJob(ctx, s.config.Intervals.RadarUpdate, s.orchestrator.RequestFetchRadar,
		"radar_update_job"); err != nil {
		return err
	}
	if s.config.Weather.OpenWeatherAPIKey != "" {
		if err := s.createScheduledJob(ctx, s.config.Intervals.WeatherUpdate, s.orchestrator.RequestFetchMinutely,
			"minutely_update_job"); err != nil {
			return err
		}
	}
	s.scheduler.Start()

	go s.setInitialLocation(ctx)
	go s.orchestrator.RequestFetchRadar(ctx)
	if s.gpsd != nil {
		go s.processGPSDFixes(ctx)
	}
	if s.config.Server.MetricsListen != "" {
		go func() {
			if err := metrics.Serve(ctx, s.config.Server.MetricsListen, s.logger); err != nil {
				s.logger.Error("metrics listener failed", logger.Err(err))
			}
		}()
	}

	apiErr := make(chan error, 1)
	go func() {
		apiErr <- s.api.Run(ctx, s.config.Server.Listen)
	}()

	var err error
	select {
	case <-ctx.Done():
	case err = <-apiErr:
	}

	s.orchestrator.Stop()
	if shutdownErr := s.scheduler.Shutdown(); shutdownErr != nil && err == nil {
		err = shutdownErr
	}
	return err
}

// setInitialLocation seeds the active location from the configuration or,
// when none is set, from a one-off GeoIP lookup.
func (s *Service) setInitialLocation(ctx context.Context) {
	if s.config.HasLocation() {
		location := weather.Location{
			Coordinates: weather.Coordinates{
				Latitude:  s.config.Location.Latitude,
				Longitude: s.config.Location.Longitude,
			},
			Name:   s.config.Location.Name,
			Source: weather.SourceHardcoded,
		}
		if err := s.orchestrator.RequestSetLocation(ctx, location); err != nil {
			s.logger.Error("failed to set configured location", logger.Err(err))
		}
		return
	}
	if s.config.GeoLocation.DisableGeoIP {
		s.logger.Info("no location configured and GeoIP lookup disabled, waiting for a location intent")
		return
	}

	fix, err := s.geoip.Lookup(ctx)
	if err != nil {
		s.logger.Error("failed to resolve initial location via GeoIP", logger.Err(err))
		return
	}
	location := weather.Location{
		Coordinates: fix.Coordinates,
		Name:        fix.City,
		CountryCode: fix.CountryCode,
		Source:      fix.Source,
	}
	if err := s.orchestrator.RequestSetLocation(ctx, location); err != nil {
		s.logger.Error("failed to set GeoIP location", logger.Err(err))
	}
}

// processGPSDFixes forwards position fixes from gpsd as location intents.
func (s *Service) processGPSDFixes(ctx context.Context) {
	for fix := range s.gpsd.Stream(ctx) {
		location := weather.Location{
			Coordinates: fix.Coordinates,
			Source:      fix.Source,
		}
		if err := s.orchestrator.RequestSetLocation(ctx, location); err != nil {
			s.logger.Error("failed to set GPS location", logger.Err(err))
		}
	}
}

func (s *Service) createScheduledJob(ctx context.Context, interval time.Duration, task func(context.Context),
	jobName string,
) error {
	_, err := s.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(task),
		gocron.WithContext(ctx),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithName(jobName),
	)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", jobName, err)
	}
	return nil
}

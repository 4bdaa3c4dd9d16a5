// SPDX-FileCopyrightText: The skyscrub authors
//
// SPDX-License-Identifier: MIT

// Package orchestrator owns the mutable state of the synchronization core.
// It is the single writer: every intent and every fetch result is applied
// under one mutex, each writing only its own slice of state, so interleaved
// fetches and intents never conflict. Consumers never read state directly;
// they receive immutable snapshots and hot-state ticks on the bus.
package orchestrator

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/skyscrub/skyscrub/internal/bus"
	"github.com/skyscrub/skyscrub/internal/calc"
	"github.com/skyscrub/skyscrub/internal/geocode"
	"github.com/skyscrub/skyscrub/internal/logger"
	"github.com/skyscrub/skyscrub/internal/metrics"
	"github.com/skyscrub/skyscrub/internal/snapshot"
	"github.com/skyscrub/skyscrub/internal/weather"
)

// DefaultPlaybackSpeed maps one wall-clock second to ten minutes of display
// time while playback is active.
const DefaultPlaybackSpeed = 600

var ErrInvalidCoordinates = errors.New("coordinates out of range")

// ForecastProvider fetches the forecast bundle for a coordinate pair.
type ForecastProvider interface {
	Name() string
	Forecast(ctx context.Context, coords weather.Coordinates) (weather.ForecastBundle,
		weather.TimezoneContext, error)
}

// AirQualityProvider fetches the air-quality bundle for a coordinate pair.
type AirQualityProvider interface {
	Name() string
	AirQuality(ctx context.Context, coords weather.Coordinates) (weather.AirQualityBundle,
		weather.TimezoneContext, error)
}

// RadarProvider fetches the global radar frame catalogue.
type RadarProvider interface {
	Name() string
	Radar(ctx context.Context) (weather.Radar, error)
}

// MinutelyProvider fetches minutely precipitation for a coordinate pair.
type MinutelyProvider interface {
	Name() string
	Minutely(ctx context.Context, coords weather.Coordinates) (weather.MinutelySeries, error)
}

// Providers bundles the upstream collaborators. Radar, Minutely and Geocoder
// are optional; the corresponding intents no-op with a log line when absent.
type Providers struct {
	Forecast   ForecastProvider
	AirQuality AirQualityProvider
	Radar      RadarProvider
	Minutely   MinutelyProvider
	Geocoder   geocode.Geocoder
}

// Options carries the static configuration of an Orchestrator.
type Options struct {
	Units         weather.Units
	DayStartHour  int
	PlaybackSpeed float64
	// Now is the wall clock. Defaults to time.Now.
	Now func() time.Time
}

// Orchestrator reconciles fetches, intents and the frame clock into a single
// consistent state, published as versioned snapshots.
type Orchestrator struct {
	providers Providers
	bus       *bus.Bus
	builder   snapshot.Builder
	logger    *logger.Logger

	playbackSpeed float64
	now           func() time.Time

	mu      sync.Mutex
	state   weather.State
	version uint64
	tickSeq uint64
	loop    *frameLoop
}

// New initializes and returns a new Orchestrator.
func New(providers Providers, notifyBus *bus.Bus, log *logger.Logger, opts Options) *Orchestrator {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.PlaybackSpeed <= 0 {
		opts.PlaybackSpeed = DefaultPlaybackSpeed
	}
	if opts.DayStartHour == 0 {
		opts.DayStartHour = calc.DefaultDayStartHour
	}
	if opts.Units.Temperature == "" {
		opts.Units.Temperature = weather.UnitFahrenheit
	}

	o := &Orchestrator{
		providers:     providers,
		bus:           notifyBus,
		builder:       snapshot.Builder{DayStartHour: opts.DayStartHour},
		logger:        log,
		playbackSpeed: opts.PlaybackSpeed,
		now:           opts.Now,
	}
	o.state.Units = opts.Units
	o.resetTimesLocked()
	return o
}

// State returns a copy of the current state. The bundle slices inside it are
// shared and must be treated as read-only.
func (o *Orchestrator) State() weather.State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// EmitSnapshot builds and publishes a snapshot of the current state. Used at
// startup to seed consumers before the first fetch settles.
func (o *Orchestrator) EmitSnapshot() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.emitSnapshotLocked()
}

// Stop cancels the frame loop if it is running.
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.stopLoopLocked()
}

// RequestSetLocation stores the new active location, emits a location-only
// snapshot and fans out the forecast, air-quality and reverse-geocode fetches
// concurrently. It returns once all fetches have settled; each fetch applies
// only its own state slice, so a failure in one never blocks or corrupts the
// others.
func (o *Orchestrator) RequestSetLocation(ctx context.Context, location weather.Location) error {
	metrics.IntentsTotal.WithLabelValues("requestSetLocation").Inc()
	if !location.Coordinates.Valid() {
		return ErrInvalidCoordinates
	}
	if location.Source == "" {
		location.Source = weather.SourceSearch
	}

	o.mu.Lock()
	o.state.Location = location
	o.emitSnapshotLocked()
	o.mu.Unlock()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		o.fetchForecast(ctx)
	}()
	go func() {
		defer wg.Done()
		o.fetchAirQuality(ctx)
	}()
	if location.Name == "" && o.providers.Geocoder != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			o.resolvePlace(ctx, location.Coordinates)
		}()
	}
	wg.Wait()
	return nil
}

// Refresh re-fetches the forecast and air-quality bundles for the active
// location. It no-ops with a log line when no location has been set.
func (o *Orchestrator) Refresh(ctx context.Context) {
	o.mu.Lock()
	hasLocation := o.hasLocationLocked()
	o.mu.Unlock()
	if !hasLocation {
		o.logger.Info("skipping weather refresh, no location set")
		return
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		o.fetchForecast(ctx)
	}()
	go func() {
		defer wg.Done()
		o.fetchAirQuality(ctx)
	}()
	wg.Wait()
}

// RequestSetTime moves the scrub position. Raw time updates unconditionally;
// display time only while no control is tracked. A position past the radar
// end boundary stops playback and, outside of tracking, resets both times to
// now.
func (o *Orchestrator) RequestSetTime(ms int64) {
	metrics.IntentsTotal.WithLabelValues("requestSetTime").Inc()
	o.mu.Lock()
	defer o.mu.Unlock()
	o.applySetTimeLocked(ms)
	o.publishTickLocked()
	if o.loop == nil && !o.state.Hot.Tracking() {
		o.emitSnapshotLocked()
	}
}

// RequestToggleUnits flips the temperature display unit and re-emits a
// snapshot. Raw bundles are untouched, only formatting changes.
func (o *Orchestrator) RequestToggleUnits() {
	metrics.IntentsTotal.WithLabelValues("requestToggleUnits").Inc()
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state.Units.Temperature == weather.UnitFahrenheit {
		o.state.Units.Temperature = weather.UnitCelsius
	} else {
		o.state.Units.Temperature = weather.UnitFahrenheit
	}
	o.emitSnapshotLocked()
}

// RequestTogglePlay flips the playing flag. Resuming from a fresh position
// (times sitting at "now" after a reset) jumps to the first radar frame so
// playback covers the whole sequence.
func (o *Orchestrator) RequestTogglePlay() {
	metrics.IntentsTotal.WithLabelValues("requestTogglePlay").Inc()
	o.mu.Lock()
	defer o.mu.Unlock()

	o.state.Hot.Playing = !o.state.Hot.Playing
	if o.state.Hot.Playing {
		if o.state.TimesReset && o.state.RadarSet && len(o.state.Radar.Frames) > 0 {
			o.applySetTimeLocked(o.state.Radar.Frames[0].TimestampMs)
		}
		o.startLoopLocked()
	} else if !o.state.Hot.Tracking() {
		o.stopLoopLocked()
	}

	o.bus.Publish(bus.Notification{Kind: bus.KindPlayStateChanged, Playing: o.state.Hot.Playing})
	o.publishTickLocked()
}

// RequestTrackingStart records the tracked interactive control and starts the
// frame loop.
func (o *Orchestrator) RequestTrackingStart(element string) {
	metrics.IntentsTotal.WithLabelValues("requestTrackingStart").Inc()
	o.mu.Lock()
	defer o.mu.Unlock()
	o.state.Hot.TrackedElement = element
	o.startLoopLocked()
	o.bus.Publish(bus.Notification{Kind: bus.KindTrackingChanged, TrackedElement: element})
}

// RequestTrackingEnd clears the tracked control, resets both times to now,
// stops the frame loop unless playback keeps it alive and emits a final tick.
func (o *Orchestrator) RequestTrackingEnd() {
	metrics.IntentsTotal.WithLabelValues("requestTrackingEnd").Inc()
	o.mu.Lock()
	defer o.mu.Unlock()
	o.state.Hot.TrackedElement = ""
	o.resetTimesLocked()
	if !o.state.Hot.Playing {
		o.stopLoopLocked()
	}
	o.publishTickLocked()
	o.bus.Publish(bus.Notification{Kind: bus.KindTrackingChanged})
	o.emitSnapshotLocked()
}

// RequestFetchRadar fetches the radar frame catalogue and publishes the
// resulting snapshot as both snapshotReady and radarUpdated. No-ops with a
// log line when no radar provider is configured.
func (o *Orchestrator) RequestFetchRadar(ctx context.Context) {
	metrics.IntentsTotal.WithLabelValues("requestFetchRadar").Inc()
	if o.providers.Radar == nil {
		o.logger.Info("skipping radar fetch, no radar provider configured")
		return
	}
	radar, err := o.providers.Radar.Radar(ctx)
	if err != nil {
		o.logger.Error("failed to fetch radar frames", logger.Err(err),
			"provider", o.providers.Radar.Name())
		return
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	o.state.Radar = radar
	o.state.RadarSet = true
	snap := o.emitSnapshotLocked()
	o.bus.Publish(bus.Notification{Kind: bus.KindRadarUpdated, Snapshot: snap})
}

// RequestFetchMinutely fetches the minutely precipitation series. No-ops with
// a log line when no minutely provider is configured or no location is set.
func (o *Orchestrator) RequestFetchMinutely(ctx context.Context) {
	metrics.IntentsTotal.WithLabelValues("requestFetchMinutely").Inc()
	if o.providers.Minutely == nil {
		o.logger.Info("skipping minutely fetch, no minutely provider configured")
		return
	}

	o.mu.Lock()
	coords := o.state.Location.Coordinates
	hasLocation := o.hasLocationLocked()
	o.mu.Unlock()
	if !hasLocation {
		o.logger.Info("skipping minutely fetch, no location set")
		return
	}

	series, err := o.providers.Minutely.Minutely(ctx, coords)
	if err != nil {
		o.logger.Error("failed to fetch minutely precipitation", logger.Err(err),
			"provider", o.providers.Minutely.Name())
		return
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	o.state.Minutely = series
	o.emitSnapshotLocked()
}

func (o *Orchestrator) fetchForecast(ctx context.Context) {
	o.mu.Lock()
	coords := o.state.Location.Coordinates
	hasLocation := o.hasLocationLocked()
	o.mu.Unlock()
	if !hasLocation {
		o.logger.Info("skipping forecast fetch, no location set")
		return
	}

	bundle, tz, err := o.providers.Forecast.Forecast(ctx, coords)
	if err != nil {
		o.logger.Error("failed to fetch forecast", logger.Err(err),
			"provider", o.providers.Forecast.Name())
		return
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	o.state.Forecast = bundle
	o.state.ForecastSet = true
	o.state.Timezone = tz
	o.state.FetchedAtMs = o.now().UnixMilli()
	// Snapshot rebuild also re-formats radar frame times, covering the case
	// where radar data arrived before the timezone was known.
	o.emitSnapshotLocked()
}

func (o *Orchestrator) fetchAirQuality(ctx context.Context) {
	o.mu.Lock()
	coords := o.state.Location.Coordinates
	hasLocation := o.hasLocationLocked()
	o.mu.Unlock()
	if !hasLocation {
		o.logger.Info("skipping air-quality fetch, no location set")
		return
	}

	bundle, tz, err := o.providers.AirQuality.AirQuality(ctx, coords)
	if err != nil {
		o.logger.Error("failed to fetch air quality", logger.Err(err),
			"provider", o.providers.AirQuality.Name())
		return
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	o.state.AirQuality = bundle
	o.state.AirQualitySet = true
	o.state.Timezone = tz
	o.emitSnapshotLocked()
}

func (o *Orchestrator) resolvePlace(ctx context.Context, coords weather.Coordinates) {
	place, err := o.providers.Geocoder.Reverse(ctx, coords)
	if err != nil {
		o.logger.Error("failed to reverse geocode location", logger.Err(err),
			"provider", o.providers.Geocoder.Name())
		return
	}
	if !place.Found {
		return
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	// The location may have changed while the lookup was in flight.
	if o.state.Location.Coordinates != coords {
		return
	}
	o.state.Location.Name = place.Name
	o.state.Location.CountryCode = place.CountryCode
	o.emitSnapshotLocked()
}

// applySetTimeLocked is the single write path for scrub-position changes,
// used by the setTime intent and the playback advance alike.
func (o *Orchestrator) applySetTimeLocked(ms int64) {
	hot := &o.state.Hot
	hot.RawTimeMs = ms
	if !hot.Tracking() {
		hot.DisplayTimeMs = ms
	}
	o.state.TimesReset = false

	if !o.state.RadarSet {
		return
	}
	if end := o.state.Radar.EndBoundaryMs(); end > 0 && ms > end {
		if hot.Playing {
			hot.Playing = false
			o.bus.Publish(bus.Notification{Kind: bus.KindPlayStateChanged})
		}
		if !hot.Tracking() {
			o.resetTimesLocked()
		}
	}
}

func (o *Orchestrator) resetTimesLocked() {
	nowMs := o.now().UnixMilli()
	o.state.Hot.RawTimeMs = nowMs
	o.state.Hot.DisplayTimeMs = nowMs
	o.state.TimesReset = true
}

func (o *Orchestrator) hasLocationLocked() bool {
	return o.state.Location.Source != "" && o.state.Location.Coordinates.Valid()
}

func (o *Orchestrator) emitSnapshotLocked() *snapshot.Snapshot {
	o.version++
	snap := o.builder.Build(o.state, o.version)
	metrics.SnapshotBuildsTotal.Inc()
	o.bus.Publish(bus.Notification{Kind: bus.KindSnapshotReady, Snapshot: snap})
	return snap
}

func (o *Orchestrator) publishTickLocked() {
	o.tickSeq++
	metrics.FrameTicksTotal.Inc()
	o.bus.Publish(bus.Notification{
		Kind: bus.KindFrameTick,
		Tick: bus.FrameTick{
			Seq:           o.tickSeq,
			RawTimeMs:     o.state.Hot.RawTimeMs,
			DisplayTimeMs: o.state.Hot.DisplayTimeMs,
		},
	})
}

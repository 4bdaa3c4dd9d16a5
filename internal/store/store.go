// SPDX-FileCopyrightText: The skyscrub authors
//
// SPDX-License-Identifier: MIT

// Package store is the read-only distribution layer. It holds the latest
// snapshot behind an atomic swap and rebuilds every derived lookup map from
// the snapshot's raw bundles on each apply. Maps are never patched in place,
// so a reader always sees either the old view or the new view in full.
package store

import (
	"context"
	"sync"

	"github.com/skyscrub/skyscrub/internal/bus"
	"github.com/skyscrub/skyscrub/internal/calc"
	"github.com/skyscrub/skyscrub/internal/snapshot"
	"github.com/skyscrub/skyscrub/internal/weather"
)

// Store exposes only getters; the orchestrator feeds it through the bus.
type Store struct {
	mu        sync.RWMutex
	snap      *snapshot.Snapshot
	hourly    calc.HourlyMap
	air       calc.AirQualityMap
	daily     map[int]weather.DailyPoint
	minutely  weather.MinutelySeries
	intervals []calc.Interval
	tick      bus.FrameTick
}

// New initializes and returns a new empty Store.
func New() *Store {
	return &Store{}
}

// Run consumes notifications until ctx is cancelled or the channel closes.
func (s *Store) Run(ctx context.Context, notifyChan <-chan bus.Notification) {
	for {
		select {
		case <-ctx.Done():
			return
		case n, ok := <-notifyChan:
			if !ok {
				return
			}
			switch n.Kind {
			case bus.KindSnapshotReady, bus.KindRadarUpdated:
				if n.Snapshot != nil {
					s.Apply(n.Snapshot)
				}
			case bus.KindFrameTick:
				s.ApplyTick(n.Tick)
			}
		}
	}
}

// Apply swaps in a new snapshot and rebuilds all derived lookup structures
// from its raw bundles.
func (s *Store) Apply(snap *snapshot.Snapshot) {
	tzName := snap.Timezone.IANAName
	hourly := calc.BuildHourlyMap(snap.Forecast.Hourly, tzName)
	air := calc.BuildAirQualityMap(snap.AirQuality.Hourly, tzName)
	daily := make(map[int]weather.DailyPoint, len(snap.Forecast.Daily))
	for i, point := range snap.Forecast.Daily {
		daily[i] = point
	}
	intervals := calc.MergedIntervals(snap.Forecast.Hourly, snap.Radar)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = snap
	s.hourly = hourly
	s.air = air
	s.daily = daily
	s.minutely = snap.Minutely
	s.intervals = intervals
}

// ApplyTick records the latest hot-state tick. Ticks arriving out of order
// (late deliveries after a newer one) are dropped.
func (s *Store) ApplyTick(tick bus.FrameTick) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if tick.Seq <= s.tick.Seq {
		return
	}
	s.tick = tick
}

// Snapshot returns the latest snapshot, or nil before the first apply.
func (s *Store) Snapshot() *snapshot.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Tick returns the latest hot-state tick.
func (s *Store) Tick() bus.FrameTick {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tick
}

// HourlyAt returns the hourly point for the hour bucket containing ms, or nil
// when no data covers it.
func (s *Store) HourlyAt(ms int64) *weather.HourlyPoint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snap == nil {
		return nil
	}
	return calc.HourlyAt(s.hourly, ms, s.snap.Timezone.IANAName)
}

// AirQualityAt returns the air-quality point for the hour bucket containing
// ms, or nil when no data covers it.
func (s *Store) AirQualityAt(ms int64) *weather.AirQualityPoint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snap == nil {
		return nil
	}
	return calc.AirQualityAt(s.air, ms, s.snap.Timezone.IANAName)
}

// DailyByOffset returns the daily point at the given offset from the first
// forecast day, or nil when out of range.
func (s *Store) DailyByOffset(offset int) *weather.DailyPoint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	point, ok := s.daily[offset]
	if !ok {
		return nil
	}
	return &point
}

// MinutelyPrecipAt returns the precipitation rate at ms from the minutely
// series, or nil when the series does not cover it.
func (s *Store) MinutelyPrecipAt(ms int64) *float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return calc.MinutelyPrecipAt(s.minutely, ms)
}

// Intervals returns the merged positioning grid, or nil when fewer than two
// cut points are known.
func (s *Store) Intervals() []calc.Interval {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.intervals
}

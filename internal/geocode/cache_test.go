// SPDX-FileCopyrightText: The skyscrub authors
//
// SPDX-License-Identifier: MIT

package geocode

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/skyscrub/skyscrub/internal/weather"
)

type countingGeocoder struct {
	calls int
	place Place
	err   error
}

func (c *countingGeocoder) Name() string {
	return "counting"
}

func (c *countingGeocoder) Reverse(_ context.Context, _ weather.Coordinates) (Place, error) {
	c.calls++
	return c.place, c.err
}

func TestCachedGeocoder_Reverse(t *testing.T) {
	coords := weather.Coordinates{Latitude: 40.7128, Longitude: -74.0060}

	t.Run("second lookup is served from cache", func(t *testing.T) {
		backend := &countingGeocoder{place: Place{Found: true, Name: "New York"}}
		cached := NewCachedGeocoder(backend, time.Hour, time.Minute)

		first, err := cached.Reverse(context.Background(), coords)
		if err != nil {
			t.Fatalf("failed to reverse geocode: %s", err)
		}
		if first.CacheHit {
			t.Error("expected first lookup to miss the cache")
		}

		second, err := cached.Reverse(context.Background(), coords)
		if err != nil {
			t.Fatalf("failed to reverse geocode: %s", err)
		}
		if !second.CacheHit {
			t.Error("expected second lookup to hit the cache")
		}
		if second.Name != "New York" {
			t.Errorf("expected cached place name to be New York, got %q", second.Name)
		}
		if backend.calls != 1 {
			t.Errorf("expected backend to be called once, got %d calls", backend.calls)
		}
	})
	t.Run("nearby coordinates share a cache entry", func(t *testing.T) {
		backend := &countingGeocoder{place: Place{Found: true, Name: "New York"}}
		cached := NewCachedGeocoder(backend, time.Hour, time.Minute)

		if _, err := cached.Reverse(context.Background(), coords); err != nil {
			t.Fatalf("failed to reverse geocode: %s", err)
		}
		nearby := weather.Coordinates{Latitude: coords.Latitude + 0.001, Longitude: coords.Longitude}
		place, err := cached.Reverse(context.Background(), nearby)
		if err != nil {
			t.Fatalf("failed to reverse geocode: %s", err)
		}
		if !place.CacheHit {
			t.Error("expected nearby coordinates to hit the cache")
		}
	})
	t.Run("distant coordinates get their own entry", func(t *testing.T) {
		backend := &countingGeocoder{place: Place{Found: true, Name: "New York"}}
		cached := NewCachedGeocoder(backend, time.Hour, time.Minute)

		if _, err := cached.Reverse(context.Background(), coords); err != nil {
			t.Fatalf("failed to reverse geocode: %s", err)
		}
		distant := weather.Coordinates{Latitude: 52.5200, Longitude: 13.4050}
		if _, err := cached.Reverse(context.Background(), distant); err != nil {
			t.Fatalf("failed to reverse geocode: %s", err)
		}
		if backend.calls != 2 {
			t.Errorf("expected backend to be called twice, got %d calls", backend.calls)
		}
	})
	t.Run("expired entry triggers a fresh lookup", func(t *testing.T) {
		backend := &countingGeocoder{place: Place{Found: true, Name: "New York"}}
		cached := NewCachedGeocoder(backend, -time.Second, -time.Second)

		if _, err := cached.Reverse(context.Background(), coords); err != nil {
			t.Fatalf("failed to reverse geocode: %s", err)
		}
		place, err := cached.Reverse(context.Background(), coords)
		if err != nil {
			t.Fatalf("failed to reverse geocode: %s", err)
		}
		if place.CacheHit {
			t.Error("expected expired entry to miss the cache")
		}
		if backend.calls != 2 {
			t.Errorf("expected backend to be called twice, got %d calls", backend.calls)
		}
	})
	t.Run("empty results are cached as misses", func(t *testing.T) {
		backend := &countingGeocoder{place: Place{}}
		cached := NewCachedGeocoder(backend, time.Hour, time.Minute)

		if _, err := cached.Reverse(context.Background(), coords); err != nil {
			t.Fatalf("failed to reverse geocode: %s", err)
		}
		place, err := cached.Reverse(context.Background(), coords)
		if err != nil {
			t.Fatalf("failed to reverse geocode: %s", err)
		}
		if !place.CacheHit {
			t.Error("expected empty result to be cached")
		}
		if place.Found {
			t.Error("expected cached place to remain not found")
		}
		if backend.calls != 1 {
			t.Errorf("expected backend to be called once, got %d calls", backend.calls)
		}
	})
	t.Run("backend error is not cached", func(t *testing.T) {
		backend := &countingGeocoder{err: errors.New("upstream unavailable")}
		cached := NewCachedGeocoder(backend, time.Hour, time.Minute)

		if _, err := cached.Reverse(context.Background(), coords); err == nil {
			t.Fatal("expected reverse geocode to fail")
		}
		if _, err := cached.Reverse(context.Background(), coords); err == nil {
			t.Fatal("expected reverse geocode to fail")
		}
		if backend.calls != 2 {
			t.Errorf("expected backend to be called twice, got %d calls", backend.calls)
		}
	})
}

// SPDX-FileCopyrightText: The skyscrub authors
//
// SPDX-License-Identifier: MIT

// Package rainviewer implements the radar provider backed by the RainViewer
// weather-maps catalogue.
package rainviewer

import (
	"context"
	"fmt"
	"time"

	"github.com/tidwall/gjson"

	"github.com/skyscrub/skyscrub/internal/http"
	"github.com/skyscrub/skyscrub/internal/provider"
	"github.com/skyscrub/skyscrub/internal/weather"
)

const (
	APIEndpoint = "https://api.rainviewer.com/public/weather-maps.json"
	APITimeout  = time.Second * 10
	name        = "rainviewer"
)

type RainViewer struct {
	http   *http.Client
	caller *provider.Caller
}

// New returns a new RainViewer radar provider.
func New(client *http.Client) *RainViewer {
	return &RainViewer{
		http:   client,
		caller: provider.NewCaller(name),
	}
}

// Name satisfies the orchestrator's RadarProvider interface.
func (r *RainViewer) Name() string {
	return name
}

// Radar satisfies the orchestrator's RadarProvider interface. Past and
// nowcast frames are concatenated into one sequence ordered by timestamp;
// frames without a tile path are filtered out.
func (r *RainViewer) Radar(ctx context.Context) (weather.Radar, error) {
	var body []byte
	err := r.caller.Call(ctx, func(ctx context.Context) error {
		raw, code, err := r.http.GetRaw(ctx, APIEndpoint, nil, APITimeout)
		if err != nil {
			return fmt.Errorf("failed to fetch weather maps from RainViewer API: %w", err)
		}
		if code != 200 {
			return fmt.Errorf("RainViewer API returned non-positive response code: %d", code)
		}
		body = raw
		return nil
	})
	if err != nil {
		return weather.Radar{}, err
	}
	if !gjson.ValidBytes(body) {
		return weather.Radar{}, fmt.Errorf("RainViewer API returned invalid JSON")
	}

	payload := gjson.ParseBytes(body)
	radar := weather.Radar{
		GeneratedAtMs: payload.Get("generated").Int() * 1000,
		Host:          payload.Get("host").String(),
	}
	appendFrames(&radar, payload.Get("radar.past"))
	appendFrames(&radar, payload.Get("radar.nowcast"))
	return radar, nil
}

func appendFrames(radar *weather.Radar, frames gjson.Result) {
	frames.ForEach(func(_, frame gjson.Result) bool {
		path := frame.Get("path").String()
		if path == "" {
			return true
		}
		radar.Frames = append(radar.Frames, weather.RadarFrame{
			TimestampMs: frame.Get("time").Int() * 1000,
			Path:        path,
		})
		return true
	})
}

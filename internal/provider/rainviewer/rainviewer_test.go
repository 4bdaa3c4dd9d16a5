// SPDX-FileCopyrightText: The skyscrub authors
//
// SPDX-License-Identifier: MIT

package rainviewer

import (
	"io"
	"log/slog"
	stdhttp "net/http"
	"strings"
	"testing"

	"github.com/skyscrub/skyscrub/internal/http"
	"github.com/skyscrub/skyscrub/internal/logger"
	"github.com/skyscrub/skyscrub/internal/testhelper"
)

const testBody = `{
	"version": "2.0",
	"generated": 1749981600,
	"host": "https://tilecache.rainviewer.com",
	"radar": {
		"past": [
			{"time": 1749978000, "path": "/v2/radar/1749978000"},
			{"time": 1749978600, "path": "/v2/radar/1749978600"}
		],
		"nowcast": [
			{"time": 1749982200, "path": "/v2/radar/nowcast_1"},
			{"time": 1749982800, "path": ""}
		]
	}
}`

func testClient(t *testing.T, body string) *http.Client {
	t.Helper()
	client := http.New(logger.New(slog.LevelError))
	client.Transport = testhelper.MockRoundTripper{Fn: func(_ *stdhttp.Request) (*stdhttp.Response, error) {
		return &stdhttp.Response{
			StatusCode: 200,
			Body:       io.NopCloser(strings.NewReader(body)),
			Header:     make(stdhttp.Header),
		}, nil
	}}
	return client
}

func TestRainViewer_Radar(t *testing.T) {
	provider := New(testClient(t, testBody))

	radar, err := provider.Radar(t.Context())
	if err != nil {
		t.Fatalf("failed to fetch radar frames: %s", err)
	}

	if radar.Host != "https://tilecache.rainviewer.com" {
		t.Errorf("expected tilecache host, got %q", radar.Host)
	}
	if radar.GeneratedAtMs != 1749981600000 {
		t.Errorf("expected generated timestamp 1749981600000, got %d", radar.GeneratedAtMs)
	}
	if len(radar.Frames) != 3 {
		t.Fatalf("expected 3 frames (pathless frame filtered), got %d", len(radar.Frames))
	}
	if radar.Frames[0].TimestampMs != 1749978000000 {
		t.Errorf("expected first frame at 1749978000000, got %d", radar.Frames[0].TimestampMs)
	}
	if radar.Frames[2].Path != "/v2/radar/nowcast_1" {
		t.Errorf("expected nowcast frame path, got %q", radar.Frames[2].Path)
	}
	if want := radar.Frames[2].TimestampMs + 600000; radar.EndBoundaryMs() != want {
		t.Errorf("expected end boundary %d, got %d", want, radar.EndBoundaryMs())
	}
}

func TestRainViewer_Radar_InvalidJSON(t *testing.T) {
	provider := New(testClient(t, "not json"))
	if _, err := provider.Radar(t.Context()); err == nil {
		t.Error("expected radar fetch to fail on invalid JSON")
	}
}

// SPDX-FileCopyrightText: The skyscrub authors
//
// SPDX-License-Identifier: MIT

// Package metrics defines the prometheus collectors of the synchronization
// core and serves them on a dedicated listener.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/skyscrub/skyscrub/internal/logger"
)

var (
	ProviderCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skyscrub_provider_calls_total",
			Help: "Total upstream provider calls",
		},
		[]string{"provider", "status"},
	)

	ProviderLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "skyscrub_provider_latency_seconds",
			Help:    "Upstream provider call latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider"},
	)

	IntentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skyscrub_intents_total",
			Help: "Total intents dispatched to the orchestrator",
		},
		[]string{"intent"},
	)

	SnapshotBuildsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "skyscrub_snapshot_builds_total",
			Help: "Total snapshots built and published",
		},
	)

	FrameTicksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "skyscrub_frame_ticks_total",
			Help: "Total hot-state frame ticks broadcast",
		},
	)
)

// Serve exposes the default prometheus registry on addr until ctx is
// cancelled. The listener is independent of the API server so scraping never
// competes with consumer traffic.
func Serve(ctx context.Context, addr string, log *logger.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("failed to shut down metrics listener", logger.Err(err))
		}
	}()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

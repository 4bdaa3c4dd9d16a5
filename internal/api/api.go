// SPDX-FileCopyrightText: The skyscrub authors
//
// SPDX-License-Identifier: MIT

// Package api exposes the read and intent surface over HTTP. It is a thin
// consumer: reads come from the store's latest snapshot, writes are forwarded
// to the orchestrator as intents.
package api

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/vorlif/humanize"
	"golang.org/x/text/language"

	"github.com/skyscrub/skyscrub/internal/logger"
	"github.com/skyscrub/skyscrub/internal/store"
	"github.com/skyscrub/skyscrub/internal/weather"
)

const shutdownTimeout = 5 * time.Second

// English is built into the humanizer; CreateHumanizer falls back to it for
// locales without a shipped catalogue.
var humanizeCollection = humanize.MustNew()

// Intents is the slice of the orchestrator the API depends on.
type Intents interface {
	RequestSetLocation(ctx context.Context, location weather.Location) error
	RequestSetTime(ms int64)
	RequestToggleUnits()
	RequestTogglePlay()
	RequestTrackingStart(element string)
	RequestTrackingEnd()
	RequestFetchRadar(ctx context.Context)
	RequestFetchMinutely(ctx context.Context)
}

// Server serves the HTTP API.
type Server struct {
	app       *fiber.App
	store     *store.Store
	intents   Intents
	logger    *logger.Logger
	humanizer *humanize.Humanizer
}

// New initializes and returns a new API server.
func New(intents Intents, snapStore *store.Store, log *logger.Logger, lang language.Tag) *Server {
	s := &Server{
		app: fiber.New(fiber.Config{
			DisableStartupMessage: true,
		}),
		store:     snapStore,
		intents:   intents,
		logger:    log,
		humanizer: humanizeCollection.CreateHumanizer(lang),
	}
	s.registerRoutes()
	return s
}

// Run serves the API on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	go func() {
		<-ctx.Done()
		if err := s.app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			s.logger.Error("failed to shut down API listener", logger.Err(err))
		}
	}()
	return s.app.Listen(addr)
}

// SPDX-FileCopyrightText: The skyscrub authors
//
// SPDX-License-Identifier: MIT

package api

import (
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/skyscrub/skyscrub/internal/weather"
)

var validate = validator.New()

type locationRequest struct {
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
	Name      string  `json:"name"`
}

type timeRequest struct {
	TimeMs int64 `json:"timeMs" validate:"required,gt=0"`
}

type trackingRequest struct {
	Element string `json:"element" validate:"required"`
}

func (s *Server) registerRoutes() {
	v1 := s.app.Group("/api/v1")

	v1.Get("/health", s.handleHealth)
	v1.Get("/snapshot", s.handleSnapshot)
	v1.Get("/intervals", s.handleIntervals)
	v1.Get("/hourly", s.handleHourly)
	v1.Get("/daily", s.handleDaily)

	v1.Post("/location", s.handleSetLocation)
	v1.Post("/time", s.handleSetTime)
	v1.Post("/units/toggle", s.handleToggleUnits)
	v1.Post("/play/toggle", s.handleTogglePlay)
	v1.Post("/tracking/start", s.handleTrackingStart)
	v1.Post("/tracking/end", s.handleTrackingEnd)
	v1.Post("/radar/refresh", s.handleRadarRefresh)
	v1.Post("/minutely/refresh", s.handleMinutelyRefresh)
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	status := fiber.Map{"status": "ok"}
	if snap := s.store.Snapshot(); snap != nil {
		status["snapshotVersion"] = snap.Version
	}
	return c.JSON(status)
}

func (s *Server) handleSnapshot(c *fiber.Ctx) error {
	snap := s.store.Snapshot()
	if snap == nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "no snapshot available yet")
	}

	updatedAgo := ""
	if snap.FetchedAtMs > 0 {
		updatedAgo = s.humanizer.NaturalTime(time.UnixMilli(snap.FetchedAtMs))
	}
	return c.JSON(fiber.Map{
		"snapshot":   snap,
		"tick":       s.store.Tick(),
		"updatedAgo": updatedAgo,
	})
}

func (s *Server) handleIntervals(c *fiber.Ctx) error {
	intervals := s.store.Intervals()
	if intervals == nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "no interval grid available yet")
	}
	return c.JSON(fiber.Map{"intervals": intervals})
}

func (s *Server) handleHourly(c *fiber.Ctx) error {
	atParam := c.Query("at")
	if atParam == "" {
		return fiber.NewError(fiber.StatusBadRequest, "at query parameter is required")
	}
	at, err := strconv.ParseInt(atParam, 10, 64)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "at must be milliseconds since epoch")
	}

	return c.JSON(fiber.Map{
		"atMs":         at,
		"hourly":       s.store.HourlyAt(at),
		"airQuality":   s.store.AirQualityAt(at),
		"minutelyRate": s.store.MinutelyPrecipAt(at),
	})
}

func (s *Server) handleDaily(c *fiber.Ctx) error {
	snap := s.store.Snapshot()
	if snap == nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "no snapshot available yet")
	}
	return c.JSON(fiber.Map{"days": snap.DaySummaries})
}

func (s *Server) handleSetLocation(c *fiber.Ctx) error {
	var req locationRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	location := weather.Location{
		Coordinates: weather.Coordinates{Latitude: req.Latitude, Longitude: req.Longitude},
		Name:        req.Name,
		Source:      weather.SourceSearch,
	}
	if err := s.intents.RequestSetLocation(c.Context(), location); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return c.SendStatus(fiber.StatusAccepted)
}

func (s *Server) handleSetTime(c *fiber.Ctx) error {
	var req timeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	s.intents.RequestSetTime(req.TimeMs)
	return c.SendStatus(fiber.StatusAccepted)
}

func (s *Server) handleToggleUnits(c *fiber.Ctx) error {
	s.intents.RequestToggleUnits()
	return c.SendStatus(fiber.StatusAccepted)
}

func (s *Server) handleTogglePlay(c *fiber.Ctx) error {
	s.intents.RequestTogglePlay()
	return c.SendStatus(fiber.StatusAccepted)
}

func (s *Server) handleTrackingStart(c *fiber.Ctx) error {
	var req trackingRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	s.intents.RequestTrackingStart(req.Element)
	return c.SendStatus(fiber.StatusAccepted)
}

func (s *Server) handleTrackingEnd(c *fiber.Ctx) error {
	s.intents.RequestTrackingEnd()
	return c.SendStatus(fiber.StatusAccepted)
}

func (s *Server) handleRadarRefresh(c *fiber.Ctx) error {
	s.intents.RequestFetchRadar(c.Context())
	return c.SendStatus(fiber.StatusAccepted)
}

func (s *Server) handleMinutelyRefresh(c *fiber.Ctx) error {
	s.intents.RequestFetchMinutely(c.Context())
	return c.SendStatus(fiber.StatusAccepted)
}

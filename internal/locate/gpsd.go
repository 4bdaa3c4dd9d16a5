// SPDX-FileCopyrightText: The skyscrub authors
//
// SPDX-License-Identifier: MIT

package locate

import (
	"context"
	"time"

	"github.com/stratoberry/go-gpsd"

	"github.com/skyscrub/skyscrub/internal/logger"
	"github.com/skyscrub/skyscrub/internal/weather"
)

// gpsdRetryPeriod is the delay between reconnect attempts to gpsd.
const gpsdRetryPeriod = time.Second * 30

// GPSD streams position fixes from a gpsd daemon.
type GPSD struct {
	address string
	logger  *logger.Logger
}

// NewGPSD returns a new GPSD locator for the given "host:port" address.
func NewGPSD(address string, log *logger.Logger) *GPSD {
	return &GPSD{
		address: address,
		logger:  log,
	}
}

// Stream connects to gpsd and emits a fix whenever the position changes,
// reconnecting after connection loss until ctx is cancelled. Reports without
// at least a 2D fix are ignored.
func (g *GPSD) Stream(ctx context.Context) <-chan Fix {
	out := make(chan Fix)

	go func() {
		defer close(out)
		var lastLat, lastLon float64
		var haveFix bool

		for {
			select {
			case <-ctx.Done():
				return
			default:
			}

			session, err := gpsd.Dial(g.address)
			if err != nil {
				g.logger.Error("failed to connect to gpsd", logger.Err(err), "address", g.address)
				select {
				case <-ctx.Done():
					return
				case <-time.After(gpsdRetryPeriod):
					continue
				}
			}

			session.AddFilter("TPV", func(r interface{}) {
				tpv, ok := r.(*gpsd.TPVReport)
				if !ok {
					return
				}
				if tpv.Mode < gpsd.Mode2D {
					return
				}

				lat, lon := truncate(tpv.Lat), truncate(tpv.Lon)
				if haveFix && lat == lastLat && lon == lastLon {
					return
				}
				lastLat, lastLon = lat, lon
				haveFix = true

				fix := Fix{
					Coordinates: weather.Coordinates{Latitude: lat, Longitude: lon},
					Source:      weather.SourceGPS,
				}
				select {
				case <-ctx.Done():
				case out <- fix:
				}
			})

			// Watch returns a channel that closes when the connection ends;
			// go-gpsd has no Close(), teardown happens on process exit.
			done := session.Watch()
			select {
			case <-ctx.Done():
				return
			case <-done:
			}

			select {
			case <-ctx.Done():
				return
			case <-time.After(gpsdRetryPeriod):
			}
		}
	}()

	return out
}

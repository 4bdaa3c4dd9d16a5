// SPDX-FileCopyrightText: The skyscrub authors
//
// SPDX-License-Identifier: MIT

package orchestrator

import (
	"context"
	"time"
)

// FrameRate is the logical frequency of hot-state ticks.
const FrameRate = 15

// frameInterval is the minimum wall time between two emitted ticks.
var frameInterval = time.Second / FrameRate

type frameLoop struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// startLoopLocked starts the frame loop if it is not already running. The
// underlying ticker fires faster than the logical rate; runLoop only advances
// and broadcasts when at least one frame interval of wall time has elapsed,
// decoupling the ticker cadence from the logical tick rate.
func (o *Orchestrator) startLoopLocked() {
	if o.loop != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	loop := &frameLoop{cancel: cancel, done: make(chan struct{})}
	o.loop = loop
	go o.runLoop(ctx, loop)
}

// stopLoopLocked cancels the running frame loop. Cancellation needs no
// rollback: every tick write already left a complete, valid state behind.
func (o *Orchestrator) stopLoopLocked() {
	if o.loop == nil {
		return
	}
	o.loop.cancel()
	o.loop = nil
}

func (o *Orchestrator) runLoop(ctx context.Context, loop *frameLoop) {
	defer close(loop.done)

	ticker := time.NewTicker(frameInterval / 4)
	defer ticker.Stop()

	last := o.now()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			now := o.now()
			elapsed := now.Sub(last)
			if elapsed < frameInterval {
				continue
			}
			last = now
			o.advance(elapsed)
		}
	}
}

// advance applies one logical frame: during playback the scrub position moves
// forward by the elapsed wall time scaled by the playback speed, then a tick
// is broadcast. Overflow handling inside applySetTimeLocked may stop playback,
// in which case the loop shuts down unless tracking keeps it alive.
func (o *Orchestrator) advance(elapsed time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state.Hot.Playing {
		step := int64(float64(elapsed.Milliseconds()) * o.playbackSpeed)
		o.applySetTimeLocked(o.state.Hot.RawTimeMs + step)
	}
	o.publishTickLocked()

	if !o.state.Hot.Playing && !o.state.Hot.Tracking() {
		o.stopLoopLocked()
	}
}

// SPDX-FileCopyrightText: The skyscrub authors
//
// SPDX-License-Identifier: MIT

// Package bus coordinates the publishing and subscribing of core
// notifications between the orchestrator and its consumers. Sends are
// non-blocking: a slow subscriber drops notifications instead of stalling the
// orchestrator, and hot-state ticks always reach subscribers in increasing
// sequence order.
package bus

import (
	"sync"

	"github.com/skyscrub/skyscrub/internal/snapshot"
)

// Kind identifies a notification type. The names are part of the external
// contract and must not change.
type Kind string

const (
	KindSnapshotReady    Kind = "snapshotReady"
	KindFrameTick        Kind = "frameTick"
	KindRadarUpdated     Kind = "radarUpdated"
	KindPlayStateChanged Kind = "playStateChanged"
	KindTrackingChanged  Kind = "trackingChanged"
)

// FrameTick is the hot-state payload broadcast by the frame clock. Seq is
// strictly increasing across the life of the orchestrator.
type FrameTick struct {
	Seq           uint64 `json:"seq"`
	RawTimeMs     int64  `json:"rawTimeMs"`
	DisplayTimeMs int64  `json:"displayTimeMs"`
}

// Notification is one published event. Snapshot is set for snapshotReady and
// radarUpdated; Tick for frameTick; Playing for playStateChanged;
// TrackedElement for trackingChanged.
type Notification struct {
	Kind           Kind
	Snapshot       *snapshot.Snapshot
	Tick           FrameTick
	Playing        bool
	TrackedElement string
}

// Bus fans notifications out to its subscribers.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[chan Notification]struct{}
}

// New initializes and returns a new Bus.
func New() *Bus {
	return &Bus{
		subscribers: make(map[chan Notification]struct{}),
	}
}

// Subscribe adds a subscriber with the given buffer size, returning a
// notification channel and an unsubscribe function.
func (b *Bus) Subscribe(size int) (<-chan Notification, func()) {
	notifyChan := make(chan Notification, size)
	b.mu.Lock()
	b.subscribers[notifyChan] = struct{}{}
	b.mu.Unlock()

	unsub := func() {
		b.mu.Lock()
		delete(b.subscribers, notifyChan)
		b.mu.Unlock()
		close(notifyChan)
	}

	return notifyChan, unsub
}

// Publish broadcasts a notification to all subscribers without blocking.
func (b *Bus) Publish(n Notification) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch := range b.subscribers {
		select {
		case ch <- n:
		default:
		}
	}
}

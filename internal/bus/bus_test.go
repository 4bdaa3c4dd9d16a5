// SPDX-FileCopyrightText: The skyscrub authors
//
// SPDX-License-Identifier: MIT

package bus

import (
	"testing"
)

func TestBus_PublishSubscribe(t *testing.T) {
	t.Run("subscriber receives published notifications", func(t *testing.T) {
		b := New()
		sub, unsub := b.Subscribe(4)
		defer unsub()

		b.Publish(Notification{Kind: KindPlayStateChanged, Playing: true})

		got := <-sub
		if got.Kind != KindPlayStateChanged {
			t.Errorf("expected kind %q, got %q", KindPlayStateChanged, got.Kind)
		}
		if !got.Playing {
			t.Error("expected playing to be true")
		}
	})
	t.Run("unsubscribed channel receives nothing further", func(t *testing.T) {
		b := New()
		sub, unsub := b.Subscribe(4)
		unsub()
		b.Publish(Notification{Kind: KindFrameTick})
		if _, ok := <-sub; ok {
			t.Error("expected closed channel after unsubscribe")
		}
	})
	t.Run("slow subscribers drop instead of blocking", func(t *testing.T) {
		b := New()
		sub, unsub := b.Subscribe(1)
		defer unsub()

		b.Publish(Notification{Kind: KindFrameTick, Tick: FrameTick{Seq: 1}})
		b.Publish(Notification{Kind: KindFrameTick, Tick: FrameTick{Seq: 2}}) // dropped
		b.Publish(Notification{Kind: KindFrameTick, Tick: FrameTick{Seq: 3}}) // dropped

		got := <-sub
		if got.Tick.Seq != 1 {
			t.Errorf("expected first tick to be delivered, got seq %d", got.Tick.Seq)
		}
		select {
		case n := <-sub:
			t.Errorf("expected no further notifications, got %+v", n)
		default:
		}
	})
	t.Run("multiple subscribers all receive", func(t *testing.T) {
		b := New()
		first, unsubFirst := b.Subscribe(1)
		second, unsubSecond := b.Subscribe(1)
		defer unsubFirst()
		defer unsubSecond()

		b.Publish(Notification{Kind: KindTrackingChanged, TrackedElement: "scrubber"})

		for name, ch := range map[string]<-chan Notification{"first": first, "second": second} {
			got := <-ch
			if got.TrackedElement != "scrubber" {
				t.Errorf("expected %s subscriber to receive tracked element, got %q", name, got.TrackedElement)
			}
		}
	})
}

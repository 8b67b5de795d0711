// Copyright 2026 The nJoy Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package mux

import (
	"testing"
	"time"

	"github.com/artesim/njoy"
)

func mustIdentity(t *testing.T, nodeID, deviceID uint8, kind njoy.ControlKind, controlID uint8) njoy.Identity {
	t.Helper()
	return njoy.Identity{NodeID: nodeID, DeviceID: deviceID, Kind: kind, ControlID: controlID}
}

func TestInputMuxDeliversToMatchingSubscriber(t *testing.T) {
	m := NewInputMux()
	id := mustIdentity(t, 0, 0, njoy.AxisKind, 0)
	ch, err := m.Subscribe(id)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	ev := njoy.ControlEvent{Addressed: true, Identity: id, Value: njoy.AxisValue(0.5)}
	if err := m.Publish(ev); err != nil {
		t.Fatalf("publish: %v", err)
	}

	select {
	case got := <-ch:
		if got.Value != ev.Value {
			t.Fatalf("got %+v, want %+v", got.Value, ev.Value)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for delivery")
	}
}

func TestInputMuxDoesNotDeliverToNonMatchingSubscriber(t *testing.T) {
	m := NewInputMux()
	wanted := mustIdentity(t, 0, 0, njoy.AxisKind, 0)
	other := mustIdentity(t, 0, 0, njoy.AxisKind, 1)
	ch, _ := m.Subscribe(wanted)

	ev := njoy.ControlEvent{Addressed: true, Identity: other, Value: njoy.AxisValue(0.5)}
	_ = m.Publish(ev)

	select {
	case got := <-ch:
		t.Fatalf("unexpected delivery: %+v", got)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestInputMuxPreservesPerSourceOrder(t *testing.T) {
	m := NewInputMux()
	id := mustIdentity(t, 0, 0, njoy.ButtonKind, 0)
	ch, _ := m.Subscribe(id)

	values := []bool{true, false, true, false, true}
	for _, v := range values {
		if err := m.Publish(njoy.ControlEvent{Addressed: true, Identity: id, Value: njoy.ButtonValue(v)}); err != nil {
			t.Fatalf("publish: %v", err)
		}
	}

	for i, want := range values {
		select {
		case got := <-ch:
			if got.Value.Button != want {
				t.Fatalf("event %d: got %v, want %v", i, got.Value.Button, want)
			}
		case <-time.After(time.Second):
			t.Fatalf("event %d: timed out", i)
		}
	}
}

func TestInputMuxFansOutToMultipleSubscribers(t *testing.T) {
	m := NewInputMux()
	id := mustIdentity(t, 0, 0, njoy.HatKind, 0)
	ch1, _ := m.Subscribe(id)
	ch2, _ := m.Subscribe(id)

	ev := njoy.ControlEvent{Addressed: true, Identity: id, Value: njoy.HatValueOf(njoy.HatUp)}
	_ = m.Publish(ev)

	for _, ch := range []<-chan njoy.ControlEvent{ch1, ch2} {
		select {
		case got := <-ch:
			if got.Value != ev.Value {
				t.Fatalf("got %+v, want %+v", got.Value, ev.Value)
			}
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for fan-out delivery")
		}
	}
}

func TestInputMuxUnsubscribeStopsDelivery(t *testing.T) {
	m := NewInputMux()
	id := mustIdentity(t, 0, 0, njoy.AxisKind, 0)
	ch, _ := m.Subscribe(id)
	m.Unsubscribe(id, ch)

	_ = m.Publish(njoy.ControlEvent{Addressed: true, Identity: id, Value: njoy.AxisValue(1)})

	if _, ok := <-ch; ok {
		t.Fatal("expected channel to be closed after unsubscribe")
	}
}

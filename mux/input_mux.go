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

// Package mux implements the Input and Output Multiplexers (C3/C4): the
// fan-out/subscribe fabric between input nodes and per-control consumers,
// and the single-in-flight rendezvous between actuators and output nodes.
package mux

import (
	"context"
	"sync"

	"github.com/artesim/njoy"
)

// subChanCap bounds how far a slow subscriber can lag before the Input
// Multiplexer starts dropping its events (§4.3: "no backpressure at this
// layer... events are dropped by the transport's high-water policy").
const subChanCap = 8

// InputMux fans addressed control events out to subscribers filtering by
// identity. One ingress loop per physical input source preserves that
// source's event order; across sources no ordering is promised (§4.3).
type InputMux struct {
	mu   sync.Mutex
	subs map[uint16][]chan njoy.ControlEvent
}

// NewInputMux constructs an empty multiplexer.
func NewInputMux() *InputMux {
	return &InputMux{subs: make(map[uint16][]chan njoy.ControlEvent)}
}

// Subscribe registers interest in events addressed to id, returning a
// channel that receives them. Unsubscribe must be called with the same
// channel when the subscriber is done.
func (m *InputMux) Subscribe(id njoy.Identity) (<-chan njoy.ControlEvent, error) {
	raw, err := njoy.EncodeIdentity(id)
	if err != nil {
		return nil, err
	}
	ch := make(chan njoy.ControlEvent, subChanCap)

	m.mu.Lock()
	m.subs[raw] = append(m.subs[raw], ch)
	m.mu.Unlock()

	return ch, nil
}

// Unsubscribe removes a previously subscribed channel.
func (m *InputMux) Unsubscribe(id njoy.Identity, ch <-chan njoy.ControlEvent) {
	raw, err := njoy.EncodeIdentity(id)
	if err != nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	list := m.subs[raw]
	for i, c := range list {
		if c == ch {
			m.subs[raw] = append(list[:i], list[i+1:]...)
			close(c)
			return
		}
	}
}

// Publish fans ev out to every subscriber whose filter matches ev's
// identity. Delivery to each subscriber is non-blocking: a full channel
// drops the event rather than stalling the source (§4.3).
func (m *InputMux) Publish(ev njoy.ControlEvent) error {
	if !ev.Addressed {
		return njoy.NewDecodeError("input multiplexer requires addressed events", nil)
	}
	raw, err := njoy.EncodeIdentity(ev.Identity)
	if err != nil {
		return err
	}

	m.mu.Lock()
	subs := append([]chan njoy.ControlEvent(nil), m.subs[raw]...)
	m.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- ev:
		default:
		}
	}
	return nil
}

// Ingress drains source in order, publishing each event, until source is
// closed or ctx is cancelled. Call it as its own goroutine per input
// node connection: running N sources concurrently is how the per-source
// ordering guarantee of §4.3 coexists with no cross-source guarantee.
func (m *InputMux) Ingress(ctx context.Context, source <-chan njoy.ControlEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-source:
			if !ok {
				return
			}
			_ = m.Publish(ev)
		}
	}
}

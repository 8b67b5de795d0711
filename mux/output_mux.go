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
	"context"
	"sync"

	"github.com/artesim/njoy"
)

// slot is the one-entry-per-control rendezvous point of §4.4. valueCh has
// capacity 1 so PostValue can "record the value in the table" without
// blocking on the send; doneCh is unbuffered so the actuator only
// unblocks once a node side has actually popped the value. Because each
// control gets its own slot, two distinct controls never block each
// other, and because exactly one actuator drives a given control, a slot
// never needs to hold more than one entry.
type slot struct {
	valueCh chan njoy.ControlEvent
	doneCh  chan struct{}
}

func newSlot() *slot {
	return &slot{
		valueCh: make(chan njoy.ControlEvent, 1),
		doneCh:  make(chan struct{}),
	}
}

// OutputMux rendezvous actuator-side value posts with output-node-side
// ready pulls, one control at a time (§4.4).
type OutputMux struct {
	mu    sync.Mutex
	slots map[uint16]*slot
}

// NewOutputMux constructs an empty multiplexer.
func NewOutputMux() *OutputMux {
	return &OutputMux{slots: make(map[uint16]*slot)}
}

func (m *OutputMux) slotFor(id njoy.Identity) (*slot, error) {
	raw, err := njoy.EncodeIdentity(id)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.slots[raw]
	if !ok {
		s = newSlot()
		m.slots[raw] = s
	}
	return s, nil
}

// PostValue is called by a control's Actuator. It records ev for id and
// blocks until the output-node side has popped it (§4.7 steps 3-4). A
// cancelled ctx drops the in-flight exchange per §5's teardown policy.
func (m *OutputMux) PostValue(ctx context.Context, id njoy.Identity, ev njoy.ControlEvent) error {
	s, err := m.slotFor(id)
	if err != nil {
		return err
	}

	select {
	case s.valueCh <- ev:
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-s.doneCh:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PopValue is called by the output-node side when it is ready for id's
// next value ("posts a ready", §4.4). It blocks until an actuator has
// posted one, then signals that actuator's PostValue to return.
func (m *OutputMux) PopValue(ctx context.Context, id njoy.Identity) (njoy.ControlEvent, error) {
	s, err := m.slotFor(id)
	if err != nil {
		return njoy.ControlEvent{}, err
	}

	select {
	case ev := <-s.valueCh:
		select {
		case s.doneCh <- struct{}{}:
		case <-ctx.Done():
			// The actuator may have already given up; don't leak this
			// goroutine waiting for a receiver that will never arrive.
		}
		return ev, nil
	case <-ctx.Done():
		return njoy.ControlEvent{}, ctx.Err()
	}
}

// Pending reports whether a value is currently queued for id, awaiting a
// node-side pop. It exists for tests asserting the table never holds
// more than one entry per control.
func (m *OutputMux) Pending(id njoy.Identity) bool {
	s, err := m.slotFor(id)
	if err != nil {
		return false
	}
	return len(s.valueCh) > 0
}

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

// Package buffer implements the Input Buffer (C5): one per virtual
// control, it subscribes to the Input Multiplexer's egress for all of a
// virtual control's declared inputs and publishes a snapshot of their
// current values every time any of them changes.
package buffer

import (
	"context"

	"github.com/artesim/njoy"
	"github.com/artesim/njoy/mux"
)

// snapshotQueueCap is the fixed capacity of the output queue (§4.5): "2,
// writes overwrite on overflow (keep most recent)".
const snapshotQueueCap = 2

type tagged struct {
	index int
	value njoy.ControlValue
}

// InputBuffer maintains the latest value of each of a virtual control's
// declared physical or virtual inputs, publishing an ordered snapshot
// (matching the declaration order the Processor expects) whenever any
// input's value changes.
type InputBuffer struct {
	inputs []njoy.Identity
	latest []njoy.ControlValue
	have   []bool
	primed bool

	out  chan []njoy.ControlValue
	fwd  chan tagged
	done chan struct{}
}

// New constructs an InputBuffer over the ordered list of input identities
// that a virtual control's processor expects — the resulting snapshots'
// index i always corresponds to inputs[i].
func New(inputs []njoy.Identity) *InputBuffer {
	return &InputBuffer{
		inputs: append([]njoy.Identity(nil), inputs...),
		latest: make([]njoy.ControlValue, len(inputs)),
		have:   make([]bool, len(inputs)),
		out:    make(chan []njoy.ControlValue, snapshotQueueCap),
		fwd:    make(chan tagged, len(inputs)),
		done:   make(chan struct{}),
	}
}

// Run subscribes to m for every declared input and processes events until
// ctx is cancelled. It owns `latest`/`have` exclusively (§5: "owned by its
// Input Buffer"), so no locking is needed around them.
func (b *InputBuffer) Run(ctx context.Context, m *mux.InputMux) error {
	type subscription struct {
		ch <-chan njoy.ControlEvent
	}
	subs := make([]subscription, len(b.inputs))
	for i, id := range b.inputs {
		ch, err := m.Subscribe(id)
		if err != nil {
			return err
		}
		subs[i] = subscription{ch: ch}
	}
	defer func() {
		for i, id := range b.inputs {
			m.Unsubscribe(id, subs[i].ch)
		}
	}()

	for i, s := range subs {
		go b.forward(ctx, i, s.ch)
	}

	for {
		select {
		case <-ctx.Done():
			close(b.done)
			return nil
		case t := <-b.fwd:
			b.apply(t)
		}
	}
}

func (b *InputBuffer) forward(ctx context.Context, index int, ch <-chan njoy.ControlEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-b.done:
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			select {
			case b.fwd <- tagged{index: index, value: ev.Value}:
			case <-ctx.Done():
				return
			}
		}
	}
}

// apply implements the two phases of §4.5: fill every slot before the
// first snapshot, then publish only on an actual value change.
func (b *InputBuffer) apply(t tagged) {
	if !b.primed {
		b.have[t.index] = true
		b.latest[t.index] = t.value
		for _, h := range b.have {
			if !h {
				return
			}
		}
		b.primed = true
		b.publish()
		return
	}

	if b.latest[t.index] == t.value {
		return
	}
	b.latest[t.index] = t.value
	b.publish()
}

func (b *InputBuffer) publish() {
	snap := append([]njoy.ControlValue(nil), b.latest...)
	select {
	case b.out <- snap:
		return
	default:
	}
	// Queue full: drop the oldest entry to keep the most recent (§4.5).
	select {
	case <-b.out:
	default:
	}
	select {
	case b.out <- snap:
	default:
	}
}

// Pop is a non-blocking poll: it returns ok == false if no snapshot is
// currently queued (§4.5: "absent value returns no update"). The
// Actuator is responsible for sleeping between unsuccessful polls.
func (b *InputBuffer) Pop() (snapshot []njoy.ControlValue, ok bool) {
	select {
	case snap := <-b.out:
		return snap, true
	default:
		return nil, false
	}
}

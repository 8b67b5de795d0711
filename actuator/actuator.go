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

// Package actuator implements the Actuator (C7): the per-virtual-control
// task driving a Processor over its Input Buffer's snapshots and pushing
// the result through the Output Multiplexer's REQ/REP rendezvous.
package actuator

import (
	"context"
	"time"

	"github.com/artesim/njoy"
	"github.com/artesim/njoy/buffer"
	"github.com/artesim/njoy/mux"
)

// pollInterval is the sleep between unsuccessful Input Buffer polls
// (§5: "a sleep used for polling a bounded-size internal queue (~100 µs)").
const pollInterval = 100 * time.Microsecond

// Actuator drives one virtual control's output side.
type Actuator struct {
	identity  njoy.Identity
	processor njoy.Processor
	input     *buffer.InputBuffer
	output    *mux.OutputMux
	observer  func(njoy.ControlEvent)
}

// New constructs an Actuator for a virtual control identified by id,
// reading snapshots from input and posting results to output.
func New(id njoy.Identity, p njoy.Processor, input *buffer.InputBuffer, output *mux.OutputMux) *Actuator {
	return &Actuator{identity: id, processor: p, input: input, output: output}
}

// SetObserver registers fn to be called with every value this actuator
// computes, in addition to posting it to the Output Multiplexer. Used by
// the orchestrator to feed a live monitor without perturbing the REQ/REP
// rendezvous with the real output node. fn must not block.
func (a *Actuator) SetObserver(fn func(njoy.ControlEvent)) {
	a.observer = fn
}

// Run executes the loop of §4.7 until ctx is cancelled.
func (a *Actuator) Run(ctx context.Context) error {
	for {
		snapshot, ok := a.input.Pop()
		if !ok {
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(pollInterval):
				continue
			}
		}

		value := a.processor.Process(snapshot)
		ev := njoy.ControlEvent{Addressed: true, Identity: a.identity, Value: value}
		if a.observer != nil {
			a.observer(ev)
		}
		if err := a.output.PostValue(ctx, a.identity, ev); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
	}
}

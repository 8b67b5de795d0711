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

// Package processor provides the small library of built-in combinators
// (C6) a design may bind to a virtual control, plus a name-keyed registry
// the design parser (C9) resolves processor references against.
package processor

import "github.com/artesim/njoy"

// Passthrough returns its single input unchanged.
func Passthrough() njoy.Processor {
	return njoy.ProcessorFunc(func(inputs []njoy.ControlValue) njoy.ControlValue {
		return inputs[0]
	})
}

// Not negates a single boolean input.
func Not() njoy.Processor {
	return njoy.ProcessorFunc(func(inputs []njoy.ControlValue) njoy.ControlValue {
		return njoy.ButtonValue(!inputs[0].Button)
	})
}

// Any is true if any of its inputs is true.
func Any() njoy.Processor {
	return njoy.ProcessorFunc(func(inputs []njoy.ControlValue) njoy.ControlValue {
		for _, v := range inputs {
			if v.Button {
				return njoy.ButtonValue(true)
			}
		}
		return njoy.ButtonValue(false)
	})
}

// NotAny is true only when every input is false — the same rule as the
// device map's "neither buttons" pseudo-button; a design expresses such a
// pseudo-button as a button bound to not_any.
func NotAny() njoy.Processor {
	return njoy.ProcessorFunc(func(inputs []njoy.ControlValue) njoy.ControlValue {
		for _, v := range inputs {
			if v.Button {
				return njoy.ButtonValue(false)
			}
		}
		return njoy.ButtonValue(true)
	})
}

// Registry resolves a processor name (as written in a design document) to
// a constructor. The core parser never inspects a processor's body — it
// only looks one up by name and calls it (§9 design note).
type Registry struct {
	constructors map[string]func() njoy.Processor
}

// NewRegistry constructs a Registry preloaded with the four built-ins.
func NewRegistry() *Registry {
	r := &Registry{constructors: make(map[string]func() njoy.Processor)}
	r.Register("passthrough", Passthrough)
	r.Register("not", Not)
	r.Register("any", Any)
	r.Register("not_any", NotAny)
	return r
}

// Register adds or replaces the constructor bound to name, so a design
// author can extend the library without the engine knowing its body.
func (r *Registry) Register(name string, ctor func() njoy.Processor) {
	r.constructors[name] = ctor
}

// Lookup resolves name to a fresh Processor instance.
func (r *Registry) Lookup(name string) (njoy.Processor, bool) {
	ctor, ok := r.constructors[name]
	if !ok {
		return nil, false
	}
	return ctor(), true
}

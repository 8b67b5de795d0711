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

package processor

import (
	"testing"

	"github.com/artesim/njoy"
)

func TestPassthrough(t *testing.T) {
	p := Passthrough()
	got := p.Process([]njoy.ControlValue{njoy.AxisValue(0.42)})
	if got != njoy.AxisValue(0.42) {
		t.Fatalf("got %+v, want AxisValue(0.42)", got)
	}
}

func TestNot(t *testing.T) {
	p := Not()
	tests := []struct {
		in   bool
		want bool
	}{
		{true, false},
		{false, true},
	}
	for _, tt := range tests {
		got := p.Process([]njoy.ControlValue{njoy.ButtonValue(tt.in)})
		if got.Button != tt.want {
			t.Fatalf("not(%v) = %v, want %v", tt.in, got.Button, tt.want)
		}
	}
}

func TestAny(t *testing.T) {
	p := Any()
	tests := []struct {
		in   []bool
		want bool
	}{
		{[]bool{false, false}, false},
		{[]bool{true, false}, true},
		{[]bool{false, true}, true},
		{[]bool{true, true}, true},
	}
	for _, tt := range tests {
		in := make([]njoy.ControlValue, len(tt.in))
		for i, b := range tt.in {
			in[i] = njoy.ButtonValue(b)
		}
		got := p.Process(in)
		if got.Button != tt.want {
			t.Fatalf("any(%v) = %v, want %v", tt.in, got.Button, tt.want)
		}
	}
}

func TestNotAnyPseudoButton(t *testing.T) {
	p := NotAny()
	// Mirrors end-to-end scenario 3 of the testable-properties list.
	states := [][2]bool{{false, false}, {true, false}, {false, false}, {false, true}, {false, false}}
	want := []bool{true, false, true, false, true}

	for i, s := range states {
		got := p.Process([]njoy.ControlValue{njoy.ButtonValue(s[0]), njoy.ButtonValue(s[1])})
		if got.Button != want[i] {
			t.Fatalf("state %d %v: got %v, want %v", i, s, got.Button, want[i])
		}
	}
}

func TestRegistryResolvesBuiltins(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{"passthrough", "not", "any", "not_any"} {
		if _, ok := r.Lookup(name); !ok {
			t.Fatalf("expected %q to resolve", name)
		}
	}
	if _, ok := r.Lookup("no-such-processor"); ok {
		t.Fatal("expected unregistered name to fail resolution")
	}
}

func TestRegistryAcceptsCustomProcessors(t *testing.T) {
	r := NewRegistry()
	r.Register("double", func() njoy.Processor {
		return njoy.ProcessorFunc(func(inputs []njoy.ControlValue) njoy.ControlValue {
			return njoy.AxisValue(inputs[0].Axis * 2)
		})
	})

	p, ok := r.Lookup("double")
	if !ok {
		t.Fatal("expected custom processor to resolve")
	}
	got := p.Process([]njoy.ControlValue{njoy.AxisValue(0.25)})
	if got.Axis != 0.5 {
		t.Fatalf("got %v, want 0.5", got.Axis)
	}
}

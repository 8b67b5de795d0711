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

package njoy

import (
	"math"
	"testing"
)

func TestEncodeValueFrameLengths(t *testing.T) {
	tests := []struct {
		name   string
		value  ControlValue
		length int
	}{
		{"ready", ReadyValue(), 0},
		{"axis", AxisValue(0.5), 8},
		{"button", ButtonValue(true), 1},
		{"hat", HatValueOf(HatUp), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame, err := EncodeValueFrame(tt.value)
			if err != nil {
				t.Fatalf("encode: %v", err)
			}
			if len(frame) != tt.length {
				t.Fatalf("got frame length %d, want %d", len(frame), tt.length)
			}
		})
	}
}

func TestValueFrameRoundTrip(t *testing.T) {
	tests := []ControlValue{
		ReadyValue(),
		AxisValue(-1.0),
		AxisValue(0.0),
		AxisValue(1.0),
		AxisValue(0.333333),
		ButtonValue(false),
		ButtonValue(true),
		HatValueOf(HatCenter),
		HatValueOf(HatUp),
		HatValueOf(HatUpRight),
		HatValueOf(HatDownLeft),
	}

	for _, v := range tests {
		frame, err := EncodeValueFrame(v)
		if err != nil {
			t.Fatalf("encode %+v: %v", v, err)
		}
		got, err := DecodeValueFrame(frame)
		if err != nil {
			t.Fatalf("decode %+v: %v", v, err)
		}
		if got != v {
			t.Fatalf("round trip mismatch: got %+v, want %+v", got, v)
		}
	}
}

func TestEncodeValueFrameRejectsNonFinite(t *testing.T) {
	if _, err := EncodeValueFrame(AxisValue(math.NaN())); err == nil {
		t.Fatal("expected error encoding NaN")
	}
	if _, err := EncodeValueFrame(AxisValue(math.Inf(1))); err == nil {
		t.Fatal("expected error encoding +Inf")
	}
}

func TestEncodeValueFrameRejectsInvalidHat(t *testing.T) {
	if _, err := EncodeValueFrame(HatValueOf(HatValue(0xFF))); err == nil {
		t.Fatal("expected error encoding invalid hat value")
	}
}

func TestDecodeValueFrameRejectsMalformed(t *testing.T) {
	tests := []struct {
		name  string
		frame []byte
	}{
		{"wrong length", []byte{0x01, 0x02, 0x03}},
		{"stray button bits", []byte{0x7E}},
		{"stray hat bits", []byte{0xF0}},
		{"invalid hat enum", []byte{0x8F}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeValueFrame(tt.frame); err == nil {
				t.Fatalf("expected error decoding %v", tt.frame)
			}
		})
	}
}

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
	"encoding/binary"
	"math"
)

// ControlValue is the decoded payload of a value frame (§4.1): a ready
// token, or a kind-tagged value. Exactly one of the Axis/Button/Hat
// fields is meaningful, selected by Kind, unless Ready is set.
type ControlValue struct {
	Ready  bool
	Kind   ControlKind
	Axis   float64
	Button bool
	Hat    HatValue
}

// ReadyValue builds the content-free handshake token used by the Output
// Multiplexer rendezvous (§4.4).
func ReadyValue() ControlValue {
	return ControlValue{Ready: true}
}

// AxisValue builds an axis value frame payload.
func AxisValue(v float64) ControlValue {
	return ControlValue{Kind: AxisKind, Axis: v}
}

// ButtonValue builds a button value frame payload.
func ButtonValue(v bool) ControlValue {
	return ControlValue{Kind: ButtonKind, Button: v}
}

// HatValueOf builds a hat value frame payload.
func HatValueOf(v HatValue) ControlValue {
	return ControlValue{Kind: HatKind, Hat: v}
}

// EncodeValueFrame encodes v per the length/encoding table of §4.1:
//
//	Ready  0 bytes  empty frame
//	Axis   8 bytes  IEEE-754 double, big-endian
//	Button 1 byte   0000000v, MSB MUST be 0
//	Hat    1 byte   1000vvvv, MSB MUST be 1, low nibble the hat enum
func EncodeValueFrame(v ControlValue) ([]byte, error) {
	if v.Ready {
		return []byte{}, nil
	}
	switch v.Kind {
	case AxisKind:
		if math.IsNaN(v.Axis) || math.IsInf(v.Axis, 0) {
			return nil, NewDecodeError("axis value is NaN or infinite", nil)
		}
		buf := make([]byte, 8)
		binary.BigEndian.PutUint64(buf, math.Float64bits(v.Axis))
		return buf, nil
	case ButtonKind:
		if v.Button {
			return []byte{0x01}, nil
		}
		return []byte{0x00}, nil
	case HatKind:
		if !v.Hat.IsValid() {
			return nil, NewDecodeError("hat value is not one of the nine enumerated directions", nil)
		}
		return []byte{0x80 | byte(v.Hat)}, nil
	default:
		return nil, NewDecodeError("unknown control kind", nil)
	}
}

// DecodeValueFrame decodes a value frame, rejecting any encoding that
// does not exactly match §4.1's length/MSB rules.
func DecodeValueFrame(frame []byte) (ControlValue, error) {
	switch len(frame) {
	case 0:
		return ReadyValue(), nil
	case 8:
		bits := binary.BigEndian.Uint64(frame)
		f := math.Float64frombits(bits)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return ControlValue{}, NewDecodeError("decoded axis value is NaN or infinite", frame)
		}
		return AxisValue(f), nil
	case 1:
		b := frame[0]
		if b&0x80 == 0 {
			// Button: "0000000v" - every bit but the low one must be 0.
			if b&0x7E != 0 {
				return ControlValue{}, NewDecodeError("malformed button frame: stray bits set", frame)
			}
			return ButtonValue(b&0x01 != 0), nil
		}
		// Hat: "1000vvvv" - bits 6..4 must be 0.
		if b&0x70 != 0 {
			return ControlValue{}, NewDecodeError("malformed hat frame: bits 6..4 must be zero", frame)
		}
		hv := HatValue(b & 0x0F)
		if !hv.IsValid() {
			return ControlValue{}, NewDecodeError("hat value is not one of the nine enumerated directions", frame)
		}
		return HatValueOf(hv), nil
	default:
		return ControlValue{}, NewDecodeError("value frame has an unsupported length", frame)
	}
}

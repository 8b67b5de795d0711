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

import "fmt"

// NodeKind distinguishes the two disjoint node families. It is never
// carried on the wire (the identity frame only needs node.id/device.id/
// control kind+id, §4.1): which multiplexer a message arrives on already
// tells the engine whether it concerns an InputNode or an OutputNode.
type NodeKind uint8

const (
	InputNodeKind NodeKind = iota
	OutputNodeKind
)

func (k NodeKind) String() string {
	switch k {
	case InputNodeKind:
		return "input"
	case OutputNodeKind:
		return "output"
	default:
		return fmt.Sprintf("NodeKind(%d)", uint8(k))
	}
}

// ControlKind is the tagged-variant discriminator replacing the source's
// dynamic dispatch over control types (§9 design note): the wire codec and
// the processor library switch on it explicitly.
type ControlKind uint8

const (
	AxisKind ControlKind = iota
	ButtonKind
	HatKind
)

func (k ControlKind) String() string {
	switch k {
	case AxisKind:
		return "axis"
	case ButtonKind:
		return "button"
	case HatKind:
		return "hat"
	default:
		return fmt.Sprintf("ControlKind(%d)", uint8(k))
	}
}

// Per-kind capacity constants (§3: "fixed per-container capacities").
const (
	MaxNodesPerKind     = 16
	MaxDevicesPerNode   = 16
	MaxAxesPerDevice    = 8
	MaxButtonsPerDevice = 128
	MaxHatsPerDevice    = 4
)

// Capacity returns the fixed table size for controls of kind k on a
// device.
func (k ControlKind) Capacity() int {
	switch k {
	case AxisKind:
		return MaxAxesPerDevice
	case ButtonKind:
		return MaxButtonsPerDevice
	case HatKind:
		return MaxHatsPerDevice
	default:
		return 0
	}
}

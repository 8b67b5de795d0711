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

import "sync"

// DeviceKind distinguishes the two device families (§3).
type DeviceKind uint8

const (
	PhysicalDeviceKind DeviceKind = iota
	VirtualDeviceKind
)

// Device is a logical joystick attached to a node: three fixed-size
// control tables (axes, buttons, hats), plus — for a PhysicalDevice —
// the alias/guid/name identifiers used only during design parsing and
// handshake (§3).
type Device struct {
	kind DeviceKind

	mu       sync.Mutex
	node     *Node
	id       uint8
	assigned bool

	axes    *controlTable
	buttons *controlTable
	hats    *controlTable

	// PhysicalDevice-only.
	alias string
	guid  string
	name  string
}

func newDevice(kind DeviceKind) *Device {
	return &Device{
		kind:    kind,
		axes:    newControlTable(AxisKind),
		buttons: newControlTable(ButtonKind),
		hats:    newControlTable(HatKind),
	}
}

// Kind returns whether this is a PhysicalDevice or a VirtualDevice.
func (d *Device) Kind() DeviceKind { return d.kind }

// Alias returns the design-time identifier. Only meaningful for a
// PhysicalDevice.
func (d *Device) Alias() string { return d.alias }

// Guid returns the OS-level stable identifier. Only meaningful for a
// PhysicalDevice.
func (d *Device) Guid() string { return d.guid }

// Name returns the human name. Only meaningful for a PhysicalDevice.
func (d *Device) Name() string { return d.name }

// Node returns the owning node, or nil if the device is not yet assigned
// (only possible for a PhysicalDevice between parse time and handshake).
func (d *Device) Node() *Node {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.node
}

// ID returns the device's id within its node, and whether it has been
// assigned one yet.
func (d *Device) ID() (uint8, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.id, d.assigned
}

// assign binds the device to a node and id. It is only called by
// Node.Append, which owns id allocation.
func (d *Device) assign(n *Node, id uint8) {
	d.mu.Lock()
	d.node = n
	d.id = id
	d.assigned = true
	d.mu.Unlock()
}

func (d *Device) table(kind ControlKind) *controlTable {
	switch kind {
	case AxisKind:
		return d.axes
	case ButtonKind:
		return d.buttons
	default:
		return d.hats
	}
}

// registerControl is the shared implementation behind Axis/Button/Hat.new
// (§4.2): a nil id allocates the next free slot, a given id registers
// idempotently if the occupant is a physical control, or fails with
// ErrDeviceRegisterControl otherwise. Constructing a virtual control
// (processor != nil) on a PhysicalDevice, or a purely-physical control on
// a VirtualDevice missing a processor, is rejected by the caller-level
// Axis/Button/Hat.New helpers, not here — this method only enforces the
// per-table capacity/collision invariant.
func (d *Device) registerControl(kind ControlKind, id *uint8, processor Processor, inputs []*Control) (*Control, error) {
	physical := processor == nil
	return d.table(kind).register(d, id, physical, processor, inputs)
}

// Control looks up a control by kind and id.
func (d *Device) Control(kind ControlKind, id uint8) (*Control, bool) {
	return d.table(kind).get(id)
}

// Controls returns every control of kind currently registered on d.
func (d *Device) Controls(kind ControlKind) []*Control {
	return d.table(kind).all()
}

// NewAxis registers an axis control (§4.2 Axis.new). id == nil allocates
// the next free slot. processor == nil constructs a physical-role
// control; non-nil constructs a virtual-role control driven by inputs.
func (d *Device) NewAxis(id *uint8, processor Processor, inputs []*Control) (*Control, error) {
	return d.newControl(AxisKind, id, processor, inputs)
}

// NewButton registers a button control (§4.2 Button.new).
func (d *Device) NewButton(id *uint8, processor Processor, inputs []*Control) (*Control, error) {
	return d.newControl(ButtonKind, id, processor, inputs)
}

// NewHat registers a hat control (§4.2 Hat.new).
func (d *Device) NewHat(id *uint8, processor Processor, inputs []*Control) (*Control, error) {
	return d.newControl(HatKind, id, processor, inputs)
}

func (d *Device) newControl(kind ControlKind, id *uint8, processor Processor, inputs []*Control) (*Control, error) {
	if d.kind == VirtualDeviceKind && processor == nil {
		return nil, ErrInvalidParams
	}
	if d.kind == PhysicalDeviceKind && processor != nil {
		return nil, ErrInvalidParams
	}
	return d.registerControl(kind, id, processor, inputs)
}

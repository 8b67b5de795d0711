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

// Node is a remote endpoint of one kind (input or output) identified by
// a 4-bit id within its kind, holding up to MaxDevicesPerNode devices
// (§3, §4.2).
type Node struct {
	kind NodeKind
	id   uint8

	mu      sync.Mutex
	devices map[uint8]*Device
}

func newNode(kind NodeKind, id uint8) *Node {
	return &Node{kind: kind, id: id, devices: make(map[uint8]*Device)}
}

// Kind returns whether this is an input or an output node.
func (n *Node) Kind() NodeKind { return n.kind }

// ID returns the node's id, unique within its kind.
func (n *Node) ID() uint8 { return n.id }

// Append attaches device to the node at the next free device id,
// enforcing the MaxDevicesPerNode capacity (§3 invariant: "A Node holds
// at most MaxDevicesPerNode devices").
func (n *Node) Append(device *Device) (uint8, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if len(n.devices) >= MaxDevicesPerNode {
		return 0, ErrNodeDeviceOverflow
	}
	var id uint8
	found := false
	for i := 0; i < MaxDevicesPerNode; i++ {
		if _, ok := n.devices[uint8(i)]; !ok {
			id = uint8(i)
			found = true
			break
		}
	}
	if !found {
		return 0, ErrNodeDeviceOverflow
	}

	n.devices[id] = device
	device.assign(n, id)
	return id, nil
}

// Device looks up a device by id.
func (n *Node) Device(id uint8) (*Device, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	d, ok := n.devices[id]
	return d, ok
}

// Devices returns every device currently attached to the node.
func (n *Node) Devices() []*Device {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]*Device, 0, len(n.devices))
	for _, d := range n.devices {
		out = append(out, d)
	}
	return out
}

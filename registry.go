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

// NodeRegistry replaces the source's metaclass-driven auto-registration
// of node classes (§9 design note) with an explicit constructor object:
// callers obtain nodes only through NewInputNode/NewOutputNode, and look
// them up only through Lookup.
type NodeRegistry struct {
	mu    sync.Mutex
	input map[uint8]*Node
	out   map[uint8]*Node
}

// NewNodeRegistry constructs an empty registry.
func NewNodeRegistry() *NodeRegistry {
	return &NodeRegistry{input: make(map[uint8]*Node), out: make(map[uint8]*Node)}
}

func (r *NodeRegistry) table(kind NodeKind) map[uint8]*Node {
	if kind == InputNodeKind {
		return r.input
	}
	return r.out
}

func (r *NodeRegistry) newNode(kind NodeKind) (*Node, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t := r.table(kind)
	if len(t) >= MaxNodesPerKind {
		return nil, ErrNodeOverflow
	}
	var id uint8
	found := false
	for i := 0; i < MaxNodesPerKind; i++ {
		if _, ok := t[uint8(i)]; !ok {
			id = uint8(i)
			found = true
			break
		}
	}
	if !found {
		return nil, ErrNodeOverflow
	}

	n := newNode(kind, id)
	t[id] = n
	return n, nil
}

// NewInputNode allocates a fresh InputNode at the next free id.
func (r *NodeRegistry) NewInputNode() (*Node, error) {
	return r.newNode(InputNodeKind)
}

// NewOutputNode allocates a fresh OutputNode at the next free id.
func (r *NodeRegistry) NewOutputNode() (*Node, error) {
	return r.newNode(OutputNodeKind)
}

// Lookup finds a node by kind and id.
func (r *NodeRegistry) Lookup(kind NodeKind, id uint8) (*Node, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.table(kind)[id]
	if !ok {
		return nil, ErrNodeNotFound
	}
	return n, nil
}

// Nodes returns every node of kind currently registered.
func (r *NodeRegistry) Nodes(kind NodeKind) []*Node {
	r.mu.Lock()
	defer r.mu.Unlock()
	t := r.table(kind)
	out := make([]*Node, 0, len(t))
	for _, n := range t {
		out = append(out, n)
	}
	return out
}

// DeviceRegistry indexes PhysicalDevices by the three identifiers a
// design document may use to name one (§4.2): alias (design-local),
// guid (OS-stable) and name (human, ambiguous across multiple attached
// controllers of the same model). VirtualDevices are not indexed here:
// nothing outside the design graph ever looks one up by name.
type DeviceRegistry struct {
	mu      sync.Mutex
	byAlias map[string]*Device
	byGuid  map[string]*Device
	byName  map[string][]*Device
}

// NewDeviceRegistry constructs an empty registry.
func NewDeviceRegistry() *DeviceRegistry {
	return &DeviceRegistry{
		byAlias: make(map[string]*Device),
		byGuid:  make(map[string]*Device),
		byName:  make(map[string][]*Device),
	}
}

// NewPhysicalDevice registers a new PhysicalDevice under the given alias
// and at least one of guid/name (§4.2: "requires alias and at least one
// of guid/name"), failing with ErrDuplicateAlias or ErrDuplicateGuid if
// either identifier is already in use, or ErrAmbiguousName if name
// collides with an existing device and either the new entry or an existing
// one lacks a guid to tell them apart (§3: "Ambiguity checks fire at
// insertion time, not lookup time").
func (r *DeviceRegistry) NewPhysicalDevice(alias, guid, name string) (*Device, error) {
	if alias == "" || (guid == "" && name == "") {
		return nil, ErrInvalidParams
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byAlias[alias]; ok {
		return nil, ErrDuplicateAlias
	}
	if guid != "" {
		if _, ok := r.byGuid[guid]; ok {
			return nil, ErrDuplicateGuid
		}
	}
	if name != "" {
		existing := r.byName[name]
		ambiguous := guid == ""
		for _, d := range existing {
			if d.guid == "" {
				ambiguous = true
			}
		}
		if len(existing) > 0 && ambiguous {
			return nil, ErrAmbiguousName
		}
	}

	d := newDevice(PhysicalDeviceKind)
	d.alias = alias
	d.guid = guid
	d.name = name

	r.byAlias[alias] = d
	if guid != "" {
		r.byGuid[guid] = d
	}
	if name != "" {
		r.byName[name] = append(r.byName[name], d)
	}
	return d, nil
}

// NewVirtualDevice constructs an unregistered VirtualDevice: virtual
// devices have no alias/guid/name and are never looked up by this
// registry, only by the design graph that built them.
func (r *DeviceRegistry) NewVirtualDevice() *Device {
	return newDevice(VirtualDeviceKind)
}

// FindByAlias looks up a PhysicalDevice by its design-local alias.
func (r *DeviceRegistry) FindByAlias(alias string) (*Device, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.byAlias[alias]
	if !ok {
		return nil, ErrDeviceNotFound
	}
	return d, nil
}

// FindByGuid looks up a PhysicalDevice by its OS-stable guid.
func (r *DeviceRegistry) FindByGuid(guid string) (*Device, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.byGuid[guid]
	if !ok {
		return nil, ErrDeviceNotFound
	}
	return d, nil
}

// FindByName looks up a PhysicalDevice by its human name, failing with
// ErrAmbiguousName if more than one attached device shares it (§4.2).
func (r *DeviceRegistry) FindByName(name string) (*Device, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ds, ok := r.byName[name]
	if !ok || len(ds) == 0 {
		return nil, ErrDeviceNotFound
	}
	if len(ds) > 1 {
		return nil, ErrAmbiguousName
	}
	return ds[0], nil
}

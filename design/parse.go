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

package design

import (
	"fmt"
	"io"

	"github.com/alecthomas/participle"

	"github.com/artesim/njoy"
)

var designParser = participle.MustBuild(&designDocument{})

// InputSpec names one declared input of a virtual control by the alias
// of the device it lives on and its control id, sharing the owning
// virtual control's kind (axis inputs feed axis controls, and so on).
type InputSpec struct {
	DeviceAlias string
	ControlID   uint8
}

// VirtualControlSpec is a fully resolved virtual control declaration:
// its alias (auto-generated if the document didn't name one, so other
// virtual controls can still reference it as an input), kind, resolved
// Processor, and ordered inputs.
type VirtualControlSpec struct {
	Alias     string
	Kind      njoy.ControlKind
	Processor njoy.Processor
	Inputs    []InputSpec
}

// Design is the result of parsing a design document (§3 "Design"): the
// set of referenced physical device descriptors plus the ordered list of
// virtual controls the core must instantiate.
type Design struct {
	Name            string
	Devices         *njoy.DeviceRegistry
	PhysicalAliases []string
	Controls        []VirtualControlSpec
}

// processorLookup resolves a processor name to an instance; satisfied by
// *processor.Registry without design importing that package (which would
// otherwise create an import cycle, since processor has no need to know
// about design).
type processorLookup interface {
	Lookup(name string) (njoy.Processor, bool)
}

// ParseDesign reads, charset-decodes and parses a design document,
// constructing its physical device descriptors and resolving its virtual
// control declarations against procs. It rejects a cyclic input graph
// (§3 invariant 2) before returning.
func ParseDesign(r io.Reader, procs processorLookup) (*Design, error) {
	decoded, err := decodingReader(r)
	if err != nil {
		return nil, err
	}

	var doc designDocument
	if err := designParser.Parse(decoded, &doc); err != nil {
		return nil, fmt.Errorf("njoy: design parse error: %w", err)
	}

	var deviceDecls []*deviceDecl
	var controlDecls []*virtualCtrlDecl
	for _, s := range doc.Statements {
		switch {
		case s.Device != nil:
			deviceDecls = append(deviceDecls, s.Device)
		case s.Control != nil:
			controlDecls = append(controlDecls, s.Control)
		}
	}

	devices := njoy.NewDeviceRegistry()
	aliases := make([]string, 0, len(deviceDecls))
	for _, d := range deviceDecls {
		guid, name := "", ""
		if d.Guid != nil {
			guid = *d.Guid
		}
		if d.Name != nil {
			name = *d.Name
		}
		if _, err := devices.NewPhysicalDevice(d.Alias, guid, name); err != nil {
			return nil, fmt.Errorf("njoy: device alias %q: %w", d.Alias, err)
		}
		aliases = append(aliases, d.Alias)
	}

	controls := make([]VirtualControlSpec, 0, len(controlDecls))
	aliasSeen := make(map[string]bool)
	for i, c := range controlDecls {
		kind, err := parseControlKind(c.Kind)
		if err != nil {
			return nil, err
		}
		proc, ok := procs.Lookup(c.Processor)
		if !ok {
			return nil, fmt.Errorf("njoy: unknown processor %q", c.Processor)
		}

		alias := fmt.Sprintf("vctrl_%d", i)
		if c.Alias != nil {
			alias = *c.Alias
		}
		if aliasSeen[alias] {
			return nil, njoy.ErrDuplicateAlias
		}
		aliasSeen[alias] = true

		inputs := make([]InputSpec, 0, len(c.Inputs))
		for _, in := range c.Inputs {
			if in.Ctrl < 0 {
				return nil, fmt.Errorf("njoy: negative control id in input reference to %q", in.Device)
			}
			inputs = append(inputs, InputSpec{DeviceAlias: in.Device, ControlID: uint8(in.Ctrl)})
		}

		controls = append(controls, VirtualControlSpec{
			Alias:     alias,
			Kind:      kind,
			Processor: proc,
			Inputs:    inputs,
		})
	}

	if err := checkDesignAcyclic(controls); err != nil {
		return nil, err
	}

	return &Design{Name: doc.Name, Devices: devices, PhysicalAliases: aliases, Controls: controls}, nil
}

// checkDesignAcyclic builds the DAG over virtual-control aliases (edges
// to inputs that are themselves virtual controls; physical device
// aliases are leaves and can't introduce a cycle) and runs the DFS check.
func checkDesignAcyclic(controls []VirtualControlSpec) error {
	virtualAliases := make(map[string]bool, len(controls))
	for _, c := range controls {
		virtualAliases[c.Alias] = true
	}

	nodes := make([]dagNode, 0, len(controls))
	for _, c := range controls {
		var inputs []string
		for _, in := range c.Inputs {
			if virtualAliases[in.DeviceAlias] {
				inputs = append(inputs, in.DeviceAlias)
			}
		}
		nodes = append(nodes, dagNode{name: c.Alias, inputs: inputs})
	}
	return checkAcyclic(nodes)
}

func parseControlKind(s string) (njoy.ControlKind, error) {
	switch s {
	case "axis":
		return njoy.AxisKind, nil
	case "button":
		return njoy.ButtonKind, nil
	case "hat":
		return njoy.HatKind, nil
	default:
		return 0, fmt.Errorf("njoy: unknown control kind %q", s)
	}
}

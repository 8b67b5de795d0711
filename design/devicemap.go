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

var deviceMapParser = participle.MustBuild(&deviceMapDocument{})

// neitherEntry is one "neither buttons ... => alias" pseudo-button rule:
// the named aliases read as "pressed" exactly when every raw button id
// listed is off.
type neitherEntry struct {
	RawButtonIDs []uint8
	Aliases      []string
}

// DeviceMap is the parsed, semantically resolved form of a device map
// document (§6): a rewrite of one physical device's raw control ids into
// the aliases a design document declares as that device's inputs.
type DeviceMap struct {
	DeviceName string
	Axes       map[uint8][]string
	Buttons    map[uint8][]string
	Hats       map[uint8]map[njoy.HatValue][]string
	Neither    []neitherEntry
}

// AliasesForAxis returns the declared aliases for a raw axis id, if any.
func (m *DeviceMap) AliasesForAxis(id uint8) ([]string, bool) {
	a, ok := m.Axes[id]
	return a, ok
}

// AliasesForButton returns the declared aliases for a raw button id, if
// any.
func (m *DeviceMap) AliasesForButton(id uint8) ([]string, bool) {
	a, ok := m.Buttons[id]
	return a, ok
}

// AliasesForHat returns the declared aliases for a raw hat id and
// direction, if any.
func (m *DeviceMap) AliasesForHat(id uint8, dir njoy.HatValue) ([]string, bool) {
	byDir, ok := m.Hats[id]
	if !ok {
		return nil, false
	}
	a, ok := byDir[dir]
	return a, ok
}

// ParseDeviceMap reads, charset-decodes and parses a device map document.
func ParseDeviceMap(r io.Reader) (*DeviceMap, error) {
	decoded, err := decodingReader(r)
	if err != nil {
		return nil, err
	}

	var doc deviceMapDocument
	if err := deviceMapParser.Parse(decoded, &doc); err != nil {
		return nil, fmt.Errorf("njoy: device map parse error: %w", err)
	}

	m := &DeviceMap{
		DeviceName: doc.DeviceName,
		Axes:       make(map[uint8][]string),
		Buttons:    make(map[uint8][]string),
		Hats:       make(map[uint8]map[njoy.HatValue][]string),
	}

	for _, e := range doc.Entries {
		switch {
		case e.Axis != nil:
			id, err := toControlID(e.Axis.ID)
			if err != nil {
				return nil, err
			}
			m.Axes[id] = append(m.Axes[id], e.Axis.Aliases...)
		case e.Button != nil:
			id, err := toControlID(e.Button.ID)
			if err != nil {
				return nil, err
			}
			m.Buttons[id] = append(m.Buttons[id], e.Button.Aliases...)
		case e.Hat != nil:
			id, err := toControlID(e.Hat.ID)
			if err != nil {
				return nil, err
			}
			dir, ok := njoy.HatDirectionByName(e.Hat.Direction)
			if !ok {
				return nil, fmt.Errorf("njoy: unknown hat direction %q", e.Hat.Direction)
			}
			if m.Hats[id] == nil {
				m.Hats[id] = make(map[njoy.HatValue][]string)
			}
			m.Hats[id][dir] = append(m.Hats[id][dir], e.Hat.Aliases...)
		case e.Neither != nil:
			ids := make([]uint8, 0, len(e.Neither.IDs))
			for _, raw := range e.Neither.IDs {
				id, err := toControlID(raw)
				if err != nil {
					return nil, err
				}
				ids = append(ids, id)
			}
			m.Neither = append(m.Neither, neitherEntry{RawButtonIDs: ids, Aliases: e.Neither.Aliases})
		default:
			return nil, fmt.Errorf("njoy: empty device map entry")
		}
	}

	return m, nil
}

func toControlID(raw int) (uint8, error) {
	if raw < 0 || raw > 255 {
		return 0, fmt.Errorf("njoy: control id %d out of range", raw)
	}
	return uint8(raw), nil
}

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

package core

import (
	"fmt"

	"github.com/artesim/njoy"
)

// unmatchedDeviceID marks a register announcement the core could not
// match against the design's physical device descriptors (§4.8: "unmatched
// announcements are silently dropped").
const unmatchedDeviceID = 0xFF

// deviceAnnounce is one entry of a register request: the (guid, name)
// pair an input node reports for one of its attached physical devices.
type deviceAnnounce struct {
	Guid string
	Name string
}

// encodeRegister builds the register message frames: two frames per
// announced device, [guid, name].
func encodeRegister(devices []deviceAnnounce) njoy.Message {
	args := make([][]byte, 0, 2*len(devices))
	for _, d := range devices {
		args = append(args, []byte(d.Guid), []byte(d.Name))
	}
	return njoy.Message{Command: njoy.CmdRegister, Args: args}
}

// decodeRegister parses a register message's announce list.
func decodeRegister(m njoy.Message) ([]deviceAnnounce, error) {
	if len(m.Args)%2 != 0 {
		return nil, fmt.Errorf("njoy: register message has an odd frame count")
	}
	out := make([]deviceAnnounce, 0, len(m.Args)/2)
	for i := 0; i < len(m.Args); i += 2 {
		out = append(out, deviceAnnounce{Guid: string(m.Args[i]), Name: string(m.Args[i+1])})
	}
	return out, nil
}

// encodeRegistered builds the registered reply: a leading node-id frame,
// then one frame per announced device in request order — the assigned
// device id, or unmatchedDeviceID if the core dropped that announcement.
func encodeRegistered(nodeID uint8, assigned []uint8) njoy.Message {
	args := make([][]byte, 0, 1+len(assigned))
	args = append(args, []byte{nodeID})
	for _, id := range assigned {
		args = append(args, []byte{id})
	}
	return njoy.Message{Command: njoy.CmdRegistered, Args: args}
}

// decodeRegistered parses a registered reply.
func decodeRegistered(m njoy.Message) (nodeID uint8, assigned []uint8, err error) {
	if len(m.Args) == 0 {
		return 0, nil, fmt.Errorf("njoy: registered message missing node id frame")
	}
	if len(m.Args[0]) != 1 {
		return 0, nil, fmt.Errorf("njoy: registered node id frame must be 1 byte")
	}
	nodeID = m.Args[0][0]
	assigned = make([]uint8, 0, len(m.Args)-1)
	for _, f := range m.Args[1:] {
		if len(f) != 1 {
			return 0, nil, fmt.Errorf("njoy: registered assignment frame must be 1 byte")
		}
		assigned = append(assigned, f[0])
	}
	return nodeID, assigned, nil
}

// deviceCaps is one entry of a capabilities request: an output node's
// local reference for one attached virtual joystick device, and how many
// axes/buttons/hats it can drive.
type deviceCaps struct {
	LocalID     uint8
	MaxAxes     uint8
	MaxButtons  uint8
	MaxHats     uint8
}

// encodeCapabilities builds the capabilities message: one 4-byte frame
// per device, [local_id, max_axes, max_buttons, max_hats].
func encodeCapabilities(caps []deviceCaps) njoy.Message {
	args := make([][]byte, 0, len(caps))
	for _, c := range caps {
		args = append(args, []byte{c.LocalID, c.MaxAxes, c.MaxButtons, c.MaxHats})
	}
	return njoy.Message{Command: njoy.CmdCapabilities, Args: args}
}

// decodeCapabilities parses a capabilities request.
func decodeCapabilities(m njoy.Message) ([]deviceCaps, error) {
	out := make([]deviceCaps, 0, len(m.Args))
	for _, f := range m.Args {
		if len(f) != 4 {
			return nil, fmt.Errorf("njoy: capabilities frame must be 4 bytes")
		}
		out = append(out, deviceCaps{LocalID: f[0], MaxAxes: f[1], MaxButtons: f[2], MaxHats: f[3]})
	}
	return out, nil
}

// deviceAssignment reports, for one output device in capabilities-request
// order, how many axes/buttons/hats the core actually populated. The
// output node derives every assigned control's wire Identity itself from
// (node id, its position among the devices it attached, kind, an index
// under these counts) — nothing else needs to travel after handshake
// (§4.1's identity is purely structural).
type deviceAssignment struct {
	Axes    uint8
	Buttons uint8
	Hats    uint8
}

// encodeAssignments builds the assignments reply: a leading node-id
// frame, then one 3-byte frame per device, [axes, buttons, hats].
func encodeAssignments(nodeID uint8, counts []deviceAssignment) njoy.Message {
	args := make([][]byte, 0, 1+len(counts))
	args = append(args, []byte{nodeID})
	for _, c := range counts {
		args = append(args, []byte{c.Axes, c.Buttons, c.Hats})
	}
	return njoy.Message{Command: njoy.CmdAssignments, Args: args}
}

// decodeAssignments parses an assignments reply.
func decodeAssignments(m njoy.Message) (nodeID uint8, counts []deviceAssignment, err error) {
	if len(m.Args) == 0 {
		return 0, nil, fmt.Errorf("njoy: assignments message missing node id frame")
	}
	if len(m.Args[0]) != 1 {
		return 0, nil, fmt.Errorf("njoy: assignments node id frame must be 1 byte")
	}
	nodeID = m.Args[0][0]
	counts = make([]deviceAssignment, 0, len(m.Args)-1)
	for _, f := range m.Args[1:] {
		if len(f) != 3 {
			return 0, nil, fmt.Errorf("njoy: assignment frame must be 3 bytes")
		}
		counts = append(counts, deviceAssignment{Axes: f[0], Buttons: f[1], Hats: f[2]})
	}
	return nodeID, counts, nil
}

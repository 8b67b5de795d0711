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

// Package mock simulates input and output node peers for testing the core
// orchestrator and the data plane end to end, without a real HID adapter or
// output driver on the other end of the wire. As this package exists only
// to support tests, it carries no stability promise.
package mock

import (
	"fmt"
	"net"
	"sync"

	"github.com/artesim/njoy"
)

// Device describes one physical device a simulated input node announces
// during handshake.
type Device struct {
	Guid string
	Name string
}

// InputNode simulates a physical input node: it dials the core, registers
// its devices, and then lets the test push raw control values that it
// addresses and streams over the wire exactly as a real adapter would.
type InputNode struct {
	conn      net.Conn
	transport njoy.FrameTransport

	nodeID   uint8
	assigned []uint8 // per announced device, in announce order
}

// DialInputNode connects to addr, sends a register request for devices,
// and waits for the registered reply.
func DialInputNode(addr string, devices []Device) (*InputNode, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("mock: dial input node: %w", err)
	}
	t := njoy.NewTCPTransport(conn)

	args := make([][]byte, 0, 2*len(devices))
	for _, d := range devices {
		args = append(args, []byte(d.Guid), []byte(d.Name))
	}
	if err := njoy.SendMessage(t, njoy.Message{Command: njoy.CmdRegister, Args: args}); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("mock: send register: %w", err)
	}

	reply, err := njoy.RecvMessage(t)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("mock: recv registered: %w", err)
	}
	if len(reply.Args) == 0 {
		_ = conn.Close()
		return nil, fmt.Errorf("mock: registered reply missing node id")
	}
	nodeID := reply.Args[0][0]
	assigned := make([]uint8, 0, len(reply.Args)-1)
	for _, f := range reply.Args[1:] {
		assigned = append(assigned, f[0])
	}

	return &InputNode{conn: conn, transport: t, nodeID: nodeID, assigned: assigned}, nil
}

// NodeID is the node id the core assigned this input node.
func (n *InputNode) NodeID() uint8 { return n.nodeID }

// DeviceID returns the device id the core bound to the announceIndex'th
// announced device, or false if that announcement was dropped.
func (n *InputNode) DeviceID(announceIndex int) (uint8, bool) {
	if announceIndex < 0 || announceIndex >= len(n.assigned) {
		return 0, false
	}
	id := n.assigned[announceIndex]
	return id, id != 0xFF
}

// Send addresses value to (deviceID, kind, controlID) on this node and
// writes it to the wire, simulating a physical control change.
func (n *InputNode) Send(deviceID uint8, kind njoy.ControlKind, controlID uint8, value njoy.ControlValue) error {
	ev := njoy.ControlEvent{
		Addressed: true,
		Identity:  njoy.Identity{NodeID: n.nodeID, DeviceID: deviceID, Kind: kind, ControlID: controlID},
		Value:     value,
	}
	return njoy.SendControlEvent(n.transport, ev)
}

// Close tears down the simulated node's connection.
func (n *InputNode) Close() error { return n.conn.Close() }

// OutputNode simulates an output-capable peripheral: it dials the core,
// reports the capabilities of its attached virtual devices, and then
// answers the REQ/REP data stream with a Ready ack after recording each
// received value.
type OutputNode struct {
	conn      net.Conn
	transport njoy.FrameTransport

	nodeID uint8
	counts []deviceAssignment

	mu       sync.Mutex
	received []njoy.ControlEvent

	stop chan struct{}
	done chan struct{}
}

type deviceCaps struct {
	LocalID    uint8
	MaxAxes    uint8
	MaxButtons uint8
	MaxHats    uint8
}

type deviceAssignment struct {
	Axes    uint8
	Buttons uint8
	Hats    uint8
}

// DialOutputNode connects to addr, reports caps, and waits for the
// assignments reply. It does not yet consume the data stream — call Run
// to start answering it.
func DialOutputNode(addr string, caps []deviceCaps) (*OutputNode, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("mock: dial output node: %w", err)
	}
	t := njoy.NewTCPTransport(conn)

	args := make([][]byte, 0, len(caps))
	for _, c := range caps {
		args = append(args, []byte{c.LocalID, c.MaxAxes, c.MaxButtons, c.MaxHats})
	}
	if err := njoy.SendMessage(t, njoy.Message{Command: njoy.CmdCapabilities, Args: args}); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("mock: send capabilities: %w", err)
	}

	reply, err := njoy.RecvMessage(t)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("mock: recv assignments: %w", err)
	}
	if len(reply.Args) == 0 {
		_ = conn.Close()
		return nil, fmt.Errorf("mock: assignments reply missing node id")
	}
	nodeID := reply.Args[0][0]
	counts := make([]deviceAssignment, 0, len(reply.Args)-1)
	for _, f := range reply.Args[1:] {
		counts = append(counts, deviceAssignment{Axes: f[0], Buttons: f[1], Hats: f[2]})
	}

	return &OutputNode{conn: conn, transport: t, nodeID: nodeID, counts: counts, stop: make(chan struct{}), done: make(chan struct{})}, nil
}

// NodeID is the node id the core assigned this output node.
func (n *OutputNode) NodeID() uint8 { return n.nodeID }

// Assigned returns the per-device [axes, buttons, hats] counts the core
// populated, in capabilities-request order.
func (n *OutputNode) Assigned() []deviceAssignment {
	out := make([]deviceAssignment, len(n.counts))
	copy(out, n.counts)
	return out
}

// Run drives the output REQ/REP loop: recv a value, record it, send a
// Ready ack, repeat, until Close is called or the connection errors.
func (n *OutputNode) Run() {
	defer close(n.done)
	for {
		select {
		case <-n.stop:
			return
		default:
		}
		ev, err := njoy.RecvControlEvent(n.transport)
		if err != nil {
			return
		}
		n.mu.Lock()
		n.received = append(n.received, ev)
		n.mu.Unlock()
		if err := njoy.SendControlEvent(n.transport, njoy.ControlEvent{Addressed: false, Value: njoy.ReadyValue()}); err != nil {
			return
		}
	}
}

// Received returns a snapshot of every value this node has acked so far.
func (n *OutputNode) Received() []njoy.ControlEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]njoy.ControlEvent, len(n.received))
	copy(out, n.received)
	return out
}

// Close stops Run and tears down the connection.
func (n *OutputNode) Close() error {
	close(n.stop)
	err := n.conn.Close()
	<-n.done
	return err
}

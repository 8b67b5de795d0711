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

// Package core implements the Core Orchestrator (C8): the handshake with
// input/output nodes, greedy device/control assignment, and the
// instantiation of one {Input Buffer, Actuator} pair per virtual control
// once the design's devices are all assigned.
package core

import (
	"context"
	"log/slog"
	"net"
	"sync"

	"github.com/artesim/njoy"
	"github.com/artesim/njoy/actuator"
	"github.com/artesim/njoy/buffer"
	"github.com/artesim/njoy/design"
	"github.com/artesim/njoy/mux"
)

// pipeline is one running {Input Buffer, Actuator} pair for a virtual
// control. Teardown stops it through the context both tasks were started
// with, not through this record.
type pipeline struct {
	buf *buffer.InputBuffer
	act *actuator.Actuator
}

// ControlUpdate is one virtual control's newly computed value, delivered
// to Snapshot subscribers alongside the declared alias it belongs to.
type ControlUpdate struct {
	Alias    string
	Identity njoy.Identity
	Value    njoy.ControlValue
}

// updatesChanCap bounds how far a slow monitor can lag: once this many
// updates are unread, each new update is dropped until the reader catches
// up; Snapshot is a tap, not a delivery guarantee.
const updatesChanCap = 64

// Engine owns the Input and Output Multiplexers, the node registry, and
// the handshake loop of §4.8. It is constructed from a parsed Design and
// run against a net.Listener accepting both input-node and output-node
// connections on the same handshake socket (§4.1.1).
type Engine struct {
	log *slog.Logger

	nodes   *njoy.NodeRegistry
	devices *njoy.DeviceRegistry
	inMux   *mux.InputMux
	outMux  *mux.OutputMux

	mu              sync.Mutex
	physicalPending map[string]bool                // alias -> still unassigned
	virtualPending  []*design.VirtualControlSpec    // not yet attached to an output device
	controlByAlias  map[string]*njoy.Control        // resolved virtual controls, by declared alias
	pipelines       []*pipeline
	started         bool
	updates         chan ControlUpdate

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New constructs an Engine from a parsed Design. logger receives
// handshake-boundary events only (§10): no per-event data-path logging.
func New(d *design.Design, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	physicalPending := make(map[string]bool)
	for _, alias := range d.PhysicalAliases {
		physicalPending[alias] = true
	}
	virtualPending := make([]*design.VirtualControlSpec, len(d.Controls))
	for i := range d.Controls {
		virtualPending[i] = &d.Controls[i]
	}
	return &Engine{
		log:             logger,
		nodes:           njoy.NewNodeRegistry(),
		devices:         d.Devices,
		inMux:           mux.NewInputMux(),
		outMux:          mux.NewOutputMux(),
		physicalPending: physicalPending,
		virtualPending:  virtualPending,
		controlByAlias:  make(map[string]*njoy.Control),
		updates:         make(chan ControlUpdate, updatesChanCap),
	}
}

// Snapshot returns the channel of live control-value updates: one entry
// per value an actuator computes, regardless of whether an output node is
// connected to consume it. Intended for an attach-only monitor (C10); a
// slow or absent reader only loses updates, it never stalls the engine.
func (e *Engine) Snapshot() <-chan ControlUpdate {
	return e.updates
}

// Serve accepts connections on ln until ctx is cancelled, running the
// handshake and then the data-path loop on each (§4.8 steps 3-5).
func (e *Engine) Serve(ctx context.Context, ln net.Listener) error {
	ctx, cancel := context.WithCancel(ctx)
	e.cancel = cancel
	defer cancel()

	go func() {
		<-ctx.Done()
		_ = ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				e.wg.Wait()
				return nil
			default:
				return err
			}
		}
		e.wg.Add(1)
		go func() {
			defer e.wg.Done()
			e.handleConn(ctx, njoy.NewTCPTransport(conn))
		}()
	}
}

// Stop cancels every running task. Safe to call more than once.
func (e *Engine) Stop() {
	if e.cancel != nil {
		e.cancel()
	}
}

// handshakeComplete reports whether every physical device and virtual
// control has been assigned and the data-path pipelines have started.
func (e *Engine) handshakeComplete() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.started
}

func (e *Engine) handleConn(ctx context.Context, t *njoy.TCPTransport) {
	msg, err := njoy.RecvMessage(t)
	if err != nil {
		e.log.Warn("njoy: handshake read failed", "error", err)
		_ = t.Close()
		return
	}

	switch msg.Command {
	case njoy.CmdRegister:
		e.handleRegister(ctx, t, msg)
	case njoy.CmdCapabilities:
		e.handleCapabilities(ctx, t, msg)
	default:
		e.log.Error("njoy: unexpected command during handshake", "command", msg.Command)
		_ = t.Close()
	}
}

func (e *Engine) handleRegister(ctx context.Context, t *njoy.TCPTransport, msg njoy.Message) {
	announces, err := decodeRegister(msg)
	if err != nil {
		e.log.Error("njoy: malformed register message", "error", err)
		_ = t.Close()
		return
	}

	node, err := e.nodes.NewInputNode()
	if err != nil {
		e.log.Error("njoy: cannot allocate input node", "error", err)
		_ = t.Close()
		return
	}

	assigned := make([]uint8, len(announces))
	for i, a := range announces {
		assigned[i] = unmatchedDeviceID

		dev, ok := e.matchPhysicalDevice(a)
		if !ok {
			continue
		}
		devID, err := node.Append(dev)
		if err != nil {
			e.log.Warn("njoy: input node device capacity exceeded", "alias", dev.Alias())
			continue
		}
		assigned[i] = devID

		e.mu.Lock()
		delete(e.physicalPending, dev.Alias())
		e.mu.Unlock()
	}

	e.log.Info("njoy: input node registered", "node_id", node.ID(), "devices", len(announces))

	if err := njoy.SendMessage(t, encodeRegistered(node.ID(), assigned)); err != nil {
		e.log.Warn("njoy: failed to reply to register", "error", err)
		_ = t.Close()
		return
	}

	e.checkHandshakeComplete(ctx)
	e.streamInput(ctx, t, node)
}

// matchPhysicalDevice resolves a register announcement against the
// design's physical device descriptors, guid first then name (§4.8 step
// 3). It returns ok == false for an unmatched announcement, which the
// caller drops silently.
func (e *Engine) matchPhysicalDevice(a deviceAnnounce) (*njoy.Device, bool) {
	if a.Guid != "" {
		if dev, err := e.devices.FindByGuid(a.Guid); err == nil {
			return dev, true
		}
	}
	if a.Name != "" {
		if dev, err := e.devices.FindByName(a.Name); err == nil {
			return dev, true
		}
	}
	return nil, false
}

func (e *Engine) handleCapabilities(ctx context.Context, t *njoy.TCPTransport, msg njoy.Message) {
	caps, err := decodeCapabilities(msg)
	if err != nil {
		e.log.Error("njoy: malformed capabilities message", "error", err)
		_ = t.Close()
		return
	}

	node, err := e.nodes.NewOutputNode()
	if err != nil {
		e.log.Error("njoy: cannot allocate output node", "error", err)
		_ = t.Close()
		return
	}

	counts := make([]deviceAssignment, len(caps))
	var deviceIdentities []njoy.Identity

	e.mu.Lock()
	for i, c := range caps {
		vdev := e.devices.NewVirtualDevice()
		if _, err := node.Append(vdev); err != nil {
			e.log.Warn("njoy: output node device capacity exceeded")
			break
		}

		assignedAxes := e.fillVirtualDevice(vdev, njoy.AxisKind, c.MaxAxes)
		assignedButtons := e.fillVirtualDevice(vdev, njoy.ButtonKind, c.MaxButtons)
		assignedHats := e.fillVirtualDevice(vdev, njoy.HatKind, c.MaxHats)
		counts[i] = deviceAssignment{Axes: assignedAxes, Buttons: assignedButtons, Hats: assignedHats}

		for _, ctrl := range vdev.Controls(njoy.AxisKind) {
			id, _ := ctrl.Identity()
			deviceIdentities = append(deviceIdentities, id)
		}
		for _, ctrl := range vdev.Controls(njoy.ButtonKind) {
			id, _ := ctrl.Identity()
			deviceIdentities = append(deviceIdentities, id)
		}
		for _, ctrl := range vdev.Controls(njoy.HatKind) {
			id, _ := ctrl.Identity()
			deviceIdentities = append(deviceIdentities, id)
		}
	}
	e.mu.Unlock()

	e.log.Info("njoy: output node registered", "node_id", node.ID(), "devices", len(caps))

	if err := njoy.SendMessage(t, encodeAssignments(node.ID(), counts)); err != nil {
		e.log.Warn("njoy: failed to reply to capabilities", "error", err)
		_ = t.Close()
		return
	}

	e.checkHandshakeComplete(ctx)
	e.streamOutput(ctx, t, deviceIdentities)
}

// fillVirtualDevice greedily attaches up to max pending virtual controls
// of kind to vdev, in declaration order, skipping any whose inputs don't
// resolve yet (a virtual control chained off another one not yet itself
// attached to an output device). It must be called with e.mu held.
func (e *Engine) fillVirtualDevice(vdev *njoy.Device, kind njoy.ControlKind, max uint8) uint8 {
	var attached uint8
	remaining := e.virtualPending[:0:0]
	for _, spec := range e.virtualPending {
		if attached >= max || spec.Kind != kind {
			remaining = append(remaining, spec)
			continue
		}
		inputs, ok := e.resolveInputs(spec)
		if !ok {
			remaining = append(remaining, spec)
			continue
		}
		var ctrl *njoy.Control
		var err error
		switch kind {
		case njoy.AxisKind:
			ctrl, err = vdev.NewAxis(nil, spec.Processor, inputs)
		case njoy.ButtonKind:
			ctrl, err = vdev.NewButton(nil, spec.Processor, inputs)
		default:
			ctrl, err = vdev.NewHat(nil, spec.Processor, inputs)
		}
		if err != nil {
			remaining = append(remaining, spec)
			continue
		}
		e.controlByAlias[spec.Alias] = ctrl
		attached++
	}
	e.virtualPending = remaining
	return attached
}

// resolveInputs looks up the Control objects backing a virtual control's
// declared inputs: a physical device's alias resolves directly, a
// reference to another virtual control's alias only resolves once that
// control has itself been attached to an output device.
func (e *Engine) resolveInputs(spec *design.VirtualControlSpec) ([]*njoy.Control, bool) {
	inputs := make([]*njoy.Control, 0, len(spec.Inputs))
	for _, in := range spec.Inputs {
		if ctrl, ok := e.controlByAlias[in.DeviceAlias]; ok {
			inputs = append(inputs, ctrl)
			continue
		}
		dev, err := e.devices.FindByAlias(in.DeviceAlias)
		if err != nil {
			return nil, false
		}
		ctrl, ok := dev.Control(spec.Kind, in.ControlID)
		if !ok {
			var newErr error
			id := in.ControlID
			switch spec.Kind {
			case njoy.AxisKind:
				ctrl, newErr = dev.NewAxis(&id, nil, nil)
			case njoy.ButtonKind:
				ctrl, newErr = dev.NewButton(&id, nil, nil)
			default:
				ctrl, newErr = dev.NewHat(&id, nil, nil)
			}
			if newErr != nil {
				return nil, false
			}
		}
		inputs = append(inputs, ctrl)
	}
	return inputs, true
}

// checkHandshakeComplete instantiates the per-virtual-control pipelines
// and starts the engine's data path once every physical device and every
// virtual control is assigned (§4.8: "Terminal states ... handshake
// complete"). Safe to call repeatedly; only the first call after
// completion has any effect.
func (e *Engine) checkHandshakeComplete(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.started || len(e.physicalPending) > 0 || len(e.virtualPending) > 0 {
		return
	}
	e.started = true

	for alias, ctrl := range e.controlByAlias {
		alias := alias
		id, ok := ctrl.Identity()
		if !ok {
			continue
		}
		inputIdentities := make([]njoy.Identity, 0, len(ctrl.Inputs()))
		for _, in := range ctrl.Inputs() {
			inID, ok := in.Identity()
			if !ok {
				continue
			}
			inputIdentities = append(inputIdentities, inID)
		}

		buf := buffer.New(inputIdentities)
		act := actuator.New(id, ctrl.Processor(), buf, e.outMux)
		act.SetObserver(func(ev njoy.ControlEvent) {
			update := ControlUpdate{Alias: alias, Identity: ev.Identity, Value: ev.Value}
			select {
			case e.updates <- update:
			default:
			}
		})
		e.pipelines = append(e.pipelines, &pipeline{buf: buf, act: act})

		e.wg.Add(2)
		go func() {
			defer e.wg.Done()
			_ = buf.Run(ctx, e.inMux)
		}()
		go func() {
			defer e.wg.Done()
			_ = act.Run(ctx)
		}()
		e.log.Info("njoy: virtual control pipeline started", "alias", alias, "identity", id.String())
	}
	e.log.Info("njoy: handshake complete")
}

// streamInput reads the addressed control-event stream an input node
// pushes once handshake for it is done, publishing each to the Input
// Multiplexer (§4.3). One goroutine per connection gives each physical
// source its own Ingress loop, which is what preserves its per-source
// ordering guarantee.
func (e *Engine) streamInput(ctx context.Context, t *njoy.TCPTransport, node *njoy.Node) {
	source := make(chan njoy.ControlEvent)
	go func() {
		defer close(source)
		for {
			ev, err := njoy.RecvControlEvent(t)
			if err != nil {
				return
			}
			select {
			case source <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()
	e.inMux.Ingress(ctx, source)
	_ = t.Close()
}

// streamOutput runs the per-control REQ/REP rendezvous with one output
// node's connection (§4.4, §4.7): for each of its assigned virtual
// controls, a goroutine pops the Output Multiplexer's next value and
// hands it to a single connection-owned sender, which serialises every
// send/ack pair on the wire — only one frame exchange can be in flight on
// one TCP connection at a time regardless.
func (e *Engine) streamOutput(ctx context.Context, t *njoy.TCPTransport, identities []njoy.Identity) {
	type request struct {
		ev  njoy.ControlEvent
		ack chan struct{}
	}
	toSend := make(chan request)

	var wg sync.WaitGroup
	for _, id := range identities {
		id := id
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				ev, err := e.outMux.PopValue(ctx, id)
				if err != nil {
					return
				}
				req := request{ev: ev, ack: make(chan struct{})}
				select {
				case toSend <- req:
				case <-ctx.Done():
					return
				}
				select {
				case <-req.ack:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		wg.Wait()
	}()

	for {
		select {
		case <-ctx.Done():
			_ = t.Close()
			<-done
			return
		case <-done:
			_ = t.Close()
			return
		case req := <-toSend:
			if err := njoy.SendControlEvent(t, req.ev); err != nil {
				close(req.ack)
				_ = t.Close()
				continue
			}
			if _, err := njoy.RecvControlEvent(t); err != nil {
				close(req.ack)
				_ = t.Close()
				continue
			}
			close(req.ack)
		}
	}
}

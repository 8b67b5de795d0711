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
	"errors"
)

// Sentinel errors for the object-model and handshake conditions of §7 of
// the specification. Each is fatal: the engine does not retry, it tears
// the owning task down and propagates.
var (
	// ErrNodeOverflow indicates a 17th InputNode or OutputNode was
	// requested; each kind is capped at 16, counted independently.
	ErrNodeOverflow = errors.New("njoy: node capacity exceeded (16 per kind)")

	// ErrNodeDeviceOverflow indicates a 17th device was appended to a
	// single node.
	ErrNodeDeviceOverflow = errors.New("njoy: device capacity exceeded on node (16 per node)")

	// ErrNodeNotFound indicates a lookup against a node id that was
	// never allocated.
	ErrNodeNotFound = errors.New("njoy: node not found")

	// ErrDeviceNotFound indicates a lookup against a device id that was
	// never allocated on its node.
	ErrDeviceNotFound = errors.New("njoy: device not found")

	// ErrInvalidNode indicates a VirtualDevice was constructed against
	// something other than an OutputNode, or a PhysicalDevice against
	// something other than an InputNode.
	ErrInvalidNode = errors.New("njoy: invalid node kind for this operation")

	// ErrInvalidParams indicates caller misuse of a constructor, e.g. a
	// PhysicalDevice missing its required alias, or missing both of
	// guid/name.
	ErrInvalidParams = errors.New("njoy: invalid parameters")

	// ErrInvalidLookup indicates a Find call with no usable key.
	ErrInvalidLookup = errors.New("njoy: invalid lookup parameters")

	// ErrDuplicateAlias indicates two design entries declared the same
	// physical device alias.
	ErrDuplicateAlias = errors.New("njoy: duplicate physical device alias")

	// ErrDuplicateGuid indicates two design entries declared the same
	// physical device guid.
	ErrDuplicateGuid = errors.New("njoy: duplicate physical device guid")

	// ErrAmbiguousName indicates a name-only lookup or insertion matched
	// more than one physical device and no guid was given to
	// disambiguate.
	ErrAmbiguousName = errors.New("njoy: ambiguous device name, guid required")

	// ErrDeviceRegisterControl indicates an attempt to register a
	// control at an id already occupied by a non-physical (i.e. a
	// virtual) control of the same kind.
	ErrDeviceRegisterControl = errors.New("njoy: control id already occupied")

	// ErrUnexpectedCommand indicates a wire command arrived outside the
	// handshake phase that accepts it.
	ErrUnexpectedCommand = errors.New("njoy: unexpected command for this phase")

	// ErrControlTableFull indicates a device's fixed-size control table
	// for one kind (8 axes, 128 buttons, 4 hats) has no free slot.
	ErrControlTableFull = errors.New("njoy: control table full for this kind")
)

// A DecodeError reports a malformed wire frame: wrong frame length, wrong
// MSB, or an identity byte pattern that does not map to a known control
// kind (§7, trigger "malformed wire frame"). It carries a copy of the
// offending bytes so a caller logging the failure does not need to
// reconstruct them from context.
type DecodeError struct {
	Reason string
	Frame  []byte
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	return "njoy: decode error: " + e.Reason
}

// NewDecodeError builds a DecodeError, copying frame so later reuse of the
// caller's buffer (wire reads commonly reuse a scratch buffer) cannot
// corrupt the error after construction.
func NewDecodeError(reason string, frame []byte) *DecodeError {
	cp := make([]byte, len(frame))
	copy(cp, frame)
	return &DecodeError{Reason: reason, Frame: cp}
}

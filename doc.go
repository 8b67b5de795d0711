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

// Package njoy provides the wire codec and object model for the nJoy
// input-remapping engine: nodes, devices and controls, the 16-bit
// identity framing used on the wire between the core and its input/output
// nodes, and the request/reply messages that drive the registration
// handshake.
//
// Higher-level runtime pieces — the multiplexing fabric, the per-control
// processing pipeline, the design parser, and the orchestrator that wires
// them together — live in the njoy/mux, njoy/buffer, njoy/processor,
// njoy/actuator, njoy/design and njoy/core subpackages.
package njoy

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

// Recognised handshake commands (§4.1). Unknown commands propagate as an
// opaque request/reply pair for forward-compatibility — Message itself
// never rejects a command string it doesn't recognise; only the
// orchestrator (§4.8), which knows which commands are legal in which
// phase, does that.
const (
	CmdRegister     = "register"
	CmdRegistered   = "registered"
	CmdCapabilities = "capabilities"
	CmdAssignments  = "assignments"
)

// Message is a transport-agnostic request/reply message: a command
// string followed by zero or more opaque argument frames carrying
// serialised object-model fragments.
type Message struct {
	Command string
	Args    [][]byte
}

// Frames encodes m into wire frames: [command_bytes, arg1, arg2, ...].
func (m Message) Frames() [][]byte {
	out := make([][]byte, 0, 1+len(m.Args))
	out = append(out, []byte(m.Command))
	out = append(out, m.Args...)
	return out
}

// DecodeMessage decodes a Message from its wire frames.
func DecodeMessage(frames [][]byte) (Message, error) {
	if len(frames) == 0 {
		return Message{}, NewDecodeError("message has no command frame", nil)
	}
	args := make([][]byte, len(frames)-1)
	copy(args, frames[1:])
	return Message{Command: string(frames[0]), Args: args}, nil
}

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
	"net"
	"testing"
)

func TestTCPTransportFrameRoundTrip(t *testing.T) {
	a, b := net.Pipe()
	defer a.Close()
	defer b.Close()

	ta := NewTCPTransport(a)
	tb := NewTCPTransport(b)

	want := [][]byte{[]byte("register"), []byte("stick1"), {}}
	errc := make(chan error, 1)
	go func() { errc <- ta.SendFrames(want) }()

	got, err := tb.RecvFrames()
	if err != nil {
		t.Fatalf("recv: %v", err)
	}
	if err := <-errc; err != nil {
		t.Fatalf("send: %v", err)
	}

	if len(got) != len(want) {
		t.Fatalf("got %d frames, want %d", len(got), len(want))
	}
	for i := range want {
		if string(got[i]) != string(want[i]) {
			t.Fatalf("frame %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestTCPTransportMessageRoundTrip(t *testing.T) {
	a, b := net.Pipe()
	defer a.Close()
	defer b.Close()

	ta := NewTCPTransport(a)
	tb := NewTCPTransport(b)

	m := Message{Command: CmdCapabilities, Args: [][]byte{[]byte("payload")}}
	errc := make(chan error, 1)
	go func() { errc <- SendMessage(ta, m) }()

	got, err := RecvMessage(tb)
	if err != nil {
		t.Fatalf("recv: %v", err)
	}
	if err := <-errc; err != nil {
		t.Fatalf("send: %v", err)
	}
	if got.Command != m.Command {
		t.Fatalf("got command %q, want %q", got.Command, m.Command)
	}
}

func TestTCPTransportControlEventRoundTrip(t *testing.T) {
	a, b := net.Pipe()
	defer a.Close()
	defer b.Close()

	ta := NewTCPTransport(a)
	tb := NewTCPTransport(b)

	ev := ControlEvent{
		Addressed: true,
		Identity:  Identity{NodeID: 1, DeviceID: 1, Kind: AxisKind, ControlID: 3},
		Value:     AxisValue(0.75),
	}
	errc := make(chan error, 1)
	go func() { errc <- SendControlEvent(ta, ev) }()

	got, err := RecvControlEvent(tb)
	if err != nil {
		t.Fatalf("recv: %v", err)
	}
	if err := <-errc; err != nil {
		t.Fatalf("send: %v", err)
	}
	if got != ev {
		t.Fatalf("got %+v, want %+v", got, ev)
	}
}

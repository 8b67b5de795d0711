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

package mock

import (
	"context"
	"io"
	"log/slog"
	"net"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/artesim/njoy"
	"github.com/artesim/njoy/core"
	"github.com/artesim/njoy/design"
	"github.com/artesim/njoy/processor"
)

func startCore(t *testing.T, src string) string {
	t.Helper()
	d, err := design.ParseDesign(strings.NewReader(src), processor.NewRegistry())
	if err != nil {
		t.Fatalf("ParseDesign: %v", err)
	}
	eng := core.New(d, slog.New(slog.NewTextHandler(io.Discard, nil)))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go eng.Serve(ctx, ln)
	return ln.Addr().String()
}

func waitFor(cond func() bool, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}

// primePipeline resends the first value of a feed until the output side
// has observed at least one event, masking the brief, inherent race
// between a node's handshake reply and the orchestrator's input/output
// pipelines actually starting to subscribe (§4.8: the handshake only
// completes, and the data path only starts, after the reply is already on
// the wire). Resending the same value is harmless: sends that arrive
// before the Input Buffer subscribes are dropped, the first one after it
// subscribes primes it and yields the single observed output, and later
// repeats of the same value yield no new snapshot.
func primePipeline(t *testing.T, send func() error, observed func() bool, timeout time.Duration) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if err := send(); err != nil {
			t.Fatalf("prime send: %v", err)
		}
		if waitFor(observed, 100*time.Millisecond) {
			return
		}
	}
	t.Fatal("pipeline never came up")
}

func TestSingleAxisPassthroughEndToEnd(t *testing.T) {
	addr := startCore(t, `nJoyDesign "axis-passthrough":
device alias="joy" guid="G1"
axis processor=passthrough inputs=[dev=joy,ctrl=0]
`)

	Convey("A raw axis feed routed through a single passthrough control", t, func() {
		in, err := DialInputNode(addr, []Device{{Guid: "G1", Name: "Joystick"}})
		So(err, ShouldBeNil)
		defer in.Close()
		devID, ok := in.DeviceID(0)
		So(ok, ShouldBeTrue)

		out, err := DialOutputNode(addr, []deviceCaps{{LocalID: 0, MaxAxes: 1}})
		So(err, ShouldBeNil)
		defer out.Close()
		go out.Run()

		raw := []int16{-32768, 0, 16383, 32767}
		want := make([]float64, len(raw))
		for i, r := range raw {
			want[i] = float64(r) / 32768.0
		}

		Convey("delivers each normalised value in order on the output side", func() {
			primePipeline(t, func() error {
				return in.Send(devID, njoy.AxisKind, 0, njoy.AxisValue(want[0]))
			}, func() bool { return len(out.Received()) >= 1 }, 2*time.Second)

			for _, r := range raw[1:] {
				err := in.Send(devID, njoy.AxisKind, 0, njoy.AxisValue(float64(r)/32768.0))
				So(err, ShouldBeNil)
			}

			So(waitFor(func() bool { return len(out.Received()) >= len(raw) }, 2*time.Second), ShouldBeTrue)

			got := out.Received()
			So(len(got), ShouldEqual, len(raw))
			for i, ev := range got {
				So(ev.Addressed, ShouldBeTrue)
				So(ev.Value.Axis, ShouldEqual, want[i])
			}
		})
	})
}

func TestButtonPassthroughChangeDetectionEndToEnd(t *testing.T) {
	addr := startCore(t, `nJoyDesign "button-passthrough":
device alias="thr" guid="G1"
button processor=passthrough inputs=[dev=thr,ctrl=0]
`)

	Convey("A button feed with repeated values routed through passthrough", t, func() {
		in, err := DialInputNode(addr, []Device{{Guid: "G1", Name: "Throttle"}})
		So(err, ShouldBeNil)
		defer in.Close()
		devID, ok := in.DeviceID(0)
		So(ok, ShouldBeTrue)

		out, err := DialOutputNode(addr, []deviceCaps{{LocalID: 0, MaxButtons: 1}})
		So(err, ShouldBeNil)
		defer out.Close()
		go out.Run()

		feed := []bool{true, true, false, false, true}
		want := []bool{true, false, true}

		Convey("collapses consecutive repeats into exactly the three changes", func() {
			primePipeline(t, func() error {
				return in.Send(devID, njoy.ButtonKind, 0, njoy.ButtonValue(feed[0]))
			}, func() bool { return len(out.Received()) >= 1 }, 2*time.Second)

			for _, v := range feed[1:] {
				err := in.Send(devID, njoy.ButtonKind, 0, njoy.ButtonValue(v))
				So(err, ShouldBeNil)
			}

			So(waitFor(func() bool { return len(out.Received()) >= len(want) }, 2*time.Second), ShouldBeTrue)

			got := out.Received()
			So(len(got), ShouldEqual, len(want))
			for i, ev := range got {
				So(ev.Value.Button, ShouldEqual, want[i])
			}
		})
	})
}

func TestNotAnyPseudoButtonEndToEnd(t *testing.T) {
	addr := startCore(t, `nJoyDesign "not-any-pseudo-button":
device alias="pad" guid="G1"
button processor=not_any inputs=[dev=pad,ctrl=0;dev=pad,ctrl=1]
`)

	Convey("Two physical buttons feeding a not_any pseudo-button", t, func() {
		in, err := DialInputNode(addr, []Device{{Guid: "G1", Name: "Gamepad"}})
		So(err, ShouldBeNil)
		defer in.Close()
		devID, ok := in.DeviceID(0)
		So(ok, ShouldBeTrue)

		out, err := DialOutputNode(addr, []deviceCaps{{LocalID: 0, MaxButtons: 1}})
		So(err, ShouldBeNil)
		defer out.Close()
		go out.Run()

		type pair struct{ a, b bool }
		feed := []pair{{false, false}, {true, false}, {false, false}, {false, true}, {false, false}}
		want := []bool{true, false, true, false, true}

		Convey("reports true only while both buttons are off", func() {
			primePipeline(t, func() error {
				if err := in.Send(devID, njoy.ButtonKind, 0, njoy.ButtonValue(feed[0].a)); err != nil {
					return err
				}
				return in.Send(devID, njoy.ButtonKind, 1, njoy.ButtonValue(feed[0].b))
			}, func() bool { return len(out.Received()) >= 1 }, 2*time.Second)

			for _, p := range feed[1:] {
				So(in.Send(devID, njoy.ButtonKind, 0, njoy.ButtonValue(p.a)), ShouldBeNil)
				So(in.Send(devID, njoy.ButtonKind, 1, njoy.ButtonValue(p.b)), ShouldBeNil)
			}

			So(waitFor(func() bool { return len(out.Received()) >= len(want) }, 2*time.Second), ShouldBeTrue)

			got := out.Received()
			So(len(got), ShouldEqual, len(want))
			for i, ev := range got {
				So(ev.Value.Button, ShouldEqual, want[i])
			}
		})
	})
}

func TestHatDirectionPassthroughEndToEnd(t *testing.T) {
	addr := startCore(t, `nJoyDesign "hat-passthrough":
device alias="joy" guid="G1"
hat processor=passthrough inputs=[dev=joy,ctrl=0]
`)

	Convey("A hat feed emitting HAT_UP_RIGHT routed through passthrough", t, func() {
		in, err := DialInputNode(addr, []Device{{Guid: "G1", Name: "Joystick"}})
		So(err, ShouldBeNil)
		defer in.Close()
		devID, ok := in.DeviceID(0)
		So(ok, ShouldBeTrue)

		out, err := DialOutputNode(addr, []deviceCaps{{LocalID: 0, MaxHats: 1}})
		So(err, ShouldBeNil)
		defer out.Close()
		go out.Run()

		Convey("produces one output event with hat value 3", func() {
			upRight := njoy.HatUp | njoy.HatRight
			So(upRight, ShouldEqual, njoy.HatValue(3))

			primePipeline(t, func() error {
				return in.Send(devID, njoy.HatKind, 0, njoy.HatValueOf(upRight))
			}, func() bool { return len(out.Received()) >= 1 }, 2*time.Second)

			got := out.Received()
			So(got[0].Value.Hat, ShouldEqual, njoy.HatValue(3))
		})
	})
}

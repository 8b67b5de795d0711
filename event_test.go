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

import "testing"

func TestControlEventRoundTripAnonymous(t *testing.T) {
	ev := ControlEvent{Addressed: false, Value: AxisValue(0.25)}
	frames, err := ev.Frames()
	if err != nil {
		t.Fatalf("frames: %v", err)
	}
	if len(frames) != 1 {
		t.Fatalf("got %d frames, want 1", len(frames))
	}

	got, err := DecodeControlEvent(frames)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Addressed {
		t.Fatal("expected anonymous event")
	}
	if got.Value != ev.Value {
		t.Fatalf("got value %+v, want %+v", got.Value, ev.Value)
	}
}

func TestControlEventRoundTripAddressed(t *testing.T) {
	ev := ControlEvent{
		Addressed: true,
		Identity:  Identity{NodeID: 1, DeviceID: 2, Kind: ButtonKind, ControlID: 5},
		Value:     ButtonValue(true),
	}
	frames, err := ev.Frames()
	if err != nil {
		t.Fatalf("frames: %v", err)
	}
	if len(frames) != 3 {
		t.Fatalf("got %d frames, want 3", len(frames))
	}
	if len(frames[1]) != 0 {
		t.Fatalf("expected empty delimiter frame, got %d bytes", len(frames[1]))
	}

	got, err := DecodeControlEvent(frames)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !got.Addressed {
		t.Fatal("expected addressed event")
	}
	if got.Identity != ev.Identity {
		t.Fatalf("got identity %+v, want %+v", got.Identity, ev.Identity)
	}
	if got.Value != ev.Value {
		t.Fatalf("got value %+v, want %+v", got.Value, ev.Value)
	}
}

func TestDecodeControlEventRejectsMissingDelimiter(t *testing.T) {
	rawIdentity, _ := EncodeIdentity(Identity{Kind: AxisKind})
	idFrame := []byte{byte(rawIdentity >> 8), byte(rawIdentity)}
	valFrame, _ := EncodeValueFrame(AxisValue(0))

	// A non-empty middle frame instead of the mandatory delimiter.
	_, err := DecodeControlEvent([][]byte{idFrame, {0x01}, valFrame})
	if err == nil {
		t.Fatal("expected error decoding addressed event with non-empty delimiter")
	}
}

func TestDecodeControlEventRejectsWrongFrameCount(t *testing.T) {
	if _, err := DecodeControlEvent([][]byte{{0x00}, {0x01}}); err == nil {
		t.Fatal("expected error decoding a 2-frame message")
	}
}

func TestReadyToken(t *testing.T) {
	id := Identity{NodeID: 3, DeviceID: 4, Kind: HatKind, ControlID: 1}
	ev := ReadyToken(id)
	if !ev.Addressed {
		t.Fatal("expected a ready token to be addressed")
	}
	if !ev.Value.Ready {
		t.Fatal("expected a ready token's value to be the Ready sentinel")
	}
	if ev.Identity != id {
		t.Fatalf("got identity %+v, want %+v", ev.Identity, id)
	}
}

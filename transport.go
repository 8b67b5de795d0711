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
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"sync"
)

// FrameTransport carries multi-frame messages over a length-delimited
// framing: the pack's retrieved examples carry no ZeroMQ/nanomsg-
// equivalent REQ/REP socket library (checked against every full example
// repo and every other_examples manifest's go.mod), so §4.1's "sequence
// of opaque byte frames" is implemented directly over net.Conn rather
// than bound to a third-party messaging library. It is the minimum
// surface the rest of the engine (core, mock) needs from a
// connection, so that production TCP sockets and in-process test doubles
// satisfy the same contract.
type FrameTransport interface {
	SendFrames(frames [][]byte) error
	RecvFrames() ([][]byte, error)
	Close() error
}

// maxFrameLen bounds a single frame so a corrupt length prefix cannot
// make RecvFrames allocate unbounded memory.
const maxFrameLen = 64 << 20

// TCPTransport implements FrameTransport over a net.Conn. Wire layout per
// message: uint16 BE frame count, then for each frame a uint32 BE length
// prefix followed by that many payload bytes.
type TCPTransport struct {
	conn net.Conn
	r    *bufio.Reader
	wmu  sync.Mutex
	rmu  sync.Mutex
}

// NewTCPTransport wraps an established connection.
func NewTCPTransport(conn net.Conn) *TCPTransport {
	return &TCPTransport{conn: conn, r: bufio.NewReader(conn)}
}

// Dial opens a TCP connection to addr and wraps it as a transport.
func Dial(addr string) (*TCPTransport, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, err
	}
	return NewTCPTransport(conn), nil
}

func (t *TCPTransport) SendFrames(frames [][]byte) error {
	t.wmu.Lock()
	defer t.wmu.Unlock()

	if len(frames) > 0xFFFF {
		return fmt.Errorf("njoy: too many frames (%d) for one message", len(frames))
	}
	hdr := make([]byte, 2)
	binary.BigEndian.PutUint16(hdr, uint16(len(frames)))
	if _, err := t.conn.Write(hdr); err != nil {
		return err
	}
	lenBuf := make([]byte, 4)
	for _, f := range frames {
		binary.BigEndian.PutUint32(lenBuf, uint32(len(f)))
		if _, err := t.conn.Write(lenBuf); err != nil {
			return err
		}
		if len(f) > 0 {
			if _, err := t.conn.Write(f); err != nil {
				return err
			}
		}
	}
	return nil
}

func (t *TCPTransport) RecvFrames() ([][]byte, error) {
	t.rmu.Lock()
	defer t.rmu.Unlock()

	var hdr [2]byte
	if _, err := io.ReadFull(t.r, hdr[:]); err != nil {
		return nil, err
	}
	count := binary.BigEndian.Uint16(hdr[:])

	frames := make([][]byte, count)
	var lenBuf [4]byte
	for i := range frames {
		if _, err := io.ReadFull(t.r, lenBuf[:]); err != nil {
			return nil, err
		}
		n := binary.BigEndian.Uint32(lenBuf[:])
		if n > maxFrameLen {
			return nil, fmt.Errorf("njoy: frame length %d exceeds maximum", n)
		}
		buf := make([]byte, n)
		if n > 0 {
			if _, err := io.ReadFull(t.r, buf); err != nil {
				return nil, err
			}
		}
		frames[i] = buf
	}
	return frames, nil
}

func (t *TCPTransport) Close() error {
	return t.conn.Close()
}

// SendMessage is a convenience wrapper sending m.Frames().
func SendMessage(t FrameTransport, m Message) error {
	return t.SendFrames(m.Frames())
}

// RecvMessage is a convenience wrapper decoding the next message.
func RecvMessage(t FrameTransport) (Message, error) {
	frames, err := t.RecvFrames()
	if err != nil {
		return Message{}, err
	}
	return DecodeMessage(frames)
}

// SendControlEvent is a convenience wrapper sending e.Frames().
func SendControlEvent(t FrameTransport, e ControlEvent) error {
	frames, err := e.Frames()
	if err != nil {
		return err
	}
	return t.SendFrames(frames)
}

// RecvControlEvent is a convenience wrapper decoding the next control
// event.
func RecvControlEvent(t FrameTransport) (ControlEvent, error) {
	frames, err := t.RecvFrames()
	if err != nil {
		return ControlEvent{}, err
	}
	return DecodeControlEvent(frames)
}

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

// Command njoy-monitor runs a Core Orchestrator the same way njoy-core
// does, but attaches a raw-terminal readout of every virtual control's
// live value instead of running silently — useful for watching a design
// react to input while building it. Press 'q' to quit.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"

	"golang.org/x/term"

	"github.com/artesim/njoy"
	"github.com/artesim/njoy/core"
	"github.com/artesim/njoy/design"
	"github.com/artesim/njoy/processor"
)

func main() {
	var (
		designPath = flag.String("design", "", "path to the design document (required)")
		listen     = flag.String("listen", ":7890", "TCP address the handshake socket listens on")
	)
	flag.Parse()

	if err := run(*designPath, *listen); err != nil {
		fmt.Fprintf(os.Stderr, "njoy-monitor: %v\n", err)
		os.Exit(1)
	}
}

func run(designPath, listen string) error {
	if designPath == "" {
		return fmt.Errorf("-design is required")
	}

	f, err := os.Open(designPath)
	if err != nil {
		return fmt.Errorf("open design: %w", err)
	}
	d, err := design.ParseDesign(f, processor.NewRegistry())
	f.Close()
	if err != nil {
		return fmt.Errorf("parse design: %w", err)
	}

	ln, err := net.Listen("tcp", listen)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	defer ln.Close()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	eng := core.New(d, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	serveErr := make(chan error, 1)
	go func() { serveErr <- eng.Serve(ctx, ln) }()

	fmt.Printf("njoy-monitor: %q listening on %s, watching %d virtual controls (q to quit)\n",
		d.Name, ln.Addr().String(), len(d.Controls))

	return watch(ctx, cancel, eng, serveErr)
}

// watch puts stdin in raw mode so a single 'q' keypress can end the
// session without waiting on a newline, and prints every control update
// the engine emits until that happens.
func watch(ctx context.Context, cancel context.CancelFunc, eng *core.Engine, serveErr <-chan error) error {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return watchUpdatesOnly(ctx, eng, serveErr)
	}

	saved, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("enter raw mode: %w", err)
	}
	defer term.Restore(fd, saved)

	quit := make(chan struct{})
	go func() {
		defer close(quit)
		buf := make([]byte, 1)
		for {
			n, err := os.Stdin.Read(buf)
			if err != nil {
				return
			}
			if n > 0 && (buf[0] == 'q' || buf[0] == 'Q' || buf[0] == 0x03) {
				return
			}
		}
	}()

	for {
		select {
		case <-quit:
			cancel()
			<-serveErr
			return nil
		case update := <-eng.Snapshot():
			printUpdate(update)
		case err := <-serveErr:
			return err
		}
	}
}

// watchUpdatesOnly is the non-terminal fallback (e.g. stdin redirected
// from a file or pipe): it prints updates until the engine stops, with no
// keypress-driven quit.
func watchUpdatesOnly(ctx context.Context, eng *core.Engine, serveErr <-chan error) error {
	for {
		select {
		case <-ctx.Done():
			return <-serveErr
		case update := <-eng.Snapshot():
			printUpdate(update)
		case err := <-serveErr:
			return err
		}
	}
}

func printUpdate(u core.ControlUpdate) {
	v := u.Value
	if v.Ready {
		return
	}

	var rendered string
	switch v.Kind {
	case njoy.AxisKind:
		rendered = fmt.Sprintf("%+.6f", v.Axis)
	case njoy.ButtonKind:
		rendered = fmt.Sprintf("%v", v.Button)
	case njoy.HatKind:
		rendered = v.Hat.String()
	default:
		rendered = "?"
	}
	fmt.Printf("%-24s %-20s %s\r\n", u.Alias, u.Identity.String(), rendered)
}

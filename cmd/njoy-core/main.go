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

// Command njoy-core is the thin launcher for the Core Orchestrator (C8):
// it loads a design document (and, optionally, a device map for reference
// logging), builds the Engine, and serves the handshake socket until
// signalled.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/artesim/njoy/core"
	"github.com/artesim/njoy/design"
	"github.com/artesim/njoy/processor"
)

func main() {
	var (
		designPath    = flag.String("design", "", "path to the design document (required)")
		deviceMapPath = flag.String("device-map", "", "path to a device map document, logged for reference only")
		listen        = flag.String("listen", ":7890", "TCP address the handshake socket listens on, shared by input and output nodes")
		logLevel      = flag.String("log-level", "info", "log level: debug, info, warn, error")
	)
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: parseLevel(*logLevel)}))
	slog.SetDefault(log)

	if err := run(*designPath, *deviceMapPath, *listen, log); err != nil {
		log.Error("njoy-core: fatal", "error", err)
		os.Exit(1)
	}
}

func run(designPath, deviceMapPath, listen string, log *slog.Logger) error {
	if designPath == "" {
		return fmt.Errorf("njoy-core: -design is required")
	}

	f, err := os.Open(designPath)
	if err != nil {
		return fmt.Errorf("njoy-core: open design: %w", err)
	}
	defer f.Close()

	d, err := design.ParseDesign(f, processor.NewRegistry())
	if err != nil {
		return fmt.Errorf("njoy-core: parse design: %w", err)
	}
	log.Info("njoy-core: design loaded", "name", d.Name, "devices", len(d.PhysicalAliases), "virtual_controls", len(d.Controls))

	if deviceMapPath != "" {
		mf, err := os.Open(deviceMapPath)
		if err != nil {
			return fmt.Errorf("njoy-core: open device map: %w", err)
		}
		dm, err := design.ParseDeviceMap(mf)
		mf.Close()
		if err != nil {
			return fmt.Errorf("njoy-core: parse device map: %w", err)
		}
		log.Info("njoy-core: device map loaded", "device", dm.DeviceName, "axes", len(dm.Axes), "buttons", len(dm.Buttons), "hats", len(dm.Hats))
	}

	ln, err := net.Listen("tcp", listen)
	if err != nil {
		return fmt.Errorf("njoy-core: listen: %w", err)
	}
	defer ln.Close()
	log.Info("njoy-core: listening", "addr", ln.Addr().String())

	eng := core.New(d, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() { serveErr <- eng.Serve(ctx, ln) }()

	<-ctx.Done()
	log.Info("njoy-core: shutting down")
	eng.Stop()
	return <-serveErr
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Command uicore-probe runs the uicore buffer contract against the
// available backends and prints what each one did.
//
// Usage:
//
//	uicore-probe [-config probe.toml] [-backends software,native] [-hal noop]
//
// Every step of the scenario (upload, bounds check, staging readback,
// device loss and restore) is reported per backend. The exit status is 1
// if any backend failed.
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gogpu/uicore"
)

func init() {
	// OpenGL contexts and GLFW must stay on the main thread.
	runtime.LockOSThread()
}

func main() {
	var (
		configPath = flag.String("config", "", "TOML config file")
		backends   = flag.String("backends", "", "comma-separated backends to probe (default software,native)")
		halAPI     = flag.String("hal", "", "HAL API for the native backend: noop or vulkan")
		capacity   = flag.Int("capacity", 0, "buffer capacity in bytes")
		budget     = flag.Int64("budget", 0, "per-context memory budget in bytes, negative for unlimited")
		verbose    = flag.Bool("v", false, "debug logging to stderr")
	)
	flag.Parse()

	cfg := DefaultConfig()
	if *configPath != "" {
		loaded, err := LoadConfig(*configPath)
		if err != nil {
			log.Fatalf("uicore-probe: %v", err)
		}
		cfg = loaded
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "backends":
			cfg.Backends = splitList(*backends)
		case "hal":
			cfg.HAL = *halAPI
		case "capacity":
			cfg.Capacity = *capacity
		case "budget":
			cfg.Budget = *budget
		case "v":
			cfg.Verbose = *verbose
		}
	})
	if err := cfg.Validate(); err != nil {
		log.Fatalf("uicore-probe: %v", err)
	}

	if cfg.Verbose {
		uicore.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	p := message.NewPrinter(language.English)
	p.Printf("uicore-probe: %d bytes per buffer, backends %v\n", cfg.Capacity, uicore.AvailableBackends())

	failed := false
	for _, name := range cfg.Backends {
		report, err := probe(name, cfg)
		if err != nil {
			failed = true
			p.Printf("%-10s FAIL  %v\n", name, err)
			continue
		}
		report.Print(os.Stdout)
	}
	if failed {
		os.Exit(1)
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// probe opens a device for the named backend and runs the scenario on it.
func probe(name string, cfg Config) (Report, error) {
	dev, closeDev, verify, err := openDevice(name, cfg)
	if err != nil {
		return Report{}, err
	}
	defer closeDev()
	return RunScenario(dev, cfg, verify)
}

func openDevice(name string, cfg Config) (dev uicore.Device, closeDev func(), verify bool, err error) {
	switch name {
	case "software":
		return newSoftwareDevice(), func() {}, true, nil
	case "native":
		return openNativeDevice(cfg.HAL)
	case "opengl":
		return openGLDevice()
	default:
		return nil, nil, false, fmt.Errorf("%w: unknown backend %q", uicore.ErrInvalidArgument, name)
	}
}

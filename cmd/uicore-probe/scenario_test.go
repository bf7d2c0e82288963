// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"errors"
	"strings"
	"testing"

	"github.com/gogpu/uicore"
)

func TestRunScenarioSoftware(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Budget = 1 << 20
	r, err := RunScenario(newSoftwareDevice(), cfg, true)
	if err != nil {
		t.Fatalf("RunScenario failed: %v", err)
	}
	if !r.Restored || !r.Verified {
		t.Errorf("report = %+v", r)
	}
	if r.PeakBytes != 1024 {
		t.Errorf("PeakBytes = %d, want 1024", r.PeakBytes)
	}
	if len(uicore.LiveContexts()) != 0 {
		t.Error("scenario leaked a graphic context")
	}

	r.Capacity = 1 << 20
	var out strings.Builder
	r.Print(&out)
	if !strings.Contains(out.String(), "1,048,576 bytes") {
		t.Errorf("report output = %q, want grouped digits", out.String())
	}
}

func TestRunScenarioBudgetExhausted(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Budget = 512
	_, err := RunScenario(newSoftwareDevice(), cfg, true)
	if !errors.Is(err, uicore.ErrDeviceResourceExhausted) {
		t.Errorf("error = %v, want ErrDeviceResourceExhausted", err)
	}
}

func TestOpenDeviceUnknown(t *testing.T) {
	if _, _, _, err := openDevice("directx", DefaultConfig()); !errors.Is(err, uicore.ErrInvalidArgument) {
		t.Errorf("error = %v, want ErrInvalidArgument", err)
	}
}

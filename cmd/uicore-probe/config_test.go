// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/gogpu/uicore"
)

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
backends = ["software"]
capacity = 4096
budget   = 65536
`))
	if err != nil {
		t.Fatalf("ParseConfig failed: %v", err)
	}
	if !slices.Equal(cfg.Backends, []string{"software"}) {
		t.Errorf("Backends = %v, want [software]", cfg.Backends)
	}
	if cfg.Capacity != 4096 || cfg.Budget != 65536 {
		t.Errorf("Capacity, Budget = %d, %d", cfg.Capacity, cfg.Budget)
	}
	if cfg.HAL != "noop" {
		t.Errorf("HAL = %q, want default noop", cfg.HAL)
	}
}

func TestParseConfigUnknownKey(t *testing.T) {
	if _, err := ParseConfig([]byte(`capacty = 12`)); err == nil {
		t.Error("ParseConfig accepted an unknown key")
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "probe.toml")
	if err := os.WriteFile(path, []byte(`hal = "vulkan"`), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.HAL != "vulkan" || cfg.Capacity != 1024 {
		t.Errorf("cfg = %+v", cfg)
	}
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("LoadConfig of a missing file succeeded")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"no backends", func(c *Config) { c.Backends = nil }},
		{"small capacity", func(c *Config) { c.Capacity = 8 }},
		{"unknown hal", func(c *Config) { c.HAL = "metal" }},
	}
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			if err := cfg.Validate(); !errors.Is(err, uicore.ErrInvalidArgument) {
				t.Errorf("Validate() = %v, want ErrInvalidArgument", err)
			}
		})
	}
}

func TestSplitList(t *testing.T) {
	got := splitList(" software, ,native ")
	if !slices.Equal(got, []string{"software", "native"}) {
		t.Errorf("splitList = %v", got)
	}
}

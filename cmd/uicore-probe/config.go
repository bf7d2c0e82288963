// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/gogpu/uicore"
)

// Config is the probe configuration. Fields not set in the file keep
// their defaults.
//
// Example probe.toml:
//
//	backends = ["software", "native"]
//	hal      = "noop"
//	capacity = 4096
//	budget   = 65536
type Config struct {
	Backends []string `toml:"backends"`
	HAL      string   `toml:"hal"`
	Capacity int      `toml:"capacity"`
	Budget   int64    `toml:"budget"`
	Verbose  bool     `toml:"verbose"`
}

// DefaultConfig returns the configuration used without a config file.
func DefaultConfig() Config {
	return Config{
		Backends: []string{"software", "native"},
		HAL:      "noop",
		Capacity: 1024,
		Budget:   -1,
	}
}

// LoadConfig reads a TOML config file over the defaults.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes TOML over the defaults. Unknown keys are rejected.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if len(c.Backends) == 0 {
		return fmt.Errorf("%w: no backends to probe", uicore.ErrInvalidArgument)
	}
	if c.Capacity < 32 {
		return fmt.Errorf("%w: capacity %d is below the 32 bytes the scenario needs",
			uicore.ErrInvalidArgument, c.Capacity)
	}
	switch c.HAL {
	case "noop", "vulkan":
	default:
		return fmt.Errorf("%w: unknown HAL API %q", uicore.ErrInvalidArgument, c.HAL)
	}
	return nil
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogl

package opengl

import (
	"errors"
	"testing"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/gogpu/uicore"
)

func TestTarget(t *testing.T) {
	if got := Target(uicore.KindVertex); got != gl.ARRAY_BUFFER {
		t.Errorf("Target(vertex) = 0x%X, want ARRAY_BUFFER", got)
	}
	if got := Target(uicore.KindIndex); got != gl.ELEMENT_ARRAY_BUFFER {
		t.Errorf("Target(index) = 0x%X, want ELEMENT_ARRAY_BUFFER", got)
	}
}

func TestUsageHint(t *testing.T) {
	tests := []struct {
		usage uicore.BufferUsage
		want  uint32
	}{
		{uicore.UsageStatic, gl.STATIC_DRAW},
		{uicore.UsageDynamic, gl.DYNAMIC_DRAW},
		{uicore.UsageStream, gl.STREAM_DRAW},
	}
	for _, tt := range tests {
		if got := usageHint(tt.usage); got != tt.want {
			t.Errorf("usageHint(%v) = 0x%X, want 0x%X", tt.usage, got, tt.want)
		}
	}
}

func TestMapAccess(t *testing.T) {
	tests := []struct {
		access uicore.BufferAccess
		want   uint32
	}{
		{uicore.AccessReadOnly, gl.MAP_READ_BIT},
		{uicore.AccessWriteOnly, gl.MAP_WRITE_BIT | gl.MAP_INVALIDATE_RANGE_BIT},
		{uicore.AccessReadWrite, gl.MAP_READ_BIT | gl.MAP_WRITE_BIT},
	}
	for _, tt := range tests {
		if got := mapAccess(tt.access); got != tt.want {
			t.Errorf("mapAccess(%v) = 0x%X, want 0x%X", tt.access, got, tt.want)
		}
	}
}

func TestErrorFor(t *testing.T) {
	tests := []struct {
		code uint32
		want error
	}{
		{gl.OUT_OF_MEMORY, uicore.ErrDeviceResourceExhausted},
		{glContextLost, uicore.ErrDeviceLost},
		{gl.INVALID_VALUE, uicore.ErrInvalidArgument},
		{gl.INVALID_OPERATION, uicore.ErrInvalidArgument},
	}
	for _, tt := range tests {
		err := errorFor(tt.code, "upload", "vb")
		if !errors.Is(err, tt.want) {
			t.Errorf("errorFor(0x%X) = %v, want %v", tt.code, err, tt.want)
		}
	}
	if err := errorFor(gl.NO_ERROR, "upload", "vb"); err != nil {
		t.Errorf("errorFor(NO_ERROR) = %v, want nil", err)
	}
}

func TestNewDeviceNil(t *testing.T) {
	if _, err := NewDevice(nil, "x"); !errors.Is(err, uicore.ErrInvalidArgument) {
		t.Errorf("NewDevice(nil) error = %v, want ErrInvalidArgument", err)
	}
}

func TestBackendRegistered(t *testing.T) {
	if _, ok := uicore.LookupBackend(Name); !ok {
		t.Fatalf("backend %q not registered", Name)
	}
}

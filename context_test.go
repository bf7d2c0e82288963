// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package uicore

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestGraphicContextOptions(t *testing.T) {
	gc := newTestContext(t, &memDevice{name: "main"},
		WithContextLabel("main-window"),
		WithMemoryBudget(4096))

	if gc.Label() != "main-window" {
		t.Errorf("Label() = %q, want main-window", gc.Label())
	}
	if gc.Budget() == nil || gc.Budget().Stats().TotalBytes != 4096 {
		t.Errorf("Budget() = %v, want 4096 bytes", gc.Budget().Stats())
	}
	if gc.Backend().Name() != memName {
		t.Errorf("Backend().Name() = %q, want %q", gc.Backend().Name(), memName)
	}
	if !strings.Contains(gc.String(), "main-window") {
		t.Errorf("String() = %q, want label", gc.String())
	}

	unlimited := newTestContext(t, &memDevice{name: "other"})
	if unlimited.Budget() != nil {
		t.Error("default context has a budget")
	}
	if unlimited.ID() == gc.ID() {
		t.Error("contexts share an ID")
	}
}

func TestGraphicContextLostRejectsCreation(t *testing.T) {
	gc := newTestContext(t, &memDevice{name: "main"})
	gc.NotifyDeviceLost()
	if !gc.IsLost() {
		t.Fatal("IsLost() = false after NotifyDeviceLost")
	}
	if _, err := NewVertexArrayBuffer(gc, 4, UsageStatic); !errors.Is(err, ErrDeviceLost) {
		t.Errorf("error = %v, want ErrDeviceLost", err)
	}
	gc.NotifyDeviceRestored()
	if gc.IsLost() {
		t.Error("IsLost() = true after NotifyDeviceRestored")
	}
}

func TestGraphicContextDestroyIdempotent(t *testing.T) {
	gc, err := NewGraphicContext(&memDevice{name: "main"})
	if err != nil {
		t.Fatalf("NewGraphicContext failed: %v", err)
	}
	gc.Destroy()
	gc.Destroy()
	if !gc.IsDestroyed() {
		t.Error("IsDestroyed() = false after Destroy")
	}
	gc.NotifyDeviceLost()
	if gc.IsLost() {
		t.Error("destroyed context accepted a loss notification")
	}
}

func TestMemoryBudgetAcrossBuffers(t *testing.T) {
	gc := newTestContext(t, &memDevice{name: "main"}, WithMemoryBudget(100))
	b := gc.Budget()

	if err := b.Reserve(60); err != nil {
		t.Fatalf("Reserve(60) failed: %v", err)
	}
	if err := b.Reserve(60); !errors.Is(err, ErrDeviceResourceExhausted) {
		t.Errorf("Reserve(60) error = %v, want ErrDeviceResourceExhausted", err)
	}
	b.Release(60)
	s := b.Stats()
	if s.UsedBytes != 0 || s.Allocations != 0 || s.Rejections != 1 {
		t.Errorf("Stats() = %+v", s)
	}
	if !strings.Contains(s.String(), "1 rejections") {
		t.Errorf("String() = %q", s.String())
	}

	var unlimited *MemoryBudget
	if err := unlimited.Reserve(1 << 40); err != nil {
		t.Errorf("nil budget Reserve failed: %v", err)
	}
	unlimited.Release(1)
	if unlimited.Stats() != (MemoryStats{}) {
		t.Error("nil budget reports stats")
	}
}

func TestNewGraphicContextOneLivePerDevice(t *testing.T) {
	dev := &memDevice{name: "shared"}
	first, err := NewGraphicContext(dev)
	if err != nil {
		t.Fatalf("NewGraphicContext failed: %v", err)
	}
	b, err := NewVertexArrayBufferWithData(first, []byte{0xAB, 0xAB, 0xAB, 0xAB}, 4, UsageStatic)
	if err != nil {
		t.Fatalf("NewVertexArrayBufferWithData failed: %v", err)
	}
	defer b.Destroy()

	if _, err := NewGraphicContext(dev); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("second context on a live device error = %v, want ErrInvalidArgument", err)
	}
	onDevice := 0
	for _, gc := range LiveContexts() {
		if gc.Device() == dev {
			onDevice++
		}
	}
	if onDevice != 1 {
		t.Errorf("%d live contexts on the device, want 1", onDevice)
	}

	first.Destroy()
	second := newTestContext(t, dev)
	if _, ok := memProviderOf(t, b).handles.Lookup(dev); ok {
		t.Error("handle of the destroyed context survived")
	}
	// The static buffer has no host copy; on the new context it starts over.
	if got := readBack(t, second, b); !bytes.Equal(got, make([]byte, 4)) {
		t.Errorf("contents on new context = %v, want zeros", got)
	}
}

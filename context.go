// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package uicore

import (
	"fmt"
	"sync/atomic"
)

var nextContextID atomic.Uint64

// GraphicContext is the execution context buffer operations run against:
// one logical connection to a native device.
//
// The window or device owner creates it around a device it owns and keeps
// ownership of the device; Destroy releases only what uicore realized on it.
// The owner reports device loss with NotifyDeviceLost and an in-place reset
// with NotifyDeviceRestored.
//
// Resources reference the context through its ShareList weakly, so a
// context may be destroyed before or after the buffers used with it.
type GraphicContext struct {
	id      uint64
	label   string
	device  Device
	backend Backend
	budget  *MemoryBudget
	shared  ShareList

	lost      atomic.Bool
	destroyed atomic.Bool
}

// NewGraphicContext creates a context for dev. The backend is the one
// registered under dev.BackendName(). The context joins the live list used
// by SetActiveAny.
//
// A device has at most one live context: handles and loss are tracked per
// device, so a second context on the same device fails with
// ErrInvalidArgument until the first is destroyed. Devices are compared
// with ==.
func NewGraphicContext(dev Device, opts ...ContextOption) (*GraphicContext, error) {
	if dev == nil {
		return nil, fmt.Errorf("%w: device is nil", ErrInvalidArgument)
	}
	b, err := backendFor(dev)
	if err != nil {
		return nil, err
	}

	o := defaultContextOptions()
	for _, opt := range opts {
		opt(&o)
	}

	gc := &GraphicContext{
		id:      nextContextID.Add(1),
		label:   o.label,
		device:  dev,
		backend: b,
	}
	if o.budget >= 0 {
		gc.budget = NewMemoryBudget(o.budget)
	}

	if err := activation.add(gc); err != nil {
		return nil, err
	}
	Logger().Info("uicore: graphic context created",
		"id", gc.id, "backend", b.Name(), "label", gc.label)
	return gc, nil
}

// ID returns the process-unique context identifier.
func (gc *GraphicContext) ID() uint64 { return gc.id }

// Label returns the debug label.
func (gc *GraphicContext) Label() string { return gc.label }

// Device returns the native device.
func (gc *GraphicContext) Device() Device { return gc.device }

// Backend returns the backend realizing resources on this context.
func (gc *GraphicContext) Backend() Backend { return gc.backend }

// Budget returns the memory budget, or nil when unlimited.
func (gc *GraphicContext) Budget() *MemoryBudget { return gc.budget }

// Resources returns the shared-resource list of this context.
func (gc *GraphicContext) Resources() *ShareList { return &gc.shared }

// IsLost reports whether the device was lost and not yet restored.
func (gc *GraphicContext) IsLost() bool { return gc.lost.Load() }

// IsDestroyed reports whether Destroy has been called.
func (gc *GraphicContext) IsDestroyed() bool { return gc.destroyed.Load() }

// String returns a short description for logs.
func (gc *GraphicContext) String() string {
	return fmt.Sprintf("GraphicContext(%d %s %q)", gc.id, gc.backend.Name(), gc.label)
}

// NotifyDeviceLost reports that the native device became invalid.
// Every handle realized on the device is purged immediately and all
// operations through the context fail with ErrDeviceLost until
// NotifyDeviceRestored is called.
func (gc *GraphicContext) NotifyDeviceLost() {
	if gc.destroyed.Load() {
		return
	}
	gc.lost.Store(true)
	n := gc.shared.deviceLost(gc)
	Logger().Warn("uicore: device lost", "context", gc.id, "resources", n)
}

// NotifyDeviceRestored reports that the native device was reset in place
// and accepts resources again. Buffers are realized anew on next use:
// from their host mirror when they keep one, otherwise their operations
// against this device fail with ErrDeviceLost.
func (gc *GraphicContext) NotifyDeviceRestored() {
	if gc.destroyed.Load() {
		return
	}
	gc.lost.Store(false)
	Logger().Info("uicore: device restored", "context", gc.id)
}

// Destroy releases every handle realized on the device, unbinds the
// context if it is active and removes it from the live list.
// Destroy is idempotent.
func (gc *GraphicContext) Destroy() {
	if !gc.destroyed.CompareAndSwap(false, true) {
		return
	}
	n := gc.shared.release(gc)
	activation.remove(gc)
	Logger().Info("uicore: graphic context destroyed", "id", gc.id, "released", n)
}

// resolveContext returns the context an operation runs against: gc, or
// the active context when gc is nil. Devices with thread affinity only
// accept the context that is currently bound.
func resolveContext(gc *GraphicContext) (*GraphicContext, error) {
	if gc == nil {
		active, err := ActiveContext()
		if err != nil {
			return nil, err
		}
		gc = active
	}
	if gc.IsDestroyed() {
		return nil, ErrContextDestroyed
	}
	if _, affine := gc.device.(ContextBinder); affine && activation.current() != gc {
		return nil, fmt.Errorf("%w: %v is not current", ErrNoActiveContext, gc)
	}
	return gc, nil
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package software provides the legacy immediate-mode backend: buffers are
// plain host memory and uploads are memory copies.
//
// It has no device-side handles, so device loss never affects its
// contents. It is the reference implementation of the uicore buffer
// contract and runs without a GPU, which makes it the backend of choice
// for tests and headless tools.
//
// The backend registers itself on import:
//
//	import _ "github.com/gogpu/uicore/backend/software"
package software

import (
	"fmt"

	"github.com/gogpu/uicore"
)

// Name is the name the backend is registered under.
const Name = "software"

func init() {
	uicore.RegisterBackend(Name, Backend{})
}

// Device is a host-memory device.
type Device struct {
	label string
}

// NewDevice creates a software device.
func NewDevice(label string) *Device {
	return &Device{label: label}
}

// BackendName implements uicore.Device.
func (d *Device) BackendName() string { return Name }

// Label returns the debug label.
func (d *Device) Label() string { return d.label }

// String returns a short description for logs.
func (d *Device) String() string { return fmt.Sprintf("software.Device(%q)", d.label) }

// Backend implements uicore.Backend with host memory.
type Backend struct{}

// Name returns the backend identifier.
func (Backend) Name() string { return Name }

// NewBuffer allocates the host block, accounting it against gc's budget.
func (Backend) NewBuffer(gc *uicore.GraphicContext, desc uicore.BufferDesc) (uicore.BufferProvider, error) {
	budget := gc.Budget()
	if err := budget.Reserve(int64(desc.Capacity)); err != nil {
		return nil, err
	}
	b := &buffer{
		data:   make([]byte, desc.Capacity),
		budget: budget,
	}
	copy(b.data, desc.InitData)
	return b, nil
}

// buffer is a host memory block.
type buffer struct {
	data   []byte
	budget *uicore.MemoryBudget
}

func (b *buffer) UploadData(_ *uicore.GraphicContext, offset int, data []byte) error {
	copy(b.data[offset:], data)
	return nil
}

func (b *buffer) CopyFrom(_ *uicore.GraphicContext, staging *uicore.StagingBuffer, destPos, srcPos, size int) error {
	if err := staging.Lock(uicore.AccessReadOnly); err != nil {
		return err
	}
	src, err := staging.Bytes()
	if err == nil {
		copy(b.data[destPos:destPos+size], src[srcPos:srcPos+size])
	}
	if uerr := staging.Unlock(); err == nil {
		err = uerr
	}
	return err
}

func (b *buffer) CopyTo(_ *uicore.GraphicContext, staging *uicore.StagingBuffer, destPos, srcPos, size int) error {
	return staging.UploadData(destPos, b.data[srcPos:srcPos+size])
}

// DeviceLost is a no-op: host memory survives device loss.
func (b *buffer) DeviceLost(gc *uicore.GraphicContext) {
	uicore.Logger().Debug("software: device loss ignored", "context", gc.ID())
}

func (b *buffer) DeviceReleased(*uicore.GraphicContext) {}

func (b *buffer) Destroy() {
	b.budget.Release(int64(len(b.data)))
	b.data = nil
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

// Package native provides the native 3D API backend over gogpu/wgpu HAL,
// which drives Vulkan, Metal, DX12 or GLES underneath.
//
// A logical buffer is realized as one hal.Buffer per device it is used
// with. Uploads go through Queue.WriteBuffer; readback copies into a
// MapRead staging buffer, waits for the submission to complete and maps it.
//
// The backend registers itself on import:
//
//	import _ "github.com/gogpu/uicore/backend/native"
package native

import (
	"fmt"
	"time"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/uicore"
)

// Name is the name the backend is registered under.
const Name = "native"

// DefaultWaitTimeout bounds the wait for a readback copy to complete.
const DefaultWaitTimeout = 5 * time.Second

// Device is a HAL device and its queue, owned by the window or device owner.
type Device struct {
	device      hal.Device
	queue       hal.Queue
	label       string
	waitTimeout time.Duration

	// instance is set when the Device was opened standalone and owns its
	// HAL device.
	instance hal.Instance
}

// NewDevice wraps a HAL device and queue. The caller keeps ownership of
// both and must outlive every graphic context created on the device.
func NewDevice(device hal.Device, queue hal.Queue, label string) (*Device, error) {
	if device == nil || queue == nil {
		return nil, fmt.Errorf("%w: nil HAL device or queue", uicore.ErrInvalidArgument)
	}
	return &Device{
		device:      device,
		queue:       queue,
		label:       label,
		waitTimeout: DefaultWaitTimeout,
	}, nil
}

// NewDeviceFromProvider shares the device of a host application (e.g.,
// gogpu). The provider must also expose HalDevice() and HalQueue()
// returning hal.Device and hal.Queue.
func NewDeviceFromProvider(provider gpucontext.DeviceProvider, label string) (*Device, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, fmt.Errorf("%w: provider does not expose HAL types", uicore.ErrInvalidArgument)
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: provider HalDevice is not hal.Device", uicore.ErrInvalidArgument)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("%w: provider HalQueue is not hal.Queue", uicore.ErrInvalidArgument)
	}
	return NewDevice(device, queue, label)
}

// instanceCreator is the part of hal.Backend that Open needs.
type instanceCreator interface {
	CreateInstance(desc *hal.InstanceDescriptor) (hal.Instance, error)
}

// OpenBackend opens a standalone device on the HAL backend of the given
// kind. The backend package must be linked in, e.g.:
//
//	import _ "github.com/gogpu/wgpu/hal/vulkan"
func OpenBackend(kind gputypes.Backend, label string) (*Device, error) {
	backend, ok := hal.GetBackend(kind)
	if !ok {
		return nil, fmt.Errorf("%w: HAL backend %v not available", uicore.ErrInvalidArgument, kind)
	}
	return Open(backend, label)
}

// Open creates an instance on api and opens a device on its first
// discrete or integrated GPU, falling back to the first adapter. The
// returned Device owns the instance; release it with Close.
func Open(api instanceCreator, label string) (*Device, error) {
	instance, err := api.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("%w: create instance: %v", uicore.ErrDeviceLost, err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, fmt.Errorf("%w: no GPU adapters found", uicore.ErrDeviceLost)
	}

	selected := &adapters[0]
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}

	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("%w: open device: %v", uicore.ErrDeviceResourceExhausted, err)
	}
	d, err := NewDevice(openDev.Device, openDev.Queue, label)
	if err != nil {
		openDev.Device.Destroy()
		instance.Destroy()
		return nil, err
	}
	d.instance = instance
	uicore.Logger().Info("native: device opened", "device", label, "adapter", selected.Info.Name)
	return d, nil
}

// Close destroys the HAL device and instance of a Device returned by Open.
// It does nothing for devices wrapped with NewDevice, whose owner keeps
// ownership. Every graphic context on the device must be destroyed first.
func (d *Device) Close() {
	if d.instance == nil {
		return
	}
	d.device.Destroy()
	d.instance.Destroy()
	d.instance = nil
}

// BackendName implements uicore.Device.
func (d *Device) BackendName() string { return Name }

// Label returns the debug label.
func (d *Device) Label() string { return d.label }

// HAL returns the wrapped device and queue.
func (d *Device) HAL() (hal.Device, hal.Queue) { return d.device, d.queue }

// SetWaitTimeout changes how long readback waits for the GPU.
func (d *Device) SetWaitTimeout(timeout time.Duration) {
	if timeout > 0 {
		d.waitTimeout = timeout
	}
}

// String returns a short description for logs.
func (d *Device) String() string { return fmt.Sprintf("native.Device(%q)", d.label) }

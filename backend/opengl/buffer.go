// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogl

package opengl

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/gogpu/uicore"
)

// Transfers bind the copy targets, which are not part of vertex array
// object state and so leave the caller's draw bindings intact.
const (
	writeTarget = gl.COPY_WRITE_BUFFER
	readTarget  = gl.COPY_READ_BUFFER
)

func init() {
	uicore.RegisterBackend(Name, Backend{})
}

// Backend realizes buffers as OpenGL buffer objects.
type Backend struct{}

// Name implements uicore.Backend.
func (Backend) Name() string { return Name }

// NewBuffer implements uicore.Backend. The buffer is realized on the
// context's device right away.
func (Backend) NewBuffer(gc *uicore.GraphicContext, desc uicore.BufferDesc) (uicore.BufferProvider, error) {
	dev, ok := gc.Device().(*Device)
	if !ok {
		return nil, errNotGL(gc.Device())
	}
	b := &buffer{desc: desc}
	b.desc.InitData = nil
	_, err := b.handles.Realize(dev, func(bool) (*realization, error) {
		return b.create(gc, dev, desc.InitData)
	}, b.release)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Target returns the binding point a buffer of kind is drawn from.
func Target(kind uicore.BufferKind) uint32 {
	if kind == uicore.KindIndex {
		return gl.ELEMENT_ARRAY_BUFFER
	}
	return gl.ARRAY_BUFFER
}

// usageHint returns the GL usage hint for a buffer usage.
func usageHint(u uicore.BufferUsage) uint32 {
	switch u {
	case uicore.UsageDynamic:
		return gl.DYNAMIC_DRAW
	case uicore.UsageStream:
		return gl.STREAM_DRAW
	default:
		return gl.STATIC_DRAW
	}
}

// mapAccess returns the MapBufferRange access bits for an access mode.
// Write-only maps invalidate the range since none of it is read.
func mapAccess(a uicore.BufferAccess) uint32 {
	var bits uint32
	if a.CanRead() {
		bits |= gl.MAP_READ_BIT
	}
	if a.CanWrite() {
		bits |= gl.MAP_WRITE_BIT
		if !a.CanRead() {
			bits |= gl.MAP_INVALIDATE_RANGE_BIT
		}
	}
	return bits
}

type realization struct {
	device *Device
	name   uint32
	size   int
	budget *uicore.MemoryBudget
}

type buffer struct {
	desc    uicore.BufferDesc
	handles uicore.DeviceHandleTable[*realization]
}

// Handle returns the buffer object name realized on dev, if any. Bind it
// to Target(kind) to draw from it.
func (b *buffer) Handle(dev *Device) (uint32, bool) {
	r, ok := b.handles.Lookup(dev)
	if !ok {
		return 0, false
	}
	return r.name, true
}

// HandleOf returns the buffer object name realizing ub on dev. It reports
// false when ub is not an OpenGL buffer or has no live realization on dev.
func HandleOf(ub *uicore.Buffer, dev *Device) (uint32, bool) {
	b, ok := ub.Provider().(*buffer)
	if !ok || ub.IsDestroyed() {
		return 0, false
	}
	return b.Handle(dev)
}

func (b *buffer) create(gc *uicore.GraphicContext, dev *Device, seed []byte) (*realization, error) {
	size := b.desc.Capacity
	if err := gc.Budget().Reserve(int64(size)); err != nil {
		return nil, err
	}
	var name uint32
	gl.GenBuffers(1, &name)
	gl.BindBuffer(writeTarget, name)
	// BufferData with nil leaves the store undefined; zero-fill instead.
	if len(seed) < size {
		zeroed := make([]byte, size)
		copy(zeroed, seed)
		seed = zeroed
	}
	var ptr unsafe.Pointer
	if size > 0 {
		ptr = gl.Ptr(seed)
	}
	gl.BufferData(writeTarget, size, ptr, usageHint(b.desc.Usage))
	gl.BindBuffer(writeTarget, 0)
	if err := checkError("create buffer", b.desc.Label); err != nil {
		gl.DeleteBuffers(1, &name)
		gc.Budget().Release(int64(size))
		return nil, err
	}
	uicore.Logger().Debug("opengl: buffer realized",
		"label", b.desc.Label, "name", name, "size", size, "device", dev.label)
	return &realization{device: dev, name: name, size: size, budget: gc.Budget()}, nil
}

func (b *buffer) release(r *realization) {
	r.device.deleteBuffer(r.name)
	r.budget.Release(int64(r.size))
}

// realize returns the realization on gc's device. See the native backend
// for the restore rules; they are the same here.
func (b *buffer) realize(gc *uicore.GraphicContext) (*realization, error) {
	dev, ok := gc.Device().(*Device)
	if !ok {
		return nil, errNotGL(gc.Device())
	}
	return b.handles.Realize(dev, func(restoring bool) (*realization, error) {
		var seed []byte
		switch {
		case b.desc.Contents != nil:
			seed = b.desc.Contents()
		case restoring:
			return nil, fmt.Errorf("%w: buffer %q has no host copy to restore from",
				uicore.ErrDeviceLost, b.desc.Label)
		}
		return b.create(gc, dev, seed)
	}, b.release)
}

func (b *buffer) write(r *realization, offset int, data []byte) error {
	gl.BindBuffer(writeTarget, r.name)
	gl.BufferSubData(writeTarget, offset, len(data), gl.Ptr(data))
	gl.BindBuffer(writeTarget, 0)
	return checkError("upload", b.desc.Label)
}

// UploadData implements uicore.BufferProvider.
func (b *buffer) UploadData(gc *uicore.GraphicContext, offset int, data []byte) error {
	r, err := b.realize(gc)
	if err != nil {
		return err
	}
	return b.write(r, offset, data)
}

// CopyFrom implements uicore.BufferProvider.
func (b *buffer) CopyFrom(gc *uicore.GraphicContext, staging *uicore.StagingBuffer, destPos, srcPos, size int) error {
	r, err := b.realize(gc)
	if err != nil {
		return err
	}
	if err := staging.Lock(uicore.AccessReadOnly); err != nil {
		return err
	}
	src, err := staging.Bytes()
	if err == nil {
		err = b.write(r, destPos, src[srcPos:srcPos+size])
	}
	if uerr := staging.Unlock(); err == nil {
		err = uerr
	}
	return err
}

// CopyTo implements uicore.BufferProvider. The read maps the range, which
// waits for pending GPU writes to it.
func (b *buffer) CopyTo(gc *uicore.GraphicContext, staging *uicore.StagingBuffer, destPos, srcPos, size int) error {
	r, err := b.realize(gc)
	if err != nil {
		return err
	}
	gl.BindBuffer(readTarget, r.name)
	defer gl.BindBuffer(readTarget, 0)

	ptr := gl.MapBufferRange(readTarget, srcPos, size, mapAccess(uicore.AccessReadOnly))
	if ptr == nil {
		if err := checkError("map", b.desc.Label); err != nil {
			return err
		}
		return fmt.Errorf("%w: opengl map %q returned nil", uicore.ErrDeviceLost, b.desc.Label)
	}
	err = staging.UploadData(destPos, unsafe.Slice((*byte)(ptr), size))
	if !gl.UnmapBuffer(readTarget) && err == nil {
		// The data store was corrupted while mapped, e.g. by a mode switch.
		err = fmt.Errorf("%w: opengl unmap %q: contents corrupted", uicore.ErrDeviceLost, b.desc.Label)
	}
	return err
}

// DeviceLost implements uicore.BufferProvider. The names of a lost context
// are gone with it; only the budget is returned.
func (b *buffer) DeviceLost(gc *uicore.GraphicContext) {
	if r, ok := b.handles.Purge(gc.Device()); ok {
		r.budget.Release(int64(r.size))
		uicore.Logger().Debug("opengl: buffer purged", "label", b.desc.Label, "device", r.device.label)
	}
}

// DeviceReleased implements uicore.BufferProvider.
func (b *buffer) DeviceReleased(gc *uicore.GraphicContext) {
	if r, ok := b.handles.Remove(gc.Device()); ok {
		b.release(r)
	}
}

// Destroy implements uicore.BufferProvider. Names on devices that are not
// current are deleted the next time they are made current.
func (b *buffer) Destroy() {
	for _, r := range b.handles.Drain() {
		b.release(r)
	}
}

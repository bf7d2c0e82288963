// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package native

import (
	"fmt"
	"time"
	"unsafe"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/uicore"
)

// copyAlignment is the offset and size alignment HAL requires for buffer
// writes and buffer-to-buffer copies.
const copyAlignment = 4

func init() {
	uicore.RegisterBackend(Name, Backend{})
}

// Backend realizes buffers as hal.Buffer objects.
type Backend struct{}

// Name implements uicore.Backend.
func (Backend) Name() string { return Name }

// NewBuffer implements uicore.Backend. The buffer is realized on the
// context's device right away so allocation failures surface at creation.
func (Backend) NewBuffer(gc *uicore.GraphicContext, desc uicore.BufferDesc) (uicore.BufferProvider, error) {
	b := &buffer{
		desc:  desc,
		usage: halUsage(desc.Kind),
		size:  alignUp(uint64(desc.Capacity)),
	}
	if b.size == 0 {
		b.size = copyAlignment
	}
	b.desc.InitData = nil

	dev, ok := gc.Device().(*Device)
	if !ok {
		return nil, errNotNative(gc.Device())
	}
	_, err := b.handles.Realize(dev, func(bool) (*realization, error) {
		return b.create(gc, dev, desc.InitData)
	}, b.release)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// halUsage returns the HAL usage flags for a buffer kind. Every buffer is
// a copy source and destination so uploads and readback work uniformly.
func halUsage(kind uicore.BufferKind) gputypes.BufferUsage {
	usage := gputypes.BufferUsageCopyDst | gputypes.BufferUsageCopySrc
	if kind == uicore.KindIndex {
		return usage | gputypes.BufferUsageIndex
	}
	return usage | gputypes.BufferUsageVertex
}

func alignUp(n uint64) uint64 {
	return (n + copyAlignment - 1) &^ (copyAlignment - 1)
}

func alignDown(n uint64) uint64 {
	return n &^ (copyAlignment - 1)
}

// realization is one hal.Buffer backing a logical buffer on one device.
type realization struct {
	device *Device
	buf    hal.Buffer
	size   uint64
	budget *uicore.MemoryBudget
}

type buffer struct {
	desc    uicore.BufferDesc
	usage   gputypes.BufferUsage
	size    uint64
	handles uicore.DeviceHandleTable[*realization]
}

// Handle returns the hal.Buffer realized on dev, if any.
// It is intended for binding the buffer at draw time.
func (b *buffer) Handle(dev *Device) (hal.Buffer, bool) {
	r, ok := b.handles.Lookup(dev)
	if !ok {
		return nil, false
	}
	return r.buf, true
}

// HandleOf returns the hal.Buffer realizing ub on dev. It reports false when
// ub is not a native buffer or has no live realization on dev.
func HandleOf(ub *uicore.Buffer, dev *Device) (hal.Buffer, bool) {
	b, ok := ub.Provider().(*buffer)
	if !ok || ub.IsDestroyed() {
		return nil, false
	}
	return b.Handle(dev)
}

func (b *buffer) create(gc *uicore.GraphicContext, dev *Device, seed []byte) (*realization, error) {
	if err := gc.Budget().Reserve(int64(b.size)); err != nil {
		return nil, err
	}
	buf, err := dev.device.CreateBuffer(&hal.BufferDescriptor{
		Label: b.desc.Label,
		Size:  b.size,
		Usage: b.usage,
	})
	if err != nil {
		gc.Budget().Release(int64(b.size))
		return nil, errExhausted("create buffer", b.desc.Label, err)
	}
	r := &realization{device: dev, buf: buf, size: b.size, budget: gc.Budget()}
	// HAL leaves new memory undefined; zero-fill when there is no seed.
	padded := make([]byte, b.size)
	copy(padded, seed)
	if err := dev.queue.WriteBuffer(buf, 0, padded); err != nil {
		b.release(r)
		return nil, errLost("write buffer", b.desc.Label, err)
	}
	uicore.Logger().Debug("native: buffer realized",
		"label", b.desc.Label, "size", b.size, "device", dev.label)
	return r, nil
}

func (b *buffer) release(r *realization) {
	r.device.device.DestroyBuffer(r.buf)
	r.budget.Release(int64(r.size))
}

// realize returns the realization on gc's device, creating it if needed.
// A device that lost this buffer is restored from the host mirror; without
// one the contents are gone and ErrDeviceLost is returned. A device seen
// for the first time starts from the mirror or zero.
func (b *buffer) realize(gc *uicore.GraphicContext) (*realization, error) {
	dev, ok := gc.Device().(*Device)
	if !ok {
		return nil, errNotNative(gc.Device())
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

// UploadData implements uicore.BufferProvider. Writes not aligned to
// copyAlignment are widened and the edge bytes read back first.
func (b *buffer) UploadData(gc *uicore.GraphicContext, offset int, data []byte) error {
	r, err := b.realize(gc)
	if err != nil {
		return err
	}
	return b.write(r, uint64(offset), data)
}

func (b *buffer) write(r *realization, offset uint64, data []byte) error {
	end := offset + uint64(len(data))
	lo, hi := alignDown(offset), alignUp(end)
	if lo != offset || hi != end {
		span, err := r.device.readback(r.buf, lo, hi-lo, b.desc.Label)
		if err != nil {
			return err
		}
		copy(span[offset-lo:], data)
		offset, data = lo, span
	}
	if err := r.device.queue.WriteBuffer(r.buf, offset, data); err != nil {
		return errLost("write buffer", b.desc.Label, err)
	}
	return nil
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
		err = b.write(r, uint64(destPos), src[srcPos:srcPos+size])
	}
	if uerr := staging.Unlock(); err == nil {
		err = uerr
	}
	return err
}

// CopyTo implements uicore.BufferProvider. It blocks until the GPU has
// finished the copy.
func (b *buffer) CopyTo(gc *uicore.GraphicContext, staging *uicore.StagingBuffer, destPos, srcPos, size int) error {
	r, err := b.realize(gc)
	if err != nil {
		return err
	}
	start, end := uint64(srcPos), uint64(srcPos+size)
	lo, hi := alignDown(start), alignUp(end)
	span, err := r.device.readback(r.buf, lo, hi-lo, b.desc.Label)
	if err != nil {
		return err
	}
	return staging.UploadData(destPos, span[start-lo:end-lo])
}

// DeviceLost implements uicore.BufferProvider.
func (b *buffer) DeviceLost(gc *uicore.GraphicContext) {
	if r, ok := b.handles.Purge(gc.Device()); ok {
		b.release(r)
		uicore.Logger().Debug("native: buffer purged", "label", b.desc.Label, "device", r.device.label)
	}
}

// DeviceReleased implements uicore.BufferProvider.
func (b *buffer) DeviceReleased(gc *uicore.GraphicContext) {
	if r, ok := b.handles.Remove(gc.Device()); ok {
		b.release(r)
	}
}

// Destroy implements uicore.BufferProvider.
func (b *buffer) Destroy() {
	for _, r := range b.handles.Drain() {
		b.release(r)
	}
}

// readback copies size bytes at offset of src into a MapRead buffer and
// returns them once the GPU has completed the copy. offset and size must
// be aligned.
func (d *Device) readback(src hal.Buffer, offset, size uint64, label string) ([]byte, error) {
	staging, err := d.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "uicore_readback",
		Size:  size,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, errExhausted("create readback buffer", label, err)
	}

	encoder, err := d.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "uicore_readback"})
	if err != nil {
		d.device.DestroyBuffer(staging)
		return nil, errLost("create command encoder", label, err)
	}
	if err := encoder.BeginEncoding("uicore_readback"); err != nil {
		d.device.DestroyBuffer(staging)
		return nil, errLost("begin encoding", label, err)
	}
	encoder.CopyBufferToBuffer(src, staging, []hal.BufferCopy{
		{SrcOffset: offset, DstOffset: 0, Size: size},
	})
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		d.device.DestroyBuffer(staging)
		return nil, errLost("end encoding", label, err)
	}

	index, err := d.queue.Submit([]hal.CommandBuffer{cmdBuf})
	if err != nil {
		d.device.FreeCommandBuffer(cmdBuf)
		d.device.DestroyBuffer(staging)
		return nil, errLost("submit", label, err)
	}
	// On timeout the copy may still be running; its resources are leaked
	// rather than freed under the GPU.
	if err := d.waitSubmission(index); err != nil {
		return nil, errLost("wait", label, err)
	}
	defer d.device.DestroyBuffer(staging)
	defer d.device.FreeCommandBuffer(cmdBuf)

	mapping, err := d.device.MapBuffer(staging, 0, size)
	if err != nil {
		return nil, errLost("map readback buffer", label, err)
	}
	out := make([]byte, size)
	copy(out, unsafe.Slice((*byte)(mapping.Ptr), size))
	if err := d.device.UnmapBuffer(staging); err != nil {
		return nil, errLost("unmap readback buffer", label, err)
	}
	return out, nil
}

// waitSubmission blocks until the queue reports index completed or the
// wait timeout expires.
func (d *Device) waitSubmission(index uint64) error {
	deadline := time.Now().Add(d.waitTimeout)
	delay := 50 * time.Microsecond
	for d.queue.PollCompleted() < index {
		if time.Now().After(deadline) {
			return fmt.Errorf("submission %d not completed after %v", index, d.waitTimeout)
		}
		time.Sleep(delay)
		delay = min(2*delay, 5*time.Millisecond)
	}
	return nil
}

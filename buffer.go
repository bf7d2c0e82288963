// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package uicore

import (
	"fmt"
	"sync/atomic"
)

// Buffer is a fixed-capacity block of GPU-visible memory: a vertex array
// buffer or an element array buffer.
//
// Every operation is validated here before it reaches the backend: the
// buffer must be alive, ranges must lie within [0, Capacity), staging
// buffers must be unlocked, and the context must be usable and belong to
// the buffer's backend. Providers never re-validate.
//
// A Buffer is realized lazily on every device it is used with. When a
// device is lost the realization is dropped; it is rebuilt on next use from
// the host mirror if the buffer keeps one (see MirrorPolicy). Without a
// mirror, contents on a lost device are gone and operations against that
// device fail with ErrDeviceLost: GPU memory is volatile and the loss is
// reported rather than hidden.
//
// Buffer performs no locking of its contents. Operations from one
// goroutine execute in program order; concurrent operations on the same
// buffer must be serialized by the caller.
type Buffer struct {
	label    string
	kind     BufferKind
	capacity int
	usage    BufferUsage
	backend  Backend
	provider BufferProvider
	mirror   []byte
	secret   *SecretBuffer
	node     *resourceNode

	destroyed atomic.Bool
}

// NewVertexArrayBuffer creates a vertex array buffer of capacity bytes on
// gc, or on the active context when gc is nil. Contents are zero on every
// device the buffer is realized on.
func NewVertexArrayBuffer(gc *GraphicContext, capacity int, usage BufferUsage, opts ...BufferOption) (*Buffer, error) {
	return newBuffer(gc, KindVertex, nil, capacity, usage, opts)
}

// NewVertexArrayBufferWithData creates a vertex array buffer initialized
// with the first capacity bytes of data.
func NewVertexArrayBufferWithData(gc *GraphicContext, data []byte, capacity int, usage BufferUsage, opts ...BufferOption) (*Buffer, error) {
	if data == nil {
		data = []byte{}
	}
	return newBuffer(gc, KindVertex, data, capacity, usage, opts)
}

// NewElementArrayBuffer creates an element (index) array buffer of
// capacity bytes.
func NewElementArrayBuffer(gc *GraphicContext, capacity int, usage BufferUsage, opts ...BufferOption) (*Buffer, error) {
	return newBuffer(gc, KindIndex, nil, capacity, usage, opts)
}

// NewElementArrayBufferWithData creates an element array buffer initialized
// with the first capacity bytes of data.
func NewElementArrayBufferWithData(gc *GraphicContext, data []byte, capacity int, usage BufferUsage, opts ...BufferOption) (*Buffer, error) {
	if data == nil {
		data = []byte{}
	}
	return newBuffer(gc, KindIndex, data, capacity, usage, opts)
}

func newBuffer(gc *GraphicContext, kind BufferKind, data []byte, capacity int, usage BufferUsage, opts []BufferOption) (*Buffer, error) {
	if capacity < 0 {
		return nil, fmt.Errorf("%w: buffer capacity %d is negative", ErrInvalidArgument, capacity)
	}
	if !usage.valid() {
		return nil, fmt.Errorf("%w: buffer usage %v", ErrInvalidArgument, usage)
	}
	if data != nil && len(data) < capacity {
		return nil, fmt.Errorf("%w: %d bytes of data for buffer of capacity %d",
			ErrInvalidArgument, len(data), capacity)
	}
	gc, err := resolveContext(gc)
	if err != nil {
		return nil, err
	}
	if gc.IsLost() {
		return nil, fmt.Errorf("%w: %v", ErrDeviceLost, gc)
	}

	o := defaultBufferOptions()
	for _, opt := range opts {
		opt(&o)
	}

	b := &Buffer{
		label:    o.label,
		kind:     kind,
		capacity: capacity,
		usage:    usage,
		backend:  gc.backend,
	}
	desc := BufferDesc{
		Label:    o.label,
		Kind:     kind,
		Capacity: capacity,
		Usage:    usage,
	}
	if data != nil {
		desc.InitData = data[:capacity]
	}
	if o.mirror.mirrors(usage) {
		if o.sensitive {
			sb, err := NewSecretBuffer(capacity)
			if err != nil {
				return nil, err
			}
			b.secret = sb
			b.mirror = sb.Bytes()
		} else {
			b.mirror = make([]byte, capacity)
		}
		copy(b.mirror, desc.InitData)
		desc.Contents = b.hostContents
	}

	p, err := gc.backend.NewBuffer(gc, desc)
	if err != nil {
		if b.secret != nil {
			b.secret.Release()
		}
		return nil, err
	}
	b.provider = p
	b.node = &resourceNode{label: o.label, onLost: b.deviceLost, onRelease: b.deviceReleased}
	gc.shared.track(b.node)
	// A loss reported while the provider was creating missed this buffer.
	if gc.IsLost() {
		b.Destroy()
		return nil, fmt.Errorf("%w: %v lost during buffer creation", ErrDeviceLost, gc)
	}

	Logger().Debug("uicore: buffer created",
		"label", b.label, "kind", kind, "capacity", capacity, "usage", usage,
		"mirror", b.mirror != nil, "context", gc.id)
	return b, nil
}

// Label returns the debug label.
func (b *Buffer) Label() string { return b.label }

// Kind returns whether this is a vertex or element array buffer.
func (b *Buffer) Kind() BufferKind { return b.kind }

// Capacity returns the size in bytes. It never changes.
func (b *Buffer) Capacity() int { return b.capacity }

// Usage returns the usage hint.
func (b *Buffer) Usage() BufferUsage { return b.usage }

// BackendName returns the name of the backend realizing the buffer.
func (b *Buffer) BackendName() string { return b.backend.Name() }

// HasHostMirror reports whether the buffer keeps a host copy of its
// contents and can therefore be restored after device loss.
func (b *Buffer) HasHostMirror() bool { return b.mirror != nil }

// IsDestroyed reports whether Destroy has been called.
func (b *Buffer) IsDestroyed() bool { return b.destroyed.Load() }

// Provider returns the backend provider. It is intended for backends that
// need their own realization of a buffer, such as for binding at draw time.
func (b *Buffer) Provider() BufferProvider { return b.provider }

func (b *Buffer) hostContents() []byte { return b.mirror }

// UploadData writes data into the buffer at offset.
//
// It fails with ErrOutOfRange, leaving the contents unchanged, if the
// range [offset, offset+len(data)) does not fit the capacity. Any GPU read
// of the overwritten range still in flight is the caller's to synchronize.
func (b *Buffer) UploadData(gc *GraphicContext, offset int, data []byte) error {
	if b.destroyed.Load() {
		return ErrBufferDestroyed
	}
	if err := checkRange("upload", offset, len(data), b.capacity); err != nil {
		return err
	}
	gc, err := b.dispatchContext(gc)
	if err != nil || len(data) == 0 {
		return err
	}

	if err := b.provider.UploadData(gc, offset, data); err != nil {
		return err
	}
	if b.mirror != nil {
		copy(b.mirror[offset:], data)
	}
	return nil
}

// CopyFrom copies size bytes from staging at srcPos into the buffer at
// destPos. The staging buffer must be unlocked; it is locked read-only
// for the duration of the copy.
func (b *Buffer) CopyFrom(gc *GraphicContext, staging *StagingBuffer, destPos, srcPos, size int) error {
	if err := b.checkTransfer(staging, destPos, srcPos, size, true); err != nil {
		return err
	}
	gc, err := b.dispatchContext(gc)
	if err != nil || size == 0 {
		return err
	}

	if err := b.provider.CopyFrom(gc, staging, destPos, srcPos, size); err != nil {
		return err
	}
	if b.mirror != nil {
		copy(b.mirror[destPos:destPos+size], staging.data[srcPos:srcPos+size])
	}
	return nil
}

// CopyTo copies size bytes from the buffer at srcPos into staging at
// destPos. The staging buffer must be unlocked; it is locked write-only
// for the duration of the copy.
func (b *Buffer) CopyTo(gc *GraphicContext, staging *StagingBuffer, destPos, srcPos, size int) error {
	if err := b.checkTransfer(staging, destPos, srcPos, size, false); err != nil {
		return err
	}
	gc, err := b.dispatchContext(gc)
	if err != nil || size == 0 {
		return err
	}
	return b.provider.CopyTo(gc, staging, destPos, srcPos, size)
}

// checkTransfer validates a staging transfer. into is true when the buffer
// is the destination.
func (b *Buffer) checkTransfer(staging *StagingBuffer, destPos, srcPos, size int, into bool) error {
	if b.destroyed.Load() {
		return ErrBufferDestroyed
	}
	if staging == nil {
		return fmt.Errorf("%w: staging buffer is nil", ErrInvalidArgument)
	}
	bufPos, stagingPos := srcPos, destPos
	if into {
		bufPos, stagingPos = destPos, srcPos
	}
	if err := checkRange("buffer", bufPos, size, b.capacity); err != nil {
		return err
	}
	if err := checkRange("staging", stagingPos, size, staging.Size()); err != nil {
		return err
	}
	if staging.IsLocked() {
		return fmt.Errorf("%w: staging buffer is locked %v", ErrLockStateViolation, staging.Access())
	}
	return nil
}

// dispatchContext resolves the context an operation runs on and checks it
// can serve this buffer.
func (b *Buffer) dispatchContext(gc *GraphicContext) (*GraphicContext, error) {
	gc, err := resolveContext(gc)
	if err != nil {
		return nil, err
	}
	if gc.backend != b.backend {
		return nil, fmt.Errorf("%w: %s buffer used with %v",
			ErrInvalidArgument, b.backend.Name(), gc)
	}
	if gc.IsLost() {
		return nil, fmt.Errorf("%w: %v", ErrDeviceLost, gc)
	}
	if n := b.node; n != nil {
		gc.shared.track(n)
	}
	return gc, nil
}

func (b *Buffer) deviceLost(gc *GraphicContext) {
	if !b.destroyed.Load() {
		b.provider.DeviceLost(gc)
	}
}

func (b *Buffer) deviceReleased(gc *GraphicContext) {
	if !b.destroyed.Load() {
		b.provider.DeviceReleased(gc)
	}
}

// Destroy releases every realization of the buffer. The buffer must not be
// used afterwards. Destroy is idempotent.
func (b *Buffer) Destroy() {
	if !b.destroyed.CompareAndSwap(false, true) {
		return
	}
	b.provider.Destroy()
	b.mirror = nil
	if b.secret != nil {
		b.secret.Release()
	}
	// Dropping the node lets every ShareList prune its weak entry.
	b.node = nil
	Logger().Debug("uicore: buffer destroyed", "label", b.label)
}

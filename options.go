// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package uicore

// ContextOption configures a GraphicContext during creation.
//
// Example:
//
//	gc, err := uicore.NewGraphicContext(dev,
//	    uicore.WithContextLabel("main-window"),
//	    uicore.WithMemoryBudget(64<<20))
type ContextOption func(*contextOptions)

type contextOptions struct {
	label  string
	budget int64
}

func defaultContextOptions() contextOptions {
	return contextOptions{
		budget: -1, // unlimited
	}
}

// WithContextLabel sets a debug label for the context.
func WithContextLabel(label string) ContextOption {
	return func(o *contextOptions) {
		o.label = label
	}
}

// WithMemoryBudget caps the bytes of resources realized on the context's
// device. Allocations beyond the cap fail with ErrDeviceResourceExhausted.
// A negative value means unlimited.
func WithMemoryBudget(bytes int64) ContextOption {
	return func(o *contextOptions) {
		o.budget = bytes
	}
}

// BufferOption configures a Buffer during creation.
//
// Example:
//
//	vb, err := uicore.NewVertexArrayBuffer(gc, 4096, uicore.UsageStatic,
//	    uicore.WithLabel("quad-vertices"),
//	    uicore.WithMirror(uicore.MirrorAlways))
type BufferOption func(*bufferOptions)

type bufferOptions struct {
	label     string
	mirror    MirrorPolicy
	sensitive bool
}

func defaultBufferOptions() bufferOptions {
	return bufferOptions{mirror: MirrorAuto}
}

// WithLabel sets a debug label for the buffer.
func WithLabel(label string) BufferOption {
	return func(o *bufferOptions) {
		o.label = label
	}
}

// WithMirror overrides the host mirror policy. See MirrorPolicy.
func WithMirror(p MirrorPolicy) BufferOption {
	return func(o *bufferOptions) {
		o.mirror = p
	}
}

// WithSensitiveContents marks the buffer contents as sensitive: its host
// mirror, if any, lives in a SecretBuffer and is wiped on Destroy.
func WithSensitiveContents() BufferOption {
	return func(o *bufferOptions) {
		o.sensitive = true
	}
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogl

// Package opengl provides the OpenGL 4.1 core backend over go-gl, with
// native contexts owned by GLFW windows.
//
// OpenGL contexts are bound to the OS thread that made them current, so a
// Device implements uicore.ContextBinder: buffer operations on it require
// its GraphicContext to be the active one (see uicore.SetActive), and the
// calling goroutine must be locked to its OS thread with
// runtime.LockOSThread for as long as the context is current.
//
// The backend registers itself on import:
//
//	import _ "github.com/gogpu/uicore/backend/opengl"
package opengl

import (
	"fmt"
	"sync"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/gogpu/uicore"
)

// Name is the name the backend is registered under.
const Name = "opengl"

// Device is the OpenGL context of a GLFW window.
type Device struct {
	window *glfw.Window
	label  string

	initOnce sync.Once
	initErr  error

	mu      sync.Mutex
	pending []uint32 // buffer names deleted while the context was not current
}

// NewDevice wraps the context of window. The window owner keeps ownership
// of the window and its context.
func NewDevice(window *glfw.Window, label string) (*Device, error) {
	if window == nil {
		return nil, fmt.Errorf("%w: nil window", uicore.ErrInvalidArgument)
	}
	return &Device{window: window, label: label}, nil
}

// BackendName implements uicore.Device.
func (d *Device) BackendName() string { return Name }

// Label returns the debug label.
func (d *Device) Label() string { return d.label }

// Window returns the GLFW window owning the context.
func (d *Device) Window() *glfw.Window { return d.window }

// String returns a short description for logs.
func (d *Device) String() string { return fmt.Sprintf("opengl.Device(%q)", d.label) }

// MakeCurrent implements uicore.ContextBinder. The first call loads the
// GL entry points; later calls delete buffers released while the context
// was not current.
func (d *Device) MakeCurrent() error {
	d.window.MakeContextCurrent()
	d.initOnce.Do(func() {
		if err := gl.Init(); err != nil {
			d.initErr = fmt.Errorf("%w: opengl init: %v", uicore.ErrDeviceLost, err)
			return
		}
		uicore.Logger().Info("opengl: context initialized",
			"device", d.label, "version", gl.GoStr(gl.GetString(gl.VERSION)))
	})
	if d.initErr != nil {
		glfw.DetachCurrentContext()
		return d.initErr
	}
	d.flushDeletes()
	return nil
}

// ReleaseCurrent implements uicore.ContextBinder.
func (d *Device) ReleaseCurrent() {
	if d.isCurrent() {
		glfw.DetachCurrentContext()
	}
}

func (d *Device) isCurrent() bool {
	return glfw.GetCurrentContext() == d.window
}

// deleteBuffer deletes name now when the context is current, or at the
// next MakeCurrent otherwise.
func (d *Device) deleteBuffer(name uint32) {
	if d.isCurrent() {
		gl.DeleteBuffers(1, &name)
		return
	}
	d.mu.Lock()
	d.pending = append(d.pending, name)
	d.mu.Unlock()
}

func (d *Device) flushDeletes() {
	d.mu.Lock()
	names := d.pending
	d.pending = nil
	d.mu.Unlock()
	if len(names) > 0 {
		gl.DeleteBuffers(int32(len(names)), &names[0])
		uicore.Logger().Debug("opengl: deferred deletes flushed", "device", d.label, "count", len(names))
	}
}

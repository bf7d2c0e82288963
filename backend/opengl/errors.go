// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogl

package opengl

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/gogpu/uicore"
)

// glContextLost is GL_CONTEXT_LOST (GL 4.5, KHR_robustness).
const glContextLost = 0x0507

// checkError drains the GL error queue and translates the first error.
func checkError(op, label string) error {
	first := uint32(gl.NO_ERROR)
	for code := gl.GetError(); code != gl.NO_ERROR; code = gl.GetError() {
		if first == gl.NO_ERROR {
			first = code
		}
		if code == glContextLost {
			// The queue never drains on a lost context.
			break
		}
	}
	return errorFor(first, op, label)
}

// errorFor maps a GL error code to the uicore taxonomy.
func errorFor(code uint32, op, label string) error {
	switch code {
	case gl.NO_ERROR:
		return nil
	case gl.OUT_OF_MEMORY:
		return fmt.Errorf("%w: opengl %s %q: out of memory", uicore.ErrDeviceResourceExhausted, op, label)
	case glContextLost:
		return fmt.Errorf("%w: opengl %s %q: context lost", uicore.ErrDeviceLost, op, label)
	default:
		return fmt.Errorf("%w: opengl %s %q: error 0x%04X", uicore.ErrInvalidArgument, op, label, code)
	}
}

func errNotGL(dev uicore.Device) error {
	return fmt.Errorf("%w: device %T is not an OpenGL device", uicore.ErrInvalidArgument, dev)
}

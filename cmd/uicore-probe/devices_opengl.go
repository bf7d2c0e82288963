// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogl

package main

import (
	"fmt"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/gogpu/uicore"
	"github.com/gogpu/uicore/backend/opengl"
)

// openGLDevice creates a hidden 64x64 window for its OpenGL 4.1 core
// context. Closing destroys the window and terminates GLFW.
func openGLDevice() (uicore.Device, func(), bool, error) {
	if err := glfw.Init(); err != nil {
		return nil, nil, false, fmt.Errorf("glfw init: %w", err)
	}
	glfw.WindowHint(glfw.Visible, glfw.False)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	window, err := glfw.CreateWindow(64, 64, "uicore-probe", nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, nil, false, fmt.Errorf("create window: %w", err)
	}
	dev, err := opengl.NewDevice(window, "probe")
	if err != nil {
		window.Destroy()
		glfw.Terminate()
		return nil, nil, false, err
	}
	closeDev := func() {
		window.Destroy()
		glfw.Terminate()
	}
	return dev, closeDev, true, nil
}

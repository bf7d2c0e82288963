// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package uicore provides GPU buffer management over multiple native
// rendering backends.
//
// # Overview
//
// uicore is the resource layer of a GUI toolkit. The same buffer calls
// (upload, copy from a staging buffer, copy to a staging buffer) run
// against host memory, OpenGL or a native 3D API through the gogpu/wgpu
// HAL. Each backend has its own resource lifetime rules and thread
// affinity; uicore hides them behind one contract and one error taxonomy.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/uicore"
//	    "github.com/gogpu/uicore/backend/software"
//	)
//
//	gc, err := uicore.NewGraphicContext(software.NewDevice("main"))
//	if err != nil {
//	    return err
//	}
//	defer gc.Destroy()
//
//	vb, err := uicore.NewVertexArrayBuffer(gc, 1024, uicore.UsageDynamic)
//	if err != nil {
//	    return err
//	}
//	defer vb.Destroy()
//
//	err = vb.UploadData(gc, 0, vertices)
//
// # Contexts and Devices
//
// A Device is the native handle a window or device owner supplies; its
// BackendName selects the registered Backend. A GraphicContext wraps a
// device and is the explicit first argument of every buffer operation.
// Passing nil uses the context bound with SetActive, a process-wide
// convenience binding. Devices that implement ContextBinder (OpenGL) only
// accept the bound context.
//
// # Device Loss
//
// Buffers are realized lazily on every device they are used with. When
// the owner reports loss with NotifyDeviceLost, every realization on the
// device is purged. After NotifyDeviceRestored a buffer is realized again
// from its host mirror if it keeps one (see MirrorPolicy); otherwise its
// operations on that device fail with ErrDeviceLost. Lost GPU contents
// are never silently replaced.
//
// # Errors
//
// Every failure matches one of ErrInvalidArgument, ErrOutOfRange,
// ErrNoActiveContext, ErrDeviceResourceExhausted, ErrDeviceLost or
// ErrLockStateViolation. Only exhaustion and loss are recoverable; see
// IsRecoverable.
//
// # Architecture
//
// The module is organized into:
//   - Public API: GraphicContext, Buffer, StagingBuffer, SetActive
//   - Infrastructure: DeviceHandleTable, ShareList, MemoryBudget, SecretBuffer
//   - Backends: backend/software, backend/opengl, backend/native
//   - Tools: cmd/uicore-probe
package uicore

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0-alpha.1"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0

	// VersionPrerelease is the prerelease identifier
	VersionPrerelease = "alpha.1"
)

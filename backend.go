// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package uicore

import (
	"fmt"
	"slices"
	"sync"
)

// Device is a native device or rendering context supplied by the window or
// device owner. Identity is interface equality, so implementations should be
// pointer types.
type Device interface {
	// BackendName returns the name the device's backend is registered under.
	BackendName() string
}

// ContextBinder is implemented by devices whose native context has thread
// affinity, such as OpenGL contexts. Activation calls MakeCurrent when the
// context is bound and ReleaseCurrent when it is unbound.
type ContextBinder interface {
	MakeCurrent() error
	ReleaseCurrent()
}

// BufferDesc describes a buffer realization requested from a backend.
// Ranges passed to the resulting provider have already been validated.
type BufferDesc struct {
	Label    string
	Kind     BufferKind
	Capacity int
	Usage    BufferUsage

	// InitData holds Capacity bytes for the first realization, or nil.
	InitData []byte

	// Contents returns the host copy a realization on a lost device is
	// restored from. A nil Contents means no host copy is retained and a
	// lost realization cannot be restored.
	Contents func() []byte
}

// BufferProvider is the capability set a backend implements for one logical
// buffer. Implementations may assume validated ranges, a live context and a
// context that belongs to their backend. A realization created without
// initial data or a host copy is zero-filled.
type BufferProvider interface {
	// UploadData writes data at offset.
	UploadData(gc *GraphicContext, offset int, data []byte) error

	// CopyFrom copies size bytes from staging at srcPos into the buffer at
	// destPos.
	CopyFrom(gc *GraphicContext, staging *StagingBuffer, destPos, srcPos, size int) error

	// CopyTo copies size bytes from the buffer at srcPos into staging at
	// destPos.
	CopyTo(gc *GraphicContext, staging *StagingBuffer, destPos, srcPos, size int) error

	// DeviceLost drops the realization on gc's device, if any, and
	// remembers the device as lost.
	DeviceLost(gc *GraphicContext)

	// DeviceReleased drops the realization on gc's device, if any, because
	// the context is being destroyed.
	DeviceReleased(gc *GraphicContext)

	// Destroy releases every realization.
	Destroy()
}

// Backend creates buffer providers for one native graphics API.
type Backend interface {
	// Name returns the backend identifier (e.g., "software", "opengl", "native").
	Name() string

	// NewBuffer creates the provider for a logical buffer, realized first
	// on gc's device.
	NewBuffer(gc *GraphicContext, desc BufferDesc) (BufferProvider, error)
}

var (
	backendsMu sync.RWMutex
	backends   = make(map[string]Backend)
)

// RegisterBackend registers a backend under the given name.
// This is typically called from init() functions in backend packages.
// If a backend with the same name is already registered, it is replaced.
func RegisterBackend(name string, b Backend) {
	backendsMu.Lock()
	defer backendsMu.Unlock()
	backends[name] = b
}

// UnregisterBackend removes a backend from the registry.
// This is useful for testing.
func UnregisterBackend(name string) {
	backendsMu.Lock()
	defer backendsMu.Unlock()
	delete(backends, name)
}

// LookupBackend returns the backend registered under name.
func LookupBackend(name string) (Backend, bool) {
	backendsMu.RLock()
	defer backendsMu.RUnlock()
	b, ok := backends[name]
	return b, ok
}

// AvailableBackends returns the sorted names of all registered backends.
func AvailableBackends() []string {
	backendsMu.RLock()
	defer backendsMu.RUnlock()

	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func backendFor(dev Device) (Backend, error) {
	name := dev.BackendName()
	b, ok := LookupBackend(name)
	if !ok {
		return nil, fmt.Errorf("%w: backend %q is not registered", ErrInvalidArgument, name)
	}
	return b, nil
}

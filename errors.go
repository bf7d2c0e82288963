// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package uicore

import (
	"errors"
	"fmt"
)

// Error taxonomy. Every failure returned by this package or a registered
// backend matches exactly one of these sentinels with errors.Is.
var (
	// ErrInvalidArgument is returned for malformed construction parameters,
	// such as a negative capacity or a buffer used with a context of another
	// backend.
	ErrInvalidArgument = errors.New("uicore: invalid argument")

	// ErrOutOfRange is returned when an upload or copy range exceeds the
	// capacity of one of the buffers involved. It is always a caller bug.
	ErrOutOfRange = errors.New("uicore: range out of bounds")

	// ErrNoActiveContext is returned when an operation needs a bound
	// rendering context and none is bound.
	ErrNoActiveContext = errors.New("uicore: no active graphic context")

	// ErrDeviceResourceExhausted is returned when a native allocation fails.
	// The caller may free resources and retry.
	ErrDeviceResourceExhausted = errors.New("uicore: device resources exhausted")

	// ErrDeviceLost is returned when the native device became invalid.
	ErrDeviceLost = errors.New("uicore: device lost")

	// ErrLockStateViolation is returned when a staging buffer is not in the
	// lock state, or not locked with the access mode, an operation requires.
	ErrLockStateViolation = errors.New("uicore: staging buffer lock state violation")
)

// Lifecycle errors. Both are invalid-argument failures.
var (
	// ErrBufferDestroyed is returned when operating on a destroyed buffer.
	ErrBufferDestroyed = fmt.Errorf("%w: buffer has been destroyed", ErrInvalidArgument)

	// ErrContextDestroyed is returned when operating through a destroyed
	// graphic context.
	ErrContextDestroyed = fmt.Errorf("%w: graphic context has been destroyed", ErrInvalidArgument)
)

// IsRecoverable reports whether err is one of the failures production code
// is expected to recover from: resource exhaustion or device loss.
// All other failures indicate a programming error.
func IsRecoverable(err error) bool {
	return errors.Is(err, ErrDeviceResourceExhausted) || errors.Is(err, ErrDeviceLost)
}

// rangeError formats an out-of-range failure for a transfer of size bytes
// at offset into a region of capacity bytes.
func rangeError(what string, offset, size, capacity int) error {
	return fmt.Errorf("%w: %s offset %d size %d exceeds capacity %d",
		ErrOutOfRange, what, offset, size, capacity)
}

// checkRange validates that [offset, offset+size) lies within [0, capacity).
func checkRange(what string, offset, size, capacity int) error {
	if offset < 0 || size < 0 || offset > capacity || size > capacity-offset {
		return rangeError(what, offset, size, capacity)
	}
	return nil
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package uicore

import (
	"fmt"
	"sync/atomic"
)

// StagingBuffer is a host-visible buffer used to move data to and from
// GPU-resident buffers.
//
// Access to the bytes is bracketed by Lock and Unlock:
//
//	unlocked → Lock(access) → locked(access) → Unlock() → unlocked
//
// The lock state is tracked to catch misuse (reading a write-only lock,
// unlocking twice); it is not a mutex and provides no mutual exclusion for
// the contents. Concurrent use from several goroutines must be serialized
// by the caller.
type StagingBuffer struct {
	data  []byte
	usage BufferUsage
	state atomic.Int32 // 0 when unlocked, otherwise the BufferAccess
}

// NewStagingBuffer creates a zero-filled staging buffer of size bytes.
func NewStagingBuffer(size int, usage BufferUsage) (*StagingBuffer, error) {
	if size < 0 {
		return nil, fmt.Errorf("%w: staging buffer size %d is negative", ErrInvalidArgument, size)
	}
	if !usage.valid() {
		return nil, fmt.Errorf("%w: buffer usage %v", ErrInvalidArgument, usage)
	}
	return &StagingBuffer{data: make([]byte, size), usage: usage}, nil
}

// NewStagingBufferWithData creates a staging buffer of size bytes holding a
// copy of the first size bytes of data.
func NewStagingBufferWithData(data []byte, size int, usage BufferUsage) (*StagingBuffer, error) {
	if len(data) < size {
		return nil, fmt.Errorf("%w: %d bytes of data for staging buffer of size %d",
			ErrInvalidArgument, len(data), size)
	}
	s, err := NewStagingBuffer(size, usage)
	if err != nil {
		return nil, err
	}
	copy(s.data, data[:size])
	return s, nil
}

// Size returns the size in bytes.
func (s *StagingBuffer) Size() int { return len(s.data) }

// Usage returns the usage hint.
func (s *StagingBuffer) Usage() BufferUsage { return s.usage }

// IsLocked reports whether the buffer is locked.
func (s *StagingBuffer) IsLocked() bool { return s.state.Load() != 0 }

// Access returns the mode the buffer is locked with, or 0 when unlocked.
func (s *StagingBuffer) Access() BufferAccess { return BufferAccess(s.state.Load()) }

// Lock maps the buffer for access. Locking a locked buffer fails with
// ErrLockStateViolation.
func (s *StagingBuffer) Lock(access BufferAccess) error {
	if !access.CanRead() && !access.CanWrite() {
		return fmt.Errorf("%w: access mode %v", ErrInvalidArgument, access)
	}
	if !s.state.CompareAndSwap(0, int32(access)) {
		return fmt.Errorf("%w: lock while locked %v", ErrLockStateViolation, s.Access())
	}
	return nil
}

// Unlock unmaps the buffer. Unlocking an unlocked buffer fails with
// ErrLockStateViolation.
func (s *StagingBuffer) Unlock() error {
	if s.state.Swap(0) == 0 {
		return fmt.Errorf("%w: unlock while unlocked", ErrLockStateViolation)
	}
	return nil
}

// Bytes returns the mapped bytes. The slice is only valid until Unlock and
// must only be used as the lock's access mode permits.
func (s *StagingBuffer) Bytes() ([]byte, error) {
	if !s.IsLocked() {
		return nil, fmt.Errorf("%w: data access while unlocked", ErrLockStateViolation)
	}
	return s.data, nil
}

// ReadAt copies len(p) bytes at off into p. The buffer must be locked with
// read access.
func (s *StagingBuffer) ReadAt(p []byte, off int) error {
	if !s.Access().CanRead() {
		return fmt.Errorf("%w: read with access %v", ErrLockStateViolation, s.Access())
	}
	if err := checkRange("staging read", off, len(p), len(s.data)); err != nil {
		return err
	}
	copy(p, s.data[off:off+len(p)])
	return nil
}

// WriteAt copies p into the buffer at off. The buffer must be locked with
// write access.
func (s *StagingBuffer) WriteAt(p []byte, off int) error {
	if !s.Access().CanWrite() {
		return fmt.Errorf("%w: write with access %v", ErrLockStateViolation, s.Access())
	}
	if err := checkRange("staging write", off, len(p), len(s.data)); err != nil {
		return err
	}
	copy(s.data[off:], p)
	return nil
}

// UploadData writes data at offset. The buffer must be unlocked; it is
// locked write-only for the duration of the copy.
func (s *StagingBuffer) UploadData(offset int, data []byte) error {
	if err := checkRange("staging upload", offset, len(data), len(s.data)); err != nil {
		return err
	}
	if err := s.Lock(AccessWriteOnly); err != nil {
		return err
	}
	copy(s.data[offset:], data)
	return s.Unlock()
}

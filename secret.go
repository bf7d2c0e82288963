// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package uicore

import (
	"fmt"
	"runtime"
	"sync"
)

// SecretBuffer holds sensitive bytes and guarantees they are overwritten
// with zeros before the memory is given back, on every exit path: an
// explicit Release, or a finalizer when the buffer is dropped.
//
// Where the platform allows it the pages are locked in RAM so the contents
// are never written to swap.
type SecretBuffer struct {
	mu       sync.Mutex
	data     []byte
	pinned   bool
	released bool
}

// NewSecretBuffer allocates a zero-filled secret buffer of n bytes.
func NewSecretBuffer(n int) (*SecretBuffer, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: secret buffer size %d is negative", ErrInvalidArgument, n)
	}
	s := &SecretBuffer{data: make([]byte, n)}
	s.pinned = pinMemory(s.data)
	runtime.SetFinalizer(s, (*SecretBuffer).Release)
	return s, nil
}

// Bytes returns the secret bytes, or nil after Release.
func (s *SecretBuffer) Bytes() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data
}

// Len returns the size in bytes, or 0 after Release.
func (s *SecretBuffer) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data)
}

// Release zeroes and frees the bytes. It is idempotent.
func (s *SecretBuffer) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		return
	}
	s.released = true
	wipe(s.data)
	if s.pinned {
		unpinMemory(s.data)
	}
	s.data = nil
	runtime.SetFinalizer(s, nil)
}

// wipe overwrites b with zeros. Go does not eliminate stores to heap
// memory that stays reachable, and KeepAlive keeps b reachable past the
// loop.
//
//go:noinline
func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
	runtime.KeepAlive(b)
}

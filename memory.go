// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package uicore

import (
	"fmt"
	"sync"
)

// MemoryStats contains device memory accounting for one graphic context.
type MemoryStats struct {
	// TotalBytes is the budget in bytes.
	TotalBytes int64

	// UsedBytes is the currently reserved memory in bytes.
	UsedBytes int64

	// AvailableBytes is the remaining budget.
	AvailableBytes int64

	// Allocations is the number of live reservations.
	Allocations int

	// Rejections is the total number of reservations refused.
	Rejections uint64
}

// String returns a human-readable string of memory stats.
func (s MemoryStats) String() string {
	var util float64
	if s.TotalBytes > 0 {
		util = float64(s.UsedBytes) / float64(s.TotalBytes)
	}
	return fmt.Sprintf("Memory[%.1f%% used, %d/%d bytes, %d allocations, %d rejections]",
		util*100, s.UsedBytes, s.TotalBytes, s.Allocations, s.Rejections)
}

// MemoryBudget caps the bytes of realized resources on one device.
// Providers reserve before creating a native handle and release when the
// handle goes away. A nil *MemoryBudget is unlimited.
//
// MemoryBudget is safe for concurrent use.
type MemoryBudget struct {
	mu          sync.Mutex
	totalBytes  int64
	usedBytes   int64
	allocations int
	rejections  uint64
}

// NewMemoryBudget creates a budget of totalBytes.
func NewMemoryBudget(totalBytes int64) *MemoryBudget {
	return &MemoryBudget{totalBytes: totalBytes}
}

// Reserve accounts n bytes against the budget.
// It returns ErrDeviceResourceExhausted if the budget would be exceeded.
func (m *MemoryBudget) Reserve(n int64) error {
	if m == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if n > m.totalBytes-m.usedBytes {
		m.rejections++
		Logger().Warn("uicore: memory budget exceeded",
			"requested", n, "used", m.usedBytes, "total", m.totalBytes)
		return fmt.Errorf("%w: %d bytes requested, %d of %d in use",
			ErrDeviceResourceExhausted, n, m.usedBytes, m.totalBytes)
	}
	m.usedBytes += n
	m.allocations++
	return nil
}

// Release returns n bytes reserved with Reserve.
func (m *MemoryBudget) Release(n int64) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.usedBytes -= n
	if m.usedBytes < 0 {
		m.usedBytes = 0
	}
	if m.allocations > 0 {
		m.allocations--
	}
}

// Stats returns current memory accounting.
func (m *MemoryBudget) Stats() MemoryStats {
	if m == nil {
		return MemoryStats{}
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	return MemoryStats{
		TotalBytes:     m.totalBytes,
		UsedBytes:      m.usedBytes,
		AvailableBytes: m.totalBytes - m.usedBytes,
		Allocations:    m.allocations,
		Rejections:     m.rejections,
	}
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package uicore

import (
	"fmt"
	"slices"
	"sync"
)

// DeviceHandleTable owns the native handles realizing one logical resource,
// at most one per device.
//
// The table is a small slice searched linearly by device identity; a
// resource is rarely realized on more than one or two devices. The mutex
// guards the slice only and is never held while a native handle is created
// or released: creation runs unlocked and a racing duplicate is handed back
// to the caller for release.
//
// A device removed with Purge is remembered as lost until a new handle is
// realized on it, so a provider can tell a first realization from a
// restoration and refuse the latter when no host copy exists. Remove and
// Drain forget the mark.
//
// A Purge, Remove or Drain that lands while a creation for the same device
// is in flight cancels it: the new handle is released instead of inserted,
// so no handle created on a device outlives the device's loss.
type DeviceHandleTable[H any] struct {
	mu      sync.Mutex
	entries []handleEntry[H]
	lost    []Device
	pending []*pendingRealization
}

type handleEntry[H any] struct {
	device Device
	handle H
}

var (
	errLostDuringRealize     = fmt.Errorf("%w: device lost during realization", ErrDeviceLost)
	errReleasedDuringRealize = fmt.Errorf("%w: device released during realization", ErrContextDestroyed)
)

// pendingRealization is a creation running without the table lock.
// canceled is set under the lock when the device is removed meanwhile.
type pendingRealization struct {
	device   Device
	canceled error
}

func (t *DeviceHandleTable[H]) indexLocked(dev Device) int {
	for i := range t.entries {
		if t.entries[i].device == dev {
			return i
		}
	}
	return -1
}

// Lookup returns the handle realized on dev.
func (t *DeviceHandleTable[H]) Lookup(dev Device) (H, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if i := t.indexLocked(dev); i >= 0 {
		return t.entries[i].handle, true
	}
	var zero H
	return zero, false
}

// Realize returns the handle realized on dev, creating it with create when
// absent. restoring tells create that dev was purged since its last
// realization. If create fails nothing is inserted and the device stays
// lost. If another caller realized dev concurrently, the first handle wins
// and release is called with the duplicate. If dev is purged, removed or
// drained while create runs, the new handle is released and the error
// recorded by that removal is returned.
func (t *DeviceHandleTable[H]) Realize(dev Device, create func(restoring bool) (H, error), release func(H)) (H, error) {
	var zero H

	t.mu.Lock()
	if i := t.indexLocked(dev); i >= 0 {
		h := t.entries[i].handle
		t.mu.Unlock()
		return h, nil
	}
	restoring := slices.Contains(t.lost, dev)
	p := &pendingRealization{device: dev}
	t.pending = append(t.pending, p)
	t.mu.Unlock()

	h, err := create(restoring)

	t.mu.Lock()
	t.pending = slices.DeleteFunc(t.pending, func(q *pendingRealization) bool { return q == p })
	if err != nil {
		t.mu.Unlock()
		return zero, err
	}
	if p.canceled != nil {
		t.mu.Unlock()
		if release != nil {
			release(h)
		}
		return zero, p.canceled
	}
	if i := t.indexLocked(dev); i >= 0 {
		winner := t.entries[i].handle
		t.mu.Unlock()
		if release != nil {
			release(h)
		}
		return winner, nil
	}
	t.entries = append(t.entries, handleEntry[H]{device: dev, handle: h})
	t.lost = slices.DeleteFunc(t.lost, func(d Device) bool { return d == dev })
	t.mu.Unlock()
	return h, nil
}

// cancelPendingLocked cancels the in-flight creations matching dev, or all
// of them when dev is nil, and reports whether any was found.
func (t *DeviceHandleTable[H]) cancelPendingLocked(dev Device, err error) bool {
	found := false
	for _, p := range t.pending {
		if (dev == nil || p.device == dev) && p.canceled == nil {
			p.canceled = err
			found = true
		}
	}
	return found
}

// Purge removes the handle realized on dev and marks dev as lost.
// The removed handle is returned for the caller to release.
func (t *DeviceHandleTable[H]) Purge(dev Device) (H, bool) {
	return t.remove(dev, true)
}

// Remove removes the handle realized on dev without marking it lost.
func (t *DeviceHandleTable[H]) Remove(dev Device) (H, bool) {
	return t.remove(dev, false)
}

func (t *DeviceHandleTable[H]) remove(dev Device, markLost bool) (H, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !markLost {
		t.lost = slices.DeleteFunc(t.lost, func(d Device) bool { return d == dev })
		t.cancelPendingLocked(dev, errReleasedDuringRealize)
	} else if t.cancelPendingLocked(dev, errLostDuringRealize) &&
		!slices.Contains(t.lost, dev) {
		t.lost = append(t.lost, dev)
	}

	i := t.indexLocked(dev)
	if i < 0 {
		var zero H
		return zero, false
	}
	h := t.entries[i].handle
	t.entries = slices.Delete(t.entries, i, i+1)
	if markLost && !slices.Contains(t.lost, dev) {
		t.lost = append(t.lost, dev)
	}
	return h, true
}

// WasLost reports whether dev was purged and not realized since.
func (t *DeviceHandleTable[H]) WasLost(dev Device) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Contains(t.lost, dev)
}

// Drain removes every handle and forgets all lost devices.
func (t *DeviceHandleTable[H]) Drain() []H {
	t.mu.Lock()
	defer t.mu.Unlock()

	hs := make([]H, len(t.entries))
	for i, e := range t.entries {
		hs[i] = e.handle
	}
	t.entries = nil
	t.lost = nil
	t.cancelPendingLocked(nil, ErrBufferDestroyed)
	return hs
}

// Len returns the number of live handles.
func (t *DeviceHandleTable[H]) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

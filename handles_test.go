// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package uicore

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

func TestDeviceHandleTableRealizeOnce(t *testing.T) {
	var tbl DeviceHandleTable[int]
	dev := &memDevice{name: "a"}
	calls := 0
	create := func(restoring bool) (int, error) {
		if restoring {
			t.Error("first realization reported restoring")
		}
		calls++
		return 42, nil
	}

	for range 3 {
		h, err := tbl.Realize(dev, create, nil)
		if err != nil || h != 42 {
			t.Fatalf("Realize = %d, %v; want 42, nil", h, err)
		}
	}
	if calls != 1 {
		t.Errorf("create called %d times, want 1", calls)
	}
	if h, ok := tbl.Lookup(dev); !ok || h != 42 {
		t.Errorf("Lookup = %d, %v; want 42, true", h, ok)
	}
	if _, ok := tbl.Lookup(&memDevice{name: "b"}); ok {
		t.Error("Lookup found a handle for an unrelated device")
	}
}

func TestDeviceHandleTablePerDevice(t *testing.T) {
	var tbl DeviceHandleTable[string]
	a, b := &memDevice{name: "a"}, &memDevice{name: "b"}
	_, _ = tbl.Realize(a, func(bool) (string, error) { return "ha", nil }, nil)
	_, _ = tbl.Realize(b, func(bool) (string, error) { return "hb", nil }, nil)

	if tbl.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", tbl.Len())
	}
	if h, _ := tbl.Lookup(b); h != "hb" {
		t.Errorf("Lookup(b) = %q, want hb", h)
	}
}

func TestDeviceHandleTablePurge(t *testing.T) {
	var tbl DeviceHandleTable[int]
	dev := &memDevice{name: "a"}
	_, _ = tbl.Realize(dev, func(bool) (int, error) { return 1, nil }, nil)

	h, ok := tbl.Purge(dev)
	if !ok || h != 1 {
		t.Fatalf("Purge = %d, %v; want 1, true", h, ok)
	}
	if _, ok := tbl.Lookup(dev); ok {
		t.Error("stale handle returned after Purge")
	}
	if !tbl.WasLost(dev) {
		t.Error("WasLost = false after Purge")
	}
	if _, ok := tbl.Purge(dev); ok {
		t.Error("second Purge reported a handle")
	}

	// A failed re-creation keeps the device lost.
	boom := errors.New("boom")
	if _, err := tbl.Realize(dev, func(bool) (int, error) { return 0, boom }, nil); !errors.Is(err, boom) {
		t.Fatalf("Realize error = %v, want boom", err)
	}
	if !tbl.WasLost(dev) {
		t.Error("failed Realize cleared the lost mark")
	}

	var restoring bool
	h, err := tbl.Realize(dev, func(r bool) (int, error) {
		restoring = r
		return 2, nil
	}, nil)
	if err != nil || h != 2 {
		t.Fatalf("Realize = %d, %v; want 2, nil", h, err)
	}
	if !restoring {
		t.Error("re-creation after Purge did not report restoring")
	}
	if tbl.WasLost(dev) {
		t.Error("WasLost = true after successful re-creation")
	}
}

func TestDeviceHandleTableRemove(t *testing.T) {
	var tbl DeviceHandleTable[int]
	dev := &memDevice{name: "a"}
	_, _ = tbl.Realize(dev, func(bool) (int, error) { return 1, nil }, nil)
	_, _ = tbl.Purge(dev)
	_, _ = tbl.Realize(dev, func(bool) (int, error) { return 2, nil }, nil)

	if _, ok := tbl.Remove(dev); !ok {
		t.Fatal("Remove found no handle")
	}
	if tbl.WasLost(dev) {
		t.Error("Remove marked the device lost")
	}
}

func TestDeviceHandleTableDrain(t *testing.T) {
	var tbl DeviceHandleTable[int]
	a, b := &memDevice{name: "a"}, &memDevice{name: "b"}
	_, _ = tbl.Realize(a, func(bool) (int, error) { return 1, nil }, nil)
	_, _ = tbl.Realize(b, func(bool) (int, error) { return 2, nil }, nil)
	_, _ = tbl.Purge(b)

	hs := tbl.Drain()
	if len(hs) != 1 || hs[0] != 1 {
		t.Errorf("Drain() = %v, want [1]", hs)
	}
	if tbl.Len() != 0 || tbl.WasLost(b) {
		t.Error("Drain left state behind")
	}
}

func TestDeviceHandleTableConcurrentRealize(t *testing.T) {
	var tbl DeviceHandleTable[*int]
	dev := &memDevice{name: "a"}
	var created, released atomic.Int32

	const goroutines = 32
	results := make([]*int, goroutines)
	var wg sync.WaitGroup
	for i := range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h, err := tbl.Realize(dev, func(bool) (*int, error) {
				created.Add(1)
				return new(int), nil
			}, func(*int) { released.Add(1) })
			if err != nil {
				t.Errorf("Realize failed: %v", err)
			}
			results[i] = h
		}()
	}
	wg.Wait()

	for _, h := range results {
		if h != results[0] {
			t.Fatal("concurrent Realize returned different handles")
		}
	}
	if tbl.Len() != 1 {
		t.Errorf("Len() = %d, want 1", tbl.Len())
	}
	if got := created.Load() - released.Load(); got != 1 {
		t.Errorf("created-released = %d, want 1", got)
	}
}

// realizeBlocked starts a Realize whose create blocks until finish is
// called. finish returns the Realize result.
func realizeBlocked(tbl *DeviceHandleTable[int], dev Device, released *[]int) (finish func() (int, error)) {
	started := make(chan struct{})
	proceed := make(chan struct{})
	type result struct {
		h   int
		err error
	}
	done := make(chan result, 1)
	go func() {
		h, err := tbl.Realize(dev, func(bool) (int, error) {
			close(started)
			<-proceed
			return 42, nil
		}, func(h int) { *released = append(*released, h) })
		done <- result{h, err}
	}()
	<-started
	return func() (int, error) {
		close(proceed)
		r := <-done
		return r.h, r.err
	}
}

func TestDeviceHandleTableRemovalDuringCreate(t *testing.T) {
	tests := []struct {
		name     string
		remove   func(tbl *DeviceHandleTable[int], dev Device)
		wantErr  error
		wantLost bool
	}{
		{"purge", func(tbl *DeviceHandleTable[int], dev Device) { tbl.Purge(dev) }, ErrDeviceLost, true},
		{"remove", func(tbl *DeviceHandleTable[int], dev Device) { tbl.Remove(dev) }, ErrContextDestroyed, false},
		{"drain", func(tbl *DeviceHandleTable[int], _ Device) { tbl.Drain() }, ErrBufferDestroyed, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var tbl DeviceHandleTable[int]
			dev := &memDevice{name: "a"}
			var released []int

			finish := realizeBlocked(&tbl, dev, &released)
			tt.remove(&tbl, dev)
			_, err := finish()

			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Realize error = %v, want %v", err, tt.wantErr)
			}
			if h, ok := tbl.Lookup(dev); ok {
				t.Errorf("Lookup = %d, true; handle created during removal survived", h)
			}
			if len(released) != 1 || released[0] != 42 {
				t.Errorf("released = %v, want [42]", released)
			}
			if got := tbl.WasLost(dev); got != tt.wantLost {
				t.Errorf("WasLost = %v, want %v", got, tt.wantLost)
			}
		})
	}
}

func TestDeviceHandleTablePurgeOtherDeviceDuringCreate(t *testing.T) {
	var tbl DeviceHandleTable[int]
	a, b := &memDevice{name: "a"}, &memDevice{name: "b"}
	var released []int

	finish := realizeBlocked(&tbl, a, &released)
	tbl.Purge(b)
	h, err := finish()

	if err != nil || h != 42 {
		t.Fatalf("Realize = %d, %v; want 42, nil", h, err)
	}
	if _, ok := tbl.Lookup(a); !ok {
		t.Error("purging another device canceled the realization")
	}
	if len(released) != 0 {
		t.Errorf("released = %v, want none", released)
	}
}

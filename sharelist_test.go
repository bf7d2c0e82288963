// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package uicore

import (
	"runtime"
	"testing"
)

func TestShareListTrackDedup(t *testing.T) {
	var l ShareList
	n := &resourceNode{label: "vb"}
	l.track(n)
	l.track(n)
	if got := l.Len(); got != 1 {
		t.Errorf("Len() = %d, want 1", got)
	}
	runtime.KeepAlive(n)
}

func TestShareListFanOut(t *testing.T) {
	var l ShareList
	var lost, released []string
	nodes := []*resourceNode{
		{label: "a", onLost: func(*GraphicContext) { lost = append(lost, "a") }},
		{label: "b", onLost: func(*GraphicContext) { lost = append(lost, "b") }},
	}
	for _, n := range nodes {
		n.onRelease = func(*GraphicContext) { released = append(released, n.label) }
		l.track(n)
	}

	if got := l.deviceLost(nil); got != 2 || len(lost) != 2 {
		t.Fatalf("deviceLost notified %d (%v), want 2", got, lost)
	}
	if l.Len() != 2 {
		t.Errorf("Len() = %d after deviceLost, want 2", l.Len())
	}

	if got := l.release(nil); got != 2 || len(released) != 2 {
		t.Errorf("release notified %d (%v), want 2", got, released)
	}
	if l.Len() != 0 {
		t.Error("release left nodes tracked")
	}
	runtime.KeepAlive(nodes)
}

func TestShareListDoesNotRetain(t *testing.T) {
	var l ShareList
	func() {
		l.track(&resourceNode{label: "dropped"})
	}()
	for range 10 {
		runtime.GC()
		if l.Len() == 0 {
			return
		}
	}
	t.Error("ShareList kept an unreachable resource alive")
}

func TestShareListTracksBuffersPerContext(t *testing.T) {
	gc1 := newTestContext(t, &memDevice{name: "one"})
	gc2 := newTestContext(t, &memDevice{name: "two"})

	b, err := NewVertexArrayBuffer(gc1, 4, UsageStatic)
	if err != nil {
		t.Fatalf("NewVertexArrayBuffer failed: %v", err)
	}
	if gc1.Resources().Len() != 1 || gc2.Resources().Len() != 0 {
		t.Fatalf("Len = %d/%d, want 1/0", gc1.Resources().Len(), gc2.Resources().Len())
	}
	if err := b.UploadData(gc2, 0, []byte{1}); err != nil {
		t.Fatalf("UploadData failed: %v", err)
	}
	if gc2.Resources().Len() != 1 {
		t.Errorf("gc2 Len = %d after use, want 1", gc2.Resources().Len())
	}
	b.Destroy()
	runtime.KeepAlive(b)
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package uicore

import (
	"slices"
	"sync"
	"weak"
)

// resourceNode is a logical resource's entry in a ShareList. The resource
// holds the node strongly; the list only weakly, so a buffer that is
// dropped without Destroy disappears from the list once collected.
type resourceNode struct {
	label     string
	onLost    func(gc *GraphicContext)
	onRelease func(gc *GraphicContext)
}

// ShareList records which logical resources have been used with one
// graphic context's device. It is the root of the shared-resource graph:
// device loss and context destruction fan out from here to every resource
// realized on the device.
type ShareList struct {
	mu    sync.Mutex
	nodes []weak.Pointer[resourceNode]
}

func (l *ShareList) track(n *resourceNode) {
	wp := weak.Make(n)
	l.mu.Lock()
	defer l.mu.Unlock()
	if !slices.Contains(l.nodes, wp) {
		l.nodes = append(l.nodes, wp)
	}
}

// live prunes collected entries and returns the nodes still alive. When
// clear is set the list is emptied.
func (l *ShareList) live(clear bool) []*resourceNode {
	l.mu.Lock()
	defer l.mu.Unlock()

	nodes := make([]*resourceNode, 0, len(l.nodes))
	kept := l.nodes[:0]
	for _, p := range l.nodes {
		if n := p.Value(); n != nil {
			nodes = append(nodes, n)
			kept = append(kept, p)
		}
	}
	l.nodes = kept
	if clear {
		l.nodes = nil
	}
	return nodes
}

// Len returns the number of tracked resources that are still alive.
func (l *ShareList) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.nodes = slices.DeleteFunc(l.nodes, func(p weak.Pointer[resourceNode]) bool {
		return p.Value() == nil
	})
	return len(l.nodes)
}

// deviceLost notifies every tracked resource that gc's device was lost.
// Resources stay tracked so that destroying gc later releases what they
// keep for the device, such as its lost mark. Callbacks run without the
// list lock held.
func (l *ShareList) deviceLost(gc *GraphicContext) int {
	nodes := l.live(false)
	for _, n := range nodes {
		n.onLost(gc)
	}
	return len(nodes)
}

// release empties the list and notifies every tracked resource that gc is
// being destroyed.
func (l *ShareList) release(gc *GraphicContext) int {
	nodes := l.live(true)
	for _, n := range nodes {
		n.onRelease(gc)
	}
	return len(nodes)
}

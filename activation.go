// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package uicore

import (
	"fmt"
	"slices"
	"sync"
)

// activationState is the process-wide convenience binding of the current
// graphic context. Buffer operations accept an explicit context; the
// binding is only consulted when they are passed nil, and to check that a
// thread-affine device is current.
//
// Contexts join the live list on creation and leave it on Destroy, which
// also clears the binding if it pointed at them.
type activationState struct {
	mu     sync.Mutex
	live   []*GraphicContext
	active *GraphicContext
}

var activation activationState

// add joins gc to the live list. A device serves at most one live context.
func (s *activationState) add(gc *GraphicContext) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.live {
		if c.device == gc.device {
			return fmt.Errorf("%w: device %v already has live %v", ErrInvalidArgument, gc.device, c)
		}
	}
	s.live = append(s.live, gc)
	return nil
}

func (s *activationState) remove(gc *GraphicContext) {
	s.mu.Lock()
	s.live = slices.DeleteFunc(s.live, func(c *GraphicContext) bool { return c == gc })
	wasActive := s.active == gc
	if wasActive {
		s.active = nil
	}
	s.mu.Unlock()

	if wasActive {
		releaseCurrent(gc)
	}
}

func (s *activationState) current() *GraphicContext {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

func (s *activationState) snapshot() []*GraphicContext {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.live)
}

func releaseCurrent(gc *GraphicContext) {
	if b, ok := gc.device.(ContextBinder); ok {
		b.ReleaseCurrent()
	}
}

// SetActive binds gc as the current graphic context, replacing any previous
// binding. Bindings do not nest. Passing nil unbinds.
//
// For devices implementing ContextBinder the native context is made current
// first; if that fails the previous binding is kept and the error returned.
func SetActive(gc *GraphicContext) error {
	if gc == nil {
		activation.mu.Lock()
		prev := activation.active
		activation.active = nil
		activation.mu.Unlock()
		if prev != nil {
			releaseCurrent(prev)
		}
		return nil
	}
	if gc.IsDestroyed() {
		return ErrContextDestroyed
	}
	if b, ok := gc.device.(ContextBinder); ok {
		if err := b.MakeCurrent(); err != nil {
			return err
		}
	}

	activation.mu.Lock()
	if gc.IsDestroyed() {
		activation.mu.Unlock()
		return ErrContextDestroyed
	}
	changed := activation.active != gc
	activation.active = gc
	activation.mu.Unlock()

	if changed {
		Logger().Debug("uicore: context activated", "context", gc.id)
	}
	return nil
}

// SetActiveAny binds the first valid live context, scanning in creation
// order. A context is valid when it is neither destroyed nor lost and its
// native context can be made current. If none is found the binding is
// cleared and false is returned.
func SetActiveAny() bool {
	for _, gc := range activation.snapshot() {
		if gc.IsDestroyed() || gc.IsLost() {
			continue
		}
		if SetActive(gc) == nil {
			return true
		}
	}
	_ = SetActive(nil)
	return false
}

// ActiveContext returns the currently bound context.
// It returns ErrNoActiveContext when none is bound.
func ActiveContext() (*GraphicContext, error) {
	gc := activation.current()
	if gc == nil {
		return nil, ErrNoActiveContext
	}
	return gc, nil
}

// LiveContexts returns the contexts that have not been destroyed, in
// creation order.
func LiveContexts() []*GraphicContext {
	return activation.snapshot()
}

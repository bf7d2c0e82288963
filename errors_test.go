// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package uicore

import (
	"errors"
	"testing"
)

func TestCheckRange(t *testing.T) {
	tests := []struct {
		offset, size, capacity int
		ok                     bool
	}{
		{0, 0, 0, true},
		{0, 16, 1024, true},
		{1008, 16, 1024, true},
		{1024, 0, 1024, true},
		{1020, 16, 1024, false},
		{1025, 0, 1024, false},
		{-1, 1, 1024, false},
		{0, -1, 1024, false},
		{1, int(^uint(0) >> 1), 1024, false},
	}
	for _, tt := range tests {
		err := checkRange("upload", tt.offset, tt.size, tt.capacity)
		if tt.ok && err != nil {
			t.Errorf("checkRange(%d, %d, %d) = %v, want nil", tt.offset, tt.size, tt.capacity, err)
		}
		if !tt.ok && !errors.Is(err, ErrOutOfRange) {
			t.Errorf("checkRange(%d, %d, %d) = %v, want ErrOutOfRange", tt.offset, tt.size, tt.capacity, err)
		}
	}
}

func TestIsRecoverable(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{ErrDeviceResourceExhausted, true},
		{ErrDeviceLost, true},
		{ErrOutOfRange, false},
		{ErrInvalidArgument, false},
		{ErrNoActiveContext, false},
		{ErrLockStateViolation, false},
		{ErrBufferDestroyed, false},
		{nil, false},
	}
	for _, tt := range tests {
		if got := IsRecoverable(tt.err); got != tt.want {
			t.Errorf("IsRecoverable(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestLifecycleErrorsAreInvalidArgument(t *testing.T) {
	for _, err := range []error{ErrBufferDestroyed, ErrContextDestroyed} {
		if !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("%v does not match ErrInvalidArgument", err)
		}
	}
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package native

import (
	"fmt"

	"github.com/gogpu/uicore"
)

// HAL failures are translated at this boundary into the uicore taxonomy.
// The native error is formatted, never wrapped, so callers only ever match
// uicore sentinels.

func errExhausted(op, label string, err error) error {
	return fmt.Errorf("%w: native %s %q: %v", uicore.ErrDeviceResourceExhausted, op, label, err)
}

func errLost(op, label string, err error) error {
	return fmt.Errorf("%w: native %s %q: %v", uicore.ErrDeviceLost, op, label, err)
}

func errNotNative(dev uicore.Device) error {
	return fmt.Errorf("%w: device %T is not a native device", uicore.ErrInvalidArgument, dev)
}

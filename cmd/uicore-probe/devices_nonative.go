// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build nogpu

package main

import (
	"fmt"

	"github.com/gogpu/uicore"
)

func openNativeDevice(string) (uicore.Device, func(), bool, error) {
	return nil, nil, false, fmt.Errorf("%w: built with nogpu", uicore.ErrInvalidArgument)
}

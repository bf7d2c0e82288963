// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"github.com/gogpu/uicore"
	"github.com/gogpu/uicore/backend/software"
)

func newSoftwareDevice() uicore.Device {
	return software.NewDevice("probe")
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package main

import (
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal/noop"
	_ "github.com/gogpu/wgpu/hal/vulkan"

	"github.com/gogpu/uicore"
	"github.com/gogpu/uicore/backend/native"
)

// openNativeDevice opens a standalone HAL device. The noop API drops
// buffer copies, so its readback is not verified.
func openNativeDevice(api string) (uicore.Device, func(), bool, error) {
	var (
		dev *native.Device
		err error
	)
	if api == "vulkan" {
		dev, err = native.OpenBackend(gputypes.BackendVulkan, "probe")
	} else {
		dev, err = native.Open(&noop.API{}, "probe")
	}
	if err != nil {
		return nil, nil, false, err
	}
	return dev, dev.Close, api == "vulkan", nil
}

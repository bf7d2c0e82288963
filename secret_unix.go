// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build unix

package uicore

import "golang.org/x/sys/unix"

// pinMemory locks b's pages in RAM. Failure (e.g. RLIMIT_MEMLOCK) is not
// fatal: the buffer is still wiped on release.
func pinMemory(b []byte) bool {
	if len(b) == 0 {
		return false
	}
	if err := unix.Mlock(b); err != nil {
		Logger().Warn("uicore: mlock failed", "bytes", len(b), "err", err)
		return false
	}
	return true
}

func unpinMemory(b []byte) {
	if err := unix.Munlock(b); err != nil {
		Logger().Warn("uicore: munlock failed", "bytes", len(b), "err", err)
	}
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !unix

package uicore

func pinMemory([]byte) bool { return false }

func unpinMemory([]byte) {}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package uicore

import "fmt"

// BufferUsage is the update-frequency hint given when a buffer is created.
type BufferUsage int

const (
	// UsageStatic buffers are written once and drawn many times.
	UsageStatic BufferUsage = iota
	// UsageDynamic buffers are rewritten repeatedly and drawn many times.
	UsageDynamic
	// UsageStream buffers are rewritten for almost every draw.
	UsageStream
)

// String returns the string representation of BufferUsage.
func (u BufferUsage) String() string {
	switch u {
	case UsageStatic:
		return "Static"
	case UsageDynamic:
		return "Dynamic"
	case UsageStream:
		return "Stream"
	default:
		return fmt.Sprintf("Unknown(%d)", int(u))
	}
}

func (u BufferUsage) valid() bool {
	return u >= UsageStatic && u <= UsageStream
}

// BufferKind selects what a GPU buffer is bound as.
type BufferKind int

const (
	// KindVertex is a vertex array buffer.
	KindVertex BufferKind = iota
	// KindIndex is an element (index) array buffer.
	KindIndex
)

// String returns the string representation of BufferKind.
func (k BufferKind) String() string {
	switch k {
	case KindVertex:
		return "Vertex"
	case KindIndex:
		return "Index"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

// BufferAccess is the access mode a staging buffer is locked with.
type BufferAccess int

const (
	// AccessReadOnly allows reading the mapped bytes only.
	AccessReadOnly BufferAccess = iota + 1
	// AccessWriteOnly allows writing the mapped bytes only. Prior contents
	// must not be assumed.
	AccessWriteOnly
	// AccessReadWrite allows both.
	AccessReadWrite
)

// String returns the string representation of BufferAccess.
func (a BufferAccess) String() string {
	switch a {
	case AccessReadOnly:
		return "ReadOnly"
	case AccessWriteOnly:
		return "WriteOnly"
	case AccessReadWrite:
		return "ReadWrite"
	default:
		return fmt.Sprintf("Unknown(%d)", int(a))
	}
}

// CanRead reports whether the mode permits reads.
func (a BufferAccess) CanRead() bool {
	return a == AccessReadOnly || a == AccessReadWrite
}

// CanWrite reports whether the mode permits writes.
func (a BufferAccess) CanWrite() bool {
	return a == AccessWriteOnly || a == AccessReadWrite
}

// MirrorPolicy decides whether a buffer retains a host-side copy of its
// contents. The mirror is what lets a buffer be restored after device loss.
type MirrorPolicy int

const (
	// MirrorAuto mirrors dynamic and stream buffers, never static ones.
	MirrorAuto MirrorPolicy = iota
	// MirrorAlways mirrors regardless of usage.
	MirrorAlways
	// MirrorNever disables the mirror. Contents are undefined after loss.
	MirrorNever
)

// String returns the string representation of MirrorPolicy.
func (p MirrorPolicy) String() string {
	switch p {
	case MirrorAuto:
		return "Auto"
	case MirrorAlways:
		return "Always"
	case MirrorNever:
		return "Never"
	default:
		return fmt.Sprintf("Unknown(%d)", int(p))
	}
}

// mirrors reports whether a buffer with the given usage keeps a host copy.
func (p MirrorPolicy) mirrors(u BufferUsage) bool {
	switch p {
	case MirrorAlways:
		return true
	case MirrorNever:
		return false
	default:
		return u == UsageDynamic || u == UsageStream
	}
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package uicore

import "testing"

func TestDefaultOptions(t *testing.T) {
	c := defaultContextOptions()
	if c.budget >= 0 {
		t.Errorf("default budget = %d, want unlimited", c.budget)
	}
	b := defaultBufferOptions()
	if b.mirror != MirrorAuto || b.sensitive || b.label != "" {
		t.Errorf("default buffer options = %+v", b)
	}
}

func TestBufferOptionsApply(t *testing.T) {
	o := defaultBufferOptions()
	for _, opt := range []BufferOption{
		WithLabel("quad"),
		WithMirror(MirrorNever),
		WithSensitiveContents(),
	} {
		opt(&o)
	}
	if o.label != "quad" || o.mirror != MirrorNever || !o.sensitive {
		t.Errorf("options = %+v", o)
	}
}

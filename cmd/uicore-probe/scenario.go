// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gogpu/uicore"
)

// Report is the outcome of one scenario run.
type Report struct {
	Backend   string
	Capacity  int
	Verified  bool
	Restored  bool
	PeakBytes int64
	Steps     []string
}

// Print writes the report to w with English digit grouping.
func (r Report) Print(w io.Writer) {
	p := message.NewPrinter(language.English)
	check := "unverified"
	if r.Verified {
		check = "verified"
	}
	p.Fprintf(w, "%-10s OK    %d bytes, contents %s, peak %d bytes\n", r.Backend, r.Capacity, check, r.PeakBytes)
	for _, s := range r.Steps {
		p.Fprintf(w, "%-10s       %s\n", "", s)
	}
}

// RunScenario exercises one device: upload, bounds check, staging
// readback, device loss and restore. When verify is false readback
// contents are not compared, for devices that do not execute copies.
func RunScenario(dev uicore.Device, cfg Config, verify bool) (Report, error) {
	r := Report{Backend: dev.BackendName(), Capacity: cfg.Capacity, Verified: verify}

	gc, err := uicore.NewGraphicContext(dev,
		uicore.WithContextLabel("probe"),
		uicore.WithMemoryBudget(cfg.Budget))
	if err != nil {
		return r, err
	}
	defer gc.Destroy()
	if err := uicore.SetActive(gc); err != nil {
		return r, fmt.Errorf("activate: %w", err)
	}
	defer func() { _ = uicore.SetActive(nil) }()

	vb, err := uicore.NewVertexArrayBuffer(gc, cfg.Capacity, uicore.UsageDynamic, uicore.WithLabel("probe"))
	if err != nil {
		return r, fmt.Errorf("create: %w", err)
	}
	defer vb.Destroy()
	r.PeakBytes = gc.Budget().Stats().UsedBytes

	pattern := bytes.Repeat([]byte{0xFF}, 16)
	if err := vb.UploadData(gc, 0, pattern); err != nil {
		return r, fmt.Errorf("upload: %w", err)
	}
	r.Steps = append(r.Steps, "upload [0,16)")

	over := cfg.Capacity - 4
	if err := vb.UploadData(gc, over, pattern); !errors.Is(err, uicore.ErrOutOfRange) {
		return r, fmt.Errorf("upload at %d: got %v, want out of range", over, err)
	}
	r.Steps = append(r.Steps, fmt.Sprintf("upload [%d,%d) rejected", over, over+16))

	if err := readAndCompare(gc, vb, pattern, verify); err != nil {
		return r, fmt.Errorf("readback: %w", err)
	}
	r.Steps = append(r.Steps, "readback [0,16)")

	gc.NotifyDeviceLost()
	if err := vb.UploadData(gc, 0, pattern); !errors.Is(err, uicore.ErrDeviceLost) {
		return r, fmt.Errorf("upload on lost device: got %v, want device lost", err)
	}
	gc.NotifyDeviceRestored()
	if err := readAndCompare(gc, vb, pattern, verify); err != nil {
		return r, fmt.Errorf("readback after restore: %w", err)
	}
	r.Restored = true
	r.Steps = append(r.Steps, "device lost and restored from host mirror")
	return r, nil
}

func readAndCompare(gc *uicore.GraphicContext, vb *uicore.Buffer, want []byte, verify bool) error {
	staging, err := uicore.NewStagingBuffer(len(want), uicore.UsageStream)
	if err != nil {
		return err
	}
	if err := vb.CopyTo(gc, staging, 0, 0, len(want)); err != nil {
		return err
	}
	if err := staging.Lock(uicore.AccessReadOnly); err != nil {
		return err
	}
	defer func() { _ = staging.Unlock() }()

	got := make([]byte, len(want))
	if err := staging.ReadAt(got, 0); err != nil {
		return err
	}
	if verify && !bytes.Equal(got, want) {
		return fmt.Errorf("read % x, want % x", got, want)
	}
	return nil
}

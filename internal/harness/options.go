// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package harness

import (
	"io"

	"github.com/aibor/anactest/internal/blockdev"
	"github.com/aibor/anactest/internal/drives"
)

// Option configures a [Harness].
type Option func(h *Harness)

// WithBlockDevice sets the block device service used for the suite image.
// Default is [blockdev.NewLoop].
func WithBlockDevice(svc blockdev.Service) Option {
	return func(h *Harness) {
		h.svc = svc
	}
}

// WithImager sets the creator of scratch drive images. Default is a
// [qemu.ImageCreator] using the configured binary.
func WithImager(imager drives.Imager) Option {
	return func(h *Harness) {
		h.imager = imager
	}
}

// WithOutput sets the writers the hypervisor's output is sent to. Default is
// [io.Discard] for both.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(h *Harness) {
		h.stdout = stdout
		h.stderr = stderr
	}
}

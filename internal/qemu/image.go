// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package qemu

import (
	"context"
	"os/exec"
	"strconv"
)

// DefaultImageExecutable is the default image creation tool.
const DefaultImageExecutable = "/usr/bin/qemu-img"

const imageFormat = "qcow2"

// ImageCreator creates empty disk images.
type ImageCreator struct {
	// Path to the qemu-img binary.
	Executable string
}

// Create creates an empty qcow2 image at path with a virtual size of sizeGB
// gigabytes. An existing file at path is overwritten.
func (c ImageCreator) Create(ctx context.Context, path string, sizeGB uint) error {
	executable := c.Executable
	if executable == "" {
		executable = DefaultImageExecutable
	}

	size := strconv.FormatUint(uint64(sizeGB), 10) + "G"

	//nolint:gosec
	cmd := exec.CommandContext(ctx, executable,
		"create", "-f", imageFormat, path, size)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return &CommandError{
			Name:   executable,
			Output: output,
			Err:    err,
		}
	}

	return nil
}

// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package blockdev

import (
	"errors"
	"strings"
)

var (
	// ErrDiskTooSmall is returned if a disk image can not hold a partition.
	ErrDiskTooSmall = errors.New("disk too small")

	// ErrNotPartitioned is returned if an image without partition table is
	// formatted.
	ErrNotPartitioned = errors.New("image not partitioned")

	// ErrNotFormatted is returned if an image without file system is mounted.
	ErrNotFormatted = errors.New("image not formatted")

	// ErrNotMounted is returned if a path that is not a mount point is
	// unmounted.
	ErrNotMounted = errors.New("not mounted")

	// ErrBusy is returned if an image is torn down while it is still mounted.
	ErrBusy = errors.New("image still mounted")

	// ErrDeviceTimeout is returned if a partition device node does not show up
	// in time.
	ErrDeviceTimeout = errors.New("timeout waiting for device node")
)

// CommandError wraps a failed external tool invocation.
type CommandError struct {
	Args   []string
	Output []byte
	Err    error
}

// Error implements the [error] interface.
func (e *CommandError) Error() string {
	msg := strings.Join(e.Args, " ") + ": " + e.Err.Error()

	if out := strings.TrimSpace(string(e.Output)); out != "" {
		msg += ": " + out
	}

	return msg
}

// Is implements the [errors.Is] interface.
func (*CommandError) Is(other error) bool {
	_, ok := other.(*CommandError)
	return ok
}

// Unwrap implements the [errors.Unwrap] interface.
func (e *CommandError) Unwrap() error {
	return e.Err
}

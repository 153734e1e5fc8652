// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sys

import (
	"errors"

	"golang.org/x/sys/unix"
)

// IgnoringEINTR calls fn until it returns anything but [unix.EINTR].
func IgnoringEINTR(fn func() error) error {
	for {
		err := fn()
		if !errors.Is(err, unix.EINTR) {
			return err
		}
	}
}

// IgnoringEINTRValue is like [IgnoringEINTR] for functions that return a
// value along with the error.
func IgnoringEINTRValue[T any](fn func() (T, error)) (T, error) {
	for {
		v, err := fn()
		if !errors.Is(err, unix.EINTR) {
			return v, err
		}
	}
}

// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package testconfig

import "errors"

var (
	// ErrMissing is returned if a required key is not set.
	ErrMissing = errors.New("required key not set")

	// ErrInvalidValue is returned if the value of a key is not allowed.
	ErrInvalidValue = errors.New("invalid value")
)

// Error wraps errors concerning a specific config key.
type Error struct {
	Key string
	Err error
}

// Error implements the [error] interface.
func (e *Error) Error() string {
	return "config " + e.Key + ": " + e.Err.Error()
}

// Is implements the [errors.Is] interface.
func (*Error) Is(other error) bool {
	_, ok := other.(*Error)
	return ok
}

// Unwrap implements the [errors.Unwrap] interface.
func (e *Error) Unwrap() error {
	return e.Err
}

// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package definition

import "errors"

var (
	// ErrDuplicateName is returned if more than one definition with the same
	// name is loaded.
	ErrDuplicateName = errors.New("duplicate definition name")

	// ErrUnknownFormat is returned for files with unknown extension.
	ErrUnknownFormat = errors.New("unknown definition file format")
)

// ValidationError indicates an invalid field in a [Definition].
type ValidationError struct {
	Field string
	Msg   string
}

// Error implements the [error] interface.
func (e *ValidationError) Error() string {
	return "invalid " + e.Field + ": " + e.Msg
}

// Is implements the [errors.Is] interface.
func (*ValidationError) Is(other error) bool {
	_, ok := other.(*ValidationError)
	return ok
}

// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package results

import "errors"

// ErrUnknownFormat is returned for unsupported archive formats.
var ErrUnknownFormat = errors.New("unknown archive format")

// VerificationError is returned if the results on the suite image do not
// satisfy the result contract. It is a test failure, not an infrastructure
// error.
type VerificationError struct {
	Name string
	Msg  string
}

// Error implements the [error] interface.
func (e *VerificationError) Error() string {
	return e.Msg
}

// Is implements the [errors.Is] interface.
func (*VerificationError) Is(other error) bool {
	_, ok := other.(*VerificationError)
	return ok
}

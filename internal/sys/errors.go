// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sys

import "errors"

var (
	// ErrInvalidPrefix is returned if a temporary file prefix contains a path
	// separator.
	ErrInvalidPrefix = errors.New("invalid temp file prefix")

	// ErrTempNameExhausted is returned if no unused temporary file name could
	// be found.
	ErrTempNameExhausted = errors.New("no unused temp file name found")
)

// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import "errors"

var (
	// ErrReadBuildInfo is returned if build info can not be read.
	ErrReadBuildInfo = errors.New("failed to read build info")

	// ErrTestsFailed is returned if any definition did not pass.
	ErrTestsFailed = errors.New("tests failed")

	// ErrTestsErrored is returned if any definition could not be run.
	ErrTestsErrored = errors.New("tests could not be run")
)

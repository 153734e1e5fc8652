// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package harness

import (
	"errors"
	"time"

	"github.com/aibor/anactest/internal/results"
)

// Result is the overall result of a test run.
type Result string

// Results.
const (
	ResultPass  Result = "pass"
	ResultFail  Result = "fail"
	ResultError Result = "error"
)

// Outcome describes a finished test run.
type Outcome struct {
	Name     string
	RunID    string
	Result   Result
	Duration time.Duration
	TimedOut bool

	// Archive is the path the results were archived at. Empty if nothing
	// was archived.
	Archive string

	// Err is the error the run failed with, if any.
	Err error
}

// ResultFor classifies err. [results.VerificationError]s are failures, all
// other errors are errors.
func ResultFor(err error) Result {
	switch {
	case err == nil:
		return ResultPass
	case errors.Is(err, &results.VerificationError{}):
		return ResultFail
	default:
		return ResultError
	}
}

// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package qemu

import "errors"

var (
	// ErrArgumentCollision is returned if two [Argument]s collide.
	ErrArgumentCollision = errors.New("colliding args")

	// ErrAlreadyRunning is returned if a [Handle] is used for a second
	// process while the first one is still running.
	ErrAlreadyRunning = errors.New("process already running")
)

// ArgumentError indicates an issue with the [CommandSpec].
type ArgumentError struct {
	msg string
}

// Error implements the [error] interface.
func (e *ArgumentError) Error() string {
	return "argument error: " + e.msg
}

// Is implements the [errors.Is] interface.
func (*ArgumentError) Is(other error) bool {
	_, ok := other.(*ArgumentError)
	return ok
}

// CommandError wraps errors of external commands that could not be run
// successfully.
type CommandError struct {
	Name   string
	Output []byte
	Err    error
}

// Error implements the [error] interface.
func (e *CommandError) Error() string {
	msg := e.Name + ": " + e.Err.Error()
	if len(e.Output) > 0 {
		msg += ": " + string(trimOutput(e.Output))
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

// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package qemu

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os/exec"
	"strings"
)

// Command is a hypervisor invocation that can be run.
type Command struct {
	name string
	args []string
}

// NewCommand creates a new [Command] from the given [CommandSpec]. Defaults
// are applied for unset optional fields.
func NewCommand(spec CommandSpec) (*Command, error) {
	spec.AddDefaults()

	if err := spec.Validate(); err != nil {
		return nil, err
	}

	args, err := BuildArgumentStrings(spec.arguments())
	if err != nil {
		return nil, err
	}

	cmd := &Command{
		name: spec.Executable,
		args: args,
	}

	return cmd, nil
}

// Name returns the name of the binary that is run.
func (c *Command) Name() string {
	return c.name
}

// Args returns the arguments the binary is run with.
func (c *Command) Args() []string {
	return c.args
}

// String returns the command line.
func (c *Command) String() string {
	return c.name + " " + strings.Join(c.args, " ")
}

// Run starts the hypervisor, stores its process in the given [Handle] and
// blocks until it exits. The handle is cleared afterwards.
//
// The process is killed if the context is done. It can be killed any time by
// [Handle.Kill] as well. Non-zero exit codes and termination by signal are
// logged but are not an error. Only failure to run the process at all is.
func (c *Command) Run(
	ctx context.Context,
	handle *Handle,
	stdout, stderr io.Writer,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	//nolint:gosec
	cmd := exec.Command(c.name, c.args...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	slog.Debug("Start hypervisor", slog.String("command", c.String()))

	if err := handle.start(cmd); err != nil {
		return &CommandError{Name: c.name, Err: err}
	}

	stop := context.AfterFunc(ctx, func() {
		if err := handle.Kill(); err != nil {
			slog.Warn("Failed to kill hypervisor", slog.Any("error", err))
		}
	})

	err := cmd.Wait()

	stop()
	handle.release(cmd.Process)

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		slog.Info("Hypervisor exited",
			slog.Int("pid", cmd.Process.Pid),
			slog.String("state", exitErr.String()),
		)

		return nil
	}

	if err != nil {
		return &CommandError{Name: c.name, Err: err}
	}

	slog.Debug("Hypervisor exited", slog.Int("pid", cmd.Process.Pid))

	return nil
}

func trimOutput(output []byte) []byte {
	return bytes.TrimSpace(output)
}

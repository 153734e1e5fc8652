// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package qemu

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync"
)

// Handle holds the currently running hypervisor process, if any.
//
// All methods are safe for concurrent use. The zero value is an empty handle
// ready to use.
type Handle struct {
	mu   sync.Mutex
	proc *os.Process
}

// start starts the command and stores its process. Starting and storing
// happens under the lock, so a concurrent [Handle.Kill] either sees no
// process or the started one.
func (h *Handle) start(cmd *exec.Cmd) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.proc != nil {
		return ErrAlreadyRunning
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start: %w", err)
	}

	h.proc = cmd.Process

	return nil
}

// release clears the handle if it still holds the given process.
func (h *Handle) release(proc *os.Process) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.proc == proc {
		h.proc = nil
	}
}

// Running returns if the handle holds a process.
func (h *Handle) Running() bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.proc != nil
}

// Pid returns the process ID of the held process or 0 if empty.
func (h *Handle) Pid() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.proc == nil {
		return 0
	}

	return h.proc.Pid
}

// Kill forcibly terminates the held process and clears the handle.
//
// It is a no-op if the handle is empty. A process that has already exited is
// not an error.
func (h *Handle) Kill() error {
	h.mu.Lock()
	proc := h.proc
	h.proc = nil
	h.mu.Unlock()

	if proc == nil {
		return nil
	}

	err := proc.Kill()
	if err != nil && !errors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("kill %d: %w", proc.Pid, err)
	}

	return nil
}

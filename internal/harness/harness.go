// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aibor/anactest/internal/blockdev"
	"github.com/aibor/anactest/internal/definition"
	"github.com/aibor/anactest/internal/drives"
	"github.com/aibor/anactest/internal/payload"
	"github.com/aibor/anactest/internal/qemu"
	"github.com/aibor/anactest/internal/results"
	"github.com/aibor/anactest/internal/runstate"
	"github.com/aibor/anactest/internal/testconfig"
	"golang.org/x/sync/errgroup"
)

// Harness runs a single [definition.Definition].
type Harness struct {
	def    definition.Definition
	cfg    *testconfig.Config
	svc    blockdev.Service
	imager drives.Imager
	stdout io.Writer
	stderr io.Writer

	mu      sync.Mutex
	phase   Phase
	state   *runstate.State
	outcome Outcome
}

// New creates a new [Harness] for the definition.
func New(
	def definition.Definition,
	cfg *testconfig.Config,
	opts ...Option,
) *Harness {
	harness := &Harness{
		def:    def.WithDefaults(),
		cfg:    cfg,
		stdout: io.Discard,
		stderr: io.Discard,
	}

	for _, opt := range opts {
		opt(harness)
	}

	if harness.svc == nil {
		harness.svc = blockdev.NewLoop()
	}

	if harness.imager == nil {
		harness.imager = qemu.ImageCreator{Executable: cfg.QemuImg()}
	}

	return harness
}

// Phase returns the current phase.
func (h *Harness) Phase() Phase {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.phase
}

// Outcome returns the outcome of the last [Harness.RunTest].
func (h *Harness) Outcome() Outcome {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.outcome
}

// State returns the current run state. It is nil before [Harness.SetUp] and
// after [Harness.TearDown].
func (h *Harness) State() *runstate.State {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.state
}

func (h *Harness) transition(from, to Phase) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.phase != from {
		return fmt.Errorf("%w: %s, expected %s", ErrInvalidState, h.phase, from)
	}

	h.phase = to

	return nil
}

func (h *Harness) setPhase(phase Phase) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.phase = phase
}

// SetUp creates a fresh run state, the scratch drives and the suite image.
// On success the harness is ready to run.
//
// Resources created before a failure are released by [Harness.TearDown].
func (h *Harness) SetUp(ctx context.Context) error {
	h.mu.Lock()

	if h.phase != PhaseUnset || h.state != nil {
		phase := h.phase
		h.mu.Unlock()

		return fmt.Errorf("%w: %s, not torn down", ErrInvalidState, phase)
	}

	state := runstate.New(h.def.Name, h.cfg.TempBase(), h.cfg.ImageDir())
	h.state = state
	h.mu.Unlock()

	slog.Debug("Set up run",
		slog.String("name", h.def.Name),
		slog.String("id", state.ID()),
	)

	err := drives.MakeDrives(ctx, state, h.def, h.imager)
	if err != nil {
		return fmt.Errorf("make drives: %w", err)
	}

	err = payload.MakeSuite(ctx, state, h.def, h.cfg, h.svc)
	if err != nil {
		return fmt.Errorf("make suite: %w", err)
	}

	return h.transition(PhaseUnset, PhaseReady)
}

// RunTest boots the VM and blocks until it terminates. Afterwards the suite
// image is mounted, the results are verified and archived.
//
// A test that did not pass returns a [results.VerificationError]. If a
// timeout is configured, the VM is killed when it expires and the run fails.
func (h *Harness) RunTest(ctx context.Context) error {
	err := h.transition(PhaseReady, PhaseRunning)
	if err != nil {
		return err
	}

	state := h.State()
	start := time.Now()
	outcome := Outcome{
		Name:  h.def.Name,
		RunID: state.ID(),
	}

	defer func() {
		outcome.Duration = time.Since(start)
		outcome.Result = ResultFor(outcome.Err)

		h.mu.Lock()
		h.outcome = outcome
		h.mu.Unlock()
	}()

	outcome.TimedOut, outcome.Err = h.boot(ctx, state)

	h.setPhase(PhaseDone)

	if outcome.Err != nil {
		return outcome.Err
	}

	outcome.Archive, outcome.Err = h.collect(ctx, state)

	if outcome.Err == nil && outcome.TimedOut {
		outcome.Err = &results.VerificationError{
			Name: h.def.Name,
			Msg:  "automated UI test " + h.def.Name + " timed out",
		}
	}

	return outcome.Err
}

// boot runs the VM until it terminates. A watcher kills it if the configured
// timeout expires.
func (h *Harness) boot(ctx context.Context, state *runstate.State) (bool, error) {
	timeout, err := h.cfg.Timeout()
	if err != nil {
		return false, err
	}

	cmd, err := qemu.NewCommand(qemu.CommandSpec{
		Executable: h.cfg.Qemu(),
		Memory:     uint64(h.def.ReqMemory),
		LiveImage:  h.cfg.LiveImage(),
		Drives:     state.DrivePaths(),
	})
	if err != nil {
		return false, fmt.Errorf("compose hypervisor command: %w", err)
	}

	var (
		group    errgroup.Group
		timedOut atomic.Bool
	)

	exited, cancelExited := context.WithCancel(ctx)
	defer cancelExited()

	// Canceled by the watcher on timeout, so a VM that has not been started
	// yet is never started and a started one is killed.
	running, cancelRunning := context.WithCancel(ctx)
	defer cancelRunning()

	group.Go(func() error {
		defer cancelExited()

		err := cmd.Run(running, &state.Process, h.stdout, h.stderr)
		if timedOut.Load() && errors.Is(err, context.Canceled) {
			return nil
		}

		return err
	})

	group.Go(func() error {
		if timeout <= 0 {
			<-exited.Done()
			return nil
		}

		timer := time.NewTimer(timeout)
		defer timer.Stop()

		select {
		case <-exited.Done():
			return nil
		case <-timer.C:
			slog.Warn("Timeout expired, killing VM",
				slog.String("name", h.def.Name),
				slog.Duration("timeout", timeout),
			)
			timedOut.Store(true)
			cancelRunning()

			return h.Die()
		}
	})

	err = group.Wait()
	if err != nil {
		return timedOut.Load(), fmt.Errorf("run VM: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return timedOut.Load(), err
	}

	return timedOut.Load(), nil
}

// collect verifies and archives the results on the suite image.
func (h *Harness) collect(ctx context.Context, state *runstate.State) (string, error) {
	mountpoint, err := state.Mountpoint()
	if err != nil {
		return "", err
	}

	var archive string

	err = results.SuiteMounted(ctx, h.svc, state, func() error {
		err := results.VerifyResultDir(h.def.Name, mountpoint)
		if err != nil {
			return err
		}

		archive, err = results.Archive(
			h.svc,
			mountpoint,
			filepath.Clean(h.cfg.ResultsDir()),
			h.def.Name,
			h.cfg.ArchiveFormat(),
		)
		if err != nil {
			return err
		}

		return results.VerifyPassed(h.def.Name, mountpoint)
	})

	return archive, err
}

// TearDown kills the VM if still running and removes all drives and
// temporary directories. It can be called in any phase and resets the
// harness to [PhaseUnset].
func (h *Harness) TearDown() error {
	h.mu.Lock()
	state := h.state
	h.state = nil
	h.phase = PhaseUnset
	h.mu.Unlock()

	if state == nil {
		return nil
	}

	slog.Debug("Tear down run",
		slog.String("name", h.def.Name),
		slog.String("id", state.ID()),
	)

	err := state.Cleanup()
	if err != nil {
		return fmt.Errorf("cleanup: %w", err)
	}

	return nil
}

// Die kills the VM if it is running. It is safe to call at any time, also
// concurrently to [Harness.RunTest].
func (h *Harness) Die() error {
	state := h.State()
	if state == nil {
		return nil
	}

	if pid := state.Process.Pid(); pid != 0 {
		slog.Debug("Kill VM",
			slog.String("name", h.def.Name),
			slog.Int("pid", pid),
		)
	}

	return state.Process.Kill()
}

// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package harness drives a single definition through its life cycle: set up
// the drives and the suite image, boot the VM, collect and verify the results
// and clean everything up again.
//
// A [Harness] moves through the phases [PhaseUnset], [PhaseReady],
// [PhaseRunning] and [PhaseDone]. [Run] wires a harness into a Go test.
package harness

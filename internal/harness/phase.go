// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package harness

// Phase is the life cycle phase of a [Harness].
type Phase int

// Harness phases.
const (
	PhaseUnset Phase = iota
	PhaseReady
	PhaseRunning
	PhaseDone
)

// String implements [fmt.Stringer].
func (p Phase) String() string {
	switch p {
	case PhaseUnset:
		return "unset"
	case PhaseReady:
		return "ready"
	case PhaseRunning:
		return "running"
	case PhaseDone:
		return "done"
	default:
		return "unknown"
	}
}

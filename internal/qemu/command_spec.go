// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package qemu

import "strconv"

// Defaults for [CommandSpec] fields.
const (
	DefaultExecutable = "/usr/bin/qemu-kvm"
	DefaultVNCDisplay = "localhost:2"
)

const (
	mediaCDROM = "cdrom"
	mediaDisk  = "disk"
	bootCDROM  = "d"
)

// CommandSpec defines the parameters for a [Command].
type CommandSpec struct {
	// Path to the hypervisor binary.
	Executable string

	// VNC display the graphical console is served on.
	VNCDisplay string

	// Memory for the machine in MB.
	Memory uint64

	// Path to the live image the machine boots from. It is attached as
	// CD-ROM.
	LiveImage string

	// Paths to disk images attached as additional disks in the given order.
	Drives []string

	// ExtraArgs are extra arguments that are passed to the QEMU command.
	// They must not collide with the arguments derived from the other
	// fields or an error is returned on [NewCommand].
	ExtraArgs []Argument
}

// AddDefaults sets default values for empty fields.
func (s *CommandSpec) AddDefaults() {
	if s.Executable == "" {
		s.Executable = DefaultExecutable
	}

	if s.VNCDisplay == "" {
		s.VNCDisplay = DefaultVNCDisplay
	}
}

// Validate checks that all required fields are set.
func (s *CommandSpec) Validate() error {
	switch {
	case s.Executable == "":
		return &ArgumentError{"executable not set"}
	case s.LiveImage == "":
		return &ArgumentError{"live image not set"}
	case s.Memory == 0:
		return &ArgumentError{"memory not set"}
	}

	return nil
}

// arguments compiles the argument list for the QEMU command.
func (s *CommandSpec) arguments() []Argument {
	args := make([]Argument, 0, 4+len(s.Drives)+len(s.ExtraArgs))

	args = append(args,
		UniqueArg("vnc", s.VNCDisplay),
		UniqueArg("m", strconv.FormatUint(s.Memory, 10)),
		UniqueArg("boot", bootCDROM),
		DriveArg(s.LiveImage, mediaCDROM),
	)

	for _, drive := range s.Drives {
		args = append(args, DriveArg(drive, mediaDisk))
	}

	return append(args, s.ExtraArgs...)
}

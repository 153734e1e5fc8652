// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package definition describes single VM based test runs and loads them from
// YAML or TOML files.
package definition

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"
)

// DefaultMemory is the memory in MB a VM gets if the definition does not
// request anything else. It is the minimum for the installer to run
// reasonably fast.
const DefaultMemory = 2048

// SuiteDrive is the drive name reserved for the payload image.
const SuiteDrive = "suite"

var (
	identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	modulePattern     = regexp.MustCompile(
		`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)*$`)
)

// Drive is a scratch disk image request.
type Drive struct {
	Name string `yaml:"name" toml:"name"`
	// Size in GB.
	Size uint `yaml:"size" toml:"size"`
}

// TestCase identifies a test case class run inside the VM.
type TestCase struct {
	// Module is the module path relative to the "inside" package.
	Module string `yaml:"module" toml:"module"`
	// Class is the name of the test case class in Module.
	Class string `yaml:"class" toml:"class"`
}

// Definition describes a single test run in a VM.
type Definition struct {
	// Name identifies the definition. It is used for the temporary
	// directory and results directory names, so it must be unique.
	Name string `yaml:"name" toml:"name"`

	// Drives are created in the given order. A later drive with the same
	// name replaces an earlier one.
	Drives []Drive `yaml:"drives" toml:"drives"`

	// Environ is added to the environment the tests run in.
	Environ map[string]string `yaml:"environ" toml:"environ"`

	// ReqMemory is the VM memory in MB.
	ReqMemory uint `yaml:"reqMemory" toml:"reqMemory"`

	// Tests are run in the given order.
	Tests []TestCase `yaml:"tests" toml:"tests"`
}

// WithDefaults returns a copy of the definition with unset optional fields
// set to their defaults.
func (d Definition) WithDefaults() Definition {
	if d.ReqMemory == 0 {
		d.ReqMemory = DefaultMemory
	}

	return d
}

// Validate checks the definition for invalid values.
func (d *Definition) Validate() error {
	if d.Name == "" {
		return &ValidationError{Field: "name", Msg: "must not be empty"}
	}

	if strings.ContainsRune(d.Name, filepath.Separator) || d.Name == "." ||
		d.Name == ".." {
		return &ValidationError{Field: "name", Msg: "must be a file name: " + d.Name}
	}

	for idx, drive := range d.Drives {
		field := fmt.Sprintf("drives[%d]", idx)

		switch {
		case drive.Name == "":
			return &ValidationError{Field: field, Msg: "name must not be empty"}
		case strings.ContainsRune(drive.Name, filepath.Separator):
			return &ValidationError{Field: field, Msg: "name must be a file name: " + drive.Name}
		case drive.Name == SuiteDrive:
			return &ValidationError{Field: field, Msg: "name is reserved: " + SuiteDrive}
		case drive.Size == 0:
			return &ValidationError{Field: field, Msg: "size must be greater than 0"}
		}
	}

	for key, value := range d.Environ {
		if key == "" || strings.ContainsAny(key, "=\x00") || !utf8.ValidString(key) {
			return &ValidationError{Field: "environ", Msg: "invalid name: " + key}
		}

		if !utf8.ValidString(value) {
			return &ValidationError{Field: "environ", Msg: "invalid UTF-8 in value of " + key}
		}
	}

	for idx, test := range d.Tests {
		field := fmt.Sprintf("tests[%d]", idx)

		if !modulePattern.MatchString(test.Module) {
			return &ValidationError{Field: field, Msg: "invalid module: " + test.Module}
		}

		if !identifierPattern.MatchString(test.Class) {
			return &ValidationError{Field: field, Msg: "invalid class: " + test.Class}
		}
	}

	return nil
}

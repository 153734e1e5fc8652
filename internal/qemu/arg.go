// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package qemu

import (
	"fmt"
	"slices"
	"strings"
)

// Argument is a single QEMU option with an optional value.
//
// Options that may only be given once are created with [UniqueArg], options
// that may be repeated with different values with [RepeatableArg].
type Argument struct {
	name       string
	value      string
	repeatable bool
}

// String implements [fmt.Stringer].
func (a Argument) String() string {
	if a.value == "" {
		return "-" + a.name
	}

	return "-" + a.name + " " + a.value
}

// Name returns the option name without leading dash.
func (a Argument) Name() string {
	return a.name
}

// Value returns the option value.
func (a Argument) Value() string {
	return a.value
}

// Repeatable returns if the option may be given multiple times.
func (a Argument) Repeatable() bool {
	return a.repeatable
}

// Collides reports if both [Argument]s must not be used together. Unique
// options collide by name, repeatable options only if name and value match.
func (a Argument) Collides(other Argument) bool {
	if a.name != other.name {
		return false
	}

	if a.repeatable {
		return a.value == other.value
	}

	return true
}

// UniqueArg returns an [Argument] that may be present only once. Multiple
// values are joined with comma.
func UniqueArg(name string, value ...string) Argument {
	return Argument{
		name:  name,
		value: strings.Join(value, ","),
	}
}

// RepeatableArg returns an [Argument] that may be present multiple times with
// different values. Multiple values are joined with comma.
func RepeatableArg(name string, value ...string) Argument {
	return Argument{
		name:       name,
		value:      strings.Join(value, ","),
		repeatable: true,
	}
}

// DriveArg returns a drive [Argument] for the given file and media type.
func DriveArg(file, media string) Argument {
	return RepeatableArg("drive", "file="+EscapeValue(file), "media="+media)
}

// EscapeValue escapes commas in option values by doubling them, as QEMU uses
// commas as option separator.
func EscapeValue(value string) string {
	return strings.ReplaceAll(value, ",", ",,")
}

// BuildArgumentStrings returns the [Argument]s as list of strings ready to be
// used with [exec.Command].
//
// It returns [ErrArgumentCollision] if any two [Argument]s collide.
func BuildArgumentStrings(args []Argument) ([]string, error) {
	result := make([]string, 0, 2*len(args))

	for idx, arg := range args {
		if prev := slices.IndexFunc(args[:idx], arg.Collides); prev != -1 {
			return nil, fmt.Errorf("%w: %s, %s",
				ErrArgumentCollision, args[prev], arg)
		}

		result = append(result, "-"+arg.name)
		if arg.value != "" {
			result = append(result, arg.value)
		}
	}

	return result, nil
}

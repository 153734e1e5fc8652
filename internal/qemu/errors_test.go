// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package qemu_test

import (
	"testing"

	"github.com/aibor/anactest/internal/qemu"
	"github.com/stretchr/testify/assert"
)

func TestArgumentErrorIs(t *testing.T) {
	//nolint:testifylint
	assert.ErrorIs(t, error(&qemu.ArgumentError{}), &qemu.ArgumentError{})
	assert.NotErrorIs(t, assert.AnError, &qemu.ArgumentError{})
}

func TestCommandErrorIs(t *testing.T) {
	err := &qemu.CommandError{Name: "qemu-img", Err: assert.AnError}

	//nolint:testifylint
	assert.ErrorIs(t, error(err), &qemu.CommandError{})
	assert.ErrorIs(t, err, assert.AnError)
	assert.NotErrorIs(t, assert.AnError, &qemu.CommandError{})
}

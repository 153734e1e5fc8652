// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package qemu_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aibor/anactest/internal/qemu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageCreatorCreate(t *testing.T) {
	argsFile := filepath.Join(t.TempDir(), "args")
	creator := qemu.ImageCreator{
		Executable: qemu.FakeExecutable(t, "qemu-img",
			`echo "$@" > `+argsFile+`; echo "Formatting $4"`),
	}

	err := creator.Create(t.Context(), "/var/tmp/data-1", 5)
	require.NoError(t, err)

	args, err := os.ReadFile(argsFile)
	require.NoError(t, err)
	assert.Equal(t, "create -f qcow2 /var/tmp/data-1 5G\n", string(args))
}

func TestImageCreatorCreateFailure(t *testing.T) {
	creator := qemu.ImageCreator{
		Executable: qemu.FakeExecutable(t, "qemu-img",
			"echo 'Could not create image' >&2; exit 1"),
	}

	err := creator.Create(t.Context(), "/var/tmp/data-1", 5)
	require.ErrorIs(t, err, &qemu.CommandError{})
	assert.ErrorContains(t, err, "Could not create image")
}

// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package qemu

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// FakeExecutable writes a shell script with the given body into a temporary
// directory and returns its path. It can be used in place of the hypervisor
// or image binaries in tests.
func FakeExecutable(t testing.TB, name, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	script := "#!/bin/sh\n" + body + "\n"

	//nolint:gosec
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))

	return path
}

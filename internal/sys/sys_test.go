// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sys_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aibor/anactest/internal/sys"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestIgnoringEINTR(t *testing.T) {
	tests := []struct {
		name          string
		errs          []error
		expectedCalls int
		expectedErr   error
	}{
		{
			name:          "success",
			errs:          []error{nil},
			expectedCalls: 1,
		},
		{
			name:          "interrupted twice",
			errs:          []error{unix.EINTR, unix.EINTR, nil},
			expectedCalls: 3,
		},
		{
			name:          "other error",
			errs:          []error{unix.EINTR, unix.EBADF},
			expectedCalls: 2,
			expectedErr:   unix.EBADF,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := sys.IgnoringEINTR(func() error {
				err := tt.errs[calls]
				calls++

				return err
			})

			assert.ErrorIs(t, err, tt.expectedErr)
			assert.Equal(t, tt.expectedCalls, calls)
		})
	}
}

func TestIgnoringEINTRValue(t *testing.T) {
	calls := 0
	v, err := sys.IgnoringEINTRValue(func() (int, error) {
		calls++
		if calls < 3 {
			return 0, unix.EINTR
		}

		return 42, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.Equal(t, 3, calls)
}

func TestMkstemp(t *testing.T) {
	dir := t.TempDir()

	first, err := sys.Mkstemp(dir, "data-")
	require.NoError(t, err)

	second, err := sys.Mkstemp(dir, "data-")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)

	for _, path := range []string{first, second} {
		assert.Equal(t, dir, filepath.Dir(path))
		assert.True(t, strings.HasPrefix(filepath.Base(path), "data-"))

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Zero(t, info.Size())
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	}
}

func TestMkstempInvalidPrefix(t *testing.T) {
	_, err := sys.Mkstemp(t.TempDir(), "a/b")
	assert.ErrorIs(t, err, sys.ErrInvalidPrefix)
}

func TestMkstempMissingDir(t *testing.T) {
	_, err := sys.Mkstemp(filepath.Join(t.TempDir(), "missing"), "x")
	assert.ErrorIs(t, err, unix.ENOENT)
}

func TestCopyTree(t *testing.T) {
	source := t.TempDir()

	require.NoError(t, os.MkdirAll(filepath.Join(source, "anaconda"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(source, "anaconda", "anaconda.log"),
		[]byte("log\n"), 0o640))
	require.NoError(t, os.Symlink("anaconda.log",
		filepath.Join(source, "anaconda", "latest.log")))
	require.NoError(t, os.Symlink("/nonexistent", filepath.Join(source, "dangling")))

	target := filepath.Join(t.TempDir(), "results", "rootpassword")
	require.NoError(t, sys.CopyTree(target, source))

	content, err := os.ReadFile(filepath.Join(target, "anaconda", "anaconda.log"))
	require.NoError(t, err)
	assert.Equal(t, "log\n", string(content))

	info, err := os.Stat(filepath.Join(target, "anaconda", "anaconda.log"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o640), info.Mode().Perm())

	link, err := os.Readlink(filepath.Join(target, "anaconda", "latest.log"))
	require.NoError(t, err)
	assert.Equal(t, "anaconda.log", link)

	link, err = os.Readlink(filepath.Join(target, "dangling"))
	require.NoError(t, err)
	assert.Equal(t, "/nonexistent", link)

	err = sys.CopyTree(target, source)
	assert.ErrorIs(t, err, os.ErrExist, "existing files are not overwritten")
}

// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package runstate_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aibor/anactest/internal/runstate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateDrives(t *testing.T) {
	state := runstate.New("rootpassword", t.TempDir(), t.TempDir())

	state.Set("suite", "/tmp/suite-1")
	state.Set("data", "/var/tmp/data-1")
	state.Set("swap", "/var/tmp/swap-1")
	state.Set("data", "/var/tmp/data-2")

	expected := []runstate.Drive{
		{Name: "data", Path: "/var/tmp/data-2"},
		{Name: "swap", Path: "/var/tmp/swap-1"},
		{Name: "suite", Path: "/tmp/suite-1"},
	}
	assert.Equal(t, expected, state.Drives())
	assert.Equal(t, []string{
		"/var/tmp/data-2",
		"/var/tmp/swap-1",
		"/tmp/suite-1",
	}, state.DrivePaths())

	path, exists := state.Path("swap")
	assert.True(t, exists)
	assert.Equal(t, "/var/tmp/swap-1", path)

	_, exists = state.Path("missing")
	assert.False(t, exists)

	suite, exists := state.Suite()
	assert.True(t, exists)
	assert.Equal(t, "/tmp/suite-1", suite)
}

func TestStateDirectories(t *testing.T) {
	base := t.TempDir()
	state := runstate.New("rootpassword", base, t.TempDir())

	tempdir, err := state.Tempdir()
	require.NoError(t, err)
	assert.Equal(t, base, filepath.Dir(tempdir))
	assert.Contains(t, filepath.Base(tempdir), "rootpassword-")
	assert.DirExists(t, tempdir)

	again, err := state.Tempdir()
	require.NoError(t, err)
	assert.Equal(t, tempdir, again)

	mountpoint, err := state.Mountpoint()
	require.NoError(t, err)
	assert.Equal(t, tempdir, filepath.Dir(mountpoint))
	assert.DirExists(t, mountpoint)

	again, err = state.Mountpoint()
	require.NoError(t, err)
	assert.Equal(t, mountpoint, again)
}

func TestStateDistinctDefinitions(t *testing.T) {
	base := t.TempDir()
	first := runstate.New("rootpassword", base, base)
	second := runstate.New("rootpassword", base, base)

	assert.NotEqual(t, first.ID(), second.ID())

	firstDir, err := first.Mountpoint()
	require.NoError(t, err)

	secondDir, err := second.Mountpoint()
	require.NoError(t, err)

	assert.NotEqual(t, firstDir, secondDir)
}

func TestStateCleanup(t *testing.T) {
	t.Run("nothing allocated", func(t *testing.T) {
		state := runstate.New("empty", t.TempDir(), t.TempDir())

		require.NoError(t, state.Cleanup())
		require.NoError(t, state.Cleanup())
	})

	t.Run("allocated", func(t *testing.T) {
		imageDir := t.TempDir()
		state := runstate.New("rootpassword", t.TempDir(), imageDir)

		tempdir, err := state.Tempdir()
		require.NoError(t, err)

		data := filepath.Join(tempdir, "data-1")
		require.NoError(t, os.WriteFile(data, nil, 0o600))
		state.Set("data", data)

		suite := filepath.Join(imageDir, "suite-1")
		require.NoError(t, os.WriteFile(suite, nil, 0o600))
		state.Set("suite", suite)

		require.NoError(t, state.Cleanup())
		assert.NoDirExists(t, tempdir)
		assert.NoFileExists(t, suite)

		require.NoError(t, state.Cleanup())
	})
}

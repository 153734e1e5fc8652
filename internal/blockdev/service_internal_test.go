// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package blockdev

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartitionSectors(t *testing.T) {
	const mb = 1000 * 1000

	tests := []struct {
		name          string
		diskSize      uint64
		partitionSize uint64
		expected      uint64
		expectedErr   error
	}{
		{
			name:          "fits",
			diskSize:      100 * mb,
			partitionSize: 10 * mb,
			expected:      19531,
		},
		{
			name:          "shrunk to disk",
			diskSize:      11 * mb,
			partitionSize: 10 * mb,
			expected:      11*mb/sectorSize - firstSector,
		},
		{
			name:     "whole disk",
			diskSize: 11 * mb,
			expected: 11*mb/sectorSize - firstSector,
		},
		{
			name:          "disk too small",
			diskSize:      firstSector * sectorSize,
			partitionSize: 10 * mb,
			expectedErr:   ErrDiskTooSmall,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual, err := partitionSectors(tt.diskSize, tt.partitionSize)
			require.ErrorIs(t, err, tt.expectedErr)
			assert.Equal(t, tt.expected, actual)
		})
	}
}

func TestCreateSparseImage(t *testing.T) {
	dir := t.TempDir()

	path, err := createSparseImage(dir, "suite", 11*1000*1000)
	require.NoError(t, err)

	assert.Equal(t, dir, filepath.Dir(path))
	assert.Contains(t, filepath.Base(path), "suite-")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, int64(11*1000*1000), info.Size())
}

func TestIsMountPoint(t *testing.T) {
	dir := t.TempDir()

	t.Run("root", func(t *testing.T) {
		mounted, err := isMountPoint("/")
		require.NoError(t, err)
		assert.True(t, mounted)
	})

	t.Run("plain dir", func(t *testing.T) {
		mounted, err := isMountPoint(dir)
		require.NoError(t, err)
		assert.False(t, mounted)
	})

	t.Run("missing", func(t *testing.T) {
		mounted, err := isMountPoint(filepath.Join(dir, "missing"))
		require.NoError(t, err)
		assert.False(t, mounted)
	})

	t.Run("symlink", func(t *testing.T) {
		link := filepath.Join(dir, "link")
		require.NoError(t, os.Symlink("/", link))

		mounted, err := isMountPoint(link)
		require.NoError(t, err)
		assert.False(t, mounted)
	})
}

// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package blockdev

import (
	"context"
	"fmt"
	"os"

	"github.com/aibor/anactest/internal/sys"
)

// FSType is a file system type.
type FSType string

// FSTypeExt4 is the ext4 journaling file system.
const FSTypeExt4 FSType = "ext4"

// Layout describes the planned layout of a disk image: a single partition
// carrying a file system.
type Layout struct {
	// PartitionSize is the size of the partition in bytes. If the disk is too
	// small, the partition is shrunk to span the rest of the disk. Zero means
	// the partition spans the whole disk.
	PartitionSize uint64

	// FSType is the file system created on the partition.
	FSType FSType

	// Label is the file system's volume label.
	Label string
}

// Service is the set of block device operations required for managing disk
// images.
//
// Images used with [Service.Format] or [Service.Mount] are attached to the
// service until [Service.Teardown] is called for them.
type Service interface {
	// CreateSparseImage creates a new sparse file of the given size in bytes
	// in dir. Its name starts with the given prefix.
	CreateSparseImage(dir, prefix string, size uint64) (string, error)

	// Partition initializes the image with a new partition table and creates
	// the single partition described by the layout.
	Partition(ctx context.Context, image string, layout Layout) error

	// Format creates the file system described by the layout on the first
	// partition of the image.
	Format(ctx context.Context, image string, layout Layout) error

	// Mount mounts the first partition of the image at mountpoint. The
	// mountpoint directory is created if it does not exist.
	Mount(ctx context.Context, image, mountpoint string, fsType FSType) error

	// Unmount unmounts the file system mounted at mountpoint.
	Unmount(mountpoint string) error

	// Mounted reports whether path is an active mount point.
	Mounted(path string) (bool, error)

	// Teardown releases all resources the service holds for the image. It
	// does not fail for images that are not attached.
	Teardown(image string) error
}

const (
	sectorSize       = 512
	firstSector      = 2048
	defaultDirMode   = 0o755
	partitionNumber  = 1
	mountFlagsNone   = 0
	partitionTypeMBR = "83"
)

func createSparseImage(dir, prefix string, size uint64) (string, error) {
	path, err := sys.Mkstemp(dir, prefix+"-")
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}

	err = os.Truncate(path, int64(size)) //nolint:gosec
	if err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("resize image file: %w", err)
	}

	return path, nil
}

// partitionSectors returns the number of sectors for the single partition of
// a disk of diskSize bytes.
func partitionSectors(diskSize, partitionSize uint64) (uint64, error) {
	diskSectors := diskSize / sectorSize
	if diskSectors <= firstSector {
		return 0, fmt.Errorf("%w: %d bytes", ErrDiskTooSmall, diskSize)
	}

	available := diskSectors - firstSector

	wanted := partitionSize / sectorSize
	if wanted == 0 || wanted > available {
		return available, nil
	}

	return wanted, nil
}

// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package blockdev

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/aibor/anactest/internal/sys"
	"golang.org/x/sys/unix"
)

const (
	loopControlPath  = "/dev/loop-control"
	attachAttempts   = 5
	nodePollInterval = 10 * time.Millisecond
	nodeWaitTimeout  = 5 * time.Second
)

// Loop implements [Service] with Linux loop devices.
type Loop struct {
	// SfdiskExecutable is the sfdisk binary used for partitioning.
	SfdiskExecutable string

	// MkfsPrefix is prepended to the [FSType] to form the mkfs binary name.
	MkfsPrefix string

	mu      sync.Mutex
	devices map[string]string
}

// NewLoop returns a new [Loop] using the tools found in PATH.
func NewLoop() *Loop {
	return &Loop{
		SfdiskExecutable: "sfdisk",
		MkfsPrefix:       "mkfs.",
		devices:          make(map[string]string),
	}
}

// CreateSparseImage implements [Service].
func (*Loop) CreateSparseImage(dir, prefix string, size uint64) (string, error) {
	return createSparseImage(dir, prefix, size)
}

// Partition implements [Service].
//
// The partition table is written directly into the image file, so it does
// not need to be attached.
func (l *Loop) Partition(ctx context.Context, image string, layout Layout) error {
	info, err := os.Stat(image)
	if err != nil {
		return fmt.Errorf("stat image: %w", err)
	}

	sectors, err := partitionSectors(uint64(info.Size()), layout.PartitionSize) //nolint:gosec
	if err != nil {
		return err
	}

	script := fmt.Sprintf("label: dos\nstart=%d, size=%d, type=%s\n",
		firstSector, sectors, partitionTypeMBR)

	slog.Debug("Partition image",
		slog.String("image", image),
		slog.Uint64("sectors", sectors))

	return run(ctx, strings.NewReader(script),
		l.SfdiskExecutable, "--quiet", "--no-reread", "--no-tell-kernel", image)
}

// Format implements [Service].
func (l *Loop) Format(ctx context.Context, image string, layout Layout) error {
	part, err := l.partitionDevice(ctx, image)
	if err != nil {
		return err
	}

	args := []string{"-q"}
	if layout.Label != "" {
		args = append(args, "-L", layout.Label)
	}

	args = append(args, part)

	slog.Debug("Format partition",
		slog.String("device", part),
		slog.String("fstype", string(layout.FSType)))

	return run(ctx, nil, l.MkfsPrefix+string(layout.FSType), args...)
}

// Mount implements [Service].
func (l *Loop) Mount(
	ctx context.Context,
	image, mountpoint string,
	fsType FSType,
) error {
	part, err := l.partitionDevice(ctx, image)
	if err != nil {
		return err
	}

	err = os.MkdirAll(mountpoint, defaultDirMode)
	if err != nil {
		return fmt.Errorf("mkdir %s: %w", mountpoint, err)
	}

	err = sys.IgnoringEINTR(func() error {
		return unix.Mount(part, mountpoint, string(fsType), mountFlagsNone, "")
	})
	if err != nil {
		return fmt.Errorf("mount %s: %w", mountpoint, err)
	}

	slog.Debug("Mounted image",
		slog.String("image", image),
		slog.String("mountpoint", mountpoint))

	return nil
}

// Unmount implements [Service].
func (*Loop) Unmount(mountpoint string) error {
	err := sys.IgnoringEINTR(func() error {
		return unix.Unmount(mountpoint, 0)
	})
	if errors.Is(err, unix.EINVAL) {
		return fmt.Errorf("unmount %s: %w", mountpoint, ErrNotMounted)
	}

	if err != nil {
		return fmt.Errorf("unmount %s: %w", mountpoint, err)
	}

	return nil
}

// Mounted implements [Service].
func (*Loop) Mounted(path string) (bool, error) {
	return isMountPoint(path)
}

// Teardown implements [Service].
func (l *Loop) Teardown(image string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	dev, exists := l.devices[image]
	if !exists {
		return nil
	}

	err := detach(dev)
	if errors.Is(err, unix.EBUSY) {
		return fmt.Errorf("detach %s: %w", dev, ErrBusy)
	}

	if err != nil {
		return err
	}

	delete(l.devices, image)

	slog.Debug("Detached image",
		slog.String("image", image),
		slog.String("device", dev))

	return nil
}

// partitionDevice attaches the image if necessary and returns the path of
// its first partition device node.
func (l *Loop) partitionDevice(ctx context.Context, image string) (string, error) {
	dev, err := l.attach(image)
	if err != nil {
		return "", err
	}

	part := fmt.Sprintf("%sp%d", dev, partitionNumber)

	err = waitForNode(ctx, part)
	if err != nil {
		return "", err
	}

	return part, nil
}

func (l *Loop) attach(image string) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if dev, exists := l.devices[image]; exists {
		return dev, nil
	}

	absImage, err := filepath.Abs(image)
	if err != nil {
		return "", fmt.Errorf("image path: %w", err)
	}

	var dev string

	// Another process may grab the free device between asking for it and
	// setting the backing file, so try again in that case.
	for range attachAttempts {
		dev, err = attachFree(absImage)
		if !errors.Is(err, unix.EBUSY) {
			break
		}
	}

	if err != nil {
		return "", fmt.Errorf("attach %s: %w", image, err)
	}

	l.devices[image] = dev

	slog.Debug("Attached image",
		slog.String("image", image),
		slog.String("device", dev))

	return dev, nil
}

func attachFree(image string) (string, error) {
	ctl, err := os.OpenFile(loopControlPath, os.O_RDWR, 0)
	if err != nil {
		return "", fmt.Errorf("open loop control: %w", err)
	}
	defer ctl.Close()

	num, err := unix.IoctlRetInt(int(ctl.Fd()), unix.LOOP_CTL_GET_FREE)
	if err != nil {
		return "", fmt.Errorf("get free loop device: %w", err)
	}

	dev := fmt.Sprintf("/dev/loop%d", num)

	loopFile, err := os.OpenFile(dev, os.O_RDWR, 0)
	if err != nil {
		return "", fmt.Errorf("open loop device: %w", err)
	}
	defer loopFile.Close()

	backing, err := os.OpenFile(image, os.O_RDWR, 0)
	if err != nil {
		return "", fmt.Errorf("open image: %w", err)
	}
	defer backing.Close()

	loopFD := int(loopFile.Fd())

	err = unix.IoctlSetInt(loopFD, unix.LOOP_SET_FD, int(backing.Fd()))
	if err != nil {
		return "", fmt.Errorf("set backing file: %w", err)
	}

	info := unix.LoopInfo64{Flags: unix.LO_FLAGS_PARTSCAN}
	copy(info.File_name[:], image)

	err = unix.IoctlLoopSetStatus64(loopFD, &info)
	if err != nil {
		_ = unix.IoctlSetInt(loopFD, unix.LOOP_CLR_FD, 0)
		return "", fmt.Errorf("set loop status: %w", err)
	}

	return dev, nil
}

func detach(dev string) error {
	loopFile, err := os.OpenFile(dev, os.O_RDWR, 0)
	if err != nil {
		return fmt.Errorf("open loop device: %w", err)
	}
	defer loopFile.Close()

	err = unix.IoctlSetInt(int(loopFile.Fd()), unix.LOOP_CLR_FD, 0)
	if err != nil {
		return fmt.Errorf("clear backing file: %w", err)
	}

	return nil
}

// waitForNode waits until the device node at path exists. Partition nodes of
// loop devices show up asynchronously after a partition scan.
func waitForNode(ctx context.Context, path string) error {
	ctx, cancel := context.WithTimeout(ctx, nodeWaitTimeout)
	defer cancel()

	ticker := time.NewTicker(nodePollInterval)
	defer ticker.Stop()

	for {
		_, err := os.Stat(path)
		if err == nil {
			return nil
		}

		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("stat %s: %w", path, err)
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %s", ErrDeviceTimeout, path)
		case <-ticker.C:
		}
	}
}

// isMountPoint reports whether path is a mount point. It is one if it
// resides on another device than its parent or if it is the same inode as its
// parent, which is only the case for "/".
func isMountPoint(path string) (bool, error) {
	var stat, parentStat unix.Stat_t

	err := unix.Lstat(path, &stat)
	if errors.Is(err, unix.ENOENT) {
		return false, nil
	}

	if err != nil {
		return false, fmt.Errorf("stat %s: %w", path, err)
	}

	if stat.Mode&unix.S_IFMT == unix.S_IFLNK {
		return false, nil
	}

	err = unix.Lstat(filepath.Join(path, ".."), &parentStat)
	if err != nil {
		return false, fmt.Errorf("stat parent of %s: %w", path, err)
	}

	return stat.Dev != parentStat.Dev || stat.Ino == parentStat.Ino, nil
}

func run(ctx context.Context, stdin *strings.Reader, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	if stdin != nil {
		cmd.Stdin = stdin
	}

	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	err := cmd.Run()
	if err != nil {
		return &CommandError{
			Args:   cmd.Args,
			Output: output.Bytes(),
			Err:    err,
		}
	}

	return nil
}

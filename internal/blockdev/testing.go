// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package blockdev

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Fake implements [Service] without block devices. The content of each
// formatted image is kept in a directory below StoreDir. Mounting moves that
// content into the mountpoint, unmounting moves it back.
type Fake struct {
	StoreDir string

	// Errors returned by the respective operations, if set.
	PartitionErr error
	FormatErr    error
	MountErr     error

	mu     sync.Mutex
	images map[string]*fakeImage
	mounts map[string]string
	counts map[string]int
}

type fakeImage struct {
	layout    *Layout
	formatted bool
	attached  bool
}

// NewFake returns a new [Fake] that stores image content in storeDir.
func NewFake(storeDir string) *Fake {
	return &Fake{
		StoreDir: storeDir,
		images:   make(map[string]*fakeImage),
		mounts:   make(map[string]string),
		counts:   make(map[string]int),
	}
}

// CreateSparseImage implements [Service].
func (f *Fake) CreateSparseImage(dir, prefix string, size uint64) (string, error) {
	f.count("create")

	return createSparseImage(dir, prefix, size)
}

// Partition implements [Service].
func (f *Fake) Partition(_ context.Context, image string, layout Layout) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.counts["partition"]++

	if f.PartitionErr != nil {
		return f.PartitionErr
	}

	info, err := os.Stat(image)
	if err != nil {
		return fmt.Errorf("stat image: %w", err)
	}

	_, err = partitionSectors(uint64(info.Size()), layout.PartitionSize) //nolint:gosec
	if err != nil {
		return err
	}

	f.image(image).layout = &layout

	return nil
}

// Format implements [Service].
func (f *Fake) Format(_ context.Context, image string, layout Layout) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.counts["format"]++

	img := f.image(image)
	if img.layout == nil {
		return ErrNotPartitioned
	}

	img.attached = true

	if f.FormatErr != nil {
		return f.FormatErr
	}

	store := f.store(image)

	err := os.RemoveAll(store)
	if err != nil {
		return err
	}

	err = os.MkdirAll(store, defaultDirMode)
	if err != nil {
		return err
	}

	img.layout.FSType = layout.FSType
	img.layout.Label = layout.Label
	img.formatted = true

	return nil
}

// Mount implements [Service].
func (f *Fake) Mount(_ context.Context, image, mountpoint string, _ FSType) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.counts["mount"]++

	img := f.image(image)
	img.attached = true

	if f.MountErr != nil {
		return f.MountErr
	}

	if !img.formatted {
		return ErrNotFormatted
	}

	if _, mounted := f.mounts[mountpoint]; mounted {
		return fmt.Errorf("mount %s: %w", mountpoint, ErrBusy)
	}

	err := os.MkdirAll(mountpoint, defaultDirMode)
	if err != nil {
		return fmt.Errorf("mkdir %s: %w", mountpoint, err)
	}

	err = moveEntries(f.store(image), mountpoint)
	if err != nil {
		return err
	}

	f.mounts[mountpoint] = image

	return nil
}

// Unmount implements [Service].
func (f *Fake) Unmount(mountpoint string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.counts["unmount"]++

	image, mounted := f.mounts[mountpoint]
	if !mounted {
		return fmt.Errorf("unmount %s: %w", mountpoint, ErrNotMounted)
	}

	err := moveEntries(mountpoint, f.store(image))
	if err != nil {
		return err
	}

	delete(f.mounts, mountpoint)

	return nil
}

// Mounted implements [Service].
func (f *Fake) Mounted(path string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	_, mounted := f.mounts[path]

	return mounted, nil
}

// Teardown implements [Service].
func (f *Fake) Teardown(image string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.counts["teardown"]++

	for _, mountedImage := range f.mounts {
		if mountedImage == image {
			return ErrBusy
		}
	}

	if img, exists := f.images[image]; exists {
		img.attached = false
	}

	return nil
}

// Attached reports whether the image is currently attached.
func (f *Fake) Attached(image string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	img, exists := f.images[image]

	return exists && img.attached
}

// AnyMounted reports whether any file system is mounted.
func (f *Fake) AnyMounted() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.mounts) > 0
}

// Layout returns the layout the image was partitioned and formatted with.
func (f *Fake) Layout(image string) (Layout, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	img, exists := f.images[image]
	if !exists || img.layout == nil {
		return Layout{}, false
	}

	return *img.layout, true
}

// Store returns the directory that holds the content of the image while it
// is not mounted. Tests can write there to simulate a guest writing to the
// image.
func (f *Fake) Store(image string) string {
	return f.store(image)
}

// Count returns how often the named operation was called.
func (f *Fake) Count(operation string) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.counts[operation]
}

func (f *Fake) count(operation string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.counts[operation]++
}

func (f *Fake) image(path string) *fakeImage {
	img, exists := f.images[path]
	if !exists {
		img = &fakeImage{}
		f.images[path] = img
	}

	return img
}

func (f *Fake) store(image string) string {
	return filepath.Join(f.StoreDir, filepath.Base(image))
}

func moveEntries(from, to string) error {
	entries, err := os.ReadDir(from)
	if err != nil {
		return fmt.Errorf("read dir: %w", err)
	}

	for _, entry := range entries {
		err := os.Rename(
			filepath.Join(from, entry.Name()),
			filepath.Join(to, entry.Name()),
		)
		if err != nil {
			return fmt.Errorf("move: %w", err)
		}
	}

	return nil
}

// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package runstate holds the per-definition state of a test run: the drive
// images, the temporary directories and the hypervisor process.
package runstate

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"slices"
	"sync"

	"github.com/aibor/anactest/internal/definition"
	"github.com/aibor/anactest/internal/qemu"
	"github.com/google/uuid"
)

// Drive is a disk image attached to the VM.
type Drive struct {
	Name string
	Path string
}

// State is the state of a single test run.
//
// Drive registration and directory allocation are not safe for concurrent
// use. [State.Process] is.
type State struct {
	name     string
	id       string
	tempBase string
	imageDir string

	mu         sync.Mutex
	drives     []Drive
	tempdir    string
	mountpoint string

	// Process is the running hypervisor, if any.
	Process qemu.Handle
}

// New creates a new [State] for the definition with the given name.
// Temporary directories are created in tempBase, the suite image in
// imageDir.
func New(name, tempBase, imageDir string) *State {
	return &State{
		name:     name,
		id:       uuid.NewString(),
		tempBase: tempBase,
		imageDir: imageDir,
	}
}

// Name returns the definition name.
func (s *State) Name() string {
	return s.name
}

// ID returns the random unique ID of this run.
func (s *State) ID() string {
	return s.id
}

// ImageDir returns the directory the suite image is created in.
func (s *State) ImageDir() string {
	return s.imageDir
}

// Set registers the image path for the drive with the given name. If the
// name is already registered, its path is replaced in place.
func (s *State) Set(name, path string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := slices.IndexFunc(s.drives, func(d Drive) bool {
		return d.Name == name
	})
	if idx >= 0 {
		s.drives[idx].Path = path
		return
	}

	s.drives = append(s.drives, Drive{Name: name, Path: path})
}

// Path returns the image path of the drive with the given name.
func (s *State) Path(name string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, drive := range s.drives {
		if drive.Name == name {
			return drive.Path, true
		}
	}

	return "", false
}

// Suite returns the path of the suite image, if registered.
func (s *State) Suite() (string, bool) {
	return s.Path(definition.SuiteDrive)
}

// Drives returns all registered drives in registration order with the suite
// drive moved last.
func (s *State) Drives() []Drive {
	s.mu.Lock()
	defer s.mu.Unlock()

	drives := make([]Drive, 0, len(s.drives))

	var suite []Drive

	for _, drive := range s.drives {
		if drive.Name == definition.SuiteDrive {
			suite = append(suite, drive)
			continue
		}

		drives = append(drives, drive)
	}

	return append(drives, suite...)
}

// DrivePaths returns the image paths of [State.Drives].
func (s *State) DrivePaths() []string {
	drives := s.Drives()
	paths := make([]string, 0, len(drives))

	for _, drive := range drives {
		paths = append(paths, drive.Path)
	}

	return paths
}

// Tempdir returns the temporary directory of this run. It is created on
// first call.
func (s *State) Tempdir() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.tempdirLocked()
}

func (s *State) tempdirLocked() (string, error) {
	if s.tempdir != "" {
		return s.tempdir, nil
	}

	dir, err := os.MkdirTemp(s.tempBase, s.name+"-")
	if err != nil {
		return "", fmt.Errorf("create tempdir: %w", err)
	}

	s.tempdir = dir

	return dir, nil
}

// Mountpoint returns the directory the suite image is mounted at. It is
// created on first call inside of [State.Tempdir].
func (s *State) Mountpoint() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mountpoint != "" {
		return s.mountpoint, nil
	}

	tempdir, err := s.tempdirLocked()
	if err != nil {
		return "", err
	}

	dir, err := os.MkdirTemp(tempdir, "mount-")
	if err != nil {
		return "", fmt.Errorf("create mountpoint: %w", err)
	}

	s.mountpoint = dir

	return dir, nil
}

// Cleanup kills the hypervisor if still running, removes the temporary
// directory and the suite image. It can be called multiple times.
func (s *State) Cleanup() error {
	var errs []error

	if err := s.Process.Kill(); err != nil {
		errs = append(errs, err)
	}

	s.mu.Lock()
	tempdir := s.tempdir
	s.mu.Unlock()

	if tempdir != "" {
		slog.Debug("Remove tempdir", slog.String("path", tempdir))

		if err := os.RemoveAll(tempdir); err != nil {
			errs = append(errs, fmt.Errorf("remove tempdir: %w", err))
		}
	}

	if suite, exists := s.Suite(); exists {
		slog.Debug("Remove suite image", slog.String("path", suite))

		err := os.Remove(suite)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, fmt.Errorf("remove suite image: %w", err))
		}
	}

	return errors.Join(errs...)
}

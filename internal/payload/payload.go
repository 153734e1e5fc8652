// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package payload builds the suite image: a small disk image carrying the
// tests run inside the VM, the generated suite entry point and the directory
// tree the VM writes its results to.
package payload

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"text/template"

	"github.com/aibor/anactest/internal/blockdev"
	"github.com/aibor/anactest/internal/definition"
	"github.com/aibor/anactest/internal/runstate"
	"github.com/aibor/anactest/internal/sys"
	"github.com/aibor/anactest/internal/testconfig"
	"github.com/osbuild/images/pkg/datasizes"
)

// Layout of the suite image.
const (
	Label       = "ANACTEST"
	FSType      = blockdev.FSTypeExt4
	ImagePrefix = "suite"

	// InsideDir is the directory the in-VM tests are copied to.
	InsideDir = "inside"

	// ResultDir is the directory the VM writes its results to.
	ResultDir = "result"

	// FailureMarker is created by the VM in [ResultDir] if any test failed.
	FailureMarker = "unittest-failures"

	// EntryPoint is the generated suite file the live image runs.
	EntryPoint = "suite.py"
)

// partitionSlack is the part of the image not used by the partition.
const partitionSlack = datasizes.MegaByte

const (
	dirMode  = 0o755
	fileMode = 0o644
)

// MakeSuite creates the suite image for the definition and registers it with
// the state as [definition.SuiteDrive].
//
// The image is created in the state's image directory and mounted at the
// state's mountpoint while it is populated. It is always unmounted and
// detached before returning, and the mountpoint directory is removed. On
// error the image file is removed as well and nothing is registered.
func MakeSuite(
	ctx context.Context,
	state *runstate.State,
	def definition.Definition,
	cfg *testconfig.Config,
	svc blockdev.Service,
) (err error) {
	size, err := cfg.SuiteSize()
	if err != nil {
		return err
	}

	if size <= partitionSlack {
		return fmt.Errorf("suite size %d: %w", size, blockdev.ErrDiskTooSmall)
	}

	tmpl, err := LoadTemplate(cfg.Template())
	if err != nil {
		return err
	}

	data := NewSuiteData(def, cfg.AnacondaArgs())

	mountpoint, err := state.Mountpoint()
	if err != nil {
		return err
	}

	image, err := svc.CreateSparseImage(state.ImageDir(), ImagePrefix, size)
	if err != nil {
		return fmt.Errorf("create suite image: %w", err)
	}

	slog.Debug("Created suite image", slog.String("path", image))

	defer func() {
		if err != nil {
			err = errors.Join(err, removeImage(image))
			return
		}

		state.Set(definition.SuiteDrive, image)
	}()

	defer func() {
		err = errors.Join(err, removeMountpoint(mountpoint))
	}()

	defer func() {
		err = errors.Join(err, svc.Teardown(image))
	}()

	layout := blockdev.Layout{
		PartitionSize: size - partitionSlack,
		FSType:        FSType,
		Label:         Label,
	}

	err = svc.Partition(ctx, image, layout)
	if err != nil {
		return fmt.Errorf("partition suite image: %w", err)
	}

	err = svc.Format(ctx, image, layout)
	if err != nil {
		return fmt.Errorf("format suite image: %w", err)
	}

	err = svc.Mount(ctx, image, mountpoint, FSType)
	if err != nil {
		return fmt.Errorf("mount suite image: %w", err)
	}

	defer func() {
		err = errors.Join(err, svc.Unmount(mountpoint))
	}()

	return populate(mountpoint, cfg.InsideDir(), tmpl, data)
}

// populate writes the suite content into the mounted file system at root.
func populate(
	root string,
	insideDir string,
	tmpl *template.Template,
	data SuiteData,
) error {
	err := os.MkdirAll(filepath.Join(root, ResultDir, "anaconda"), dirMode)
	if err != nil {
		return fmt.Errorf("create result dir: %w", err)
	}

	err = sys.CopyTree(filepath.Join(root, InsideDir), insideDir)
	if err != nil {
		return fmt.Errorf("copy %s: %w", insideDir, err)
	}

	file, err := os.OpenFile(
		filepath.Join(root, EntryPoint),
		os.O_WRONLY|os.O_CREATE|os.O_TRUNC,
		fileMode,
	)
	if err != nil {
		return fmt.Errorf("create %s: %w", EntryPoint, err)
	}

	err = Render(file, tmpl, data)

	return errors.Join(err, file.Close())
}

func removeImage(image string) error {
	err := os.Remove(image)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove suite image: %w", err)
	}

	return nil
}

func removeMountpoint(mountpoint string) error {
	err := os.RemoveAll(mountpoint)
	if err != nil {
		return fmt.Errorf("remove mountpoint: %w", err)
	}

	return nil
}

// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package drives creates the scratch disk images a definition asks for.
package drives

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aibor/anactest/internal/definition"
	"github.com/aibor/anactest/internal/runstate"
	"github.com/aibor/anactest/internal/sys"
)

// Imager creates empty disk images.
type Imager interface {
	// Create creates an empty image at path with a virtual size of sizeGB
	// gigabytes.
	Create(ctx context.Context, path string, sizeGB uint) error
}

// MakeDrives creates one empty image in the run's temporary directory for
// each drive of the definition and registers it with the state under the
// drive's name. Drives with the same name replace earlier ones.
func MakeDrives(
	ctx context.Context,
	state *runstate.State,
	def definition.Definition,
	imager Imager,
) error {
	if len(def.Drives) == 0 {
		return nil
	}

	tempdir, err := state.Tempdir()
	if err != nil {
		return err
	}

	for _, drive := range def.Drives {
		path, err := sys.Mkstemp(tempdir, drive.Name+"-")
		if err != nil {
			return fmt.Errorf("drive %s: %w", drive.Name, err)
		}

		err = imager.Create(ctx, path, drive.Size)
		if err != nil {
			return fmt.Errorf("drive %s: %w", drive.Name, err)
		}

		slog.Debug("Created drive",
			slog.String("name", drive.Name),
			slog.String("path", path),
			slog.Uint64("size_gb", uint64(drive.Size)),
		)

		state.Set(drive.Name, path)
	}

	return nil
}

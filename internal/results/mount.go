// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package results

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aibor/anactest/internal/blockdev"
	"github.com/aibor/anactest/internal/payload"
	"github.com/aibor/anactest/internal/runstate"
)

// SuiteMounted mounts the suite image of the state at the state's mountpoint,
// runs fn and unmounts and detaches the image afterwards, also if fn fails.
//
// If no suite image is registered, fn is run without mounting anything.
func SuiteMounted(
	ctx context.Context,
	svc blockdev.Service,
	state *runstate.State,
	fn func() error,
) (err error) {
	image, exists := state.Suite()
	if !exists {
		slog.Debug("No suite image registered", slog.String("name", state.Name()))
		return fn()
	}

	mountpoint, err := state.Mountpoint()
	if err != nil {
		return err
	}

	defer func() {
		err = errors.Join(err, svc.Teardown(image))
	}()

	err = svc.Mount(ctx, image, mountpoint, payload.FSType)
	if err != nil {
		return fmt.Errorf("mount suite image: %w", err)
	}

	slog.Debug("Mounted suite image",
		slog.String("image", image),
		slog.String("mountpoint", mountpoint),
	)

	defer func() {
		err = errors.Join(err, svc.Unmount(mountpoint))
	}()

	return fn()
}

// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package results

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aibor/anactest/internal/blockdev"
	"github.com/aibor/anactest/internal/payload"
	"github.com/aibor/anactest/internal/sys"
	"github.com/aibor/anactest/internal/testconfig"
)

const resultsDirMode = 0o755

// Archive copies the result directory of the suite mounted at mountpoint into
// resultsDir and returns the path of the archive. The format is either
// [testconfig.ArchiveFormatDir] for a plain copy at "<resultsDir>/<name>" or
// [testconfig.ArchiveFormatCPIO] for a cpio archive at
// "<resultsDir>/<name>.cpio".
//
// If mountpoint is not an active mount, nothing is done and an empty path is
// returned.
func Archive(
	svc blockdev.Service,
	mountpoint string,
	resultsDir string,
	name string,
	format string,
) (string, error) {
	mounted, err := svc.Mounted(mountpoint)
	if err != nil {
		return "", err
	}

	if !mounted {
		slog.Debug("Suite not mounted, skip archiving",
			slog.String("mountpoint", mountpoint))

		return "", nil
	}

	source := filepath.Join(mountpoint, payload.ResultDir)

	var target string

	switch format {
	case testconfig.ArchiveFormatDir, "":
		target = filepath.Join(resultsDir, name)
		err = sys.CopyTree(target, source)
	case testconfig.ArchiveFormatCPIO:
		target = filepath.Join(resultsDir, name+".cpio")
		err = writeCPIOArchive(target, source)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}

	if err != nil {
		return "", fmt.Errorf("archive results: %w", err)
	}

	slog.Info("Archived results", slog.String("path", target))

	return target, nil
}

func writeCPIOArchive(target, source string) (err error) {
	err = os.MkdirAll(filepath.Dir(target), resultsDirMode)
	if err != nil {
		return err
	}

	file, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}

	defer func() {
		err = errors.Join(err, file.Close())
	}()

	writer := newCPIOWriter(file)

	err = writer.AddTree(source)

	return errors.Join(err, writer.Close())
}

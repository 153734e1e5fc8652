// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sys

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

const copyDirMode = 0o755

// CopyTree copies all entries below source into target. Symbolic links are
// recreated with the same target, not followed. Special files are skipped.
// Existing files in target are not overwritten.
func CopyTree(target, source string) error {
	return filepath.WalkDir(source, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(source, path)
		if err != nil {
			return err
		}

		dest := filepath.Join(target, rel)

		switch entry.Type() {
		case fs.ModeDir:
			if err := os.MkdirAll(dest, copyDirMode); err != nil {
				return fmt.Errorf("create directory %s: %w", rel, err)
			}
		case fs.ModeSymlink:
			link, err := os.Readlink(path)
			if err != nil {
				return fmt.Errorf("read link %s: %w", rel, err)
			}

			if err := os.Symlink(link, dest); err != nil {
				return fmt.Errorf("create link %s: %w", rel, err)
			}
		case 0:
			if err := copyFile(dest, path); err != nil {
				return fmt.Errorf("copy %s: %w", rel, err)
			}
		default:
			slog.Debug("Skip special file", slog.String("path", path))
		}

		return nil
	})
}

func copyFile(dest, path string) (err error) {
	source, err := os.Open(path)
	if err != nil {
		return err
	}
	defer source.Close()

	info, err := source.Stat()
	if err != nil {
		return err
	}

	file, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return err
	}

	defer func() {
		err = errors.Join(err, file.Close())
	}()

	_, err = io.Copy(file, source)

	return err
}

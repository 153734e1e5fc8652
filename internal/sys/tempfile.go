// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sys

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sys/unix"
)

const (
	mkstempAttempts = 100
	mkstempMode     = 0o600
	suffixLen       = 8
)

// Mkstemp creates a new empty file in dir and returns its path. The file name
// is the given prefix followed by a random suffix. Like mkstemp(3), the file
// is created exclusively and only the creating process knows about it.
//
// The file descriptor is closed before returning. Interrupted system calls
// are retried.
func Mkstemp(dir, prefix string) (string, error) {
	if strings.ContainsRune(prefix, filepath.Separator) {
		return "", fmt.Errorf("%w: %s", ErrInvalidPrefix, prefix)
	}

	for range mkstempAttempts {
		path := filepath.Join(dir, prefix+randomSuffix())

		fd, err := IgnoringEINTRValue(func() (int, error) {
			return unix.Open(
				path,
				unix.O_RDWR|unix.O_CREAT|unix.O_EXCL|unix.O_CLOEXEC,
				mkstempMode,
			)
		})
		if errors.Is(err, unix.EEXIST) {
			continue
		}

		if err != nil {
			return "", fmt.Errorf("create %s: %w", path, err)
		}

		err = IgnoringEINTR(func() error { return unix.Close(fd) })
		if err != nil {
			return "", fmt.Errorf("close %s: %w", path, err)
		}

		return path, nil
	}

	return "", fmt.Errorf("%w: %s", ErrTempNameExhausted, dir)
}

func randomSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:suffixLen]
}

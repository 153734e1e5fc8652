// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package results

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/aibor/anactest/internal/payload"
)

// VerifyResultDir checks that the VM created the result directory.
func VerifyResultDir(name, mountpoint string) error {
	exists, err := pathExists(filepath.Join(mountpoint, payload.ResultDir))
	if err != nil {
		return err
	}

	if !exists {
		return &VerificationError{
			Name: name,
			Msg:  "results directory does not exist",
		}
	}

	return nil
}

// VerifyPassed checks that the VM did not mark any test as failed.
func VerifyPassed(name, mountpoint string) error {
	marker := filepath.Join(mountpoint, payload.ResultDir, payload.FailureMarker)

	exists, err := pathExists(marker)
	if err != nil {
		return err
	}

	if exists {
		return &VerificationError{
			Name: name,
			Msg:  "automated UI test " + name + " failed",
		}
	}

	return nil
}

// Verify runs [VerifyResultDir] and [VerifyPassed].
func Verify(name, mountpoint string) error {
	if err := VerifyResultDir(name, mountpoint); err != nil {
		return err
	}

	return VerifyPassed(name, mountpoint)
}

func pathExists(path string) (bool, error) {
	_, err := os.Lstat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}

	if err != nil {
		return false, fmt.Errorf("check result: %w", err)
	}

	return true, nil
}

// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package results

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cavaliergopher/cpio"
)

const numDirLinks = 2

// cpioWriter writes directory trees into a cpio archive.
type cpioWriter struct {
	cpioWriter *cpio.Writer
}

func newCPIOWriter(w io.Writer) *cpioWriter {
	return &cpioWriter{cpio.NewWriter(w)}
}

// Close writes the trailer and flushes the archive.
func (w *cpioWriter) Close() error {
	err := w.cpioWriter.Close()
	if err != nil {
		return fmt.Errorf("close: %w", err)
	}

	return nil
}

// AddTree adds all entries below root to the archive. Paths in the archive
// are relative to root.
func (w *cpioWriter) AddTree(root string) error {
	return filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		if rel == "." {
			return nil
		}

		switch entry.Type() {
		case fs.ModeDir:
			return w.writeDirectory(rel)
		case fs.ModeSymlink:
			target, err := os.Readlink(path)
			if err != nil {
				return fmt.Errorf("read link: %w", err)
			}

			return w.writeLink(rel, target)
		case 0:
			return w.writeRegular(rel, path)
		default:
			return nil
		}
	})
}

func (w *cpioWriter) writeHeader(hdr *cpio.Header) error {
	if err := w.cpioWriter.WriteHeader(hdr); err != nil {
		return fmt.Errorf("write header for %s: %w", hdr.Name, err)
	}

	return nil
}

func (w *cpioWriter) writeDirectory(name string) error {
	return w.writeHeader(&cpio.Header{
		Name:  name,
		Mode:  cpio.TypeDir | cpio.ModePerm,
		Links: numDirLinks,
	})
}

func (w *cpioWriter) writeLink(name, target string) error {
	err := w.writeHeader(&cpio.Header{
		Name: name,
		Mode: cpio.TypeSymlink | cpio.ModePerm,
		Size: int64(len(target)),
	})
	if err != nil {
		return err
	}

	if _, err := w.cpioWriter.Write([]byte(target)); err != nil {
		return fmt.Errorf("write body for %s: %w", name, err)
	}

	return nil
}

func (w *cpioWriter) writeRegular(name, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return fmt.Errorf("read info: %w", err)
	}

	hdr, err := cpio.FileInfoHeader(info, "")
	if err != nil {
		return fmt.Errorf("create header: %w", err)
	}

	hdr.Name = name

	if err := w.writeHeader(hdr); err != nil {
		return err
	}

	if _, err := io.Copy(w.cpioWriter, file); err != nil {
		return fmt.Errorf("write body for %s: %w", name, err)
	}

	return nil
}

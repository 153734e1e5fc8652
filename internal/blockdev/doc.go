// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package blockdev provides the block device service used to build and
// inspect disk images: creating sparse image files, partitioning them,
// creating file systems and mounting them.
//
// [Loop] implements the [Service] with Linux loop devices. It requires root
// privileges as well as sfdisk and the mkfs tool for the used [FSType] to be
// present on the system. [Fake] implements the [Service] without any
// privileges and is intended for tests.
package blockdev

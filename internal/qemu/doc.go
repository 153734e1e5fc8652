// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package qemu composes and runs the hypervisor that boots the installer live
// image with the scratch drives and the suite drive attached. It expects the
// QEMU binaries to be present on the system.
//
// The running hypervisor process is kept in a [Handle] so it can be killed at
// any time, also concurrently while [Command.Run] is waiting for it.
package qemu

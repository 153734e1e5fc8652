// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package results collects what the VM left on the suite image: it mounts the
// image for a scoped piece of work, checks the result contract and archives
// the results into the results directory.
//
// The VM is expected to create the "result" directory on the suite image and
// to create "result/unittest-failures" if any test failed.
package results

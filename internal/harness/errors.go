// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package harness

import "errors"

// ErrInvalidState is returned if an operation is called in a phase it is not
// allowed in.
var ErrInvalidState = errors.New("invalid state")

// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

//go:build integration

package harness_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aibor/anactest/internal/blockdev"
	"github.com/aibor/anactest/internal/harness"
	"github.com/aibor/anactest/internal/qemu"
	"github.com/aibor/anactest/internal/testconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHarnessLoop(t *testing.T) {
	if os.Getuid() != 0 {
		t.Skip("requires root")
	}

	e := newEnv(t)
	e.cfg.Set(testconfig.KeyQemu, qemu.FakeExecutable(t, "qemu-kvm", "exit 0"))

	h := harness.New(rootpassword(), e.cfg, harness.WithBlockDevice(blockdev.NewLoop()))

	t.Cleanup(func() { assert.NoError(t, h.TearDown()) })

	require.NoError(t, h.SetUp(t.Context()))

	image, exists := h.State().Suite()
	require.True(t, exists)
	assert.FileExists(t, image)

	require.NoError(t, h.RunTest(t.Context()))

	outcome := h.Outcome()
	assert.Equal(t, harness.ResultPass, outcome.Result)
	assert.DirExists(t, filepath.Join(e.resultsDir, "rootpassword", "anaconda"))

	require.NoError(t, h.TearDown())
	assert.NoFileExists(t, image)
}

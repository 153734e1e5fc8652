// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package testconfig_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aibor/anactest/internal/testconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.ini")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `resultsdir = /srv/results
liveImage = /srv/images/live.iso
anacondaArgs = "--debug inst.text"
timeout = 30m
`)

	cfg, err := testconfig.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/srv/results", cfg.ResultsDir())
	assert.Equal(t, "/srv/images/live.iso", cfg.LiveImage())
	assert.Equal(t, "--debug inst.text", cfg.AnacondaArgs())
	assert.Equal(t, "inside", cfg.InsideDir())
	assert.Equal(t, "/usr/bin/qemu-kvm", cfg.Qemu())

	timeout, err := cfg.Timeout()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Minute, timeout)

	require.NoError(t, cfg.Validate())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := testconfig.Load(filepath.Join(t.TempDir(), "missing.ini"))
	assert.Error(t, err)
}

func TestAnacondaArgs(t *testing.T) {
	tests := []struct {
		value    string
		expected string
	}{
		{value: "", expected: ""},
		{value: `"inst.debug"`, expected: "inst.debug"},
		{value: `inst.debug`, expected: "inst.debug"},
		{value: `"a" "b"`, expected: `a" "b`},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			cfg := testconfig.New()
			cfg.Set(testconfig.KeyAnacondaArgs, tt.value)
			assert.Equal(t, tt.expected, cfg.AnacondaArgs())
		})
	}
}

func TestSuiteSize(t *testing.T) {
	cfg := testconfig.New()

	size, err := cfg.SuiteSize()
	require.NoError(t, err)
	assert.Equal(t, uint64(11*1000*1000), size)

	cfg.Set(testconfig.KeySuiteSize, "16 MiB")
	size, err = cfg.SuiteSize()
	require.NoError(t, err)
	assert.Equal(t, uint64(16*1024*1024), size)

	cfg.Set(testconfig.KeySuiteSize, "16 apples")
	_, err = cfg.SuiteSize()
	assert.ErrorIs(t, err, &testconfig.Error{})
}

func TestValidate(t *testing.T) {
	valid := func() *testconfig.Config {
		cfg := testconfig.New()
		cfg.Set(testconfig.KeyResultsDir, "/results")
		cfg.Set(testconfig.KeyLiveImage, "/live.iso")

		return cfg
	}

	tests := []struct {
		name        string
		key         string
		value       string
		expectedErr error
	}{
		{
			name: "valid",
		},
		{
			name:        "missing resultsdir",
			key:         testconfig.KeyResultsDir,
			expectedErr: testconfig.ErrMissing,
		},
		{
			name:        "missing live image",
			key:         testconfig.KeyLiveImage,
			expectedErr: testconfig.ErrMissing,
		},
		{
			name:        "unknown archive format",
			key:         testconfig.KeyArchiveFormat,
			value:       "zip",
			expectedErr: testconfig.ErrInvalidValue,
		},
		{
			name:        "invalid UTF-8 anaconda args",
			key:         testconfig.KeyAnacondaArgs,
			value:       "inst.lang=\xff",
			expectedErr: testconfig.ErrInvalidValue,
		},
		{
			name:        "invalid timeout",
			key:         testconfig.KeyTimeout,
			value:       "soon",
			expectedErr: &testconfig.Error{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			if tt.key != "" {
				cfg.Set(tt.key, tt.value)
			}

			assert.ErrorIs(t, cfg.Validate(), tt.expectedErr)
		})
	}
}

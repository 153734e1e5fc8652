// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package testconfig provides the key-value configuration shared by all test
// runs, like where the installer image is and where results go.
package testconfig

import (
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/osbuild/images/pkg/datasizes"
	"gopkg.in/ini.v1"
)

// Known configuration keys.
const (
	KeyResultsDir    = "resultsdir"
	KeyLiveImage     = "liveImage"
	KeyAnacondaArgs  = "anacondaArgs"
	KeyInsideDir     = "insideDir"
	KeyTemplate      = "template"
	KeyTempBase      = "tempBase"
	KeyImageDir      = "imageDir"
	KeyQemu          = "qemu"
	KeyQemuImg       = "qemuImg"
	KeyTimeout       = "timeout"
	KeyArchiveFormat = "archiveFormat"
	KeySuiteSize     = "suiteSize"
)

// Archive formats.
const (
	ArchiveFormatDir  = "dir"
	ArchiveFormatCPIO = "cpio"
)

func defaults() map[string]string {
	return map[string]string{
		KeyInsideDir:     "inside",
		KeyTempBase:      "/var/tmp",
		KeyImageDir:      os.TempDir(),
		KeyQemu:          "/usr/bin/qemu-kvm",
		KeyQemuImg:       "/usr/bin/qemu-img",
		KeyArchiveFormat: ArchiveFormatDir,
		KeySuiteSize:     "11 MB",
	}
}

// Config is a key-value configuration source.
type Config struct {
	values map[string]string
}

// New returns a [Config] with only default values set.
func New() *Config {
	return &Config{values: defaults()}
}

// Load returns a [Config] with the keys of the default section of the INI
// file at path set on top of the defaults.
func Load(path string) (*Config, error) {
	file, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	cfg := New()

	for _, key := range file.Section(ini.DefaultSection).Keys() {
		cfg.Set(key.Name(), key.String())
	}

	return cfg, nil
}

// Get returns the value for the key and if it is set.
func (c *Config) Get(key string) (string, bool) {
	value, exists := c.values[key]
	return value, exists
}

// Set sets the value for the key.
func (c *Config) Set(key, value string) {
	c.values[key] = value
}

// Keys returns all set keys in sorted order.
func (c *Config) Keys() []string {
	return slices.Sorted(maps.Keys(c.values))
}

func (c *Config) get(key string) string {
	return c.values[key]
}

// ResultsDir is the root directory results are archived in.
func (c *Config) ResultsDir() string { return c.get(KeyResultsDir) }

// LiveImage is the path to the bootable installer image.
func (c *Config) LiveImage() string { return c.get(KeyLiveImage) }

// AnacondaArgs are additional installer arguments with surrounding double
// quotes removed.
func (c *Config) AnacondaArgs() string {
	return strings.Trim(c.get(KeyAnacondaArgs), `"`)
}

// InsideDir is the directory with the tests run inside the VM.
func (c *Config) InsideDir() string { return c.get(KeyInsideDir) }

// Template is the path of a custom entry point template. Empty means the
// built-in template is used.
func (c *Config) Template() string { return c.get(KeyTemplate) }

// TempBase is the directory temporary run directories are created in.
func (c *Config) TempBase() string { return c.get(KeyTempBase) }

// ImageDir is the directory the suite image is created in.
func (c *Config) ImageDir() string { return c.get(KeyImageDir) }

// Qemu is the hypervisor binary.
func (c *Config) Qemu() string { return c.get(KeyQemu) }

// QemuImg is the image creation binary.
func (c *Config) QemuImg() string { return c.get(KeyQemuImg) }

// ArchiveFormat is the format results are archived in.
func (c *Config) ArchiveFormat() string { return c.get(KeyArchiveFormat) }

// Timeout is the maximum time a VM may run. Zero means no limit.
func (c *Config) Timeout() (time.Duration, error) {
	value := c.get(KeyTimeout)
	if value == "" {
		return 0, nil
	}

	timeout, err := time.ParseDuration(value)
	if err != nil {
		return 0, &Error{Key: KeyTimeout, Err: err}
	}

	return timeout, nil
}

// SuiteSize is the size of the suite image in bytes.
func (c *Config) SuiteSize() (uint64, error) {
	size, err := datasizes.Parse(c.get(KeySuiteSize))
	if err != nil {
		return 0, &Error{Key: KeySuiteSize, Err: err}
	}

	return size, nil
}

// Validate checks that all keys required for running tests are set and that
// all values can be parsed.
func (c *Config) Validate() error {
	for _, key := range []string{KeyResultsDir, KeyLiveImage} {
		if c.get(key) == "" {
			return &Error{Key: key, Err: ErrMissing}
		}
	}

	for _, key := range c.Keys() {
		if !utf8.ValidString(c.get(key)) {
			return &Error{Key: key, Err: fmt.Errorf("%w: not UTF-8", ErrInvalidValue)}
		}
	}

	switch c.ArchiveFormat() {
	case ArchiveFormatDir, ArchiveFormatCPIO:
	default:
		return &Error{Key: KeyArchiveFormat, Err: ErrInvalidValue}
	}

	if _, err := c.Timeout(); err != nil {
		return err
	}

	if _, err := c.SuiteSize(); err != nil {
		return err
	}

	return nil
}

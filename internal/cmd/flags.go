// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"fmt"

	"github.com/aibor/anactest/internal/testconfig"
	"github.com/spf13/pflag"
)

// flags are the command line flags. Flags that map to a config key override
// the value from the config file if given.
type flags struct {
	configFile string
	debug      bool

	junitFile   string
	metricsFile string

	overrides map[string]*string
}

// configFlags are flags that override a config key.
var configFlags = []struct {
	name  string
	key   string
	usage string
}{
	{"resultsdir", testconfig.KeyResultsDir, "directory results are archived in"},
	{"live-image", testconfig.KeyLiveImage, "installer live image to boot"},
	{"anaconda-args", testconfig.KeyAnacondaArgs, "additional installer arguments"},
	{"inside-dir", testconfig.KeyInsideDir, "directory with the tests run inside the VM"},
	{"template", testconfig.KeyTemplate, "custom suite entry point template"},
	{"qemu", testconfig.KeyQemu, "hypervisor binary"},
	{"qemu-img", testconfig.KeyQemuImg, "image creation binary"},
	{"timeout", testconfig.KeyTimeout, "maximum run time per definition, e.g. 45m"},
	{"archive-format", testconfig.KeyArchiveFormat, "results archive format (dir, cpio)"},
}

func newFlags() *flags {
	return &flags{
		overrides: make(map[string]*string, len(configFlags)),
	}
}

func (f *flags) bindGlobal(fs *pflag.FlagSet) {
	fs.StringVarP(&f.configFile, "config", "c", "", "INI config file")
	fs.BoolVar(&f.debug, "debug", false, "enable debug output")
}

func (f *flags) bindConfig(fs *pflag.FlagSet) {
	for _, flag := range configFlags {
		f.overrides[flag.name] = fs.String(flag.name, "", flag.usage)
	}
}

func (f *flags) bindReport(fs *pflag.FlagSet) {
	fs.StringVar(&f.junitFile, "junit", "", "write JUnit XML report to file")
	fs.StringVar(&f.metricsFile, "metrics", "", "write Prometheus metrics to file")
}

// config loads the config file, if given, and applies all changed override
// flags.
func (f *flags) config(fs *pflag.FlagSet) (*testconfig.Config, error) {
	cfg := testconfig.New()

	if f.configFile != "" {
		var err error

		cfg, err = testconfig.Load(f.configFile)
		if err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
	}

	for _, flag := range configFlags {
		if fs.Changed(flag.name) {
			cfg.Set(flag.key, *f.overrides[flag.name])
		}
	}

	return cfg, nil
}

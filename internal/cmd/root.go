// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"fmt"
	"runtime/debug"

	"github.com/aibor/anactest/internal/definition"
	"github.com/aibor/anactest/internal/harness"
	"github.com/aibor/anactest/internal/payload"
	"github.com/spf13/cobra"
)

func newRootCommand(cfg IO, opts ...harness.Option) *cobra.Command {
	flags := newFlags()

	rootCmd := &cobra.Command{
		Use:           "anactest",
		Short:         "Run installer GUI tests in a VM",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			setupLogging(cfg.Stderr, flags.debug)
		},
	}

	rootCmd.SetIn(cfg.Stdin)
	rootCmd.SetOut(cfg.Stdout)
	rootCmd.SetErr(cfg.Stderr)

	flags.bindGlobal(rootCmd.PersistentFlags())
	flags.bindConfig(rootCmd.PersistentFlags())

	runCmd := &cobra.Command{
		Use:   "run [flags] definition...",
		Short: "Run the given test definitions",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tcfg, err := flags.config(cmd.Flags())
			if err != nil {
				return err
			}

			return runDefinitions(cmd.Context(), tcfg, flags, args, cfg, opts...)
		},
	}
	flags.bindReport(runCmd.Flags())
	rootCmd.AddCommand(runCmd)

	renderCmd := &cobra.Command{
		Use:   "render [flags] definition",
		Short: "Print the suite entry point generated for a test definition",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tcfg, err := flags.config(cmd.Flags())
			if err != nil {
				return err
			}

			def, err := definition.Load(args[0])
			if err != nil {
				return err
			}

			tmpl, err := payload.LoadTemplate(tcfg.Template())
			if err != nil {
				return err
			}

			data := payload.NewSuiteData(def, tcfg.AnacondaArgs())

			return payload.Render(cmd.OutOrStdout(), tmpl, data)
		},
	}
	rootCmd.AddCommand(renderCmd)

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			buildInfo, ok := debug.ReadBuildInfo()
			if !ok {
				return ErrReadBuildInfo
			}

			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Version: %s\n",
				buildInfo.Main.Version)

			return err
		},
	}
	rootCmd.AddCommand(versionCmd)

	return rootCmd
}

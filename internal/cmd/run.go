// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aibor/anactest/internal/definition"
	"github.com/aibor/anactest/internal/harness"
	"github.com/aibor/anactest/internal/report"
	"github.com/aibor/anactest/internal/testconfig"
)

const suiteName = "anactest"

// IO provides input and output details for the command.
type IO struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// runDefinitions runs all definitions sequentially and writes the reports.
func runDefinitions(
	ctx context.Context,
	tcfg *testconfig.Config,
	flags *flags,
	paths []string,
	cfg IO,
	opts ...harness.Option,
) error {
	err := tcfg.Validate()
	if err != nil {
		return err
	}

	defs, err := definition.LoadAll(paths...)
	if err != nil {
		return err
	}

	recorder := report.NewRecorder(suiteName)
	opts = append([]harness.Option{harness.WithOutput(cfg.Stderr, cfg.Stderr)}, opts...)

	var failed, errored bool

	for _, def := range defs {
		if ctx.Err() != nil {
			break
		}

		outcome := runDefinition(ctx, def, tcfg, opts...)
		recorder.Record(outcome)
		printOutcome(cfg.Stdout, outcome)

		switch outcome.Result {
		case harness.ResultFail:
			failed = true
		case harness.ResultError:
			errored = true
		}
	}

	err = writeReports(recorder, flags)

	switch {
	case err != nil:
		return err
	case ctx.Err() != nil:
		return ctx.Err()
	case errored:
		return ErrTestsErrored
	case failed:
		return ErrTestsFailed
	}

	return nil
}

// runDefinition runs a single definition through its whole life cycle.
func runDefinition(
	ctx context.Context,
	def definition.Definition,
	tcfg *testconfig.Config,
	opts ...harness.Option,
) harness.Outcome {
	runner := harness.New(def, tcfg, opts...)

	err := runner.SetUp(ctx)
	if err == nil {
		err = runner.RunTest(ctx)
	}

	outcome := runner.Outcome()
	if outcome.Name == "" {
		outcome = harness.Outcome{
			Name:   def.Name,
			Result: harness.ResultFor(err),
			Err:    err,
		}
	}

	if tdErr := runner.TearDown(); tdErr != nil {
		slog.Error("Failed to tear down",
			slog.String("name", def.Name),
			slog.Any("error", tdErr),
		)

		if outcome.Err == nil {
			outcome.Err = tdErr
			outcome.Result = harness.ResultError
		}
	}

	if outcome.Result == harness.ResultError {
		slog.Error("Run failed",
			slog.String("name", def.Name),
			slog.Any("error", outcome.Err),
		)
	}

	return outcome
}

func printOutcome(w io.Writer, outcome harness.Outcome) {
	status := "PASS"

	switch outcome.Result {
	case harness.ResultFail:
		status = "FAIL"
	case harness.ResultError:
		status = "ERROR"
	}

	line := fmt.Sprintf("--- %s: %s (%.2fs)", status, outcome.Name,
		outcome.Duration.Seconds())
	if outcome.Err != nil && outcome.Result == harness.ResultFail {
		line += ": " + outcome.Err.Error()
	}

	fmt.Fprintln(w, line)
}

func writeReports(recorder *report.Recorder, flags *flags) error {
	var errs []error

	if flags.junitFile != "" {
		errs = append(errs, recorder.WriteJUnit(flags.junitFile))
	}

	if flags.metricsFile != "" {
		errs = append(errs, recorder.WriteMetrics(flags.metricsFile))
	}

	return errors.Join(errs...)
}

func handleRunError(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrTestsFailed):
		return 1
	case errors.Is(err, ErrTestsErrored):
		// Errors have been logged for each definition already.
		return -1
	default:
		slog.Error(err.Error())
		return -1
	}
}

// Run is the main entry point for the CLI command.
func Run(ctx context.Context, args []string, cfg IO) int {
	return run(ctx, args, cfg)
}

func run(ctx context.Context, args []string, cfg IO, opts ...harness.Option) int {
	setupLogging(cfg.Stderr, false)

	rootCmd := newRootCommand(cfg, opts...)
	rootCmd.SetArgs(args)

	return handleRunError(rootCmd.ExecuteContext(ctx))
}

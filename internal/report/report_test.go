// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package report_test

import (
	"encoding/xml"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aibor/anactest/internal/harness"
	"github.com/aibor/anactest/internal/report"
	"github.com/aibor/anactest/internal/results"
	"github.com/jstemmer/go-junit-report/v2/junit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func outcomes() []harness.Outcome {
	return []harness.Outcome{
		{
			Name:     "rootpassword",
			RunID:    "1234",
			Result:   harness.ResultPass,
			Duration: 1500 * time.Millisecond,
			Archive:  "/results/rootpassword",
		},
		{
			Name:     "lvm",
			Result:   harness.ResultFail,
			Duration: 2 * time.Second,
			TimedOut: true,
			Err: &results.VerificationError{
				Name: "lvm",
				Msg:  "automated UI test lvm timed out",
			},
		},
		{
			Name:   "raid",
			Result: harness.ResultError,
			Err:    assert.AnError,
		},
	}
}

func TestRecorderSuite(t *testing.T) {
	recorder := report.NewRecorder("gui")

	for _, outcome := range outcomes() {
		recorder.Record(outcome)
	}

	suite := recorder.Suite()
	assert.Equal(t, "gui", suite.Name)
	assert.Equal(t, 3, suite.Tests)
	assert.Equal(t, 1, suite.Failures)
	assert.Equal(t, 1, suite.Errors)

	require.Len(t, suite.Testcases, 3)
	assert.Equal(t, "1.500", suite.Testcases[0].Time)
	assert.Nil(t, suite.Testcases[0].Failure)
	require.NotNil(t, suite.Testcases[1].Failure)
	assert.Equal(t, "automated UI test lvm timed out", suite.Testcases[1].Failure.Data)
	require.NotNil(t, suite.Testcases[2].Error)
	assert.Equal(t, assert.AnError.Error(), suite.Testcases[2].Error.Data)
}

func TestRecorderWriteJUnit(t *testing.T) {
	recorder := report.NewRecorder("gui")

	for _, outcome := range outcomes() {
		recorder.Record(outcome)
	}

	path := filepath.Join(t.TempDir(), "junit.xml")
	require.NoError(t, recorder.WriteJUnit(path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	var suites junit.Testsuites
	require.NoError(t, xml.Unmarshal(content, &suites))
	require.Len(t, suites.Suites, 1)
	assert.Equal(t, 3, suites.Tests)
	assert.Equal(t, 1, suites.Failures)
	assert.Equal(t, 1, suites.Errors)
}

func TestRecorderWriteMetrics(t *testing.T) {
	recorder := report.NewRecorder("gui")

	for _, outcome := range outcomes() {
		recorder.Record(outcome)
	}

	path := filepath.Join(t.TempDir(), "anactest.prom")
	require.NoError(t, recorder.WriteMetrics(path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Contains(t, string(content), `anactest_runs_total{result="pass"} 1`)
	assert.Contains(t, string(content), `anactest_runs_total{result="fail"} 1`)
	assert.Contains(t, string(content), `anactest_runs_total{result="error"} 1`)
	assert.Contains(t, string(content), `anactest_run_duration_seconds{name="rootpassword"} 1.5`)
	assert.Contains(t, string(content), `anactest_run_timeouts_total 1`)
}

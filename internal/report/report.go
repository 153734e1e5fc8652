// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package report records the outcomes of test runs and writes them as JUnit
// XML and as Prometheus text file for the node exporter's textfile collector.
package report

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/aibor/anactest/internal/harness"
	"github.com/jstemmer/go-junit-report/v2/junit"
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "anactest"

// Recorder collects [harness.Outcome]s.
type Recorder struct {
	suite    junit.Testsuite
	registry *prometheus.Registry
	runs     *prometheus.CounterVec
	duration *prometheus.GaugeVec
	timeouts prometheus.Counter
}

// NewRecorder creates a new [Recorder] for a suite with the given name.
func NewRecorder(name string) *Recorder {
	recorder := &Recorder{
		suite:    junit.Testsuite{Name: name},
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "runs_total",
			Help:      "Number of test runs by result.",
		}, []string{"result"}),
		duration: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of the last run of a definition.",
		}, []string{"name"}),
		timeouts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "run_timeouts_total",
			Help:      "Number of test runs killed on timeout.",
		}),
	}

	recorder.registry.MustRegister(
		recorder.runs,
		recorder.duration,
		recorder.timeouts,
	)

	for _, result := range []harness.Result{
		harness.ResultPass,
		harness.ResultFail,
		harness.ResultError,
	} {
		recorder.runs.WithLabelValues(string(result))
	}

	recorder.suite.SetTimestamp(time.Now())

	return recorder
}

// Record adds the outcome.
func (r *Recorder) Record(outcome harness.Outcome) {
	testcase := junit.Testcase{
		Name:      outcome.Name,
		Classname: r.suite.Name,
		Time:      formatSeconds(outcome.Duration),
	}

	switch outcome.Result {
	case harness.ResultFail:
		testcase.Failure = &junit.Result{
			Message: "Failed",
			Data:    errorString(outcome.Err),
		}
	case harness.ResultError:
		testcase.Error = &junit.Result{
			Message: "Error",
			Data:    errorString(outcome.Err),
		}
	}

	r.suite.AddTestcase(testcase)

	if outcome.RunID != "" {
		r.suite.AddProperty(outcome.Name+".run_id", outcome.RunID)
	}

	if outcome.Archive != "" {
		r.suite.AddProperty(outcome.Name+".archive", outcome.Archive)
	}

	r.runs.WithLabelValues(string(outcome.Result)).Inc()
	r.duration.WithLabelValues(outcome.Name).Set(outcome.Duration.Seconds())

	if outcome.TimedOut {
		r.timeouts.Inc()
	}
}

// Suite returns the recorded JUnit test suite.
func (r *Recorder) Suite() junit.Testsuite {
	return r.suite
}

// WriteJUnit writes the recorded outcomes as JUnit XML to the file at path.
func (r *Recorder) WriteJUnit(path string) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create junit report: %w", err)
	}

	defer func() {
		err = errors.Join(err, file.Close())
	}()

	suites := junit.Testsuites{}
	suites.AddSuite(r.suite)

	err = suites.WriteXML(file)
	if err != nil {
		return fmt.Errorf("write junit report: %w", err)
	}

	return nil
}

// WriteMetrics writes the metrics in Prometheus text format to the file at
// path.
func (r *Recorder) WriteMetrics(path string) error {
	err := prometheus.WriteToTextfile(path, r.registry)
	if err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}

	return nil
}

func formatSeconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', 3, 64)
}

func errorString(err error) string {
	if err == nil {
		return ""
	}

	return err.Error()
}

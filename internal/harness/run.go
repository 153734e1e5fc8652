// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package harness

import (
	"errors"
	"testing"

	"github.com/aibor/anactest/internal/definition"
	"github.com/aibor/anactest/internal/results"
	"github.com/aibor/anactest/internal/testconfig"
)

// Run runs the definition as part of the test t.
//
// Set up failures and errors abort the test. Failed verifications mark the
// test as failed. Tear down is registered with [testing.TB.Cleanup].
func Run(
	t testing.TB,
	def definition.Definition,
	cfg *testconfig.Config,
	opts ...Option,
) Outcome {
	t.Helper()

	harness := New(def, cfg, opts...)

	t.Cleanup(func() {
		if err := harness.TearDown(); err != nil {
			t.Errorf("tear down %s: %v", def.Name, err)
		}
	})

	if err := harness.SetUp(t.Context()); err != nil {
		t.Fatalf("set up %s: %v", def.Name, err)
	}

	err := harness.RunTest(t.Context())

	switch {
	case errors.Is(err, &results.VerificationError{}):
		t.Error(err)
	case err != nil:
		t.Fatalf("run %s: %v", def.Name, err)
	}

	return harness.Outcome()
}

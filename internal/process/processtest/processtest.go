// SPDX-License-Identifier: MPL-2.0

// Package processtest provides a recording process.Runner for tests.
package processtest

import (
	"context"
	"slices"

	"github.com/mwtool/mwtool/internal/process"
)

// Runner records every invocation and answers with Result and Err.
type Runner struct {
	// Invocations records the argv of each call.
	Invocations [][]string
	// Result is returned from every call.
	Result process.Result
	// Err is returned from every call.
	Err error
}

// NewSuccessful returns a Runner whose commands all succeed.
func NewSuccessful() *Runner {
	return &Runner{Result: process.Result{Successful: true}}
}

// NewFailing returns a Runner whose commands exit 1 with the given stderr.
func NewFailing(stderr string) *Runner {
	return &Runner{Result: process.Result{Stderr: stderr, ExitCode: 1}}
}

// Run implements process.Runner.
func (r *Runner) Run(_ context.Context, argv []string) (process.Result, error) {
	r.Invocations = append(r.Invocations, slices.Clone(argv))
	return r.Result, r.Err
}

// Called reports whether any invocation matched argv exactly.
func (r *Runner) Called(argv ...string) bool {
	for _, inv := range r.Invocations {
		if slices.Equal(inv, argv) {
			return true
		}
	}
	return false
}

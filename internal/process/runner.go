// SPDX-License-Identifier: MPL-2.0

// Package process runs external tools, such as composer, and reports their
// outcome without treating a non-zero exit status as an error.
package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/mwtool/mwtool/pkg/types"
)

// ErrEmptyCommand is returned when Run is called without a program name.
var ErrEmptyCommand = errors.New("empty command")

type (
	// Runner executes a command and waits for it to finish.
	Runner interface {
		Run(ctx context.Context, argv []string) (Result, error)
	}

	// Result is the outcome of a finished process.
	Result struct {
		Successful bool
		Stdout     string
		Stderr     string
		ExitCode   types.ExitCode
	}

	// ExecCommandFunc is the function signature for creating exec.Cmd.
	// This allows injection of mock implementations for testing.
	ExecCommandFunc func(ctx context.Context, name string, arg ...string) *exec.Cmd

	// CLIRunnerOption configures a CLIRunner.
	CLIRunnerOption func(*CLIRunner)

	// CLIRunner runs commands as child processes.
	CLIRunner struct {
		execCommand ExecCommandFunc
		dir         string
		logger      *log.Logger
	}

	// StartError is returned when a command could not be started at all.
	StartError struct {
		Name string
		Err  error
	}
)

// Error implements the error interface.
func (e *StartError) Error() string {
	return fmt.Sprintf("failed to run %s: %v", e.Name, e.Err)
}

// Unwrap returns the underlying exec error.
func (e *StartError) Unwrap() error { return e.Err }

// WithExecCommand replaces exec.CommandContext.
func WithExecCommand(fn ExecCommandFunc) CLIRunnerOption {
	return func(r *CLIRunner) {
		r.execCommand = fn
	}
}

// WithDir sets the working directory of every command.
func WithDir(dir string) CLIRunnerOption {
	return func(r *CLIRunner) {
		r.dir = dir
	}
}

// WithLogger sets the logger used for command tracing.
func WithLogger(logger *log.Logger) CLIRunnerOption {
	return func(r *CLIRunner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewCLIRunner creates a CLIRunner backed by exec.CommandContext.
func NewCLIRunner(opts ...CLIRunnerOption) *CLIRunner {
	r := &CLIRunner{
		execCommand: exec.CommandContext,
		logger:      log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes argv and captures its output. A process that exits with a
// non-zero status yields Successful=false and no error; an error is returned
// only when the process cannot be started.
func (r *CLIRunner) Run(ctx context.Context, argv []string) (Result, error) {
	if len(argv) == 0 || strings.TrimSpace(argv[0]) == "" {
		return Result{}, ErrEmptyCommand
	}

	cmd := r.execCommand(ctx, argv[0], argv[1:]...)
	if r.dir != "" {
		cmd.Dir = r.dir
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.logger.Debug("running command", "argv", argv, "dir", cmd.Dir)
	err := cmd.Run()

	result := Result{Stdout: stdout.String(), Stderr: stderr.String()}
	var exitErr *exec.ExitError
	switch {
	case err == nil:
		result.Successful = true
	case errors.As(err, &exitErr):
		result.ExitCode = types.ExitCode(exitErr.ExitCode())
		if result.ExitCode <= 0 {
			result.ExitCode = types.ExitFailure
		}
	default:
		return Result{}, &StartError{Name: argv[0], Err: err}
	}

	r.logger.Debug("command finished", "argv0", argv[0], "exit_code", result.ExitCode)
	return result, nil
}

// SPDX-License-Identifier: MPL-2.0

package process

import (
	"context"
	"fmt"
	"os"
	"strings"

	"mvdan.cc/sh/v3/shell"
)

// DefaultComposer is the composer binary looked up on PATH.
const DefaultComposer = "composer"

// ParseCommand splits a user supplied command such as `php composer.phar`
// into argv using shell quoting rules. Environment variables are expanded.
// A command without quotes or whitespace is a single path and keeps its
// backslashes, so `C:\tools\composer.bat` is passed through unchanged.
func ParseCommand(command string) ([]string, error) {
	var fields []string
	if command != "" && !strings.ContainsAny(command, " \t\r\n'\"") {
		if path := os.ExpandEnv(command); path != "" {
			fields = []string{path}
		}
	} else {
		var err error
		if fields, err = shell.Fields(command, os.Getenv); err != nil {
			return nil, fmt.Errorf("invalid command %q: %w", command, err)
		}
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("invalid command %q: %w", command, ErrEmptyCommand)
	}
	return fields, nil
}

// DumpAutoload runs `<composer> dump-autoload`, where composer is a
// command string accepted by ParseCommand. An empty one means DefaultComposer.
func DumpAutoload(ctx context.Context, runner Runner, composer string) (Result, error) {
	if composer == "" {
		composer = DefaultComposer
	}
	argv, err := ParseCommand(composer)
	if err != nil {
		return Result{}, err
	}
	return runner.Run(ctx, append(argv, "dump-autoload"))
}

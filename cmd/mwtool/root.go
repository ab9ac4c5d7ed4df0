// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/mwtool/mwtool/internal/issue"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand builds the mwtool command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "mwtool",
		Short: "Scaffold modules, handlers and factories in Mezzio applications",
		Long: TitleStyle.Render("mwtool") + SubtitleStyle.Render(" - scaffolding for PHP middleware applications") + `

mwtool edits composer.json and config/config.php so that new modules are
autoloaded and their ConfigProvider is aggregated, and generates handler,
middleware and factory classes where composer expects to find them.

` + SubtitleStyle.Render("Examples:") + `
  mwtool module create Blog                        Create and register a module
  mwtool module register Blog                      Register an existing module
  mwtool handler create 'Blog\Handler\ListPosts'   Create a request handler
  mwtool factory create 'Blog\Service\Mailer'      Create a factory for a class
  mwtool config show                               Show current configuration`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.prepare(cmd.Context())
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&app.flags.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&app.flags.configFile, "config", "", "config file (default is .mwtool.cue, then $HOME/.config/mwtool/config.cue)")
	rootCmd.PersistentFlags().StringVarP(&app.flags.projectDir, "project-dir", "d", "", "project root holding composer.json (default is the current directory)")

	rootCmd.AddCommand(
		newModuleCommand(app),
		newHandlerCommand(app, "handler"),
		newHandlerCommand(app, "action"),
		newMiddlewareCommand(app),
		newFactoryCommand(app),
		newConfigCommand(app),
	)

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute builds the command tree and runs it. This is called by main.main().
func Execute() {
	app, err := NewApp(Dependencies{})
	if err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error: ")+err.Error())
		os.Exit(1)
	}

	// Pass version via fang.WithVersion() since fang overrides rootCmd.Version
	if err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(1)
	}
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}

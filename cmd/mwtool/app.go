// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/mwtool/mwtool/internal/config"
	"github.com/mwtool/mwtool/internal/issue"
	"github.com/mwtool/mwtool/internal/process"
	"github.com/mwtool/mwtool/pkg/composer"
	"github.com/mwtool/mwtool/pkg/module"
	"github.com/mwtool/mwtool/pkg/scaffold"
	"github.com/mwtool/mwtool/pkg/types"
)

type (
	// App wires CLI services and shared dependencies. It is the composition root for
	// the CLI layer: every Cobra command handler receives an App reference and reaches
	// the project through it.
	App struct {
		Config   ConfigProvider
		Runner   process.Runner
		Renderer scaffold.RendererDetector
		stdout   io.Writer
		stderr   io.Writer

		flags      globalFlags
		cfg        *config.Config
		projectDir string
		logger     *log.Logger
	}

	// Dependencies defines the injection points for building an App. Nil fields are
	// replaced with production defaults by NewApp or, for the project-bound ones,
	// once the project directory is known.
	Dependencies struct {
		Config ConfigProvider
		// Runner runs composer. Nil means child processes in the project directory.
		Runner process.Runner
		// Renderer detects the template renderer. Nil means reading composer.json.
		Renderer scaffold.RendererDetector
		Stdout   io.Writer
		Stderr   io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	// This abstraction enables testing with custom config sources or mock implementations.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	globalFlags struct {
		verbose    bool
		configFile string
		projectDir string
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) (*App, error) {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}

	return &App{
		Config:   deps.Config,
		Runner:   deps.Runner,
		Renderer: deps.Renderer,
		stdout:   deps.Stdout,
		stderr:   deps.Stderr,
		cfg:      config.DefaultConfig(),
		logger:   log.New(io.Discard),
	}, nil
}

// prepare resolves the project directory, loads the configuration and builds
// the logger. It runs before every command.
func (a *App) prepare(ctx context.Context) error {
	dir := a.flags.projectDir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get working directory: %w", err)
		}
		dir = wd
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("failed to resolve project directory: %w", err)
	}
	a.projectDir = abs

	cfg, err := a.Config.Load(ctx, a.loadOptions())
	if err != nil {
		// Always surface config loading errors, then carry on with the defaults.
		fmt.Fprintln(a.stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, a.flags.verbose))
		cfg = config.DefaultConfig()
	}
	a.cfg = cfg

	a.logger = log.NewWithOptions(a.stderr, log.Options{Prefix: config.AppName})
	if a.verbose() {
		a.logger.SetLevel(log.DebugLevel)
	} else {
		a.logger.SetLevel(log.WarnLevel)
	}

	if a.Runner == nil {
		a.Runner = process.NewCLIRunner(process.WithDir(a.projectDir), process.WithLogger(a.logger))
	}
	a.logger.Debug("project", "dir", a.projectDir, "composer", a.cfg.Composer)
	return nil
}

func (a *App) loadOptions() config.LoadOptions {
	return config.LoadOptions{
		ConfigFilePath: types.FilesystemPath(a.flags.configFile),
		ProjectDir:     types.FilesystemPath(a.projectDir),
	}
}

// verbose reports whether --verbose or ui.verbose is set.
func (a *App) verbose() bool {
	return a.flags.verbose || (a.cfg != nil && a.cfg.UI.Verbose)
}

// registrar builds a module registrar for the project, letting non-empty
// flag values override the configuration.
func (a *App) registrar(composerCmd, modulesPath string) (*module.Registrar, error) {
	return module.NewRegistrar(module.Options{
		ProjectRoot: a.projectDir,
		Composer:    firstNonEmpty(composerCmd, a.cfg.Composer),
		ModulesPath: firstNonEmpty(modulesPath, a.cfg.ModulesPath),
		ConfigFile:  a.cfg.ConfigFile,
		Indent:      a.cfg.Indent,
		Runner:      a.Runner,
		Logger:      a.logger,
	})
}

// generator builds a class generator for the project.
func (a *App) generator() (*scaffold.Generator, error) {
	detector := a.Renderer
	if detector == nil {
		manifest, err := composer.Open(filepath.Join(a.projectDir, composer.FileName))
		if err != nil {
			return nil, err
		}
		detector = scaffold.ComposerRendererDetector{Manifest: manifest}
	}
	return scaffold.NewGenerator(scaffold.GeneratorOptions{
		ProjectRoot:       a.projectDir,
		TemplateExtension: a.cfg.Templates.Extension,
		Renderer:          detector,
		Logger:            a.logger,
	})
}

// fail reports err on stderr together with its catalog entry and returns an
// ExitError so that fang does not print it a second time.
func (a *App) fail(cmd *cobra.Command, operation, resource string, err error) error {
	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		err = issue.NewErrorContext().
			WithOperation(operation).
			WithResource(resource).
			Wrap(err).
			BuildError()
	}

	issueID, styled := classifyError(err, a.verbose())
	svcErr := newServiceError(err, issueID, styled)
	renderServiceError(a.stderr, svcErr, string(a.cfg.UI.ColorScheme), a.logger)

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	return &ExitError{Code: types.ExitFailure, Err: svcErr}
}

// relPath shows path relative to the project directory when it lies inside it.
func (a *App) relPath(path string) string {
	if rel, err := filepath.Rel(a.projectDir, path); err == nil && filepath.IsLocal(rel) {
		return filepath.ToSlash(rel)
	}
	return path
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

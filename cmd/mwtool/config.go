// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mwtool/mwtool/internal/config"
	"github.com/mwtool/mwtool/internal/issue"
	"github.com/mwtool/mwtool/pkg/types"
)

// newConfigCommand creates the `mwtool config` command tree.
// Subcommands that read configuration use the App's ConfigProvider.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage mwtool configuration",
		Long: `Manage mwtool configuration.

Configuration is read from the first file found of:
  - the --config flag
  - .mwtool.cue in the project directory
  - Linux: ~/.config/mwtool/config.cue
  - macOS: ~/Library/Application Support/mwtool/config.cue
  - Windows: %APPDATA%\mwtool\config.cue

Every key can be overridden with an MWTOOL_ environment variable, for
example MWTOOL_COMPOSER or MWTOOL_UI_VERBOSE.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	var format string
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd, app, format)
		},
	}
	showCmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text, json, yaml or toml")
	cfgCmd.AddCommand(showCmd)

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output the effective configuration as CUE",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd, app, string(config.FormatCUE))
		},
	})

	var project bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(cmd, app, project)
		},
	}
	initCmd.Flags().BoolVar(&project, "project", false, "write "+config.ProjectConfigFileName+" in the project directory")
	cfgCmd.AddCommand(initCmd)

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigPath(cmd, app)
		},
	})

	return cfgCmd
}

func showConfig(cmd *cobra.Command, app *App, format string) error {
	f, err := config.ParseFormat(format)
	if err != nil {
		return err
	}

	cfg, err := app.Config.Load(cmd.Context(), app.loadOptions())
	if err != nil {
		svcErr := newServiceError(err, issue.ConfigLoadFailedId, fmt.Sprintf("\n%s %s\n", ErrorStyle.Render("Error:"), formatErrorForDisplay(err, app.verbose())))
		renderServiceError(app.stderr, svcErr, string(app.cfg.UI.ColorScheme), app.logger)
		cmd.SilenceErrors = true
		return &ExitError{Code: types.ExitFailure, Err: svcErr}
	}

	if f != config.FormatText {
		data, err := config.Marshal(cfg, f)
		if err != nil {
			return err
		}
		_, err = app.stdout.Write(data)
		return err
	}

	w := app.stdout
	keyStyle := CmdStyle
	valueStyle := SuccessStyle

	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)

	path, err := config.ResolvePath(app.loadOptions())
	if err == nil && path != "" {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), path)
	} else {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("composer"), valueStyle.Render(cfg.Composer))
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("modules_path"), valueStyle.Render(cfg.ModulesPath))
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("config_file"), valueStyle.Render(cfg.ConfigFile))
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("indent"), valueStyle.Render(fmt.Sprintf("%q", cfg.Indent)))
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("layout"), valueStyle.Render(cfg.Layout.String()))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("templates"))
	if cfg.Templates.Extension == "" {
		fmt.Fprintf(w, "  extension: %s\n", SubtitleStyle.Render("(from the renderer)"))
	} else {
		fmt.Fprintf(w, "  extension: %s\n", valueStyle.Render(cfg.Templates.Extension))
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("ui"))
	fmt.Fprintf(w, "  color_scheme: %s\n", valueStyle.Render(cfg.UI.ColorScheme.String()))
	fmt.Fprintf(w, "  verbose: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.UI.Verbose)))

	return nil
}

func initConfig(cmd *cobra.Command, app *App, project bool) error {
	path := app.flags.configFile
	if project {
		path = filepath.Join(app.projectDir, config.ProjectConfigFileName)
	}

	written, err := config.CreateDefaultConfig(path)
	if errors.Is(err, config.ErrConfigFileExists) {
		fmt.Fprintf(app.stdout, "%s Configuration already exists at %s\n", skippedIcon, pathStyle.Render(written))
		return nil
	}
	if err != nil {
		return app.fail(cmd, "create configuration", written, err)
	}

	fmt.Fprintf(app.stdout, "%s Created default configuration at %s\n", successIcon, pathStyle.Render(written))
	return nil
}

func showConfigPath(cmd *cobra.Command, app *App) error {
	path, err := config.ResolvePath(app.loadOptions())
	if err != nil {
		return app.fail(cmd, "resolve configuration path", "", err)
	}
	if path == "" {
		cfgDir, err := config.ConfigDir()
		if err != nil {
			return app.fail(cmd, "resolve configuration path", "", err)
		}
		fmt.Fprintf(app.stdout, "%s %s\n", pathStyle.Render(filepath.Join(cfgDir, config.ConfigFileName+"."+config.ConfigFileExt)), SubtitleStyle.Render("(not created, using defaults)"))
		return nil
	}
	fmt.Fprintln(app.stdout, path)
	return nil
}

// SPDX-License-Identifier: MPL-2.0

// Package config handles mwtool configuration using Viper with CUE as the file format.
//
// Configuration is looked up, in order, at the --config flag path, at
// .mwtool.cue in the project directory, and at config.cue in the user config
// directory (~/.config/mwtool on Linux, ~/Library/Application Support/mwtool
// on macOS, %APPDATA%\mwtool on Windows). Without a file the defaults apply.
// Every key can be overridden from the environment with the MWTOOL_ prefix,
// for example MWTOOL_COMPOSER or MWTOOL_UI_VERBOSE.
//
// Files are validated against the embedded CUE schema (config_schema.cue).
package config

// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// LayoutRecommended nests module classes under src/ next to templates/.
	LayoutRecommended ModuleLayout = "recommended"
	// LayoutFlat puts module classes directly in the module directory.
	LayoutFlat ModuleLayout = "flat"

	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	// DefaultComposer is the composer command used when none is configured.
	DefaultComposer = "composer"
	// DefaultModulesPath is where modules live, relative to the project.
	DefaultModulesPath = "src"
	// DefaultConfigFile is the ConfigAggregator source, relative to the project.
	DefaultConfigFile = "config/config.php"
	// DefaultIndent indents the first provider of an empty aggregator list.
	DefaultIndent = "    "
)

var (
	// ErrInvalidModuleLayout is returned when a ModuleLayout value is not recognized.
	ErrInvalidModuleLayout = errors.New("invalid module layout")
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidUIConfig is the sentinel error wrapped by InvalidUIConfigError.
	ErrInvalidUIConfig = errors.New("invalid UI config")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ModuleLayout selects the directory structure of new modules.
	ModuleLayout string

	// InvalidModuleLayoutError is returned when a ModuleLayout value is not recognized.
	// It wraps ErrInvalidModuleLayout for errors.Is() compatibility.
	InvalidModuleLayoutError struct {
		Value ModuleLayout
	}

	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// InvalidUIConfigError is returned when UIConfig has invalid fields.
	InvalidUIConfigError struct {
		FieldErrors []error
	}

	// InvalidConfigError is returned when Config has invalid fields.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// Composer is the composer command, e.g. "composer" or "php composer.phar".
		Composer string `json:"composer" yaml:"composer" toml:"composer" mapstructure:"composer"`
		// ModulesPath is the modules directory, relative to the project.
		ModulesPath string `json:"modules_path" yaml:"modules_path" toml:"modules_path" mapstructure:"modules_path"`
		// ConfigFile is the ConfigAggregator source file, relative to the project.
		ConfigFile string `json:"config_file" yaml:"config_file" toml:"config_file" mapstructure:"config_file"`
		// Indent is used for the first provider of an empty aggregator list.
		Indent string `json:"indent" yaml:"indent" toml:"indent" mapstructure:"indent"`
		// Layout is the default structure of modules created by `module create`.
		Layout ModuleLayout `json:"layout" yaml:"layout" toml:"layout" mapstructure:"layout"`
		// Templates configures generated template files
		Templates TemplatesConfig `json:"templates" yaml:"templates" toml:"templates" mapstructure:"templates"`
		// UI configures the user interface
		UI UIConfig `json:"ui" yaml:"ui" toml:"ui" mapstructure:"ui"`
	}

	// TemplatesConfig configures generated template files.
	TemplatesConfig struct {
		// Extension overrides the template extension of the detected renderer.
		Extension string `json:"extension" yaml:"extension" toml:"extension" mapstructure:"extension"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// ColorScheme sets the color scheme
		ColorScheme ColorScheme `json:"color_scheme" yaml:"color_scheme" toml:"color_scheme" mapstructure:"color_scheme"`
		// Verbose enables verbose output
		Verbose bool `json:"verbose" yaml:"verbose" toml:"verbose" mapstructure:"verbose"`
	}
)

// String returns the string representation of the ModuleLayout.
func (l ModuleLayout) String() string { return string(l) }

// IsValid returns whether the ModuleLayout is one of the defined layouts.
func (l ModuleLayout) IsValid() (bool, []error) {
	switch l {
	case LayoutRecommended, LayoutFlat:
		return true, nil
	default:
		return false, []error{&InvalidModuleLayoutError{Value: l}}
	}
}

// Error implements the error interface.
func (e *InvalidModuleLayoutError) Error() string {
	return fmt.Sprintf("invalid module layout %q (valid: recommended, flat)", e.Value)
}

// Unwrap returns ErrInvalidModuleLayout so callers can use errors.Is for programmatic detection.
func (e *InvalidModuleLayoutError) Unwrap() error { return ErrInvalidModuleLayout }

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// IsValid returns whether the ColorScheme is one of the defined color schemes.
func (cs ColorScheme) IsValid() (bool, []error) {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: cs}}
	}
}

// Error implements the error interface.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns ErrInvalidColorScheme so callers can use errors.Is for programmatic detection.
func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

// IsValid returns whether the UIConfig has valid fields.
// It delegates to ColorScheme.IsValid(); bool fields need no validation.
func (c UIConfig) IsValid() (bool, []error) {
	if valid, fieldErrs := c.ColorScheme.IsValid(); !valid {
		return false, []error{&InvalidUIConfigError{FieldErrors: fieldErrs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidUIConfigError.
func (e *InvalidUIConfigError) Error() string {
	return fmt.Sprintf("invalid UI config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidUIConfig for errors.Is() compatibility.
func (e *InvalidUIConfigError) Unwrap() error { return ErrInvalidUIConfig }

// IsValid returns whether the Config has valid fields. String settings must
// be non-blank except Indent and Templates.Extension, which may be empty.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	for name, value := range map[string]string{
		"composer":     c.Composer,
		"modules_path": c.ModulesPath,
		"config_file":  c.ConfigFile,
	} {
		if strings.TrimSpace(value) == "" {
			errs = append(errs, fmt.Errorf("%s must not be empty", name))
		}
	}
	if strings.Trim(c.Indent, " \t") != "" {
		errs = append(errs, fmt.Errorf("indent must contain only spaces and tabs, got %q", c.Indent))
	}
	if valid, fieldErrs := c.Layout.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.UI.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	if len(e.FieldErrors) == 1 {
		return "invalid config: " + e.FieldErrors[0].Error()
	}
	return fmt.Sprintf("invalid config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Composer:    DefaultComposer,
		ModulesPath: DefaultModulesPath,
		ConfigFile:  DefaultConfigFile,
		Indent:      DefaultIndent,
		Layout:      LayoutRecommended,
		Templates:   TemplatesConfig{},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
			Verbose:     false,
		},
	}
}

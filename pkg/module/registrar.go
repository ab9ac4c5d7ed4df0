// SPDX-License-Identifier: MPL-2.0

package module

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/mwtool/mwtool/internal/fsutil"
	"github.com/mwtool/mwtool/internal/process"
	"github.com/mwtool/mwtool/internal/validate"
	"github.com/mwtool/mwtool/pkg/composer"
	"github.com/mwtool/mwtool/pkg/configinjector"
	"github.com/mwtool/mwtool/pkg/namespace"
)

const (
	// DefaultModulesPath is where modules live, relative to the project root.
	DefaultModulesPath = "src"
	// ConfigProviderClass is the short name of every module's provider.
	ConfigProviderClass = "ConfigProvider"
)

var (
	// ErrModuleNotFound is returned when the module directory does not exist.
	ErrModuleNotFound = errors.New("module directory does not exist")
	// ErrRunnerRequired is returned by NewRegistrar when no process runner is given.
	ErrRunnerRequired = errors.New("a process runner is required")
	// ErrDumpAutoloadFailed is returned when composer could not regenerate the autoloader.
	ErrDumpAutoloadFailed = errors.New("unable to regenerate the autoloader")
)

type (
	// Options configures a Registrar.
	Options struct {
		// ProjectRoot is the directory holding composer.json.
		ProjectRoot string `validate:"required"`
		// Composer is the composer command, e.g. "composer" or "php composer.phar".
		Composer string `validate:"required"`
		// ModulesPath is the modules directory, relative to ProjectRoot.
		ModulesPath string `validate:"required"`
		// ConfigFile is the aggregator config file, relative to ProjectRoot.
		ConfigFile string `validate:"required"`
		// Indent is used for the first provider of an empty aggregator list.
		Indent string
		Runner process.Runner `validate:"-"`
		Logger *log.Logger    `validate:"-"`
	}

	// Request names the module to register.
	Request struct {
		Module string `validate:"required,phpns"`
		// ExactPath overrides the module source directory, relative to the project root.
		ExactPath string
	}

	// Registrar applies register and deregister flows to one project.
	Registrar struct {
		opts   Options
		logger *log.Logger
	}

	// Outcome reports which edits were made.
	Outcome struct {
		Module string
		// Provider is the fully-qualified ConfigProvider class.
		Provider string
		// AutoloadPath is the psr-4 path of the module (register only).
		AutoloadPath composer.AutoloadPath
		// AutoloadChanged is true when composer.json was rewritten.
		AutoloadChanged bool
		// Dumped is true when the autoloader was regenerated.
		Dumped bool
		// ProviderChanged is true when config/config.php was rewritten.
		ProviderChanged bool
	}

	// ModuleNotFoundError names the missing module directory.
	ModuleNotFoundError struct {
		Path string
	}

	// DumpAutoloadError carries the failed composer run.
	DumpAutoloadError struct {
		Result process.Result
	}
)

// Error implements the error interface.
func (e *ModuleNotFoundError) Error() string {
	return fmt.Sprintf("module path %s does not exist", e.Path)
}

// Unwrap returns ErrModuleNotFound for errors.Is() compatibility.
func (e *ModuleNotFoundError) Unwrap() error { return ErrModuleNotFound }

// Error implements the error interface.
func (e *DumpAutoloadError) Error() string {
	stderr := strings.TrimSpace(e.Result.Stderr)
	if stderr == "" {
		return fmt.Sprintf("%s (exit code %s)", ErrDumpAutoloadFailed, e.Result.ExitCode)
	}
	return fmt.Sprintf("%s (exit code %s): %s", ErrDumpAutoloadFailed, e.Result.ExitCode, stderr)
}

// Unwrap returns ErrDumpAutoloadFailed for errors.Is() compatibility.
func (e *DumpAutoloadError) Unwrap() error { return ErrDumpAutoloadFailed }

// NewRegistrar validates opts and returns a Registrar.
func NewRegistrar(opts Options) (*Registrar, error) {
	if err := validate.Struct(opts); err != nil {
		return nil, err
	}
	if opts.Runner == nil {
		return nil, ErrRunnerRequired
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Registrar{opts: opts, logger: logger}, nil
}

// ProviderClass returns the ConfigProvider class name of a module.
func ProviderClass(module string) string {
	return strings.Trim(module, `\`) + `\` + ConfigProviderClass
}

// Register makes the module autoloadable and registers its ConfigProvider.
// A failed autoloader dump stops the flow with a *DumpAutoloadError; the
// manifest edit is kept and the provider is left unregistered.
func (r *Registrar) Register(ctx context.Context, req Request) (Outcome, error) {
	if err := validate.Struct(req); err != nil {
		return Outcome{}, err
	}
	module := strings.Trim(req.Module, `\`)
	out := Outcome{Module: module, Provider: ProviderClass(module)}

	srcDir, err := r.sourceDir(module, req.ExactPath)
	if err != nil {
		return out, err
	}
	rel, err := filepath.Rel(r.opts.ProjectRoot, srcDir)
	if err != nil {
		return out, fmt.Errorf("module path %s is not inside %s: %w", srcDir, r.opts.ProjectRoot, err)
	}
	out.AutoloadPath = composer.NormalizePath(filepath.ToSlash(rel))

	manifest, err := composer.Open(r.manifestPath())
	if err != nil {
		return out, err
	}
	out.AutoloadChanged, err = manifest.AddRule(module, out.AutoloadPath.String(), false)
	if err != nil {
		return out, err
	}
	r.logger.Debug("autoload rule", "module", module, "path", out.AutoloadPath, "changed", out.AutoloadChanged)

	if out.AutoloadChanged {
		if err := r.dumpAutoload(ctx); err != nil {
			return out, err
		}
		out.Dumped = true
	}

	out.ProviderChanged, err = r.injector().Inject(out.Provider, configinjector.KindConfigProvider)
	if err != nil {
		return out, err
	}
	r.logger.Debug("config provider", "provider", out.Provider, "changed", out.ProviderChanged)
	return out, nil
}

// Deregister removes the module's ConfigProvider and autoload rule. The
// module directory is left on disk.
func (r *Registrar) Deregister(ctx context.Context, req Request) (Outcome, error) {
	if err := validate.Struct(req); err != nil {
		return Outcome{}, err
	}
	module := strings.Trim(req.Module, `\`)
	out := Outcome{Module: module, Provider: ProviderClass(module)}

	var err error
	out.ProviderChanged, err = r.injector().Remove(out.Provider)
	if err != nil {
		return out, err
	}
	r.logger.Debug("config provider", "provider", out.Provider, "changed", out.ProviderChanged)

	manifest, err := composer.Open(r.manifestPath())
	if err != nil {
		return out, err
	}
	out.AutoloadChanged, err = manifest.RemoveRule(module, false)
	if err != nil {
		return out, err
	}
	r.logger.Debug("autoload rule removed", "module", module, "changed", out.AutoloadChanged)

	if out.AutoloadChanged {
		if err := r.dumpAutoload(ctx); err != nil {
			return out, err
		}
		out.Dumped = true
	}
	return out, nil
}

func (r *Registrar) sourceDir(module, exactPath string) (string, error) {
	if exactPath != "" {
		dir := filepath.Join(r.opts.ProjectRoot, filepath.FromSlash(exactPath))
		if !fsutil.IsDir(dir) {
			return "", &ModuleNotFoundError{Path: dir}
		}
		return dir, nil
	}

	modulesPath := filepath.Join(r.opts.ProjectRoot, filepath.FromSlash(r.opts.ModulesPath))
	root := filepath.Join(modulesPath, filepath.FromSlash(strings.ReplaceAll(module, `\`, "/")))
	if !fsutil.IsDir(root) {
		return "", &ModuleNotFoundError{Path: root}
	}
	return namespace.ModuleSourcePath(filepath.Dir(root), filepath.Base(root)), nil
}

func (r *Registrar) dumpAutoload(ctx context.Context) error {
	result, err := process.DumpAutoload(ctx, r.opts.Runner, r.opts.Composer)
	if err != nil {
		return err
	}
	if !result.Successful {
		return &DumpAutoloadError{Result: result}
	}
	return nil
}

func (r *Registrar) manifestPath() string {
	return filepath.Join(r.opts.ProjectRoot, composer.FileName)
}

func (r *Registrar) injector() *configinjector.Injector {
	return configinjector.New(
		filepath.Join(r.opts.ProjectRoot, filepath.FromSlash(r.opts.ConfigFile)),
		configinjector.WithIndent(r.opts.Indent),
	)
}

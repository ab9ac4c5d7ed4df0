// SPDX-License-Identifier: MPL-2.0

package scaffold

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mwtool/mwtool/internal/validate"
	"github.com/mwtool/mwtool/pkg/classfile"
	"github.com/mwtool/mwtool/pkg/namespace"
)

const (
	// LayoutRecommended nests module classes under src/ next to templates/.
	LayoutRecommended Layout = "recommended"
	// LayoutFlat puts module classes directly in the module root.
	LayoutFlat Layout = "flat"

	// TemplatesDir is the module templates directory of the recommended layout.
	TemplatesDir = "templates"

	dirPerm os.FileMode = 0o755
)

// ErrModuleExists is returned when the module directory is already present.
var ErrModuleExists = errors.New("module directory already exists")

type (
	// Layout selects the directory structure of a new module.
	Layout string

	// CreateModuleOptions describes the module to create.
	CreateModuleOptions struct {
		// Name is the module namespace, e.g. "Blog" or "Acme\Blog".
		Name string `validate:"required,phpns"`
		// ModulesPath is the absolute directory modules are created in.
		ModulesPath string `validate:"required"`
		Layout      Layout `validate:"omitempty,oneof=recommended flat"`
	}

	// ModuleMetadata describes a created module. It is never modified after
	// CreateModule returns.
	ModuleMetadata struct {
		Name      string
		RootDir   string
		SourceDir string
		// Files lists the created files and directories, module root first.
		Files []string
	}

	// ModuleExistsError names the directory that is already present.
	ModuleExistsError struct {
		Path string
	}
)

// Error implements the error interface.
func (e *ModuleExistsError) Error() string {
	return fmt.Sprintf("module directory %s already exists", e.Path)
}

// Unwrap returns ErrModuleExists for errors.Is() compatibility.
func (e *ModuleExistsError) Unwrap() error { return ErrModuleExists }

// ParseLayout maps a configuration value onto a Layout. The empty string
// selects the recommended layout.
func ParseLayout(s string) (Layout, error) {
	switch Layout(strings.ToLower(strings.TrimSpace(s))) {
	case "", LayoutRecommended:
		return LayoutRecommended, nil
	case LayoutFlat:
		return LayoutFlat, nil
	default:
		return "", fmt.Errorf("unknown module layout %q (expected %q or %q)", s, LayoutRecommended, LayoutFlat)
	}
}

// CreateModule creates the module directories and its ConfigProvider class.
// Nothing is created when the module directory already exists, and the
// module directory is removed again when any later step fails.
func CreateModule(opts CreateModuleOptions) (ModuleMetadata, error) {
	if err := validate.Struct(opts); err != nil {
		return ModuleMetadata{}, err
	}
	if opts.Layout == "" {
		opts.Layout = LayoutRecommended
	}

	name := strings.Trim(opts.Name, `\`)
	root := filepath.Join(opts.ModulesPath, filepath.FromSlash(strings.ReplaceAll(name, `\`, "/")))
	if _, err := os.Stat(root); err == nil {
		return ModuleMetadata{}, &ModuleExistsError{Path: root}
	}

	meta := ModuleMetadata{Name: name, RootDir: root, SourceDir: root}
	templatesPath := "/" + TemplatesDir + "/"
	if opts.Layout == LayoutRecommended {
		meta.SourceDir = filepath.Join(root, namespace.SourceDir)
		templatesPath = "/../" + TemplatesDir + "/"
	}

	if err := os.MkdirAll(meta.SourceDir, dirPerm); err != nil {
		_ = os.RemoveAll(root) // Best-effort cleanup on error path
		return ModuleMetadata{}, fmt.Errorf("failed to create module directory: %w", err)
	}
	meta.Files = append(meta.Files, root)
	if meta.SourceDir != root {
		meta.Files = append(meta.Files, meta.SourceDir)
	}

	if opts.Layout == LayoutRecommended {
		templates := filepath.Join(root, TemplatesDir)
		if err := os.Mkdir(templates, dirPerm); err != nil {
			_ = os.RemoveAll(root) // Best-effort cleanup on error path
			return ModuleMetadata{}, fmt.Errorf("failed to create templates directory: %w", err)
		}
		meta.Files = append(meta.Files, templates)
	}

	segments := strings.Split(name, `\`)
	provider := filepath.Join(meta.SourceDir, "ConfigProvider"+namespace.SourceExtension)
	subs := classfile.Substitutions{}.
		Add(PlaceholderNamespace, name).
		Add(PlaceholderTemplateNamespace, TemplateNamespace(segments[len(segments)-1])).
		Add(PlaceholderTemplatesPath, templatesPath)
	if err := classfile.Emit(provider, configProviderTemplate, subs); err != nil {
		_ = os.RemoveAll(root) // Best-effort cleanup on error path
		return ModuleMetadata{}, err
	}
	meta.Files = append(meta.Files, provider)

	return meta, nil
}

// SPDX-License-Identifier: MPL-2.0

package scaffold

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/mwtool/mwtool/internal/fsutil"
	"github.com/mwtool/mwtool/internal/validate"
	"github.com/mwtool/mwtool/pkg/classfile"
	"github.com/mwtool/mwtool/pkg/composer"
	"github.com/mwtool/mwtool/pkg/namespace"
)

// ErrClassNotFound is returned when a factory is requested for a class whose
// file does not exist.
var ErrClassNotFound = errors.New("class file not found")

type (
	// GeneratorOptions configures a Generator.
	GeneratorOptions struct {
		// ProjectRoot is the directory holding composer.json.
		ProjectRoot string `validate:"required"`
		// FactoriesFile is the generated factories config, relative to ProjectRoot.
		FactoriesFile string
		// TemplateExtension overrides the renderer's default template extension.
		TemplateExtension string
		// Renderer detects the installed template renderer. Nil means none.
		Renderer RendererDetector `validate:"-"`
		Logger   *log.Logger      `validate:"-"`
	}

	// ClassOptions are shared by all class generators.
	ClassOptions struct {
		// NoFactory skips generating a factory for the class.
		NoFactory bool
		// NoRegister skips recording the factory in the factories config.
		NoRegister bool
	}

	// HandlerOptions control request handler generation.
	HandlerOptions struct {
		ClassOptions
		// WithoutTemplate skips the template even when a renderer is installed.
		WithoutTemplate   bool
		TemplateNamespace string
		TemplateName      string
		TemplateExtension string
	}

	// Generated reports the files written by one generator call.
	Generated struct {
		Class     string
		ClassFile string
		// Factory and FactoryFile are empty when no factory was generated.
		Factory     string
		FactoryFile string
		// Registered is true when the factories config was rewritten.
		Registered bool
		// Template is the "namespace::name" identifier of the created template.
		Template     string
		TemplateFile string
	}

	// Generator writes classes into a composer project.
	Generator struct {
		opts   GeneratorOptions
		logger *log.Logger
	}

	// ClassNotFoundError names the missing class file.
	ClassNotFoundError struct {
		Class string
		Path  string
	}
)

// Error implements the error interface.
func (e *ClassNotFoundError) Error() string {
	return fmt.Sprintf("class %s not found at %s", e.Class, e.Path)
}

// Unwrap returns ErrClassNotFound for errors.Is() compatibility.
func (e *ClassNotFoundError) Unwrap() error { return ErrClassNotFound }

// NewGenerator validates opts and returns a Generator.
func NewGenerator(opts GeneratorOptions) (*Generator, error) {
	if err := validate.Struct(opts); err != nil {
		return nil, err
	}
	if opts.FactoriesFile == "" {
		opts.FactoriesFile = DefaultFactoriesFile
	}
	if opts.Renderer == nil {
		opts.Renderer = StaticRenderer(RendererNone)
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Generator{opts: opts, logger: logger}, nil
}

// CreateHandler writes a PSR-15 request handler. When a template renderer is
// installed the handler renders a template, and the template file is created.
func (g *Generator) CreateHandler(fqcn string, opts HandlerOptions) (Generated, error) {
	res, err := g.resolve(fqcn)
	if err != nil {
		return Generated{}, err
	}
	out := Generated{Class: res.Class.String()}

	renderer := RendererNone
	if !opts.WithoutTemplate {
		if renderer, err = g.opts.Renderer.Renderer(); err != nil {
			return out, fmt.Errorf("failed to detect the template renderer: %w", err)
		}
	}
	g.logger.Debug("template renderer", "renderer", renderer)

	template := handlerTemplate
	subs := classfile.Substitutions{}.
		Add(PlaceholderNamespace, res.Class.Namespace()).
		Add(PlaceholderClass, res.Class.ShortName)

	var templateFile string
	if renderer != RendererNone {
		ns := opts.TemplateNamespace
		if ns == "" && len(res.Class.Segments) > 0 {
			ns = TemplateNamespace(res.Class.Segments[0])
		} else if ns == "" {
			ns = TemplateNamespace(res.Class.ShortName)
		}
		name := opts.TemplateName
		if name == "" {
			name = TemplateName(res.Class.ShortName)
		}
		ext := firstNonEmpty(opts.TemplateExtension, g.opts.TemplateExtension, renderer.Extension())
		templateFile = filepath.Join(g.templatesDir(res, ns), name+normalizeExtension(ext))
		out.Template = ns + "::" + name

		template = renderingHandlerTemplate
		subs = subs.
			Add(PlaceholderTemplateNamespace, ns).
			Add(PlaceholderTemplateName, name)
	}

	targets := []string{res.FilePath(), templateFile}
	if !opts.NoFactory {
		targets = append(targets, factoryFile(res))
	}
	if err := classfile.EnsureAbsent(targets...); err != nil {
		return out, err
	}

	if err := g.emit(res, template, subs); err != nil {
		return out, err
	}
	out.ClassFile = res.FilePath()

	if templateFile != "" {
		if err := os.MkdirAll(filepath.Dir(templateFile), dirPerm); err != nil {
			return out, fmt.Errorf("%w: %s: %w", namespace.ErrUnableToCreatePath, filepath.Dir(templateFile), err)
		}
		content := classfile.Substitutions{}.Add(PlaceholderClass, res.Class.ShortName)
		if err := classfile.Emit(templateFile, templateFileTemplates[renderer], content); err != nil {
			return out, err
		}
		out.TemplateFile = templateFile
		g.logger.Debug("template created", "path", templateFile)
	}

	return g.withFactory(res, out, opts.ClassOptions)
}

// CreateMiddleware writes a PSR-15 middleware.
func (g *Generator) CreateMiddleware(fqcn string, opts ClassOptions) (Generated, error) {
	res, err := g.resolve(fqcn)
	if err != nil {
		return Generated{}, err
	}
	out := Generated{Class: res.Class.String()}

	targets := []string{res.FilePath()}
	if !opts.NoFactory {
		targets = append(targets, factoryFile(res))
	}
	if err := classfile.EnsureAbsent(targets...); err != nil {
		return out, err
	}

	subs := classfile.Substitutions{}.
		Add(PlaceholderNamespace, res.Class.Namespace()).
		Add(PlaceholderClass, res.Class.ShortName)
	if err := g.emit(res, middlewareTemplate, subs); err != nil {
		return out, err
	}
	out.ClassFile = res.FilePath()

	return g.withFactory(res, out, opts)
}

// CreateFactory writes a factory for an existing class. The class
// constructor decides which services the factory pulls from the container.
func (g *Generator) CreateFactory(fqcn string, opts ClassOptions) (Generated, error) {
	res, err := g.resolve(fqcn)
	if err != nil {
		return Generated{}, err
	}
	out := Generated{Class: res.Class.String(), ClassFile: res.FilePath()}
	if _, err := os.Stat(out.ClassFile); errors.Is(err, fs.ErrNotExist) {
		return out, &ClassNotFoundError{Class: out.Class, Path: out.ClassFile}
	}
	opts.NoFactory = false
	return g.withFactory(res, out, opts)
}

func (g *Generator) withFactory(res namespace.Resolution, out Generated, opts ClassOptions) (Generated, error) {
	if opts.NoFactory {
		return out, nil
	}

	src, err := os.ReadFile(res.FilePath())
	if err != nil {
		return out, fmt.Errorf("failed to read %s: %w", res.FilePath(), err)
	}
	deps, err := ConstructorDependencies(src, res.Class.String())
	if err != nil {
		return out, err
	}

	factory := FactoryName(res.Class)
	path := factoryFile(res)
	if err := classfile.Emit(path, RenderFactory(res.Class, deps), nil); err != nil {
		return out, err
	}
	out.Factory, out.FactoryFile = factory.String(), path
	g.logger.Debug("factory created", "factory", out.Factory, "dependencies", len(deps))

	if opts.NoRegister {
		return out, nil
	}
	cfg, err := OpenFactoryConfig(filepath.Join(g.opts.ProjectRoot, filepath.FromSlash(g.opts.FactoriesFile)))
	if err != nil {
		return out, err
	}
	if out.Registered, err = cfg.Add(out.Class, out.Factory); err != nil {
		return out, err
	}
	g.logger.Debug("factory registered", "path", cfg.Path(), "changed", out.Registered)
	return out, nil
}

func (g *Generator) resolve(fqcn string) (namespace.Resolution, error) {
	class, err := namespace.Parse(fqcn)
	if err != nil {
		return namespace.Resolution{}, err
	}
	manifest, err := composer.Open(filepath.Join(g.opts.ProjectRoot, composer.FileName))
	if err != nil {
		return namespace.Resolution{}, err
	}
	autoload, err := manifest.Autoload(false)
	if err != nil {
		return namespace.Resolution{}, err
	}
	res, err := namespace.Resolve(class, autoload, g.opts.ProjectRoot)
	if err != nil {
		return namespace.Resolution{}, err
	}
	g.logger.Debug("class resolved", "class", class.String(), "prefix", res.Prefix, "path", res.FilePath())
	return res, nil
}

func (g *Generator) emit(res namespace.Resolution, template string, subs classfile.Substitutions) error {
	if err := res.EnsureDir(); err != nil {
		return err
	}
	if err := classfile.Emit(res.FilePath(), template, subs); err != nil {
		return err
	}
	g.logger.Debug("class created", "path", res.FilePath())
	return nil
}

func factoryFile(res namespace.Resolution) string {
	return filepath.Join(res.Dir(), FactoryName(res.Class).ShortName+namespace.SourceExtension)
}

// templatesDir picks the module's own templates directory for the
// recommended layout, else a per-namespace directory under the project.
func (g *Generator) templatesDir(res namespace.Resolution, templateNamespace string) string {
	moduleRoot := filepath.Dir(res.BaseDir)
	if filepath.Base(res.BaseDir) == namespace.SourceDir && moduleRoot != filepath.Clean(g.opts.ProjectRoot) {
		dir := filepath.Join(moduleRoot, TemplatesDir)
		if fsutil.IsDir(dir) {
			return dir
		}
	}
	return filepath.Join(g.opts.ProjectRoot, TemplatesDir, templateNamespace)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func normalizeExtension(ext string) string {
	if ext == "" || strings.HasPrefix(ext, ".") {
		return ext
	}
	return "." + ext
}

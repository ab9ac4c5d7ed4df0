// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mwtool/mwtool/pkg/scaffold"
)

// classFlags are shared by the class generators.
type classFlags struct {
	noFactory  bool
	noRegister bool
}

func (f *classFlags) bind(cmd *cobra.Command, withFactory bool) {
	if withFactory {
		cmd.Flags().BoolVar(&f.noFactory, "no-factory", false, "do not generate a factory for the class")
	}
	cmd.Flags().BoolVar(&f.noRegister, "no-register", false, "do not register the factory in the factories config")
}

func (f classFlags) options() scaffold.ClassOptions {
	return scaffold.ClassOptions{NoFactory: f.noFactory, NoRegister: f.noRegister}
}

// newHandlerCommand creates the `mwtool handler` command tree. It is also
// mounted as `mwtool action`.
func newHandlerCommand(app *App, use string) *cobra.Command {
	handlerCmd := &cobra.Command{
		Use:   use,
		Short: "Create PSR-15 request handlers",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	if use == "action" {
		handlerCmd.Short = "Create PSR-15 request handlers (alias of handler)"
	}

	var (
		flags     classFlags
		noTmpl    bool
		tmplNS    string
		tmplName  string
		tmplExt   string
		createCmd = &cobra.Command{
			Use:   "create <class>",
			Short: "Create a request handler class",
			Long: `Create a PSR-15 request handler.

The class is written where composer autoloads it. A factory is generated and
registered unless --no-factory or --no-register is given. When a template
renderer is installed the handler renders a template, which is created too.

Examples:
  mwtool ` + use + ` create 'App\Handler\PingHandler'
  mwtool ` + use + ` create 'Blog\Handler\ListPostsHandler' --with-template-name posts
  mwtool ` + use + ` create 'App\Handler\ApiHandler' --without-template`,
			Args: cobra.ExactArgs(1),
		}
	)

	createCmd.RunE = func(cmd *cobra.Command, args []string) error {
		gen, err := app.generator()
		if err != nil {
			return app.fail(cmd, "create handler", args[0], err)
		}
		out, err := gen.CreateHandler(args[0], scaffold.HandlerOptions{
			ClassOptions:      flags.options(),
			WithoutTemplate:   noTmpl,
			TemplateNamespace: tmplNS,
			TemplateName:      tmplName,
			TemplateExtension: tmplExt,
		})
		if err != nil {
			return app.fail(cmd, "create handler", args[0], err)
		}
		printGenerated(app.stdout, app, out, true, flags)
		return nil
	}

	flags.bind(createCmd, true)
	createCmd.Flags().BoolVar(&noTmpl, "without-template", false, "do not render a template even when a renderer is installed")
	createCmd.Flags().StringVar(&tmplNS, "with-template-namespace", "", "template namespace (default is the dash-cased module name)")
	createCmd.Flags().StringVar(&tmplName, "with-template-name", "", "template name (default is the dash-cased class name without Handler/Action)")
	createCmd.Flags().StringVar(&tmplExt, "with-template-extension", "", "template file extension (default from config or the renderer)")

	handlerCmd.AddCommand(createCmd)
	return handlerCmd
}

// newMiddlewareCommand creates the `mwtool middleware` command tree.
func newMiddlewareCommand(app *App) *cobra.Command {
	middlewareCmd := &cobra.Command{
		Use:   "middleware",
		Short: "Create PSR-15 middleware",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	var flags classFlags
	createCmd := &cobra.Command{
		Use:   "create <class>",
		Short: "Create a middleware class",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gen, err := app.generator()
			if err != nil {
				return app.fail(cmd, "create middleware", args[0], err)
			}
			out, err := gen.CreateMiddleware(args[0], flags.options())
			if err != nil {
				return app.fail(cmd, "create middleware", args[0], err)
			}
			printGenerated(app.stdout, app, out, true, flags)
			return nil
		},
	}
	flags.bind(createCmd, true)

	middlewareCmd.AddCommand(createCmd)
	return middlewareCmd
}

// newFactoryCommand creates the `mwtool factory` command tree.
func newFactoryCommand(app *App) *cobra.Command {
	factoryCmd := &cobra.Command{
		Use:   "factory",
		Short: "Create container factories",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	var flags classFlags
	createCmd := &cobra.Command{
		Use:   "create <class>",
		Short: "Create a factory for an existing class",
		Long: `Create a factory for an existing class.

The class constructor is scanned and every parameter is fetched from the
container by its type. Scalar, untyped, variadic and union parameters cannot
be resolved and abort the command without writing any file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gen, err := app.generator()
			if err != nil {
				return app.fail(cmd, "create factory", args[0], err)
			}
			out, err := gen.CreateFactory(args[0], flags.options())
			if err != nil {
				return app.fail(cmd, "create factory", args[0], err)
			}
			printGenerated(app.stdout, app, out, false, flags)
			return nil
		},
	}
	flags.bind(createCmd, false)

	factoryCmd.AddCommand(createCmd)
	return factoryCmd
}

// printGenerated lists the files a generator wrote. classCreated is false
// when the class already existed.
func printGenerated(w io.Writer, app *App, out scaffold.Generated, classCreated bool, flags classFlags) {
	if classCreated && out.ClassFile != "" {
		fmt.Fprintf(w, "%s Created class %s in %s\n", successIcon, classStyle.Render(out.Class), pathStyle.Render(app.relPath(out.ClassFile)))
	}
	if out.FactoryFile != "" {
		fmt.Fprintf(w, "%s Created factory %s in %s\n", successIcon, classStyle.Render(out.Factory), pathStyle.Render(app.relPath(out.FactoryFile)))
	}
	if out.Registered {
		fmt.Fprintf(w, "%s Registered %s in %s\n", successIcon, classStyle.Render(out.Factory), pathStyle.Render(scaffold.DefaultFactoriesFile))
	} else if out.Factory != "" && !flags.noRegister {
		fmt.Fprintf(w, "%s %s already registered\n", skippedIcon, classStyle.Render(out.Factory))
	}
	if out.TemplateFile != "" {
		fmt.Fprintf(w, "%s Created template %s in %s\n", successIcon, classStyle.Render(out.Template), pathStyle.Render(app.relPath(out.TemplateFile)))
	}
}

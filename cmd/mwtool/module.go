// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ddddddO/gtree"
	"github.com/spf13/cobra"

	"github.com/mwtool/mwtool/pkg/module"
	"github.com/mwtool/mwtool/pkg/scaffold"
	"github.com/mwtool/mwtool/pkg/types"
)

// moduleFlags are shared by the module subcommands. Empty values fall back
// to the configuration.
type moduleFlags struct {
	composer    string
	modulesPath string
}

func (f *moduleFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.composer, "composer", "c", "", "composer command (default from config: composer)")
	cmd.Flags().StringVarP(&f.modulesPath, "modules-path", "p", "", "modules directory relative to the project (default from config: src)")
}

// newModuleCommand creates the `mwtool module` command tree.
func newModuleCommand(app *App) *cobra.Command {
	moduleCmd := &cobra.Command{
		Use:   "module",
		Short: "Create, register and deregister application modules",
		Long: `Manage application modules.

A module is a namespace with its own directory under the modules path and a
ConfigProvider class. Registering a module adds a PSR-4 autoload rule to
composer.json, regenerates the autoloader and adds the ConfigProvider to the
ConfigAggregator in config/config.php.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	moduleCmd.AddCommand(newModuleCreateCommand(app))
	moduleCmd.AddCommand(newModuleRegisterCommand(app))
	moduleCmd.AddCommand(newModuleDeregisterCommand(app))

	return moduleCmd
}

// newModuleCreateCommand creates the `mwtool module create` command.
func newModuleCreateCommand(app *App) *cobra.Command {
	var (
		flags moduleFlags
		flat  bool
	)

	cmd := &cobra.Command{
		Use:   "create <module>",
		Short: "Create and register a new module",
		Long: `Create a new module and register it.

The recommended layout puts classes in <module>/src and templates in
<module>/templates. The flat layout keeps classes in the module root.

Examples:
  mwtool module create Blog
  mwtool module create 'Acme\Blog' --flat
  mwtool module create Blog --modules-path modules --composer 'php composer.phar'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runModuleCreate(cmd, app, args[0], flags, flat)
		},
	}

	flags.bind(cmd)
	cmd.Flags().BoolVar(&flat, "flat", false, "use the flat module layout")

	return cmd
}

func runModuleCreate(cmd *cobra.Command, app *App, name string, flags moduleFlags, flat bool) error {
	layout, err := scaffold.ParseLayout(string(app.cfg.Layout))
	if err != nil {
		return app.fail(cmd, "create module", name, err)
	}
	if flat {
		layout = scaffold.LayoutFlat
	}

	modulesPath := types.FilesystemPath(firstNonEmpty(flags.modulesPath, app.cfg.ModulesPath))
	meta, err := scaffold.CreateModule(scaffold.CreateModuleOptions{
		Name:        name,
		ModulesPath: modulesPath.Under(app.projectDir),
		Layout:      layout,
	})
	if err != nil {
		return app.fail(cmd, "create module", name, err)
	}

	w := app.stdout
	fmt.Fprintln(w, TitleStyle.Render("Create Module"))
	fmt.Fprintf(w, "%s Created module %s in %s\n", successIcon, classStyle.Render(meta.Name), pathStyle.Render(app.relPath(meta.RootDir)))
	if err := renderModuleTree(w, meta); err != nil {
		app.logger.Warn("failed to render module tree", "error", err)
	}
	fmt.Fprintln(w)

	registrar, err := app.registrar(flags.composer, flags.modulesPath)
	if err != nil {
		return app.fail(cmd, "register module", name, err)
	}
	out, err := registrar.Register(cmd.Context(), module.Request{Module: name})
	printOutcome(w, app, out, false, err == nil)
	if err != nil {
		return app.fail(cmd, "register module", name, err)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, hintStyle.Render(fmt.Sprintf("Add a handler with: mwtool handler create '%s\\Handler\\HomePageHandler'", meta.Name)))
	return nil
}

// newModuleRegisterCommand creates the `mwtool module register` command.
func newModuleRegisterCommand(app *App) *cobra.Command {
	var (
		flags     moduleFlags
		exactPath string
	)

	cmd := &cobra.Command{
		Use:   "register <module>",
		Short: "Register an existing module",
		Long: `Register an existing module.

Adds a PSR-4 autoload rule for the module to composer.json, runs
'composer dump-autoload' when the rule changed, then adds the module's
ConfigProvider to the application configuration. Steps that are already
done are skipped.

Examples:
  mwtool module register Blog
  mwtool module register Blog --exact-path modules/blog/lib`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			registrar, err := app.registrar(flags.composer, flags.modulesPath)
			if err != nil {
				return app.fail(cmd, "register module", args[0], err)
			}
			out, err := registrar.Register(cmd.Context(), module.Request{Module: args[0], ExactPath: exactPath})
			printOutcome(app.stdout, app, out, false, err == nil)
			if err != nil {
				return app.fail(cmd, "register module", args[0], err)
			}
			return nil
		},
	}

	flags.bind(cmd)
	cmd.Flags().StringVarP(&exactPath, "exact-path", "x", "", "module source directory relative to the project, bypassing layout detection")

	return cmd
}

// newModuleDeregisterCommand creates the `mwtool module deregister` command.
func newModuleDeregisterCommand(app *App) *cobra.Command {
	var flags moduleFlags

	cmd := &cobra.Command{
		Use:   "deregister <module>",
		Short: "Deregister a module",
		Long: `Deregister a module.

Removes the module's ConfigProvider from the application configuration and
its autoload rule from composer.json, then regenerates the autoloader. The
module files are left in place.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			registrar, err := app.registrar(flags.composer, flags.modulesPath)
			if err != nil {
				return app.fail(cmd, "deregister module", args[0], err)
			}
			out, err := registrar.Deregister(cmd.Context(), module.Request{Module: args[0]})
			printOutcome(app.stdout, app, out, true, err == nil)
			if err != nil {
				return app.fail(cmd, "deregister module", args[0], err)
			}
			return nil
		},
	}

	flags.bind(cmd)

	return cmd
}

// printOutcome reports each step of a register or deregister flow. When the
// flow stopped early only the finished steps are listed.
func printOutcome(w io.Writer, app *App, out module.Outcome, deregister, complete bool) {
	if out.Provider == "" {
		return
	}
	provider := classStyle.Render(out.Provider)
	prefix := classStyle.Render(out.Module + `\`)
	configFile := pathStyle.Render(filepath.ToSlash(app.cfg.ConfigFile))

	if deregister {
		if out.ProviderChanged {
			fmt.Fprintf(w, "%s Removed %s from %s\n", successIcon, provider, configFile)
		} else if complete {
			fmt.Fprintf(w, "%s %s was not registered\n", skippedIcon, provider)
		}
	}

	switch {
	case out.AutoloadChanged && deregister:
		fmt.Fprintf(w, "%s Removed the autoload rule for %s\n", successIcon, prefix)
	case out.AutoloadChanged:
		fmt.Fprintf(w, "%s Added autoload rule %s => %s\n", successIcon, prefix, pathStyle.Render(out.AutoloadPath.String()))
	case !complete:
	case deregister:
		fmt.Fprintf(w, "%s No autoload rule for %s\n", skippedIcon, prefix)
	default:
		fmt.Fprintf(w, "%s Autoload rule for %s already present\n", skippedIcon, prefix)
	}

	if out.Dumped {
		fmt.Fprintf(w, "%s Regenerated the autoloader\n", successIcon)
	} else if out.AutoloadChanged && !complete {
		fmt.Fprintf(w, "%s Autoloader not regenerated\n", failureIcon)
	}

	if !deregister {
		if out.ProviderChanged {
			fmt.Fprintf(w, "%s Registered %s in %s\n", successIcon, provider, configFile)
		} else if complete {
			fmt.Fprintf(w, "%s %s already registered\n", skippedIcon, provider)
		}
	}
}

// renderModuleTree prints the created files as a tree rooted at the module directory.
func renderModuleTree(w io.Writer, meta scaffold.ModuleMetadata) error {
	root := gtree.NewRoot(filepath.Base(meta.RootDir))
	nodes := map[string]*gtree.Node{}
	for _, file := range meta.Files {
		rel, err := filepath.Rel(meta.RootDir, file)
		if err != nil || rel == "." {
			continue
		}
		parent := root
		parts := strings.Split(filepath.ToSlash(rel), "/")
		for i, part := range parts {
			key := strings.Join(parts[:i+1], "/")
			node, ok := nodes[key]
			if !ok {
				node = parent.Add(part)
				nodes[key] = node
			}
			parent = node
		}
	}
	return gtree.OutputFromRoot(w, root)
}

// SPDX-License-Identifier: EPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	ManifestNotFoundId Id = iota + 1
	ManifestMalformedId
	AutoloadMissingId
	AutoloaderNotFoundId
	ClassExistsId
	ClassNotFoundId
	AggregatorNotFoundId
	ConfigFileNotWritableId
	DumpAutoloadFailedId
	ConfigLoadFailedId
	ModuleNotFoundId
	ModuleExistsId
	UnresolvableParameterId
	PermissionDeniedId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // must never be empty, because we need to have docs about all issue types
	extLinks []HttpLink  // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n"
		extraMd += "## See also: "
		for _, link := range i.docLinks {
			extraMd += "- [" + string(link) + "]"
		}
		for _, link := range i.extLinks {
			extraMd += "- [" + string(link) + "]"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	manifestNotFoundIssue = &Issue{
		id: ManifestNotFoundId,
		mdMsg: `
# No composer.json found!

mwtool works on the composer.json at the root of your project.

## Things you can try:
- Run the command from the project root
- Point mwtool at the project:
~~~
$ mwtool --project-dir path/to/project module register Blog
~~~
- Pass the manifest explicitly with ` + "`--composer path/to/composer.json`",
		extLinks: []HttpLink{"https://getcomposer.org/doc/04-schema.md"},
	}

	manifestMalformedIssue = &Issue{
		id: ManifestMalformedId,
		mdMsg: `
# composer.json could not be parsed!

The manifest must be a JSON object. mwtool never rewrites a file it cannot read.

## Things you can try:
- Check the syntax:
~~~
$ composer validate
~~~
- Look for trailing commas or unquoted keys near the position reported above`,
		extLinks: []HttpLink{"https://getcomposer.org/doc/04-schema.md"},
	}

	autoloadMissingIssue = &Issue{
		id: AutoloadMissingId,
		mdMsg: `
# No PSR-4 autoloading configured!

composer.json has no ` + "`autoload.psr-4`" + ` section, so no class can be mapped to a file.

## Things you can try:
- Register a module, which adds the section for you:
~~~
$ mwtool module register App
~~~
- Add the section by hand:
~~~json
"autoload": {
    "psr-4": {
        "App\\": "src/App/src/"
    }
}
~~~`,
		extLinks: []HttpLink{"https://getcomposer.org/doc/04-schema.md#psr-4"},
	}

	autoloaderNotFoundIssue = &Issue{
		id: AutoloaderNotFoundId,
		mdMsg: `
# No autoload rule matches the class!

None of the PSR-4 namespaces in composer.json is a prefix of the requested class.

## Things you can try:
- Check the spelling and casing of the class namespace
- Register the module that should own the class:
~~~
$ mwtool module register Blog
~~~`,
	}

	classExistsIssue = &Issue{
		id: ClassExistsId,
		mdMsg: `
# The class already exists!

mwtool never overwrites an existing class file.

## Things you can try:
- Pick a different class name
- Generate only the factory for the existing class:
~~~
$ mwtool factory create 'App\Handler\PingHandler'
~~~`,
	}

	classNotFoundIssue = &Issue{
		id: ClassNotFoundId,
		mdMsg: `
# Class file not found!

A factory can only be generated for a class whose file exists where composer would autoload it.

## Things you can try:
- Check the class name and its namespace
- Create the class first:
~~~
$ mwtool handler create 'App\Handler\PingHandler'
~~~`,
	}

	aggregatorNotFoundIssue = &Issue{
		id: AggregatorNotFoundId,
		mdMsg: `
# Could not find the ConfigAggregator!

The application config file must construct a ` + "`ConfigAggregator`" + ` with an inline array of providers.

## Things you can try:
- Check the config file path in your mwtool configuration:
~~~
$ mwtool config show
~~~
- Make sure the file contains ` + "`new ConfigAggregator([ ... ])`",
		extLinks: []HttpLink{"https://docs.laminas.dev/laminas-config-aggregator/"},
	}

	configFileNotWritableIssue = &Issue{
		id: ConfigFileNotWritableId,
		mdMsg: `
# The config file is not writable!

mwtool needs to add or remove a provider in the application config file.

## Things you can try:
- Check the file permissions
- Run mwtool as the user that owns the project`,
	}

	dumpAutoloadFailedIssue = &Issue{
		id: DumpAutoloadFailedId,
		mdMsg: `
# composer dump-autoload failed!

composer.json was updated, but the autoloader could not be regenerated.
The provider was left untouched.

## Things you can try:
- Run it yourself and read the output:
~~~
$ composer dump-autoload
~~~
- Point mwtool at the right composer command:
~~~
$ mwtool module register Blog --composer 'php composer.phar'
~~~
- Re-run the command once composer succeeds; finished steps are skipped`,
		extLinks: []HttpLink{"https://getcomposer.org/doc/03-cli.md#dump-autoload-dumpautoload"},
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Could not load the mwtool configuration file.

## Configuration locations:
- Project: .mwtool.cue
- Linux: ~/.config/mwtool/config.cue
- macOS: ~/Library/Application Support/mwtool/config.cue
- Windows: %APPDATA%\mwtool\config.cue

## Things you can try:
- Check the CUE syntax near the position reported above
- Print the path in use and the effective values:
~~~
$ mwtool config path
$ mwtool config show
~~~
- Write a fresh default file:
~~~
$ mwtool config init
~~~`,
	}

	moduleNotFoundIssue = &Issue{
		id: ModuleNotFoundId,
		mdMsg: `
# Module directory not found!

A module can only be registered once its directory exists under the modules path.

## Things you can try:
- Create the module:
~~~
$ mwtool module create Blog
~~~
- Use ` + "`--modules-path`" + ` when modules live outside ` + "`src`" + `
- Use ` + "`--exact-path`" + ` to point at the source directory directly`,
	}

	moduleExistsIssue = &Issue{
		id: ModuleExistsId,
		mdMsg: `
# The module already exists!

mwtool never overwrites an existing module directory.

## Things you can try:
- Pick a different module name
- Register the existing module instead:
~~~
$ mwtool module register Blog
~~~`,
	}

	unresolvableParameterIssue = &Issue{
		id: UnresolvableParameterId,
		mdMsg: `
# Cannot generate a factory!

Every constructor parameter must be typed with a class or interface that the container can provide.
Scalars, untyped, variadic and union parameters cannot be fetched from the container.

## Things you can try:
- Move scalar settings into a config object the container provides
- Write this factory by hand`,
		extLinks: []HttpLink{"https://docs.mezzio.dev/mezzio/v3/features/container/factories/"},
	}

	permissionDeniedIssue = &Issue{
		id: PermissionDeniedId,
		mdMsg: `
# Permission denied!

You don't have permission to perform this operation.

## Common causes:
- Trying to write to a protected directory
- The project is owned by another user

## Things you can try:
- Check file/directory permissions
- Run mwtool from a directory you own`,
	}

	issues = map[Id]*Issue{
		manifestNotFoundIssue.Id():      manifestNotFoundIssue,
		manifestMalformedIssue.Id():     manifestMalformedIssue,
		autoloadMissingIssue.Id():       autoloadMissingIssue,
		autoloaderNotFoundIssue.Id():    autoloaderNotFoundIssue,
		classExistsIssue.Id():           classExistsIssue,
		classNotFoundIssue.Id():         classNotFoundIssue,
		aggregatorNotFoundIssue.Id():    aggregatorNotFoundIssue,
		configFileNotWritableIssue.Id(): configFileNotWritableIssue,
		dumpAutoloadFailedIssue.Id():    dumpAutoloadFailedIssue,
		configLoadFailedIssue.Id():      configLoadFailedIssue,
		moduleNotFoundIssue.Id():        moduleNotFoundIssue,
		moduleExistsIssue.Id():          moduleExistsIssue,
		unresolvableParameterIssue.Id(): unresolvableParameterIssue,
		permissionDeniedIssue.Id():      permissionDeniedIssue,
	}
)

func Values() []*Issue {
	return maps.Values(issues)
}

func Get(id Id) *Issue {
	return issues[id]
}

// SPDX-License-Identifier: MPL-2.0

package scaffold

import (
	"sort"
	"strings"

	"github.com/mwtool/mwtool/pkg/classfile"
	"github.com/mwtool/mwtool/pkg/namespace"
)

const (
	// FactorySuffix is appended to a class short name to name its factory.
	FactorySuffix = "Factory"

	containerInterface = `Psr\Container\ContainerInterface`
	argumentIndent     = "            "
	returnIndent       = "        "
)

// FactoryName returns the factory class name for class.
func FactoryName(class namespace.ClassReference) namespace.ClassReference {
	return namespace.ClassReference{Segments: class.Segments, ShortName: class.ShortName + FactorySuffix}
}

// RenderFactory renders the factory source for class. Each dependency is
// fetched from the container by class name, in constructor order.
func RenderFactory(class namespace.ClassReference, deps []Dependency) string {
	imports, refs := factoryImports(class, deps)

	var construct strings.Builder
	construct.WriteString("new " + class.ShortName + "(")
	switch len(refs) {
	case 0:
	case 1:
		construct.WriteString("$container->get(" + refs[0] + "::class)")
	default:
		for i, ref := range refs {
			construct.WriteString("\n" + argumentIndent + "$container->get(" + ref + "::class)")
			if i < len(refs)-1 {
				construct.WriteString(",")
			}
		}
		construct.WriteString("\n" + returnIndent)
	}
	construct.WriteString(")")

	subs := classfile.Substitutions{}.
		Add(PlaceholderNamespace, class.Namespace()).
		Add(PlaceholderImports, imports).
		Add(PlaceholderFactory, class.ShortName+FactorySuffix).
		Add(PlaceholderClass, class.ShortName).
		Add(PlaceholderConstruct, construct.String())
	return subs.Apply(factoryTemplate)
}

// factoryImports returns the `use` block of the factory and the name each
// dependency is referred to by. Classes from the factory's own namespace
// need no import; a short name that is already taken falls back to the
// global name.
func factoryImports(class namespace.ClassReference, deps []Dependency) (string, []string) {
	ns := class.Namespace()
	taken := map[string]string{
		strings.ToLower(class.ShortName):                 class.String(),
		strings.ToLower(class.ShortName + FactorySuffix): class.String() + FactorySuffix,
		"containerinterface":                             containerInterface,
	}
	imported := map[string]bool{containerInterface: true}

	refs := make([]string, 0, len(deps))
	for _, dep := range deps {
		fqcn := strings.TrimLeft(dep.Class, `\`)
		depNs, short := "", fqcn
		if i := strings.LastIndex(fqcn, `\`); i >= 0 {
			depNs, short = fqcn[:i], fqcn[i+1:]
		}
		key := strings.ToLower(short)

		owner, ok := taken[key]
		if (ok && !strings.EqualFold(owner, fqcn)) || (depNs == "" && ns != "") {
			refs = append(refs, `\`+fqcn)
			continue
		}
		taken[key] = fqcn
		refs = append(refs, short)
		if !strings.EqualFold(depNs, ns) {
			imported[fqcn] = true
		}
	}

	names := make([]string, 0, len(imported))
	for name := range imported {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return strings.ToLower(names[i]) < strings.ToLower(names[j]) })

	var b strings.Builder
	for _, name := range names {
		b.WriteString("use " + name + ";\n")
	}
	return b.String(), refs
}

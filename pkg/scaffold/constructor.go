// SPDX-License-Identifier: MPL-2.0

package scaffold

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/mwtool/mwtool/internal/phpsrc"
)

// ErrUnresolvableParameter is returned when a constructor parameter has no
// class type the container could provide.
var ErrUnresolvableParameter = errors.New("constructor parameter cannot be resolved from the container")

type (
	// Dependency is a constructor parameter resolved to a class name.
	Dependency struct {
		Name  string
		Class string
	}

	// UnresolvableParameterError names the offending parameter.
	UnresolvableParameterError struct {
		Class     string
		Parameter string
		Reason    string
	}
)

// Error implements the error interface.
func (e *UnresolvableParameterError) Error() string {
	return fmt.Sprintf("cannot create factory for %s: parameter %s %s", e.Class, e.Parameter, e.Reason)
}

// Unwrap returns ErrUnresolvableParameter for errors.Is() compatibility.
func (e *UnresolvableParameterError) Unwrap() error { return ErrUnresolvableParameter }

var (
	constructorPattern = regexp.MustCompile(`(?i)\bfunction\s+__construct\s*\(`)
	attributePattern   = regexp.MustCompile(`(?s)^#\[.*?\]\s*`)
	parameterPattern   = regexp.MustCompile(`^(?:(?:public|protected|private|readonly)\s+)*(\??)(\\?[A-Za-z_\x{80}-\x{10FFFF}][\w\x{80}-\x{10FFFF}\\|&]*)?\s*&?\s*(\.\.\.)?\s*(\$[A-Za-z_\x{80}-\x{10FFFF}][\w\x{80}-\x{10FFFF}]*)`)

	builtinTypes = map[string]bool{
		"array": true, "bool": true, "callable": true, "false": true, "float": true,
		"int": true, "iterable": true, "mixed": true, "null": true, "object": true,
		"self": true, "static": true, "string": true, "true": true, "void": true,
		"never": true, "parent": true,
	}
)

// ConstructorDependencies scans the constructor of the class declared in src
// and resolves each parameter type through the file's `use` imports and
// namespace. A class without a constructor has no dependencies.
func ConstructorDependencies(src []byte, class string) ([]Dependency, error) {
	loc := constructorPattern.FindIndex(src)
	if loc == nil {
		return nil, nil
	}
	_, params, ok := phpsrc.SplitList(src, loc[1])
	if !ok {
		return nil, fmt.Errorf("unterminated constructor signature in %s", class)
	}

	imports := phpsrc.Imports(src)
	ns := phpsrc.Namespace(src)

	deps := make([]Dependency, 0, len(params))
	for _, param := range params {
		text := strings.TrimSpace(attributePattern.ReplaceAllString(param.Text, ""))
		m := parameterPattern.FindStringSubmatch(text)
		if m == nil {
			return nil, &UnresolvableParameterError{Class: class, Parameter: text, Reason: "could not be parsed"}
		}
		typ, variadic, name := m[2], m[3], m[4]
		switch {
		case variadic != "":
			return nil, &UnresolvableParameterError{Class: class, Parameter: name, Reason: "is variadic"}
		case typ == "":
			return nil, &UnresolvableParameterError{Class: class, Parameter: name, Reason: "has no type"}
		case strings.ContainsAny(typ, "|&"):
			return nil, &UnresolvableParameterError{Class: class, Parameter: name, Reason: "has a union or intersection type"}
		case builtinTypes[strings.ToLower(typ)]:
			return nil, &UnresolvableParameterError{Class: class, Parameter: name, Reason: "has the scalar type " + typ}
		}
		deps = append(deps, Dependency{Name: name, Class: phpsrc.ResolveName(typ, imports, ns)})
	}
	return deps, nil
}

// SPDX-License-Identifier: MPL-2.0

package composer

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// NamespaceSeparator separates PHP namespace segments.
	NamespaceSeparator = `\`
	// PathSeparator terminates every autoload path written to the manifest.
	PathSeparator = "/"
)

// ErrInvalidNamespace is the sentinel error wrapped by InvalidNamespaceError.
var ErrInvalidNamespace = errors.New("invalid namespace")

type (
	// Namespace is a PSR-4 namespace prefix. Normalized values end with exactly
	// one namespace separator and never start with one.
	Namespace string

	// InvalidNamespaceError is returned when a namespace is empty after normalization.
	InvalidNamespaceError struct {
		Value string
	}

	// AutoloadPath is a project-relative directory. Normalized values end with
	// exactly one forward slash.
	AutoloadPath string

	// AutoloadRule maps one namespace prefix to its base directories. Rules read
	// from disk may carry several paths; rules written by this package carry one.
	AutoloadRule struct {
		Namespace Namespace
		Paths     []AutoloadPath
	}

	// AutoloadMap is the ordered content of a psr-4 section. Order matches the
	// manifest, which makes prefix resolution deterministic.
	AutoloadMap []AutoloadRule
)

// Error implements the error interface.
func (e *InvalidNamespaceError) Error() string {
	return fmt.Sprintf("invalid namespace %q: must contain at least one segment", e.Value)
}

// Unwrap returns ErrInvalidNamespace for errors.Is() compatibility.
func (e *InvalidNamespaceError) Unwrap() error { return ErrInvalidNamespace }

// NormalizeNamespace trims surrounding separators and whitespace and appends a
// single trailing separator: "Foo", `\Foo\\` and `Foo\` all become `Foo\`.
func NormalizeNamespace(ns string) (Namespace, error) {
	trimmed := strings.Trim(strings.TrimSpace(ns), NamespaceSeparator)
	if trimmed == "" {
		return "", &InvalidNamespaceError{Value: ns}
	}
	return Namespace(trimmed + NamespaceSeparator), nil
}

// NormalizePath converts backslashes to forward slashes and ensures exactly one
// trailing slash: "src/Foo/src" and "src/Foo/src//" both become "src/Foo/src/".
func NormalizePath(path string) AutoloadPath {
	p := strings.ReplaceAll(strings.TrimSpace(path), `\`, PathSeparator)
	p = strings.TrimRight(p, PathSeparator)
	return AutoloadPath(p + PathSeparator)
}

// String returns the namespace prefix including its trailing separator.
func (n Namespace) String() string { return string(n) }

// Segments returns the namespace parts without empty entries.
func (n Namespace) Segments() []string {
	var parts []string
	for _, part := range strings.Split(string(n), NamespaceSeparator) {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return parts
}

// String returns the path including its trailing slash.
func (p AutoloadPath) String() string { return string(p) }

// Lookup returns the rule for the given namespace, if present.
func (m AutoloadMap) Lookup(ns Namespace) (AutoloadRule, bool) {
	for _, rule := range m {
		if rule.Namespace == ns {
			return rule, true
		}
	}
	return AutoloadRule{}, false
}

// Namespaces returns the prefixes in manifest order.
func (m AutoloadMap) Namespaces() []Namespace {
	out := make([]Namespace, 0, len(m))
	for _, rule := range m {
		out = append(out, rule.Namespace)
	}
	return out
}

// FirstPath returns the first configured path of the rule. Tools that need a
// single directory (class generation) always use the first one.
func (r AutoloadRule) FirstPath() AutoloadPath {
	if len(r.Paths) == 0 {
		return ""
	}
	return r.Paths[0]
}

// SPDX-License-Identifier: MPL-2.0

// Package namespace maps fully-qualified PHP class names onto the project's
// PSR-4 autoload directories.
package namespace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/mwtool/mwtool/internal/fsutil"
	"github.com/mwtool/mwtool/pkg/composer"
)

const (
	// SourceExtension is appended to the short class name to form the file name.
	SourceExtension = ".php"
	// SourceDir is the nested source directory of the recommended module layout.
	SourceDir = "src"

	dirPerm os.FileMode = 0o755
)

var (
	// ErrInvalidClassName is returned when a class name contains an invalid segment.
	ErrInvalidClassName = errors.New("invalid class name")
	// ErrAutoloaderNotFound is returned when no autoload prefix owns the class.
	ErrAutoloaderNotFound = errors.New("no autoload rule matches the class")
	// ErrUnableToCreatePath is returned when the class directory cannot be created.
	ErrUnableToCreatePath = errors.New("unable to create class directory")

	identifierPattern = regexp.MustCompile(`^[A-Za-z_\x{80}-\x{10FFFF}][A-Za-z0-9_\x{80}-\x{10FFFF}]*$`)
)

type (
	// ClassReference is a fully-qualified class name split into its namespace
	// segments and short name.
	ClassReference struct {
		Segments  []string
		ShortName string
	}

	// InvalidClassNameError is returned when Parse rejects a class name.
	InvalidClassNameError struct {
		Value   string
		Segment string
	}

	// Resolution is the outcome of matching a class against an autoload map.
	Resolution struct {
		Class ClassReference
		// Prefix is the matched autoload namespace.
		Prefix composer.Namespace
		// BaseDir is the absolute directory the prefix points at.
		BaseDir string
		// SubNamespace holds the namespace segments below the prefix.
		SubNamespace []string
	}

	// AutoloaderNotFoundError names the class that no prefix matched.
	AutoloaderNotFoundError struct {
		Class string
	}
)

// Error implements the error interface.
func (e *InvalidClassNameError) Error() string {
	if e.Segment == "" {
		return fmt.Sprintf("invalid class name %q", e.Value)
	}
	return fmt.Sprintf("invalid class name %q: %q is not a valid identifier", e.Value, e.Segment)
}

// Unwrap returns ErrInvalidClassName for errors.Is() compatibility.
func (e *InvalidClassNameError) Unwrap() error { return ErrInvalidClassName }

// Error implements the error interface.
func (e *AutoloaderNotFoundError) Error() string {
	return fmt.Sprintf("unable to match %s to an autoloadable PSR-4 namespace", e.Class)
}

// Unwrap returns ErrAutoloaderNotFound for errors.Is() compatibility.
func (e *AutoloaderNotFoundError) Unwrap() error { return ErrAutoloaderNotFound }

// Parse splits a class name such as `App\Handler\PingHandler` (with or
// without a leading separator) into a ClassReference.
func Parse(fqcn string) (ClassReference, error) {
	trimmed := strings.Trim(strings.TrimSpace(fqcn), composer.NamespaceSeparator)
	if trimmed == "" {
		return ClassReference{}, &InvalidClassNameError{Value: fqcn}
	}

	parts := strings.Split(trimmed, composer.NamespaceSeparator)
	for _, part := range parts {
		if !identifierPattern.MatchString(part) {
			return ClassReference{}, &InvalidClassNameError{Value: fqcn, Segment: part}
		}
	}
	return ClassReference{
		Segments:  parts[:len(parts)-1],
		ShortName: parts[len(parts)-1],
	}, nil
}

// String returns the class name without a leading separator.
func (c ClassReference) String() string {
	if len(c.Segments) == 0 {
		return c.ShortName
	}
	return c.Namespace() + composer.NamespaceSeparator + c.ShortName
}

// Namespace returns the namespace part, without leading or trailing separators.
func (c ClassReference) Namespace() string {
	return strings.Join(c.Segments, composer.NamespaceSeparator)
}

// Global returns the class name with a leading separator, as used in PHP
// source to refer to the class from any namespace.
func (c ClassReference) Global() string {
	return composer.NamespaceSeparator + c.String()
}

// Resolve finds the first autoload rule, in manifest order, whose namespace
// is a literal string prefix of the class name. The match does not stop at a
// separator boundary: `Foo\` also owns `FooBar\Baz`.
func Resolve(class ClassReference, autoload composer.AutoloadMap, projectRoot string) (Resolution, error) {
	name := class.String()
	for _, rule := range autoload {
		prefix := strings.TrimSuffix(rule.Namespace.String(), composer.NamespaceSeparator)
		if !strings.HasPrefix(name, prefix) || len(rule.Paths) == 0 {
			continue
		}

		var sub []string
		if depth := len(rule.Namespace.Segments()); depth < len(class.Segments) {
			sub = class.Segments[depth:]
		}
		return Resolution{
			Class:        class,
			Prefix:       rule.Namespace,
			BaseDir:      filepath.Join(projectRoot, filepath.FromSlash(rule.FirstPath().String())),
			SubNamespace: sub,
		}, nil
	}
	return Resolution{}, &AutoloaderNotFoundError{Class: name}
}

// Dir returns the directory that holds the class file.
func (r Resolution) Dir() string {
	return filepath.Join(append([]string{r.BaseDir}, r.SubNamespace...)...)
}

// FilePath returns the absolute path of the class file.
func (r Resolution) FilePath() string {
	return filepath.Join(r.Dir(), r.Class.ShortName+SourceExtension)
}

// EnsureDir creates the class directory when it is missing.
func (r Resolution) EnsureDir() error {
	if err := os.MkdirAll(r.Dir(), dirPerm); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrUnableToCreatePath, r.Dir(), err)
	}
	return nil
}

// ResolveClassPath resolves fqcn against the autoload map, creates the class
// directory when it is missing and returns the path of the class file.
func ResolveClassPath(fqcn string, autoload composer.AutoloadMap, projectRoot string) (string, error) {
	class, err := Parse(fqcn)
	if err != nil {
		return "", err
	}
	res, err := Resolve(class, autoload, projectRoot)
	if err != nil {
		return "", err
	}
	if err := res.EnsureDir(); err != nil {
		return "", err
	}
	return res.FilePath(), nil
}

// ModuleSourcePath returns the source directory of a module: the nested src
// directory of the recommended layout when it exists, else the module root.
func ModuleSourcePath(modulesPath, module string) string {
	root := filepath.Join(modulesPath, module)
	nested := filepath.Join(root, SourceDir)
	if fsutil.IsDir(nested) {
		return nested
	}
	return root
}

// SPDX-License-Identifier: MPL-2.0

// Package classfile renders class skeletons by literal placeholder replacement
// and writes them without ever overwriting an existing file.
package classfile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

const filePerm fs.FileMode = 0o644

// ErrClassAlreadyExists is returned when the target file is already present.
var ErrClassAlreadyExists = errors.New("class file already exists")

type (
	// Substitution replaces every occurrence of Placeholder with Value.
	Substitution struct {
		Placeholder string
		Value       string
	}

	// Substitutions are matched in slice order. Values are never scanned
	// again, so a value that contains a placeholder token is kept literally.
	Substitutions []Substitution

	// ClassExistsError names the file that would have been overwritten.
	ClassExistsError struct {
		Path string
	}
)

// Error implements the error interface.
func (e *ClassExistsError) Error() string {
	return fmt.Sprintf("class file %s already exists and will not be overwritten", e.Path)
}

// Unwrap returns ErrClassAlreadyExists for errors.Is() compatibility.
func (e *ClassExistsError) Unwrap() error { return ErrClassAlreadyExists }

// Add appends a substitution and returns the extended list.
func (s Substitutions) Add(placeholder, value string) Substitutions {
	return append(s, Substitution{Placeholder: placeholder, Value: value})
}

// Apply renders the template.
func (s Substitutions) Apply(template string) string {
	pairs := make([]string, 0, len(s)*2)
	for _, sub := range s {
		if sub.Placeholder == "" {
			continue
		}
		pairs = append(pairs, sub.Placeholder, sub.Value)
	}
	if len(pairs) == 0 {
		return template
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

// EnsureAbsent fails with a ClassExistsError for the first of paths that is
// already present. Empty paths are skipped.
func EnsureAbsent(paths ...string) error {
	for _, path := range paths {
		if path == "" {
			continue
		}
		if _, err := os.Lstat(path); err == nil {
			return &ClassExistsError{Path: path}
		}
	}
	return nil
}

// Emit renders template with subs and creates path with the result. It fails
// with ErrClassAlreadyExists when path already exists.
func Emit(path, template string, subs Substitutions) error {
	if _, err := os.Lstat(path); err == nil {
		return &ClassExistsError{Path: path}
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, filePerm)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return &ClassExistsError{Path: path}
		}
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if _, err := f.WriteString(subs.Apply(template)); err != nil {
		_ = f.Close()
		_ = os.Remove(path) // Best-effort cleanup
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path) // Best-effort cleanup
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}

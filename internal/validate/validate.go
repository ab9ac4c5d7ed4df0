// SPDX-License-Identifier: MPL-2.0

// Package validate checks option structs with go-playground/validator and
// the PHP naming rules used across the tool.
package validate

import (
	"errors"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrInvalidOptions is the sentinel error wrapped by OptionsError.
	ErrInvalidOptions = errors.New("invalid options")

	phpIdentifier = regexp.MustCompile(`^[A-Za-z_\x{80}-\x{10FFFF}][A-Za-z0-9_\x{80}-\x{10FFFF}]*$`)

	instance *validator.Validate
	once     sync.Once
)

// OptionsError lists every failed field as "Field (tag)".
type OptionsError struct {
	Fields []string
	Err    error
}

// Error implements the error interface.
func (e *OptionsError) Error() string {
	return "validation failed on " + strings.Join(e.Fields, ", ")
}

// Unwrap returns both ErrInvalidOptions and the validator error.
func (e *OptionsError) Unwrap() []error { return []error{ErrInvalidOptions, e.Err} }

// Validator returns the shared validator with the PHP tags registered:
// "phpident" for a single identifier, "phpns" for a namespace or class name.
func Validator() *validator.Validate {
	once.Do(func() {
		instance = validator.New(validator.WithRequiredStructEnabled())
		_ = instance.RegisterValidation("phpident", func(fl validator.FieldLevel) bool {
			return IsIdentifier(fl.Field().String())
		})
		_ = instance.RegisterValidation("phpns", func(fl validator.FieldLevel) bool {
			return IsNamespace(fl.Field().String())
		})
	})
	return instance
}

// Struct validates s and converts validator errors into an OptionsError.
func Struct(s any) error {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}
	var valErr validator.ValidationErrors
	if !errors.As(err, &valErr) {
		return err
	}
	fields := make([]string, 0, len(valErr))
	for _, fe := range valErr {
		fields = append(fields, fe.Field()+" ("+fe.Tag()+")")
	}
	return &OptionsError{Fields: fields, Err: err}
}

// IsIdentifier reports whether s is a valid PHP label.
func IsIdentifier(s string) bool {
	return phpIdentifier.MatchString(s)
}

// IsNamespace reports whether s is a backslash separated list of PHP labels.
// A single leading separator is allowed.
func IsNamespace(s string) bool {
	s = strings.TrimPrefix(s, `\`)
	if s == "" {
		return false
	}
	for _, part := range strings.Split(s, `\`) {
		if !IsIdentifier(part) {
			return false
		}
	}
	return true
}

// SPDX-License-Identifier: MPL-2.0

package composer

import (
	"errors"
	"fmt"

	"github.com/mwtool/mwtool/internal/fsutil"
)

var (
	// ErrFileAccess is returned when the manifest exists but cannot be read.
	ErrFileAccess = errors.New("manifest cannot be read")
	// ErrManifestMissing is returned when an operation needs manifest content
	// and the file does not exist.
	ErrManifestMissing = errors.New("manifest does not exist")
	// ErrManifestMalformed is returned when the manifest is not a JSON object.
	ErrManifestMalformed = errors.New("manifest is not a valid JSON object")
	// ErrAutoloadMissing is returned when the manifest has no psr-4 section to resolve against.
	ErrAutoloadMissing = errors.New("manifest has no psr-4 autoload section")

	// ErrDirectoryMissing is returned when the manifest directory does not exist on write.
	ErrDirectoryMissing = fsutil.ErrDirectoryMissing
	// ErrDirectoryNotWritable is returned when the manifest directory rejects the write.
	ErrDirectoryNotWritable = fsutil.ErrDirectoryNotWritable
)

// ManifestError carries the manifest path together with the error kind
// (one of the sentinels above) and the underlying cause, if any.
type ManifestError struct {
	Path  string
	Kind  error
	Cause error
}

// Error implements the error interface.
func (e *ManifestError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Path)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Path, e.Cause)
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *ManifestError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

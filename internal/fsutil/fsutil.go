// SPDX-License-Identifier: MPL-2.0

// Package fsutil provides the small set of file helpers shared by the packages
// that rewrite project files in place.
package fsutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

var (
	// ErrDirectoryMissing is returned when the directory that should hold a file does not exist.
	ErrDirectoryMissing = errors.New("directory does not exist")
	// ErrDirectoryNotWritable is returned when a file cannot be created in its target directory.
	ErrDirectoryNotWritable = errors.New("directory is not writable")
)

// DefaultFileMode is used for files that did not exist before they were written.
const DefaultFileMode fs.FileMode = 0o644

// AtomicWriteFile writes data to path using a temp file in the same directory
// followed by a rename, so readers never observe a partially written file.
// The permissions of an existing file are preserved.
func AtomicWriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrDirectoryMissing, dir)
	}

	mode := DefaultFileMode
	if existing, statErr := os.Stat(path); statErr == nil {
		mode = existing.Mode().Perm()
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrDirectoryNotWritable, dir, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath) // Best-effort cleanup
		return fmt.Errorf("failed to write temporary file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath) // Best-effort cleanup
		return fmt.Errorf("failed to close temporary file: %w", err)
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		_ = os.Remove(tmpPath) // Best-effort cleanup
		return fmt.Errorf("failed to set file mode: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath) // Best-effort cleanup
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}
	return nil
}

// IsWritableFile reports whether path can be opened for writing. It never
// truncates or creates the file.
func IsWritableFile(path string) bool {
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return false
	}
	_ = f.Close()
	return true
}

// IsDir reports whether path exists and is a directory.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// IsFile reports whether path exists and is not a directory.
func IsFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// SPDX-License-Identifier: MPL-2.0

// Package testutil provides test helpers that fail the test on error instead
// of returning it: MustMkdirAll, MustWriteFile and MustReadFile, plus
// NewProject, which lays out a skeleton middleware application with
// composer.json and config/config.php.
package testutil

// SPDX-License-Identifier: MPL-2.0

// Package configinjector registers and removes configuration providers in the
// ConfigAggregator call of an application's config/config.php.
//
// The file is never parsed as PHP. The first aggregator construction is found
// with the pattern table in patterns.go, its list literal is scanned just far
// enough to split top-level elements, and every edit is a single insertion or
// a single line removal applied to the raw bytes. Everything outside the
// edited line is written back untouched.
package configinjector

// SPDX-License-Identifier: MPL-2.0

// Package composer reads and edits the project's composer.json package manifest.
//
// The manifest is treated as an opaque JSON document. Reads walk it with gjson,
// which preserves key order, and edits are applied in place with sjson so that
// unrelated keys are never reordered. Only the PSR-4 autoload sections are ever
// modified, and the file is rewritten only when an edit actually changes it.
package composer

// SPDX-License-Identifier: MPL-2.0

// Package types defines small value types shared by the command layer and the
// domain packages. It imports only the standard library.
package types

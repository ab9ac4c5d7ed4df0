// SPDX-License-Identifier: MPL-2.0

// Package scaffold generates module skeletons and request handler,
// middleware and factory classes for a composer based middleware application.
//
// Class files are placed with the PSR-4 rules of composer.json, written with
// the classfile emitter (never overwriting) and, for factories, registered in
// a tool-owned dependency configuration file.
package scaffold

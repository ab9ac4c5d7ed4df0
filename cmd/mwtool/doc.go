// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the mwtool cobra command tree. Handlers receive an
// App and delegate to the domain packages under pkg/.
package cmd

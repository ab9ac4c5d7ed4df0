// SPDX-License-Identifier: MPL-2.0

// Package module registers and deregisters application modules.
//
// Registering a module maps `<Module>\` to its source directory in
// composer.json, regenerates the autoloader when that mapping changed, and
// adds `<Module>\ConfigProvider` to the ConfigAggregator in config/config.php.
// Deregistering undoes both edits. Each step is a no-op when the project is
// already in the desired state.
package module

// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"path/filepath"
	"testing"
)

// SkeletonManifest is the composer.json of NewProject.
const SkeletonManifest = `{
    "name": "acme/app",
    "require": {
        "php": "^8.1",
        "mezzio/mezzio": "^3.17"
    },
    "autoload": {
        "psr-4": {
            "App\\": "src/App/src/"
        }
    },
    "autoload-dev": {
        "psr-4": {
            "AppTest\\": "test/AppTest/"
        }
    }
}
`

// SkeletonConfig is the config/config.php of NewProject.
const SkeletonConfig = `<?php

declare(strict_types=1);

use Laminas\ConfigAggregator\ArrayProvider;
use Laminas\ConfigAggregator\ConfigAggregator;
use Laminas\ConfigAggregator\PhpFileProvider;

$cacheConfig = [
    'config_cache_path' => 'data/cache/config-cache.php',
];

$aggregator = new ConfigAggregator([
    \Mezzio\Helper\ConfigProvider::class,
    \Mezzio\ConfigProvider::class,
    \Mezzio\Router\ConfigProvider::class,
    // Default App module config
    App\ConfigProvider::class,
    new ArrayProvider($cacheConfig),
    new PhpFileProvider(realpath(__DIR__) . '/autoload/{{,*.}global,{,*.}local}.php'),
], $cacheConfig['config_cache_path']);

return $aggregator->getMergedConfig();
`

// NewProject lays out a skeleton application in a temporary directory: the
// App module in the recommended layout, composer.json and config/config.php.
// It returns the project root.
func NewProject(t testing.TB) string {
	t.Helper()
	root := t.TempDir()
	MustMkdirAll(t, filepath.Join(root, "src", "App", "src"), 0o755)
	MustMkdirAll(t, filepath.Join(root, "src", "App", "templates"), 0o755)
	MustWriteFile(t, filepath.Join(root, "composer.json"), []byte(SkeletonManifest))
	MustWriteFile(t, filepath.Join(root, "config", "config.php"), []byte(SkeletonConfig))
	return root
}

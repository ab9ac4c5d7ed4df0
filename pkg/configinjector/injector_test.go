// SPDX-License-Identifier: MPL-2.0

package configinjector

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const skeletonConfig = `<?php

declare(strict_types=1);

use Laminas\ConfigAggregator\ArrayProvider;
use Laminas\ConfigAggregator\ConfigAggregator;
use Laminas\ConfigAggregator\PhpFileProvider;
use Mezzio\Helper\ConfigProvider as HelperConfigProvider;

$cacheConfig = [
    'config_cache_path' => 'data/cache/config-cache.php',
];

$aggregator = new ConfigAggregator([
    \Mezzio\Router\FastRouteRouter\ConfigProvider::class,
    HelperConfigProvider::class,
    \Mezzio\ConfigProvider::class,
    // Include cache configuration
    new ArrayProvider($cacheConfig),

    // Default App module config
    App\ConfigProvider::class,

    // Load application config in a pre-defined order, "[" and "," in strings are ignored
    new PhpFileProvider(realpath(__DIR__) . '/autoload/{{,*.}global,{,*.}local}.php'),
], $cacheConfig['config_cache_path']);

return $aggregator->getMergedConfig();
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "config")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, "config.php")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestInject_SpellingVariants(t *testing.T) {
	t.Parallel()

	type syntax struct{ open, close string }
	syntaxes := map[string]syntax{
		"short": {"[", "]"},
		"long":  {"array(", ")"},
	}
	constructors := map[string]string{
		"global":           `\Laminas\ConfigAggregator\ConfigAggregator`,
		"qualified":        `Laminas\ConfigAggregator\ConfigAggregator`,
		"imported":         `ConfigAggregator`,
		"global-legacy":    `\Zend\ConfigAggregator\ConfigAggregator`,
		"qualified-legacy": `Zend\ConfigAggregator\ConfigAggregator`,
	}

	for ctorName, ctor := range constructors {
		for syntaxName, s := range syntaxes {
			t.Run(ctorName+"/"+syntaxName, func(t *testing.T) {
				t.Parallel()

				src := fmt.Sprintf("<?php\n$aggregator = new %s(%s\n    \\App\\ConfigProvider::class,\n%s);\n", ctor, s.open, s.close)
				want := fmt.Sprintf("<?php\n$aggregator = new %s(%s\n    \\Blog\\ConfigProvider::class,\n    \\App\\ConfigProvider::class,\n%s);\n", ctor, s.open, s.close)

				out, changed, err := Inject([]byte(src), `Blog\ConfigProvider`, DefaultIndent)
				require.NoError(t, err)
				assert.True(t, changed)
				assert.Equal(t, want, string(out))

				site := Locate([]byte(src))
				require.NotNil(t, site)
				assert.Equal(t, ctorName+"/"+syntaxName, site.Pattern.Name())
			})
		}
	}
}

func TestInject_IndentationPreserved(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "four spaces short array",
			src:  "new ConfigAggregator([\n    A::class,\n]);",
			want: "new ConfigAggregator([\n    \\Blog\\ConfigProvider::class,\n    A::class,\n]);",
		},
		{
			name: "four spaces long array",
			src:  "new ConfigAggregator(array(\n    A::class,\n));",
			want: "new ConfigAggregator(array(\n    \\Blog\\ConfigProvider::class,\n    A::class,\n));",
		},
		{
			name: "tabs",
			src:  "new ConfigAggregator([\n\t\tA::class,\n]);",
			want: "new ConfigAggregator([\n\t\t\\Blog\\ConfigProvider::class,\n\t\tA::class,\n]);",
		},
		{
			name: "whitespace before opener",
			src:  "new ConfigAggregator( array (\n  A::class,\n));",
			want: "new ConfigAggregator( array (\n  \\Blog\\ConfigProvider::class,\n  A::class,\n));",
		},
		{
			name: "comment above first element",
			src:  "new ConfigAggregator([\n    // vendor\n    A::class,\n]);",
			want: "new ConfigAggregator([\n    \\Blog\\ConfigProvider::class,\n    // vendor\n    A::class,\n]);",
		},
		{
			name: "empty multi-line list",
			src:  "new ConfigAggregator([\n]);",
			want: "new ConfigAggregator([\n    \\Blog\\ConfigProvider::class,\n]);",
		},
		{
			name: "empty inline list",
			src:  "new ConfigAggregator([]);",
			want: "new ConfigAggregator([\n    \\Blog\\ConfigProvider::class,\n]);",
		},
		{
			name: "inline list",
			src:  "new ConfigAggregator([A::class, B::class]);",
			want: "new ConfigAggregator([\n    \\Blog\\ConfigProvider::class,\nA::class, B::class]);",
		},
		{
			name: "first element on the opener line",
			src:  "new ConfigAggregator([App\\ConfigProvider::class,\n    B::class,\n]);",
			want: "new ConfigAggregator([\n    \\Blog\\ConfigProvider::class,\nApp\\ConfigProvider::class,\n    B::class,\n]);",
		},
		{
			name: "windows line endings",
			src:  "new ConfigAggregator([\r\n    A::class,\r\n]);",
			want: "new ConfigAggregator([\r\n    \\Blog\\ConfigProvider::class,\r\n    A::class,\r\n]);",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			out, changed, err := Inject([]byte(tt.src), `\Blog\ConfigProvider`, DefaultIndent)
			require.NoError(t, err)
			assert.True(t, changed)
			assert.Equal(t, tt.want, string(out))
		})
	}
}

func TestInject_SkeletonConfig(t *testing.T) {
	t.Parallel()

	out, changed, err := Inject([]byte(skeletonConfig), `Blog\ConfigProvider`, DefaultIndent)
	require.NoError(t, err)
	require.True(t, changed)

	want := strings.Replace(skeletonConfig,
		"new ConfigAggregator([\n",
		"new ConfigAggregator([\n    \\Blog\\ConfigProvider::class,\n", 1)
	assert.Equal(t, want, string(out))
}

func TestInject_OnlyFirstCallSite(t *testing.T) {
	t.Parallel()

	src := `<?php
$first = new ConfigAggregator([
    \App\ConfigProvider::class,
]);

$second = new \Laminas\ConfigAggregator\ConfigAggregator([
    \Other\ConfigProvider::class,
]);
`
	want := `<?php
$first = new ConfigAggregator([
    \Blog\ConfigProvider::class,
    \App\ConfigProvider::class,
]);

$second = new \Laminas\ConfigAggregator\ConfigAggregator([
    \Other\ConfigProvider::class,
]);
`
	out, changed, err := Inject([]byte(src), `Blog\ConfigProvider`, DefaultIndent)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, want, string(out))

	assert.False(t, IsRegistered([]byte(src), `Other\ConfigProvider`))

	out, changed, err = Inject([]byte(src), `Other\ConfigProvider`, DefaultIndent)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.True(t, strings.HasSuffix(string(out), "$second = new \\Laminas\\ConfigAggregator\\ConfigAggregator([\n    \\Other\\ConfigProvider::class,\n]);\n"))
	assert.Equal(t, 2, strings.Count(string(out), `\Other\ConfigProvider::class`))
}

func TestInject_IgnoresCommentedCallSites(t *testing.T) {
	t.Parallel()

	src := `<?php
// $old = new ConfigAggregator([\Old\ConfigProvider::class]);
/* $legacy = new ConfigAggregator([
    \Legacy\ConfigProvider::class,
]); */
$note = 'new ConfigAggregator([';
$aggregator = new ConfigAggregator([
    \App\ConfigProvider::class,
]);
`
	want := strings.Replace(src, "$aggregator = new ConfigAggregator([\n", "$aggregator = new ConfigAggregator([\n    \\Blog\\ConfigProvider::class,\n", 1)

	assert.False(t, IsRegistered([]byte(src), `Old\ConfigProvider`))
	assert.False(t, IsRegistered([]byte(src), `Legacy\ConfigProvider`))
	assert.True(t, IsRegistered([]byte(src), `App\ConfigProvider`))

	out, changed, err := Inject([]byte(src), `Blog\ConfigProvider`, DefaultIndent)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, want, string(out))

	_, changed = Remove([]byte(src), `Legacy\ConfigProvider`)
	assert.False(t, changed)
}

func TestInject_Idempotent(t *testing.T) {
	t.Parallel()

	first, changed, err := Inject([]byte(skeletonConfig), `Blog\ConfigProvider`, DefaultIndent)
	require.NoError(t, err)
	require.True(t, changed)

	second, changed, err := Inject(first, `\Blog\ConfigProvider`, DefaultIndent)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, string(first), string(second))
}

func TestInject_AggregatorNotFound(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"no aggregator":    "<?php\nreturn ['dependencies' => []];\n",
		"unclosed list":    "<?php\nnew ConfigAggregator([\n    A::class,\n",
		"other class":      "<?php\nnew ConfigAggregatorFactory([\n]);\n",
		"dynamic provider": "<?php\nnew ConfigAggregator($providers);\n",
	}

	for name, src := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, _, err := Inject([]byte(src), `Blog\ConfigProvider`, DefaultIndent)
			require.ErrorIs(t, err, ErrAggregatorNotFound)
		})
	}
}

func TestIsRegistered(t *testing.T) {
	t.Parallel()

	tests := []struct {
		provider string
		want     bool
	}{
		{`Mezzio\ConfigProvider`, true},
		{`\Mezzio\ConfigProvider`, true},
		{`mezzio\configprovider`, true},
		{`App\ConfigProvider`, true},
		{`Mezzio\Helper\ConfigProvider`, true},
		{`Mezzio\Router\FastRouteRouter\ConfigProvider`, true},
		{`HelperConfigProvider`, false},
		{`Laminas\ConfigAggregator\ArrayProvider`, false},
		{`Blog\ConfigProvider`, false},
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, IsRegistered([]byte(skeletonConfig), tt.provider))
		})
	}
}

func TestIsRegistered_GroupedImports(t *testing.T) {
	t.Parallel()

	src := `<?php
use Laminas\ConfigAggregator\ConfigAggregator;
use Acme\{Blog\ConfigProvider as BlogProvider, Shop};

return (new ConfigAggregator([
    BlogProvider::class,
    Shop\ConfigProvider::class,
]))->getMergedConfig();
`
	assert.True(t, IsRegistered([]byte(src), `Acme\Blog\ConfigProvider`))
	assert.True(t, IsRegistered([]byte(src), `Acme\Shop\ConfigProvider`))
	assert.False(t, IsRegistered([]byte(src), `Shop\ConfigProvider`))
}

func TestRemove(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		provider string
		remove   string
	}{
		{"global reference", `Mezzio\ConfigProvider`, "    \\Mezzio\\ConfigProvider::class,\n"},
		{"qualified reference", `\App\ConfigProvider`, "    App\\ConfigProvider::class,\n"},
		{"imported alias", `Mezzio\Helper\ConfigProvider`, "    HelperConfigProvider::class,\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			out, changed := Remove([]byte(skeletonConfig), tt.provider)
			require.True(t, changed)
			assert.Equal(t, strings.Replace(skeletonConfig, tt.remove, "", 1), string(out))
		})
	}
}

func TestRemove_NoOp(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		src      string
		provider string
	}{
		"absent provider":     {skeletonConfig, `Blog\ConfigProvider`},
		"wrapped expression":  {skeletonConfig, `Laminas\ConfigAggregator\ArrayProvider`},
		"no call site":        {"<?php\nreturn [\\Blog\\ConfigProvider::class];\n", `Blog\ConfigProvider`},
		"only in second call": {"<?php\nnew ConfigAggregator([\n]);\nnew ConfigAggregator([\n    \\Blog\\ConfigProvider::class,\n]);\n", `Blog\ConfigProvider`},
		"empty provider":      {skeletonConfig, ``},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			out, changed := Remove([]byte(tt.src), tt.provider)
			assert.False(t, changed)
			assert.Equal(t, tt.src, string(out))
		})
	}
}

func TestRemove_Inline(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want string
	}{
		{"first", "new ConfigAggregator([A::class, B::class]);", "new ConfigAggregator([B::class]);"},
		{"last", "new ConfigAggregator([A::class, B::class]);", "new ConfigAggregator([A::class]);"},
		{"closer on same line", "new ConfigAggregator([\n    A::class,\n    B::class]);", "new ConfigAggregator([\n    A::class]);"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			provider := "A"
			if tt.name != "first" {
				provider = "B"
			}
			out, changed := Remove([]byte(tt.src), provider)
			require.True(t, changed)
			assert.Equal(t, tt.want, string(out))
		})
	}
}

func TestInjectRemoveRoundTrip(t *testing.T) {
	t.Parallel()

	injected, changed, err := Inject([]byte(skeletonConfig), `Blog\ConfigProvider`, DefaultIndent)
	require.NoError(t, err)
	require.True(t, changed)

	removed, changed := Remove(injected, `Blog\ConfigProvider`)
	require.True(t, changed)
	assert.Equal(t, skeletonConfig, string(removed))
}

func TestInjector_File(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, skeletonConfig)
	inj := New(path)

	registered, err := inj.IsRegistered(`Blog\ConfigProvider`)
	require.NoError(t, err)
	assert.False(t, registered)

	changed, err := inj.Inject(`Blog\ConfigProvider`, KindConfigProvider)
	require.NoError(t, err)
	assert.True(t, changed)

	registered, err = inj.IsRegistered(`Blog\ConfigProvider`)
	require.NoError(t, err)
	assert.True(t, registered)

	changed, err = inj.Inject(`Blog\ConfigProvider`, KindConfigProvider)
	require.NoError(t, err)
	assert.False(t, changed)

	changed, err = inj.Remove(`Blog\ConfigProvider`)
	require.NoError(t, err)
	assert.True(t, changed)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, skeletonConfig, string(data))
}

func TestInjector_WithIndent(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "<?php\nnew ConfigAggregator([]);\n")
	changed, err := New(path, WithIndent("\t")).Inject(`Blog\ConfigProvider`, KindConfigProvider)
	require.NoError(t, err)
	require.True(t, changed)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "<?php\nnew ConfigAggregator([\n\t\\Blog\\ConfigProvider::class,\n]);\n", string(data))
}

func TestInjector_Errors(t *testing.T) {
	t.Parallel()

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		_, err := New(filepath.Join(t.TempDir(), "config.php")).Inject(`Blog\ConfigProvider`, KindConfigProvider)
		require.ErrorIs(t, err, ErrConfigFileMissing)
	})

	t.Run("unsupported kind", func(t *testing.T) {
		t.Parallel()
		_, err := New(writeConfig(t, skeletonConfig)).Inject(`Blog\ConfigProvider`, Kind("module"))
		require.ErrorIs(t, err, ErrUnsupportedKind)
	})

	t.Run("aggregator not found", func(t *testing.T) {
		t.Parallel()
		path := writeConfig(t, "<?php\nreturn [];\n")
		_, err := New(path).Inject(`Blog\ConfigProvider`, KindConfigProvider)
		require.ErrorIs(t, err, ErrAggregatorNotFound)

		var ferr *FileError
		require.ErrorAs(t, err, &ferr)
		assert.Equal(t, path, ferr.Path)
	})

	t.Run("read-only file", func(t *testing.T) {
		t.Parallel()
		if runtime.GOOS == "windows" || os.Geteuid() == 0 {
			t.Skip("file permissions are not enforced")
		}
		path := writeConfig(t, skeletonConfig)
		require.NoError(t, os.Chmod(path, 0o444))

		_, err := New(path).Inject(`Blog\ConfigProvider`, KindConfigProvider)
		require.ErrorIs(t, err, ErrConfigFileNotWritable)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, skeletonConfig, string(data))
	})

	t.Run("read-only file is fine when nothing changes", func(t *testing.T) {
		t.Parallel()
		if runtime.GOOS == "windows" || os.Geteuid() == 0 {
			t.Skip("file permissions are not enforced")
		}
		path := writeConfig(t, skeletonConfig)
		require.NoError(t, os.Chmod(path, 0o444))

		changed, err := New(path).Remove(`Blog\ConfigProvider`)
		require.NoError(t, err)
		assert.False(t, changed)
	})
}

// SPDX-License-Identifier: MPL-2.0

package scaffold

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwtool/mwtool/internal/validate"
)

func TestCreateModule_Recommended(t *testing.T) {
	t.Parallel()

	modules := t.TempDir()
	meta, err := CreateModule(CreateModuleOptions{Name: "BlogAdmin", ModulesPath: modules})
	require.NoError(t, err)

	root := filepath.Join(modules, "BlogAdmin")
	assert.Equal(t, "BlogAdmin", meta.Name)
	assert.Equal(t, root, meta.RootDir)
	assert.Equal(t, filepath.Join(root, "src"), meta.SourceDir)
	assert.Equal(t, []string{
		root,
		filepath.Join(root, "src"),
		filepath.Join(root, "templates"),
		filepath.Join(root, "src", "ConfigProvider.php"),
	}, meta.Files)

	assert.DirExists(t, filepath.Join(root, "templates"))
	data, err := os.ReadFile(filepath.Join(root, "src", "ConfigProvider.php"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "namespace BlogAdmin;\n")
	assert.Contains(t, string(data), "'blog-admin' => [__DIR__ . '/../templates/'],")
	assert.NotContains(t, string(data), "%")
}

func TestCreateModule_Flat(t *testing.T) {
	t.Parallel()

	modules := t.TempDir()
	meta, err := CreateModule(CreateModuleOptions{Name: `Acme\Blog`, ModulesPath: modules, Layout: LayoutFlat})
	require.NoError(t, err)

	root := filepath.Join(modules, "Acme", "Blog")
	assert.Equal(t, `Acme\Blog`, meta.Name)
	assert.Equal(t, root, meta.SourceDir)
	assert.NoDirExists(t, filepath.Join(root, "src"))
	assert.NoDirExists(t, filepath.Join(root, "templates"))

	data, err := os.ReadFile(filepath.Join(root, "ConfigProvider.php"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "namespace Acme\\Blog;\n")
	assert.Contains(t, string(data), "'blog' => [__DIR__ . '/templates/'],")
}

func TestCreateModule_Errors(t *testing.T) {
	t.Parallel()

	modules := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(modules, "Blog"), 0o755))

	_, err := CreateModule(CreateModuleOptions{Name: "Blog", ModulesPath: modules})
	require.ErrorIs(t, err, ErrModuleExists)
	entries, err := os.ReadDir(filepath.Join(modules, "Blog"))
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = CreateModule(CreateModuleOptions{Name: "Not-A-Namespace", ModulesPath: modules})
	require.ErrorIs(t, err, validate.ErrInvalidOptions)

	_, err = CreateModule(CreateModuleOptions{Name: "Shop", ModulesPath: modules, Layout: "nested"})
	require.ErrorIs(t, err, validate.ErrInvalidOptions)
	assert.NoDirExists(t, filepath.Join(modules, "Shop"))
}

func TestParseLayout(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]Layout{"": LayoutRecommended, "Recommended": LayoutRecommended, " flat ": LayoutFlat} {
		got, err := ParseLayout(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLayout("nested")
	require.Error(t, err)
}

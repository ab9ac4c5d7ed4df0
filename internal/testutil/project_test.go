// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewProject(t *testing.T) {
	t.Parallel()

	root := NewProject(t)

	for _, dir := range []string{"src/App/src", "src/App/templates"} {
		info, err := os.Stat(filepath.Join(root, filepath.FromSlash(dir)))
		if err != nil || !info.IsDir() {
			t.Errorf("expected directory %s, err = %v", dir, err)
		}
	}

	if got := MustReadFile(t, filepath.Join(root, "composer.json")); got != SkeletonManifest {
		t.Errorf("composer.json = %q", got)
	}
	if got := MustReadFile(t, filepath.Join(root, "config", "config.php")); !strings.Contains(got, "new ConfigAggregator([") {
		t.Errorf("config.php does not construct the aggregator: %q", got)
	}
}

func TestMustWriteFile_CreatesParents(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "a", "b", "c.txt")
	MustWriteFile(t, path, []byte("hello"))

	if got := MustReadFile(t, path); got != "hello" {
		t.Errorf("MustReadFile() = %q, want %q", got, "hello")
	}
}

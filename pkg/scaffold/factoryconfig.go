// SPDX-License-Identifier: MPL-2.0

package scaffold

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/mwtool/mwtool/internal/fsutil"
	"github.com/mwtool/mwtool/pkg/classfile"
)

// DefaultFactoriesFile is the generated dependency configuration that
// records factories created by the tool, relative to the project root.
const DefaultFactoriesFile = "config/autoload/mezzio-tooling-factories.global.php"

var factoryEntryPattern = regexp.MustCompile(`(?m)^[ \t]*'?(\\?[A-Za-z_\x{80}-\x{10FFFF}][\w\x{80}-\x{10FFFF}\\]*)(?:::class|')\s*=>\s*'?(\\?[A-Za-z_\x{80}-\x{10FFFF}][\w\x{80}-\x{10FFFF}\\]*)(?:::class|')\s*,?`)

// FactoryConfig is the tool-owned factories file. It is always rewritten
// whole; entries already in the file are read back first.
type FactoryConfig struct {
	path    string
	entries map[string]string
}

// OpenFactoryConfig reads the factories file at path. A missing file holds
// no entries.
func OpenFactoryConfig(path string) (*FactoryConfig, error) {
	cfg := &FactoryConfig{path: path, entries: make(map[string]string)}
	src, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	for _, m := range factoryEntryPattern.FindAllSubmatch(src, -1) {
		cfg.entries[trimClass(string(m[1]))] = trimClass(string(m[2]))
	}
	return cfg, nil
}

// Path returns the file location.
func (c *FactoryConfig) Path() string { return c.path }

// Factory returns the factory registered for class.
func (c *FactoryConfig) Factory(class string) (string, bool) {
	f, ok := c.entries[trimClass(class)]
	return f, ok
}

// Add registers factory for class and rewrites the file. It reports false
// and leaves the file untouched when the same mapping is already present.
func (c *FactoryConfig) Add(class, factory string) (bool, error) {
	class, factory = trimClass(class), trimClass(factory)
	if current, ok := c.entries[class]; ok && current == factory {
		return false, nil
	}
	c.entries[class] = factory

	if err := os.MkdirAll(filepath.Dir(c.path), dirPerm); err != nil {
		return false, fmt.Errorf("failed to create %s: %w", filepath.Dir(c.path), err)
	}
	if err := fsutil.AtomicWriteFile(c.path, []byte(c.Render())); err != nil {
		return false, err
	}
	return true, nil
}

// Render returns the file content, entries sorted by class name.
func (c *FactoryConfig) Render() string {
	classes := make([]string, 0, len(c.entries))
	for class := range c.entries {
		classes = append(classes, class)
	}
	sort.Strings(classes)

	var b strings.Builder
	for _, class := range classes {
		fmt.Fprintf(&b, "%s\\%s::class => \\%s::class,\n", argumentIndent, class, c.entries[class])
	}
	return classfile.Substitutions{}.Add(PlaceholderEntries, b.String()).Apply(factoryConfigTemplate)
}

func trimClass(s string) string {
	return strings.TrimLeft(strings.TrimSpace(s), `\`)
}

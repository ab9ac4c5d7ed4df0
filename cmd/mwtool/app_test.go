// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwtool/mwtool/internal/config"
	"github.com/mwtool/mwtool/internal/process/processtest"
	"github.com/mwtool/mwtool/internal/testutil"
	"github.com/mwtool/mwtool/pkg/composer"
	"github.com/mwtool/mwtool/pkg/configinjector"
	"github.com/mwtool/mwtool/pkg/scaffold"
	"github.com/mwtool/mwtool/pkg/types"
)

// staticConfig is a ConfigProvider that ignores files and the environment.
type staticConfig struct {
	cfg *config.Config
	err error
}

func (s staticConfig) Load(context.Context, config.LoadOptions) (*config.Config, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.cfg, nil
}

type cliResult struct {
	stdout string
	stderr string
	err    error
}

// runCLI runs mwtool against the project at root. Nil dependencies get
// hermetic test defaults.
func runCLI(t *testing.T, root string, deps Dependencies, args ...string) cliResult {
	t.Helper()

	var stdout, stderr bytes.Buffer
	deps.Stdout, deps.Stderr = &stdout, &stderr
	if deps.Config == nil {
		deps.Config = staticConfig{cfg: config.DefaultConfig()}
	}
	if deps.Runner == nil {
		deps.Runner = processtest.NewSuccessful()
	}
	if deps.Renderer == nil {
		deps.Renderer = scaffold.StaticRenderer(scaffold.RendererNone)
	}

	app, err := NewApp(deps)
	require.NoError(t, err)

	rootCmd := NewRootCommand(app)
	rootCmd.SetArgs(append([]string{"--project-dir", root}, args...))
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	err = rootCmd.ExecuteContext(context.Background())

	return cliResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func requireExitFailure(t *testing.T, res cliResult) {
	t.Helper()
	var exitErr *ExitError
	require.ErrorAs(t, res.err, &exitErr)
	assert.Equal(t, types.ExitFailure, exitErr.Code)
	assert.Contains(t, res.stderr, "Error:")
}

func autoloadPath(t *testing.T, root, ns string) (composer.AutoloadPath, bool) {
	t.Helper()
	m, err := composer.Open(filepath.Join(root, composer.FileName))
	require.NoError(t, err)
	autoload, err := m.Autoload(false)
	require.NoError(t, err)
	rule, ok := autoload.Lookup(composer.Namespace(ns))
	return rule.FirstPath(), ok
}

func providerRegistered(t *testing.T, root, provider string) bool {
	t.Helper()
	ok, err := configinjector.New(filepath.Join(root, "config", "config.php")).IsRegistered(provider)
	require.NoError(t, err)
	return ok
}

func TestNewApp_Defaults(t *testing.T) {
	t.Parallel()

	app, err := NewApp(Dependencies{})
	require.NoError(t, err)
	assert.NotNil(t, app.Config)
	assert.Equal(t, os.Stdout, app.stdout)
	assert.Equal(t, os.Stderr, app.stderr)
	assert.Nil(t, app.Runner, "the runner is bound to the project directory later")
}

func TestApp_ConfigLoadFailureFallsBackToDefaults(t *testing.T) {
	t.Parallel()

	root := testutil.NewProject(t)
	testutil.MustMkdirAll(t, filepath.Join(root, "src", "Blog", "src"), 0o755)

	res := runCLI(t, root, Dependencies{Config: staticConfig{err: errors.New("broken config")}},
		"module", "register", "Blog")
	require.NoError(t, res.err)
	assert.Contains(t, res.stderr, "Warning:")
	assert.Contains(t, res.stderr, "broken config")
	assert.True(t, providerRegistered(t, root, `Blog\ConfigProvider`))
}

func TestApp_FlagsOverrideConfig(t *testing.T) {
	t.Parallel()

	root := testutil.NewProject(t)
	testutil.MustMkdirAll(t, filepath.Join(root, "modules", "Blog"), 0o755)
	cfg := config.DefaultConfig()
	cfg.Composer = "/opt/composer"
	runner := processtest.NewSuccessful()

	res := runCLI(t, root, Dependencies{Config: staticConfig{cfg: cfg}, Runner: runner},
		"module", "register", "Blog", "--composer", "php composer.phar", "--modules-path", "modules")
	require.NoError(t, res.err)
	assert.True(t, runner.Called("php", "composer.phar", "dump-autoload"))

	path, ok := autoloadPath(t, root, `Blog\`)
	require.True(t, ok)
	assert.Equal(t, composer.AutoloadPath("modules/Blog/"), path)
}

func TestApp_ConfigUsedWithoutFlags(t *testing.T) {
	t.Parallel()

	root := testutil.NewProject(t)
	testutil.MustMkdirAll(t, filepath.Join(root, "src", "Blog", "src"), 0o755)
	cfg := config.DefaultConfig()
	cfg.Composer = "/opt/composer"
	runner := processtest.NewSuccessful()

	res := runCLI(t, root, Dependencies{Config: staticConfig{cfg: cfg}, Runner: runner}, "module", "register", "Blog")
	require.NoError(t, res.err)
	assert.True(t, runner.Called("/opt/composer", "dump-autoload"))
}

// SPDX-License-Identifier: MPL-2.0

package scaffold

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwtool/mwtool/pkg/composer"
)

func TestComposerRendererDetector(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		manifest string
		want     Renderer
	}{
		{"none", `{"require":{"mezzio/mezzio":"^3.0"}}`, RendererNone},
		{"twig", `{"require":{"mezzio/mezzio-twigrenderer":"^2.0"}}`, RendererTwig},
		{"plates in require-dev", `{"require-dev":{"mezzio/mezzio-platesrenderer":"^2.0"}}`, RendererPlates},
		{"laminas view", `{"require":{"mezzio/mezzio-laminasviewrenderer":"^2.0"}}`, RendererLaminasView},
		{"legacy zend view", `{"require":{"zendframework/zend-expressive-zendviewrenderer":"^2.0"}}`, RendererLaminasView},
		{"no require", `{"name":"acme/app"}`, RendererNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), composer.FileName)
			require.NoError(t, os.WriteFile(path, []byte(tt.manifest), 0o644))
			m, err := composer.Open(path)
			require.NoError(t, err)

			got, err := ComposerRendererDetector{Manifest: m}.Renderer()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRendererExtension(t *testing.T) {
	t.Parallel()

	assert.Equal(t, ".html.twig", RendererTwig.Extension())
	assert.Equal(t, ".phtml", RendererPlates.Extension())
	assert.Equal(t, ".phtml", RendererLaminasView.Extension())
	assert.Empty(t, RendererNone.Extension())

	got, err := StaticRenderer(RendererTwig).Renderer()
	require.NoError(t, err)
	assert.Equal(t, RendererTwig, got)
}

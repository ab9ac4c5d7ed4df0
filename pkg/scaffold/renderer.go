// SPDX-License-Identifier: MPL-2.0

package scaffold

import (
	"github.com/mwtool/mwtool/pkg/composer"
)

const (
	// RendererNone means no template renderer is installed.
	RendererNone Renderer = ""
	// RendererTwig is mezzio-twigrenderer.
	RendererTwig Renderer = "twig"
	// RendererPlates is mezzio-platesrenderer.
	RendererPlates Renderer = "plates"
	// RendererLaminasView is mezzio-laminasviewrenderer.
	RendererLaminasView Renderer = "laminas-view"
)

type (
	// Renderer identifies an installed template renderer.
	Renderer string

	// RendererDetector reports which template renderer the application uses.
	RendererDetector interface {
		Renderer() (Renderer, error)
	}

	// ComposerRendererDetector detects the renderer from the packages required
	// in composer.json.
	ComposerRendererDetector struct {
		Manifest *composer.Manifest
	}

	// StaticRenderer always reports the same renderer.
	StaticRenderer Renderer
)

// rendererPackages lists the renderer bridge packages in detection order,
// including the pre-mezzio package names.
var rendererPackages = []struct {
	pkg      string
	renderer Renderer
}{
	{"mezzio/mezzio-twigrenderer", RendererTwig},
	{"mezzio/mezzio-platesrenderer", RendererPlates},
	{"mezzio/mezzio-laminasviewrenderer", RendererLaminasView},
	{"zendframework/zend-expressive-twigrenderer", RendererTwig},
	{"zendframework/zend-expressive-platesrenderer", RendererPlates},
	{"zendframework/zend-expressive-zendviewrenderer", RendererLaminasView},
}

// Extension returns the default template file extension of the renderer.
func (r Renderer) Extension() string {
	switch r {
	case RendererTwig:
		return ".html.twig"
	case RendererPlates, RendererLaminasView:
		return ".phtml"
	default:
		return ""
	}
}

// Renderer implements RendererDetector.
func (p ComposerRendererDetector) Renderer() (Renderer, error) {
	if p.Manifest == nil {
		return RendererNone, nil
	}
	doc := p.Manifest.Document()
	for _, candidate := range rendererPackages {
		if doc.Exists("require."+composer.Key(candidate.pkg)) || doc.Exists("require-dev."+composer.Key(candidate.pkg)) {
			return candidate.renderer, nil
		}
	}
	return RendererNone, nil
}

// Renderer implements RendererDetector.
func (p StaticRenderer) Renderer() (Renderer, error) {
	return Renderer(p), nil
}

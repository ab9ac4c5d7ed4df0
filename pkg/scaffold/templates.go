// SPDX-License-Identifier: MPL-2.0

package scaffold

import (
	"strings"

	"github.com/lithammer/dedent"
)

// Placeholders understood by the templates below.
const (
	PlaceholderNamespace         = "%namespace%"
	PlaceholderClass             = "%class%"
	PlaceholderFactory           = "%factory%"
	PlaceholderImports           = "%imports%"
	PlaceholderConstruct         = "%construct%"
	PlaceholderTemplateNamespace = "%template-namespace%"
	PlaceholderTemplateName      = "%template-name%"
	PlaceholderTemplatesPath     = "%templates-path%"
	// PlaceholderEntries stands for a whole line, so its newline is consumed too.
	PlaceholderEntries           = "%entries%\n"
)

func tmpl(s string) string {
	return strings.TrimPrefix(dedent.Dedent(s), "\n")
}

var configProviderTemplate = tmpl(`
	<?php

	declare(strict_types=1);

	namespace %namespace%;

	/**
	 * The configuration provider for the %namespace% module
	 *
	 * @see https://docs.laminas.dev/laminas-component-installer/
	 */
	class ConfigProvider
	{
	    /**
	     * Returns the configuration array
	     *
	     * To add a bit of a structure, each section is defined in a separate
	     * method which returns an array with its configuration.
	     */
	    public function __invoke(): array
	    {
	        return [
	            'dependencies' => $this->getDependencies(),
	            'templates'    => $this->getTemplates(),
	        ];
	    }

	    /**
	     * Returns the container dependencies
	     */
	    public function getDependencies(): array
	    {
	        return [
	            'invokables' => [
	            ],
	            'factories'  => [
	            ],
	        ];
	    }

	    /**
	     * Returns the templates configuration
	     */
	    public function getTemplates(): array
	    {
	        return [
	            'paths' => [
	                '%template-namespace%' => [__DIR__ . '%templates-path%'],
	            ],
	        ];
	    }
	}
`)

var handlerTemplate = tmpl(`
	<?php

	declare(strict_types=1);

	namespace %namespace%;

	use Psr\Http\Message\ResponseInterface;
	use Psr\Http\Message\ServerRequestInterface;
	use Psr\Http\Server\RequestHandlerInterface;

	class %class% implements RequestHandlerInterface
	{
	    public function handle(ServerRequestInterface $request): ResponseInterface
	    {
	        // Create and return a response
	    }
	}
`)

var renderingHandlerTemplate = tmpl(`
	<?php

	declare(strict_types=1);

	namespace %namespace%;

	use Laminas\Diactoros\Response\HtmlResponse;
	use Mezzio\Template\TemplateRendererInterface;
	use Psr\Http\Message\ResponseInterface;
	use Psr\Http\Message\ServerRequestInterface;
	use Psr\Http\Server\RequestHandlerInterface;

	class %class% implements RequestHandlerInterface
	{
	    /**
	     * @var TemplateRendererInterface
	     */
	    private $renderer;

	    public function __construct(TemplateRendererInterface $renderer)
	    {
	        $this->renderer = $renderer;
	    }

	    public function handle(ServerRequestInterface $request): ResponseInterface
	    {
	        // Do some work...
	        // Render and return a response:
	        return new HtmlResponse($this->renderer->render(
	            '%template-namespace%::%template-name%',
	            [] // parameters to pass to template
	        ));
	    }
	}
`)

var middlewareTemplate = tmpl(`
	<?php

	declare(strict_types=1);

	namespace %namespace%;

	use Psr\Http\Message\ResponseInterface;
	use Psr\Http\Message\ServerRequestInterface;
	use Psr\Http\Server\MiddlewareInterface;
	use Psr\Http\Server\RequestHandlerInterface;

	class %class% implements MiddlewareInterface
	{
	    public function process(ServerRequestInterface $request, RequestHandlerInterface $handler): ResponseInterface
	    {
	        // $response = $handler->handle($request);
	    }
	}
`)

var factoryTemplate = tmpl(`
	<?php

	declare(strict_types=1);

	namespace %namespace%;

	%imports%
	class %factory%
	{
	    public function __invoke(ContainerInterface $container): %class%
	    {
	        return %construct%;
	    }
	}
`)

var factoryConfigTemplate = tmpl(`
	<?php

	/**
	 * This file is generated by mwtool factory create.
	 *
	 * Factories added by the tool are kept sorted; entries edited by hand
	 * are read back on the next run.
	 */

	declare(strict_types=1);

	return [
	    'dependencies' => [
	        'factories' => [
	%entries%
	        ],
	    ],
	];
`)

// templateFileTemplates holds the initial content of view templates per renderer.
var templateFileTemplates = map[Renderer]string{
	RendererTwig: tmpl(`
		{% extends '@layout/default.html.twig' %}

		{% block title %}%class%{% endblock %}

		{% block content %}
		{% endblock %}
	`),
	RendererPlates:      "<?php $this->layout('layout::default', ['title' => '%class%']) ?>\n",
	RendererLaminasView: "<?php $this->headTitle('%class%'); ?>\n",
}

// SPDX-License-Identifier: MPL-2.0

package scaffold

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	lowerUpperBoundary = regexp.MustCompile(`([a-z0-9])([A-Z])`)
	acronymBoundary    = regexp.MustCompile(`([A-Z]+)([A-Z][a-z])`)
	lowerCaser         = cases.Lower(language.Und)

	templateNameSuffixes = []string{"Handler", "Action"}
)

// DashCase converts a PHP class or namespace segment to lower dash case:
// "ListBlogPosts" becomes "list-blog-posts" and "HTMLPage" becomes "html-page".
func DashCase(name string) string {
	s := acronymBoundary.ReplaceAllString(name, "${1}-${2}")
	s = lowerUpperBoundary.ReplaceAllString(s, "${1}-${2}")
	s = strings.ReplaceAll(s, "_", "-")
	return lowerCaser.String(s)
}

// TemplateName derives a template name from a handler class short name by
// dropping a Handler or Action suffix: "ListPostsHandler" becomes "list-posts".
func TemplateName(shortName string) string {
	base := shortName
	for _, suffix := range templateNameSuffixes {
		if trimmed := strings.TrimSuffix(base, suffix); trimmed != "" && trimmed != base {
			base = trimmed
			break
		}
	}
	return DashCase(base)
}

// TemplateNamespace derives the template namespace from a module or top-level
// namespace segment: "BlogAdmin" becomes "blog-admin".
func TemplateNamespace(segment string) string {
	return DashCase(segment)
}

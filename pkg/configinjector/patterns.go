// SPDX-License-Identifier: MPL-2.0

package configinjector

import (
	"regexp"
)

type (
	// ConstructorSpelling is one accepted way of naming the aggregator class
	// in a `new` expression.
	ConstructorSpelling struct {
		Name    string
		Pattern string
	}

	// ListSyntax is one accepted array literal opener.
	ListSyntax struct {
		Name    string
		Pattern string
		// Closer is the byte that ends the list.
		Closer byte
	}

	// CallSitePattern is a compiled combination of constructor spelling and list syntax.
	CallSitePattern struct {
		Constructor ConstructorSpelling
		List        ListSyntax
		re          *regexp.Regexp
	}
)

// ConstructorSpellings lists the recognized aggregator class references.
var ConstructorSpellings = []ConstructorSpelling{
	{Name: "global", Pattern: `\\Laminas\\ConfigAggregator\\ConfigAggregator`},
	{Name: "qualified", Pattern: `Laminas\\ConfigAggregator\\ConfigAggregator`},
	{Name: "global-legacy", Pattern: `\\Zend\\ConfigAggregator\\ConfigAggregator`},
	{Name: "qualified-legacy", Pattern: `Zend\\ConfigAggregator\\ConfigAggregator`},
	{Name: "imported", Pattern: `ConfigAggregator`},
}

// ListSyntaxes lists the recognized array literal openers.
var ListSyntaxes = []ListSyntax{
	{Name: "short", Pattern: `\[`, Closer: ']'},
	{Name: "long", Pattern: `array\s*\(`, Closer: ')'},
}

// CallSitePatterns is the full table, one entry per spelling and syntax pair.
// Each pattern matches from `new` up to and including the list opener.
var CallSitePatterns = buildCallSitePatterns()

func buildCallSitePatterns() []CallSitePattern {
	var out []CallSitePattern
	for _, ctor := range ConstructorSpellings {
		for _, list := range ListSyntaxes {
			out = append(out, CallSitePattern{
				Constructor: ctor,
				List:        list,
				re:          regexp.MustCompile(`(?i)\bnew\s+` + ctor.Pattern + `\s*\(\s*` + list.Pattern),
			})
		}
	}
	return out
}

// Name identifies the pattern, e.g. "imported/short".
func (p CallSitePattern) Name() string {
	return p.Constructor.Name + "/" + p.List.Name
}

// Match returns the byte range of the first match in src, or nil.
func (p CallSitePattern) Match(src []byte) []int {
	return p.re.FindIndex(src)
}

// providerRefPattern matches a bare `Name::class` element.
var providerRefPattern = regexp.MustCompile(`^(\\?[A-Za-z_\x{80}-\x{10FFFF}][\w\x{80}-\x{10FFFF}]*(?:\\[A-Za-z_\x{80}-\x{10FFFF}][\w\x{80}-\x{10FFFF}]*)*)\s*::\s*class$`)

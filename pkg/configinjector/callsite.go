// SPDX-License-Identifier: MPL-2.0

package configinjector

import (
	"bytes"

	"github.com/mwtool/mwtool/internal/phpsrc"
)

type (
	// CallSite is the first aggregator construction found in a config source.
	CallSite struct {
		Pattern CallSitePattern
		// Start is the offset of the `new` keyword.
		Start int
		// Open is the offset just past the list opener.
		Open int
		// Close is the offset of the list closer.
		Close int
		// Elements are the top-level list elements in source order.
		Elements []Element
	}

	// Element is one top-level list element.
	Element = phpsrc.Item
)

// Locate returns the earliest aggregator construction in src, or nil when
// none of the call-site patterns match or the list is never closed.
// Constructions inside comments and string literals are ignored.
func Locate(src []byte) *CallSite {
	var (
		best    CallSitePattern
		bestLoc []int
		code    = phpsrc.Mask(src)
	)
	for _, p := range CallSitePatterns {
		loc := p.Match(code)
		if loc == nil {
			continue
		}
		if bestLoc == nil || loc[0] < bestLoc[0] {
			best, bestLoc = p, loc
		}
	}
	if bestLoc == nil {
		return nil
	}

	closeAt, elements, ok := phpsrc.SplitList(src, bestLoc[1])
	if !ok {
		return nil
	}
	return &CallSite{
		Pattern:  best,
		Start:    bestLoc[0],
		Open:     bestLoc[1],
		Close:    closeAt,
		Elements: elements,
	}
}

// lineStart returns the offset of the first byte of the line holding i.
func lineStart(src []byte, i int) int {
	return bytes.LastIndexByte(src[:i], '\n') + 1
}

// indentOf returns the leading whitespace of the line holding i.
func indentOf(src []byte, i int) string {
	start := lineStart(src, i)
	end := start
	for end < len(src) && (src[end] == ' ' || src[end] == '\t') {
		end++
	}
	return string(src[start:end])
}

// lineEnding returns the newline sequence used by src.
func lineEnding(src []byte) string {
	if bytes.Contains(src, []byte("\r\n")) {
		return "\r\n"
	}
	return "\n"
}

// resolveReference turns the text of a list element into a class name when
// the element is a bare `Name::class` reference.
func resolveReference(text string, uses map[string]string) (string, bool) {
	m := providerRefPattern.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return phpsrc.ResolveName(m[1], uses, ""), true
}

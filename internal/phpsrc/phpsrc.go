// SPDX-License-Identifier: MPL-2.0

// Package phpsrc holds the narrow PHP source scanning shared by the config
// injector and the factory generator: splitting a bracketed list into its
// top-level items and resolving class names through `use` imports. It is not
// a PHP parser and only understands strings, comments and bracket nesting.
package phpsrc

import (
	"bytes"
	"regexp"
	"strings"
)

// Separator is the PHP namespace separator.
const Separator = `\`

// Item is one top-level list item. Start and End delimit the item text
// without surrounding whitespace or leading comments.
type Item struct {
	Start int
	End   int
	Text  string
}

var useStatementPattern = regexp.MustCompile(`(?m)^[ \t]*use\s+([^;{]+?)\s*(?:\{([^}]*)\}\s*)?;`)

// SplitList walks from just past a list opener to its closer, splitting
// top-level items on commas. String literals and comments are skipped so
// that brackets and commas inside them are ignored. ok is false when the
// list is never closed.
func SplitList(src []byte, open int) (closeAt int, items []Item, ok bool) {
	depth := 0
	itemStart := open
	for i := open; i < len(src); i++ {
		switch c := src[i]; {
		case c == '\'' || c == '"':
			i = skipString(src, i)
		case c == '#' && peek(src, i+1) != '[':
			i = skipLine(src, i)
		case c == '/' && peek(src, i+1) == '/':
			i = skipLine(src, i)
		case c == '/' && peek(src, i+1) == '*':
			i = skipBlockComment(src, i)
		case c == '(' || c == '[' || c == '{':
			depth++
		case c == ')' || c == ']' || c == '}':
			if depth == 0 {
				items = appendItem(items, src, itemStart, i)
				return i, items, true
			}
			depth--
		case c == ',' && depth == 0:
			items = appendItem(items, src, itemStart, i)
			itemStart = i + 1
		}
	}
	return 0, nil, false
}

// Mask returns a copy of src with comments and string literals blanked out.
// Line breaks are kept, so offsets into the copy are offsets into src.
func Mask(src []byte) []byte {
	out := bytes.Clone(src)
	for i := 0; i < len(src); i++ {
		end := -1
		switch c := src[i]; {
		case c == '\'' || c == '"':
			end = skipString(src, i)
		case c == '#' && peek(src, i+1) != '[', c == '/' && peek(src, i+1) == '/':
			end = skipLine(src, i)
		case c == '/' && peek(src, i+1) == '*':
			end = skipBlockComment(src, i)
		}
		if end < 0 {
			continue
		}
		for j := i; j <= end; j++ {
			if out[j] != '\n' && out[j] != '\r' {
				out[j] = ' '
			}
		}
		i = end
	}
	return out
}

func appendItem(items []Item, src []byte, from, to int) []Item {
	start := skipTrivia(src, from, to)
	end := to
	for end > start && IsSpace(src[end-1]) {
		end--
	}
	if start >= end {
		return items
	}
	return append(items, Item{Start: start, End: end, Text: string(src[start:end])})
}

// skipTrivia advances past whitespace and comments.
func skipTrivia(src []byte, from, to int) int {
	i := from
	for i < to {
		switch {
		case IsSpace(src[i]):
			i++
		case (src[i] == '#' && peek(src, i+1) != '[') || (src[i] == '/' && peek(src, i+1) == '/'):
			i = skipLine(src, i) + 1
		case src[i] == '/' && peek(src, i+1) == '*':
			i = skipBlockComment(src, i) + 1
		default:
			return i
		}
	}
	return to
}

// skipString returns the offset of the closing quote of the literal at i.
func skipString(src []byte, i int) int {
	quote := src[i]
	for j := i + 1; j < len(src); j++ {
		switch src[j] {
		case '\\':
			j++
		case quote:
			return j
		}
	}
	return len(src) - 1
}

// skipLine returns the offset of the last byte before the next newline.
func skipLine(src []byte, i int) int {
	if nl := bytes.IndexByte(src[i:], '\n'); nl >= 0 {
		return i + nl - 1
	}
	return len(src) - 1
}

// skipBlockComment returns the offset of the closing slash of the comment at i.
func skipBlockComment(src []byte, i int) int {
	if end := bytes.Index(src[i+2:], []byte("*/")); end >= 0 {
		return i + 2 + end + 1
	}
	return len(src) - 1
}

func peek(src []byte, i int) byte {
	if i < len(src) {
		return src[i]
	}
	return 0
}

// IsSpace reports whether c is PHP whitespace.
func IsSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}

// Imports maps the short names introduced by class `use` statements to the
// imported class names (without a leading separator). Keys are lower-cased
// since PHP class names are case-insensitive.
func Imports(src []byte) map[string]string {
	out := make(map[string]string)
	for _, m := range useStatementPattern.FindAllSubmatch(src, -1) {
		head := strings.TrimSpace(string(m[1]))
		if strings.HasPrefix(head, "function ") || strings.HasPrefix(head, "const ") {
			continue
		}
		if len(m[2]) > 0 {
			prefix := strings.TrimLeft(head, Separator)
			for _, clause := range strings.Split(string(m[2]), ",") {
				addImport(out, prefix+strings.TrimSpace(clause))
			}
			continue
		}
		for _, clause := range strings.Split(head, ",") {
			addImport(out, strings.TrimSpace(clause))
		}
	}
	return out
}

func addImport(out map[string]string, clause string) {
	if clause == "" || strings.HasSuffix(clause, Separator) {
		return
	}
	name, alias := clause, ""
	if fields := strings.Fields(clause); len(fields) == 3 && strings.EqualFold(fields[1], "as") {
		name, alias = fields[0], fields[2]
	}
	name = strings.TrimLeft(name, Separator)
	if alias == "" {
		alias = name[strings.LastIndex(name, Separator)+1:]
	}
	out[strings.ToLower(alias)] = name
}

// ResolveName turns a class reference as written in source into a fully
// qualified name. A leading separator means the name is already global;
// otherwise the first segment is looked up in imports, and failing that the
// name is relative to currentNamespace (empty for the global namespace).
func ResolveName(ref string, imports map[string]string, currentNamespace string) string {
	if strings.HasPrefix(ref, Separator) {
		return ref[1:]
	}
	first, rest, qualified := strings.Cut(ref, Separator)
	if imported, ok := imports[strings.ToLower(first)]; ok {
		if qualified {
			return imported + Separator + rest
		}
		return imported
	}
	if currentNamespace == "" {
		return ref
	}
	return strings.Trim(currentNamespace, Separator) + Separator + ref
}

var namespacePattern = regexp.MustCompile(`(?m)^[ \t]*namespace\s+([A-Za-z_\x{80}-\x{10FFFF}][\w\x{80}-\x{10FFFF}\\]*)\s*[;{]`)

// Namespace returns the first namespace declared in src, or "".
func Namespace(src []byte) string {
	if m := namespacePattern.FindSubmatch(src); m != nil {
		return string(m[1])
	}
	return ""
}

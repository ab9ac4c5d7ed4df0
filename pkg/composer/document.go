// SPDX-License-Identifier: MPL-2.0

package composer

import (
	"github.com/tidwall/gjson"
)

// Document gives read-only, typed access to arbitrary manifest paths.
// Paths use gjson syntax; keys containing dots or wildcards must be escaped
// with Key.
type Document struct {
	raw []byte
}

// Key escapes a single object key for use inside a Document path.
func Key(k string) string {
	return gjson.Escape(k)
}

// Exists reports whether the path is present.
func (d Document) Exists(path string) bool {
	return gjson.GetBytes(d.raw, path).Exists()
}

// String returns the string value at path, or "" when absent or not a string.
func (d Document) String(path string) string {
	r := gjson.GetBytes(d.raw, path)
	if r.Type != gjson.String {
		return ""
	}
	return r.Str
}

// Keys returns the object keys at path in document order. An empty path
// addresses the top-level object.
func (d Document) Keys(path string) []string {
	r := gjson.ParseBytes(d.raw)
	if path != "" {
		r = gjson.GetBytes(d.raw, path)
	}
	if !r.IsObject() {
		return nil
	}
	var keys []string
	r.ForEach(func(key, _ gjson.Result) bool {
		keys = append(keys, key.String())
		return true
	})
	return keys
}

// Raw returns the document bytes as they are on disk.
func (d Document) Raw() []byte {
	return d.raw
}

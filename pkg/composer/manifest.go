// SPDX-License-Identifier: MPL-2.0

package composer

import (
	"bytes"
	"encoding/json"
	"errors"
	"io/fs"
	"os"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/mwtool/mwtool/internal/fsutil"
)

const (
	// FileName is the conventional manifest file name at the project root.
	FileName = "composer.json"

	autoloadSection    = "autoload"
	autoloadDevSection = "autoload-dev"
	psr4Key            = "psr-4"
)

// prettyOptions matches the layout composer itself writes.
var prettyOptions = &pretty.Options{Indent: "    ", Width: 0}

// Manifest is an in-memory view of composer.json that writes itself back
// whenever an edit changes it.
type Manifest struct {
	path   string
	raw    []byte
	exists bool
}

// Open reads the manifest at path. A missing file is not an error: the
// manifest starts out as an empty object and is created on the first change.
func Open(path string) (*Manifest, error) {
	m := &Manifest{path: path}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		m.raw = []byte("{}")
		return m, nil
	case err != nil:
		return nil, &ManifestError{Path: path, Kind: ErrFileAccess, Cause: err}
	}

	if !gjson.ValidBytes(data) || !gjson.ParseBytes(data).IsObject() {
		return nil, &ManifestError{Path: path, Kind: ErrManifestMalformed}
	}
	m.raw = data
	m.exists = true
	return m, nil
}

// Path returns the manifest location on disk.
func (m *Manifest) Path() string { return m.path }

// Exists reports whether the manifest file was present when opened or has been written since.
func (m *Manifest) Exists() bool { return m.exists }

// Document returns read access to the whole manifest.
func (m *Manifest) Document() Document { return Document{raw: m.raw} }

// Autoload returns the ordered psr-4 map of the production (dev=false) or
// development (dev=true) autoload section.
func (m *Manifest) Autoload(dev bool) (AutoloadMap, error) {
	if !m.exists {
		return nil, &ManifestError{Path: m.path, Kind: ErrManifestMissing}
	}

	section := gjson.GetBytes(m.raw, sectionPath(dev))
	if isEmptyArray(section) {
		return AutoloadMap{}, nil
	}
	if !section.IsObject() {
		return nil, &ManifestError{Path: m.path, Kind: ErrAutoloadMissing}
	}

	var out AutoloadMap
	section.ForEach(func(key, value gjson.Result) bool {
		ns, err := NormalizeNamespace(key.String())
		if err != nil {
			// An empty prefix is a composer fallback directory; it never owns a class here.
			return true
		}
		rule := AutoloadRule{Namespace: ns}
		switch {
		case value.IsArray():
			for _, p := range value.Array() {
				rule.Paths = append(rule.Paths, NormalizePath(p.String()))
			}
		default:
			rule.Paths = []AutoloadPath{NormalizePath(value.String())}
		}
		out = append(out, rule)
		return true
	})
	return out, nil
}

// AddRule maps namespace to path in the selected autoload section. It returns
// false without touching the file when the mapping is already in place.
func (m *Manifest) AddRule(namespace, path string, dev bool) (bool, error) {
	ns, err := NormalizeNamespace(namespace)
	if err != nil {
		return false, err
	}
	p := NormalizePath(path)
	key := rulePath(dev, ns)

	if hasPath(gjson.GetBytes(m.raw, key), p) {
		return false, nil
	}

	value, err := encodeString(string(p))
	if err != nil {
		return false, err
	}
	updated, err := objectifySections(m.raw, dev)
	if err != nil {
		return false, &ManifestError{Path: m.path, Kind: ErrManifestMalformed, Cause: err}
	}
	updated, err = sjson.SetRawBytes(updated, key, value)
	if err != nil {
		return false, &ManifestError{Path: m.path, Kind: ErrManifestMalformed, Cause: err}
	}
	if err := m.write(updated); err != nil {
		return false, err
	}
	return true, nil
}

// RemoveRule deletes the namespace from the selected autoload section. It
// returns false without touching the file when the namespace is not mapped.
func (m *Manifest) RemoveRule(namespace string, dev bool) (bool, error) {
	ns, err := NormalizeNamespace(namespace)
	if err != nil {
		return false, err
	}
	key := rulePath(dev, ns)

	if !gjson.GetBytes(m.raw, key).Exists() {
		return false, nil
	}

	updated, err := sjson.DeleteBytes(m.raw, key)
	if err != nil {
		return false, &ManifestError{Path: m.path, Kind: ErrManifestMalformed, Cause: err}
	}
	if err := m.write(updated); err != nil {
		return false, err
	}
	return true, nil
}

func (m *Manifest) write(doc []byte) error {
	canonical, err := reencode(doc)
	if err != nil {
		return &ManifestError{Path: m.path, Kind: ErrManifestMalformed, Cause: err}
	}
	out := pretty.PrettyOptions(canonical, prettyOptions)
	if !bytes.HasSuffix(out, []byte("\n")) {
		out = append(out, '\n')
	}
	if err := fsutil.AtomicWriteFile(m.path, out); err != nil {
		return err
	}
	m.raw = out
	m.exists = true
	return nil
}

// objectifySections replaces an empty `[]` autoload section or psr-4 map with
// `{}`. PHP encodes an empty array that way and composer accepts both.
func objectifySections(doc []byte, dev bool) ([]byte, error) {
	section := autoloadSection
	if dev {
		section = autoloadDevSection
	}
	var err error
	for _, path := range []string{section, sectionPath(dev)} {
		if !isEmptyArray(gjson.GetBytes(doc, path)) {
			continue
		}
		if doc, err = sjson.SetRawBytes(doc, path, []byte("{}")); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

func isEmptyArray(r gjson.Result) bool {
	return r.IsArray() && len(r.Array()) == 0
}

// reencode rebuilds doc token by token so that every string is written
// without `\/` or `\uXXXX` escapes, whatever the input used. Key order and
// duplicate keys are kept.
func reencode(doc []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := reencodeValue(&buf, gjson.ParseBytes(doc)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func reencodeValue(buf *bytes.Buffer, r gjson.Result) error {
	switch {
	case r.IsObject(), r.IsArray():
		open, closing := byte('['), byte(']')
		if r.IsObject() {
			open, closing = '{', '}'
		}
		buf.WriteByte(open)
		first := true
		var err error
		r.ForEach(func(key, value gjson.Result) bool {
			if !first {
				buf.WriteByte(',')
			}
			first = false
			if r.IsObject() {
				if err = writeString(buf, key.Str); err != nil {
					return false
				}
				buf.WriteByte(':')
			}
			err = reencodeValue(buf, value)
			return err == nil
		})
		if err != nil {
			return err
		}
		buf.WriteByte(closing)
		return nil
	case r.Type == gjson.String:
		return writeString(buf, r.Str)
	default:
		buf.WriteString(r.Raw)
		return nil
	}
}

func writeString(buf *bytes.Buffer, s string) error {
	encoded, err := encodeString(s)
	if err != nil {
		return err
	}
	buf.Write(encoded)
	return nil
}

func sectionPath(dev bool) string {
	section := autoloadSection
	if dev {
		section = autoloadDevSection
	}
	return section + "." + psr4Key
}

func rulePath(dev bool, ns Namespace) string {
	return sectionPath(dev) + "." + gjson.Escape(string(ns))
}

// hasPath reports whether an existing psr-4 value already points at p only.
// A single-element array counts as the same mapping.
func hasPath(current gjson.Result, p AutoloadPath) bool {
	switch {
	case current.Type == gjson.String:
		return current.Str == string(p)
	case current.IsArray():
		paths := current.Array()
		return len(paths) == 1 && paths[0].String() == string(p)
	default:
		return false
	}
}

// encodeString produces a JSON string literal with slashes and non-ASCII
// characters left unescaped.
func encodeString(s string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

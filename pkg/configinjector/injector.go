// SPDX-License-Identifier: MPL-2.0

package configinjector

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/mwtool/mwtool/internal/fsutil"
	"github.com/mwtool/mwtool/internal/phpsrc"
)

const (
	// DefaultConfigFile is the conventional location of the aggregator call.
	DefaultConfigFile = "config/config.php"
	// DefaultIndent is used when the provider list has no element to copy indentation from.
	DefaultIndent = "    "

	// KindConfigProvider registers a class as a ConfigAggregator provider.
	KindConfigProvider Kind = "config-provider"
)

var (
	// ErrConfigFileMissing is returned when the config file does not exist.
	ErrConfigFileMissing = errors.New("config file does not exist")
	// ErrConfigFileNotWritable is returned when the config file or its directory cannot be written.
	ErrConfigFileNotWritable = errors.New("config file is not writable")
	// ErrAggregatorNotFound is returned when no recognized aggregator construction exists.
	ErrAggregatorNotFound = errors.New("could not locate ConfigAggregator construction")
	// ErrUnsupportedKind is returned for injection kinds other than KindConfigProvider.
	ErrUnsupportedKind = errors.New("unsupported injection kind")
	// ErrInvalidProvider is returned when the provider class name is empty.
	ErrInvalidProvider = errors.New("invalid provider class name")
)

type (
	// Kind selects what is being injected.
	Kind string

	// Injector edits a single config file.
	Injector struct {
		path   string
		indent string
	}

	// Option configures an Injector.
	Option func(*Injector)

	// FileError carries the config file path along with one of the sentinels above.
	FileError struct {
		Path  string
		Kind  error
		Cause error
	}
)

// Error implements the error interface.
func (e *FileError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Path)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Path, e.Cause)
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *FileError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

// WithIndent overrides DefaultIndent.
func WithIndent(indent string) Option {
	return func(i *Injector) {
		if indent != "" {
			i.indent = indent
		}
	}
}

// New returns an Injector for the config file at path.
func New(path string, opts ...Option) *Injector {
	i := &Injector{path: path, indent: DefaultIndent}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Path returns the config file location.
func (i *Injector) Path() string { return i.path }

// IsRegistered reports whether provider is a bare element of the first
// aggregator call. A file without an aggregator call has nothing registered.
func (i *Injector) IsRegistered(provider string) (bool, error) {
	src, err := i.read()
	if err != nil {
		return false, err
	}
	return IsRegistered(src, provider), nil
}

// Inject adds provider to the top of the aggregator list. It returns false
// when the provider is already registered.
func (i *Injector) Inject(provider string, kind Kind) (bool, error) {
	if kind != KindConfigProvider {
		return false, fmt.Errorf("%w: %q", ErrUnsupportedKind, kind)
	}
	src, err := i.read()
	if err != nil {
		return false, err
	}
	out, changed, err := Inject(src, provider, i.indent)
	if err != nil {
		if errors.Is(err, ErrAggregatorNotFound) {
			return false, &FileError{Path: i.path, Kind: ErrAggregatorNotFound}
		}
		return false, err
	}
	if !changed {
		return false, nil
	}
	return true, i.write(out)
}

// Remove deletes the line registering provider. It returns false when the
// provider is not registered or the file has no aggregator call.
func (i *Injector) Remove(provider string) (bool, error) {
	src, err := i.read()
	if err != nil {
		return false, err
	}
	out, changed := Remove(src, provider)
	if !changed {
		return false, nil
	}
	return true, i.write(out)
}

func (i *Injector) read() ([]byte, error) {
	src, err := os.ReadFile(i.path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, &FileError{Path: i.path, Kind: ErrConfigFileMissing}
	case err != nil:
		return nil, fmt.Errorf("failed to read config file %s: %w", i.path, err)
	}
	return src, nil
}

func (i *Injector) write(src []byte) error {
	if !fsutil.IsWritableFile(i.path) {
		return &FileError{Path: i.path, Kind: ErrConfigFileNotWritable}
	}
	if err := fsutil.AtomicWriteFile(i.path, src); err != nil {
		return &FileError{Path: i.path, Kind: ErrConfigFileNotWritable, Cause: err}
	}
	return nil
}

// IsRegistered reports whether provider is a bare element of the first
// aggregator call in src.
func IsRegistered(src []byte, provider string) bool {
	site := Locate(src)
	if site == nil {
		return false
	}
	_, found := site.find(src, provider)
	return found
}

// Inject returns src with `\Provider::class,` inserted on a new line right
// after the list opener of the first aggregator call. The inserted line
// reuses the indentation of the first element when that element has a line
// of its own, or indent otherwise. Text following the opener on its line is
// moved, unchanged, to the next line.
func Inject(src []byte, provider, indent string) (out []byte, changed bool, err error) {
	name := normalizeProvider(provider)
	if name == "" {
		return nil, false, fmt.Errorf("%w: %q", ErrInvalidProvider, provider)
	}
	site := Locate(src)
	if site == nil {
		return nil, false, ErrAggregatorNotFound
	}
	if _, found := site.find(src, name); found {
		return src, false, nil
	}

	entry := `\` + name + "::class,"
	nl := lineEnding(src)

	if len(site.Elements) > 0 && strings.Contains(string(src[site.Open:site.Elements[0].Start]), "\n") {
		indent = indentOf(src, site.Elements[0].Start)
	}
	insert := nl + indent + entry
	if _, ownLine := restOfLineBlank(src, site.Open); !ownLine {
		insert += nl
	}

	out = make([]byte, 0, len(src)+len(insert))
	out = append(out, src[:site.Open]...)
	out = append(out, insert...)
	out = append(out, src[site.Open:]...)
	return out, true, nil
}

// Remove returns src without the element registering provider. When the
// element sits on its own line the whole line goes; otherwise only the
// element and its separator are cut.
func Remove(src []byte, provider string) (out []byte, changed bool) {
	name := normalizeProvider(provider)
	site := Locate(src)
	if name == "" || site == nil {
		return src, false
	}
	idx, found := site.find(src, name)
	if !found {
		return src, false
	}
	el := site.Elements[idx]

	from, to := elementSpan(src, site, idx)
	if start := lineStart(src, el.Start); strings.TrimSpace(string(src[start:el.Start])) == "" {
		if end, ok := restOfLineBlank(src, to); ok {
			from, to = start, end
		}
	}

	out = make([]byte, 0, len(src)-(to-from))
	out = append(out, src[:from]...)
	out = append(out, src[to:]...)
	return out, true
}

// find returns the index of the element referencing provider.
func (s *CallSite) find(src []byte, provider string) (int, bool) {
	name := normalizeProvider(provider)
	uses := phpsrc.Imports(src)
	for idx, el := range s.Elements {
		if ref, ok := resolveReference(el.Text, uses); ok && strings.EqualFold(ref, name) {
			return idx, true
		}
	}
	return 0, false
}

// elementSpan returns the bytes to cut for an inline removal: the element
// plus the following comma and spaces, or for the last element the
// preceding comma.
func elementSpan(src []byte, s *CallSite, idx int) (from, to int) {
	el := s.Elements[idx]
	from, to = el.Start, el.End
	j := skipBlanks(src, to)
	if j < len(src) && src[j] == ',' {
		return from, skipBlanks(src, j+1)
	}
	if idx > 0 {
		prev := s.Elements[idx-1]
		k := skipBlanks(src, prev.End)
		if k < len(src) && src[k] == ',' {
			return k, to
		}
	}
	return from, to
}

// restOfLineBlank reports whether only blanks and an optional comma remain
// on the line from i, returning the offset just past the line terminator.
func restOfLineBlank(src []byte, i int) (int, bool) {
	j := skipBlanks(src, i)
	if j < len(src) && src[j] == ',' {
		j = skipBlanks(src, j+1)
	}
	if j < len(src) && src[j] == '\r' {
		j++
	}
	switch {
	case j == len(src):
		return j, true
	case src[j] == '\n':
		return j + 1, true
	default:
		return 0, false
	}
}

func skipBlanks(src []byte, i int) int {
	for i < len(src) && (src[i] == ' ' || src[i] == '\t') {
		i++
	}
	return i
}

func normalizeProvider(provider string) string {
	name := strings.TrimSpace(provider)
	name = strings.TrimSuffix(name, "::class")
	return strings.Trim(name, `\`)
}

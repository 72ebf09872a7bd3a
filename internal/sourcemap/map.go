package sourcemap

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"bennypowers.dev/cssremap/internal/uriutil"
)

// ErrInvalidMap indicates the input source map could not be parsed or
// has an unsupported format. This is a fatal, document-level error.
var ErrInvalidMap = errors.New("invalid source map")

// RawMap is a v3 source map in its JSON wire form
type RawMap struct {
	Version        int       `json:"version"`
	File           string    `json:"file,omitempty"`
	SourceRoot     string    `json:"sourceRoot,omitempty"`
	Sources        []string  `json:"sources"`
	SourcesContent []*string `json:"sourcesContent,omitempty"`
	Names          []string  `json:"names"`
	Mappings       string    `json:"mappings"`
}

// Parse accepts the source map forms callers hand us: an already-parsed
// *RawMap, a JSON string, or raw bytes. A nil input means "no source map"
// and returns nil without error.
func Parse(v any) (*RawMap, error) {
	switch m := v.(type) {
	case nil:
		return nil, nil
	case *RawMap:
		return m, nil
	case RawMap:
		return &m, nil
	case string:
		return ParseRaw([]byte(m))
	case []byte:
		return ParseRaw(m)
	case json.RawMessage:
		return ParseRaw([]byte(m))
	default:
		return nil, fmt.Errorf("%w: unsupported source map type %T", ErrInvalidMap, v)
	}
}

// ParseRaw parses source map JSON bytes
func ParseRaw(data []byte) (*RawMap, error) {
	var m RawMap
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMap, err)
	}
	if m.Version != 3 {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrInvalidMap, m.Version)
	}
	return &m, nil
}

// Clone returns a copy safe to mutate independently of the original
func (m *RawMap) Clone() *RawMap {
	out := *m
	out.Sources = slices.Clone(m.Sources)
	out.SourcesContent = slices.Clone(m.SourcesContent)
	out.Names = slices.Clone(m.Names)
	return &out
}

// schemePattern matches URLs with a protocol scheme (http:, webpack:, data:).
// Two or more leading characters so Windows drive letters don't match.
var schemePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]+:`)

// HasScheme reports whether s is a URL with a protocol scheme rather than
// a filesystem path
func HasScheme(s string) bool {
	return schemePattern.MatchString(s)
}

// NormalizeSources rewrites every source to an absolute filesystem path so
// that later directory computation does not depend on the working directory.
// Relative sources are resolved through sourceRoot (when it is a path) and
// then against baseDir, typically the directory of the file being processed.
// Sources with a non-file protocol scheme are left alone; lookups that land
// on them are treated as unmappable by the caller.
func (m *RawMap) NormalizeSources(baseDir string) {
	for i, src := range m.Sources {
		if src == "" {
			continue
		}
		if strings.HasPrefix(src, "file://") {
			src = uriutil.URIToPath(src)
		} else if HasScheme(src) {
			continue
		}
		if m.SourceRoot != "" && !HasScheme(m.SourceRoot) && !filepath.IsAbs(src) {
			src = filepath.Join(m.SourceRoot, src)
		}
		if !filepath.IsAbs(src) {
			src = filepath.Join(baseDir, src)
		}
		m.Sources[i] = filepath.Clean(src)
	}
	m.SourceRoot = ""
}

// Relativize returns a copy of the map whose sources are expressed relative
// to the file at from, which becomes the map's file field. Sources that are
// not absolute paths are carried over verbatim.
func (m *RawMap) Relativize(from string) *RawMap {
	out := *m
	out.Sources = make([]string, len(m.Sources))
	base := filepath.Dir(from)
	for i, src := range m.Sources {
		if filepath.IsAbs(src) {
			if rel, err := filepath.Rel(base, src); err == nil {
				src = filepath.ToSlash(rel)
			}
		}
		out.Sources[i] = src
	}
	out.File = filepath.Base(from)
	out.SourceRoot = ""
	return &out
}

package sourcemap

import (
	"encoding/json"
	"fmt"
	"sort"

	gosourcemap "github.com/go-sourcemap/sourcemap"
)

// Position is a location in generated CSS text.
// Lines are 1-based and columns 0-based, matching source map conventions.
type Position struct {
	Line   int
	Column int
}

// OriginalLocation is the original-source coordinate recovered for a
// generated position
type OriginalLocation struct {
	File   string
	Line   int
	Column int
}

// entry is one decoded mapping segment
type entry struct {
	genLine int
	genCol  int
	srcIdx  int
	srcLine int
	srcCol  int
}

// Index wraps a parsed source map for repeated original-position lookup.
// Build it once per document and reuse it for every declaration.
//
// The map is validated through the go-sourcemap codec; the position lookup
// itself is kept here so that queries preceding every mapping entry fail
// cleanly instead of binding to the first entry.
type Index struct {
	sources []string
	entries []entry
}

// NewIndex builds a lookup index from a raw map.
// Call NormalizeSources first so that lookups return absolute file paths.
func NewIndex(m *RawMap) (*Index, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMap, err)
	}
	if _, err := gosourcemap.Parse("", data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMap, err)
	}

	entries, err := decodeMappings(m.Mappings, len(m.Sources))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMap, err)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].genLine != entries[j].genLine {
			return entries[i].genLine < entries[j].genLine
		}
		return entries[i].genCol < entries[j].genCol
	})

	return &Index{sources: m.Sources, entries: entries}, nil
}

// Locate finds the original location for a generated position using the
// mapping entry whose generated position is the greatest one not exceeding
// the query, the standard "binding at or before this location" bias.
// The second return is false when no mapping precedes the position, which
// callers treat as "this declaration cannot be mapped".
func (ix *Index) Locate(pos Position) (OriginalLocation, bool) {
	i := sort.Search(len(ix.entries), func(i int) bool {
		e := ix.entries[i]
		if e.genLine != pos.Line {
			return e.genLine > pos.Line
		}
		return e.genCol > pos.Column
	})
	if i == 0 {
		return OriginalLocation{}, false
	}
	e := ix.entries[i-1]
	return OriginalLocation{
		File:   ix.sources[e.srcIdx],
		Line:   e.srcLine,
		Column: e.srcCol,
	}, true
}

package preprocess

import (
	"sort"

	"github.com/lookbusy1344/z33-asm/source"
)

// ProvenanceEntry records that output bytes starting at OutputOffset came
// from File starting at FileOffset, running until the next entry (or the
// end of output).
type ProvenanceEntry struct {
	OutputOffset int
	File         string
	FileOffset   int
}

// Provenance maps offsets in a preprocessor's flattened output back to the
// (file, offset) they came from's "output-offset ->
// (file, file-offset)" mapping. Sources holds the original text of every
// file touched, needed to turn a file offset into a human-facing line:column
// for diagnostics.
type Provenance struct {
	Entries []ProvenanceEntry
	Sources map[string]string
}

// Locate finds the (file, file-offset) an output offset came from. It
// assumes Entries is populated in increasing OutputOffset order, which Run
// guarantees by construction.
func (p *Provenance) Locate(outputOffset int) (file string, fileOffset int, ok bool) {
	if len(p.Entries) == 0 {
		return "", 0, false
	}
	i := sort.Search(len(p.Entries), func(i int) bool {
		return p.Entries[i].OutputOffset > outputOffset
	})
	if i == 0 {
		return "", 0, false
	}
	e := p.Entries[i-1]
	return e.File, e.FileOffset + (outputOffset - e.OutputOffset), true
}

// Position resolves an output offset to a 1-based (file, line, column),
// scanning the original source text up to the located file offset.
func (p *Provenance) Position(outputOffset int) (source.Position, bool) {
	file, fileOffset, ok := p.Locate(outputOffset)
	if !ok {
		return source.Position{}, false
	}
	return p.PositionInFile(file, fileOffset)
}

// PositionInFile resolves an already-known (file, file-offset) pair to a
// 1-based (file, line, column), for callers that already carry an absolute
// location (the preprocessor's own directive errors) and so have no
// output offset to run back through Locate.
func (p *Provenance) PositionInFile(file string, fileOffset int) (source.Position, bool) {
	content, ok := p.Sources[file]
	if !ok || fileOffset > len(content) {
		return source.Position{Filename: file}, ok
	}

	line, col := 1, 1
	for i := 0; i < fileOffset && i < len(content); i++ {
		if content[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return source.Position{Filename: file, Line: line, Column: col}, true
}

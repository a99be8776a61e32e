package model

import (
	"bufio"
	"fmt"
	"io"
	"sort"
)

// TruthMapHeader is the literal first line written to truth_map.txt, per
// the on-disk format: a header row followed by a blank line, tab-separated.
const TruthMapHeader = "Number,\tSize,\tChunk Offset,\tFile,\tSHA-256 Hash\n\n"

// TruthMap is the ordered, offset-ascending ledger of every placed chunk.
type TruthMap struct {
	Entries []TruthMapEntry
}

// NewTruthMap sorts entries by ascending offset, satisfying the
// truth-map-ordering invariant.
func NewTruthMap(entries []TruthMapEntry) *TruthMap {
	sorted := make([]TruthMapEntry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Offset < sorted[j].Offset })
	return &TruthMap{Entries: sorted}
}

// WriteHeader writes the truth-map header line to w.
func WriteHeader(w io.Writer) error {
	_, err := io.WriteString(w, TruthMapHeader)
	return err
}

// Write appends every entry to w, one record per line.
func (t *TruthMap) Write(w io.Writer) error {
	buffered := bufio.NewWriter(w)
	for _, e := range t.Entries {
		if _, err := fmt.Fprintf(buffered, "%s\n", e); err != nil {
			return err
		}
	}
	return buffered.Flush()
}

package model

import (
	"bytes"
	"fmt"
	"sort"
)

// ChunksOfFile is the ordered, non-empty sequence of Chunks that make up one
// source file. Offset is meaningless until the compositor runs in merge
// mode, at which point SetOffset lays the chunks down contiguously.
type ChunksOfFile struct {
	Filename string
	Chunks   []*Chunk
}

// NewChunksOfFile orders chunks by Index and validates they form a
// contiguous 1..N sequence for a single filename.
func NewChunksOfFile(filename string, chunks []*Chunk) (*ChunksOfFile, error) {
	if len(chunks) == 0 {
		return nil, fmt.Errorf("model: %s has no chunks", filename)
	}
	ordered := make([]*Chunk, len(chunks))
	copy(ordered, chunks)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Index < ordered[j].Index })
	for i, c := range ordered {
		if c.Filename != filename {
			return nil, fmt.Errorf("model: chunk %d belongs to %q, not %q", c.Index, c.Filename, filename)
		}
		if c.Index != i+1 {
			return nil, fmt.Errorf("model: %s is missing chunk %d", filename, i+1)
		}
	}
	return &ChunksOfFile{Filename: filename, Chunks: ordered}, nil
}

// Len is the sum of every chunk's size, as the compositor's placement units use it.
func (f *ChunksOfFile) Len() int64 {
	var total int64
	for _, c := range f.Chunks {
		total += c.Len()
	}
	return total
}

// Content is the ordered concatenation of every chunk's bytes.
func (f *ChunksOfFile) Content() []byte {
	var buf bytes.Buffer
	buf.Grow(int(f.Len()))
	for _, c := range f.Chunks {
		buf.Write(c.Content)
	}
	return buf.Bytes()
}

// Offset is the first chunk's offset, or UnsetOffset before placement.
func (f *ChunksOfFile) Offset() int64 {
	if len(f.Chunks) == 0 {
		return UnsetOffset
	}
	return f.Chunks[0].Offset
}

// SetOffset cascades contiguous offsets through every chunk, starting at
// offset, so that chunk[i+1].Offset == chunk[i].Offset + len(chunk[i]).
func (f *ChunksOfFile) SetOffset(offset int64) {
	position := offset
	for _, c := range f.Chunks {
		c.SetOffset(position)
		position += c.Len()
	}
}

// Entries returns every chunk's truth-map record.
func (f *ChunksOfFile) Entries() []TruthMapEntry {
	entries := make([]TruthMapEntry, len(f.Chunks))
	for i, c := range f.Chunks {
		entries[i] = c.Entry()
	}
	return entries
}

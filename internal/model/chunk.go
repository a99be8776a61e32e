// Package model holds the byte-payload types shared by the pipeline and the
// compositor: Chunk, the ordered ChunksOfFile group it belongs to, and the
// truth map record format written alongside the composed image.
package model

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// UnsetOffset marks a Chunk that has not yet been placed in an image.
const UnsetOffset int64 = -1

// Chunk is an immutable byte buffer with the metadata needed to place it in
// a composed image and to verify it was recovered intact: sha256 always
// equals sha256(content), and offset is UnsetOffset until the compositor
// places it.
type Chunk struct {
	Content  []byte
	Index    int // 1-based position within the parent file's chunk list
	Filename string
	SHA256   string
	Offset   int64
}

// NewChunk builds a Chunk from raw bytes, computing its digest.
func NewChunk(content []byte, index int, filename string) *Chunk {
	return &Chunk{
		Content:  content,
		Index:    index,
		Filename: filename,
		SHA256:   Digest(content),
		Offset:   UnsetOffset,
	}
}

// Len returns the chunk's byte size, as the compositor's placement units use it.
func (c *Chunk) Len() int64 { return int64(len(c.Content)) }

// SetOffset records where the compositor placed this chunk.
func (c *Chunk) SetOffset(offset int64) { c.Offset = offset }

// Digest returns the hex-encoded SHA-256 of content.
func Digest(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// TruthMapEntry formats as one truth-map record: the exact text layout
// required by the on-disk format ("<index>,\t<size> B,\t<offset>,\t<filename>,\t<sha256>").
type TruthMapEntry struct {
	Index    int
	Size     int64
	Offset   int64
	Filename string
	SHA256   string
}

func (e TruthMapEntry) String() string {
	return fmt.Sprintf("%d,\t%d B,\t%d,\t%s,\t%s", e.Index, e.Size, e.Offset, e.Filename, e.SHA256)
}

// Entry converts a placed Chunk into its truth-map record.
func (c *Chunk) Entry() TruthMapEntry {
	return TruthMapEntry{
		Index:    c.Index,
		Size:     c.Len(),
		Offset:   c.Offset,
		Filename: c.Filename,
		SHA256:   c.SHA256,
	}
}

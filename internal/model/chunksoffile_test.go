package model

import "testing"

func TestNewChunksOfFileOrdersAndValidates(t *testing.T) {
	c2 := NewChunk([]byte("22"), 2, "f.jpg")
	c1 := NewChunk([]byte("11"), 1, "f.jpg")

	cof, err := NewChunksOfFile("f.jpg", []*Chunk{c2, c1})
	if err != nil {
		t.Fatalf("NewChunksOfFile: %v", err)
	}
	if cof.Chunks[0] != c1 || cof.Chunks[1] != c2 {
		t.Fatalf("chunks not sorted by index")
	}
}

func TestNewChunksOfFileRejectsGap(t *testing.T) {
	c1 := NewChunk([]byte("1"), 1, "f")
	c3 := NewChunk([]byte("3"), 3, "f")
	if _, err := NewChunksOfFile("f", []*Chunk{c1, c3}); err == nil {
		t.Fatal("expected an error for a missing chunk index")
	}
}

func TestNewChunksOfFileRejectsForeignChunk(t *testing.T) {
	c1 := NewChunk([]byte("1"), 1, "f")
	c2 := NewChunk([]byte("2"), 2, "other")
	if _, err := NewChunksOfFile("f", []*Chunk{c1, c2}); err == nil {
		t.Fatal("expected an error for a chunk belonging to a different file")
	}
}

func TestChunksOfFileContentConcatenatesInOrder(t *testing.T) {
	c1 := NewChunk([]byte("ab"), 1, "f")
	c2 := NewChunk([]byte("cd"), 2, "f")
	cof, err := NewChunksOfFile("f", []*Chunk{c1, c2})
	if err != nil {
		t.Fatalf("NewChunksOfFile: %v", err)
	}
	if string(cof.Content()) != "abcd" {
		t.Fatalf("Content() = %q, want %q", cof.Content(), "abcd")
	}
	if cof.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", cof.Len())
	}
}

func TestChunksOfFileSetOffsetCascades(t *testing.T) {
	c1 := NewChunk([]byte("1234"), 1, "f")
	c2 := NewChunk([]byte("56"), 2, "f")
	c3 := NewChunk([]byte("789"), 3, "f")
	cof, err := NewChunksOfFile("f", []*Chunk{c1, c2, c3})
	if err != nil {
		t.Fatalf("NewChunksOfFile: %v", err)
	}

	cof.SetOffset(100)

	if c1.Offset != 100 {
		t.Errorf("c1.Offset = %d, want 100", c1.Offset)
	}
	if c2.Offset != 104 {
		t.Errorf("c2.Offset = %d, want 104", c2.Offset)
	}
	if c3.Offset != 106 {
		t.Errorf("c3.Offset = %d, want 106", c3.Offset)
	}
	if cof.Offset() != 100 {
		t.Errorf("cof.Offset() = %d, want 100", cof.Offset())
	}
}

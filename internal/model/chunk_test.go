package model

import "testing"

func TestNewChunkDigestMatchesContent(t *testing.T) {
	content := []byte("hello carving world")
	c := NewChunk(content, 1, "sample.jpg")

	want := Digest(content)
	if c.SHA256 != want {
		t.Fatalf("SHA256 = %s, want %s", c.SHA256, want)
	}
	if c.Offset != UnsetOffset {
		t.Fatalf("Offset = %d, want UnsetOffset before placement", c.Offset)
	}
}

func TestChunkLen(t *testing.T) {
	c := NewChunk([]byte("1234567"), 1, "f")
	if c.Len() != 7 {
		t.Fatalf("Len() = %d, want 7", c.Len())
	}
}

func TestChunkSetOffsetAndEntry(t *testing.T) {
	c := NewChunk([]byte("abc"), 2, "f")
	c.SetOffset(42)

	entry := c.Entry()
	if entry.Offset != 42 {
		t.Fatalf("entry.Offset = %d, want 42", entry.Offset)
	}
	if entry.Index != 2 {
		t.Fatalf("entry.Index = %d, want 2", entry.Index)
	}
	if entry.Size != 3 {
		t.Fatalf("entry.Size = %d, want 3", entry.Size)
	}
	if entry.SHA256 != Digest([]byte("abc")) {
		t.Fatalf("entry.SHA256 mismatch")
	}
}

func TestTruthMapEntryStringFormat(t *testing.T) {
	e := TruthMapEntry{Index: 1, Size: 1000, Offset: 500, Filename: "a.jpg", SHA256: "deadbeef"}
	got := e.String()
	want := "1,\t1000 B,\t500,\ta.jpg,\tdeadbeef"
	if got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}

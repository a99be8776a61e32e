package model

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewTruthMapSortsByOffset(t *testing.T) {
	entries := []TruthMapEntry{
		{Index: 1, Offset: 500},
		{Index: 2, Offset: 10},
		{Index: 3, Offset: 250},
	}
	tm := NewTruthMap(entries)

	for i := 1; i < len(tm.Entries); i++ {
		if tm.Entries[i-1].Offset > tm.Entries[i].Offset {
			t.Fatalf("entries not ascending by offset: %+v", tm.Entries)
		}
	}
	if tm.Entries[0].Index != 2 {
		t.Fatalf("expected index 2 first, got %d", tm.Entries[0].Index)
	}
}

func TestTruthMapWriteAndHeader(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteHeader(&buf); err != nil {
		t.Fatalf("WriteHeader: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "Number,\tSize,\tChunk Offset,\tFile,\tSHA-256 Hash\n\n") {
		t.Fatalf("unexpected header: %q", buf.String())
	}

	tm := NewTruthMap([]TruthMapEntry{{Index: 1, Size: 10, Offset: 0, Filename: "a", SHA256: "aa"}})
	if err := tm.Write(&buf); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !strings.Contains(buf.String(), "1,\t10 B,\t0,\ta,\taa") {
		t.Fatalf("record not written correctly: %q", buf.String())
	}
}

package stage

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"
)

type fakeClassifier struct{ tag string }

func (f fakeClassifier) Classify(path string) (string, error) { return f.tag, nil }

func TestBuildRejectsEmptyChain(t *testing.T) {
	if _, err := Build(nil, nil); err == nil {
		t.Fatal("expected an error for an empty stage chain")
	}
}

func TestBuildRejectsTerminalNotLast(t *testing.T) {
	_, err := Build([]string{"DiskImage", "Split"}, [][]interface{}{nil, nil})
	if err == nil {
		t.Fatal("expected an error: a terminal stage must be last")
	}
}

func TestNoiseStampsEveryKthByte(t *testing.T) {
	buf := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	out := noise([][]byte{buf}, 3)
	for j, b := range out[0] {
		if (j+1)%3 == 0 {
			if b != 0 {
				t.Errorf("byte %d should be zeroed, got %d", j, b)
			}
		}
	}
}

func TestSplitPartitionsWithShortFinalBlock(t *testing.T) {
	whole := make([]byte, 2500)
	for i := range whole {
		whole[i] = byte(i % 256)
	}
	out := split([][]byte{whole}, 1000)
	if len(out) != 3 {
		t.Fatalf("got %d chunks, want 3", len(out))
	}
	if len(out[0]) != 1000 || len(out[1]) != 1000 || len(out[2]) != 500 {
		t.Fatalf("chunk sizes = %d,%d,%d, want 1000,1000,500", len(out[0]), len(out[1]), len(out[2]))
	}
	var rebuilt []byte
	for _, c := range out {
		rebuilt = append(rebuilt, c...)
	}
	if string(rebuilt) != string(whole) {
		t.Fatal("concatenated chunks do not reproduce the original bytes")
	}
}

func TestHeaderJPEGStripsFirst100Bytes(t *testing.T) {
	buf := make([]byte, 150)
	for i := range buf {
		buf[i] = byte(i)
	}
	out := headerJPEG([][]byte{buf})
	if len(out[0]) != 50 {
		t.Fatalf("len = %d, want 50", len(out[0]))
	}
	if out[0][0] != 100 {
		t.Fatalf("first byte = %d, want 100 (original byte at index 100)", out[0][0])
	}
}

func TestChainRunEndToEnd(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "photo.jpg")
	content := make([]byte, 2500)
	for i := range content {
		content[i] = byte(i % 251)
	}
	if err := os.WriteFile(src, content, 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	chain, err := Build(
		[]string{"FileJPEG", "HeaderJPEG", "Split", "SaveHashes", "DiskImage"},
		[][]interface{}{nil, nil, {1000}, nil, nil},
	)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	ctx := &Context{
		ObjectName:   src,
		ContentsPath: dir,
		Classifier:   fakeClassifier{"JPEG"},
	}
	out, err := chain.Run(ctx)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	wantLens := []int{1000, 1000, 400}
	if len(out) != len(wantLens) {
		t.Fatalf("got %d chunks, want %d", len(out), len(wantLens))
	}
	for i, l := range wantLens {
		if len(out[i]) != l {
			t.Errorf("chunk %d length = %d, want %d", i, len(out[i]), l)
		}
	}

	for i := 1; i <= 3; i++ {
		path := filepath.Join(dir, "photo.jpg_"+strconv.Itoa(i))
		if _, err := os.Stat(path); err != nil {
			t.Errorf("expected chunk file %s: %v", path, err)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "SHA-256 hashes", "photo.jpg.txt")); err != nil {
		t.Errorf("expected hash manifest: %v", err)
	}
}

func TestChainRunRejectsUnexpectedType(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "x.bin")
	if err := os.WriteFile(src, []byte("hello"), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	chain, err := Build([]string{"FileJPEG"}, [][]interface{}{nil})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	ctx := &Context{ObjectName: src, ContentsPath: dir, Classifier: fakeClassifier{"ELF"}}
	if _, err := chain.Run(ctx); err == nil {
		t.Fatal("expected an error: classifier tag does not match expected type")
	}
}

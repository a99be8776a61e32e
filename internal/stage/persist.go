package stage

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
)

func digestHex(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// saveHashes appends each buffer's hex digest as one line to
// <contents_root>/SHA-256 hashes/<basename>.txt, in list order, creating the
// file on first write and appending thereafter, per spec.md §4.2 SaveHashes.
func saveHashes(buffers [][]byte, ctx *Context) error {
	hashesDir := filepath.Join(ctx.ContentsPath, "SHA-256 hashes")
	if err := os.MkdirAll(hashesDir, 0o755); err != nil {
		return fmt.Errorf("creating hashes directory: %w", err)
	}

	basename := filepath.Base(ctx.ObjectName)
	path := filepath.Join(hashesDir, basename+".txt")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening hash manifest: %w", err)
	}
	defer f.Close()

	for _, buf := range buffers {
		if _, err := fmt.Fprintln(f, digestHex(buf)); err != nil {
			return fmt.Errorf("writing hash manifest: %w", err)
		}
	}
	return nil
}

// writeDiskImage writes each buffer to contents_root/<basename>_<i> for
// i = 1..N, per spec.md §4.2 DiskImage.
func writeDiskImage(buffers [][]byte, ctx *Context) error {
	if err := os.MkdirAll(ctx.ContentsPath, 0o755); err != nil {
		return fmt.Errorf("creating contents directory: %w", err)
	}
	basename := filepath.Base(ctx.ObjectName)
	for i, buf := range buffers {
		name := fmt.Sprintf("%s_%d", basename, i+1)
		path := filepath.Join(ctx.ContentsPath, name)
		if err := os.WriteFile(path, buf, 0o644); err != nil {
			return fmt.Errorf("writing chunk file %s: %w", name, err)
		}
	}
	return nil
}

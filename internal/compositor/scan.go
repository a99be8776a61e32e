// Package compositor implements the Sampler of spec.md §4.5: it reloads
// persisted chunks from a pipeline run, scatters them at random
// non-overlapping offsets inside a noise-filled image buffer, and emits
// the image plus a truth map of every placement.
package compositor

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/tenzoki/diskforge/internal/model"
)

// chunkSuffix matches the trailing "_<digits>" of a chunk filename.
var chunkSuffix = regexp.MustCompile(`^(.*)_(\d+)$`)

// scan walks contentsPath, groups files by logical source filename, and
// loads each group into a model.ChunksOfFile, per spec.md §4.5 step 1.
func scan(contentsPath string) ([]*model.ChunksOfFile, error) {
	entries, err := os.ReadDir(contentsPath)
	if err != nil {
		return nil, fmt.Errorf("compositor: reading %s: %w", contentsPath, err)
	}

	maxIndex := make(map[string]int)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m := chunkSuffix.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		idx, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		name := m[1]
		if idx > maxIndex[name] {
			maxIndex[name] = idx
		}
	}

	names := make([]string, 0, len(maxIndex))
	for name := range maxIndex {
		names = append(names, name)
	}
	sort.Strings(names)

	files := make([]*model.ChunksOfFile, 0, len(names))
	for _, name := range names {
		hashes, err := readHashManifest(contentsPath, name)
		if err != nil {
			return nil, err
		}
		n := maxIndex[name]
		chunks := make([]*model.Chunk, 0, n)
		for i := 1; i <= n; i++ {
			chunkPath := filepath.Join(contentsPath, fmt.Sprintf("%s_%d", name, i))
			content, err := os.ReadFile(chunkPath)
			if err != nil {
				return nil, fmt.Errorf("compositor: reading chunk %s: %w", chunkPath, err)
			}
			if i-1 >= len(hashes) {
				return nil, fmt.Errorf("compositor: %s has no hash manifest line for chunk %d", name, i)
			}
			c := model.NewChunk(content, i, name)
			if c.SHA256 != hashes[i-1] {
				return nil, fmt.Errorf("compositor: %s chunk %d digest mismatch against hash manifest", name, i)
			}
			chunks = append(chunks, c)
		}
		cof, err := model.NewChunksOfFile(name, chunks)
		if err != nil {
			return nil, err
		}
		files = append(files, cof)
	}
	return files, nil
}

func readHashManifest(contentsPath, name string) ([]string, error) {
	path := filepath.Join(contentsPath, "SHA-256 hashes", name+".txt")
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("compositor: opening hash manifest for %s: %w", name, err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("compositor: reading hash manifest for %s: %w", name, err)
	}
	return lines, nil
}

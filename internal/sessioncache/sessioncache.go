// Package sessioncache reproduces the fingerprint-based skip behavior of
// the original Initiate.py: a run whose source directory listing and
// definitions file are unchanged from a prior run reuses that run's
// contents directory instead of re-harvesting, unless bypassed.
package sessioncache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// fingerprintLen is the number of hex characters kept from each SHA-256
// sum, matching the original's truncation.
const fingerprintLen = 10

// Fingerprint reproduces Initiate.py's session key: the sorted, newline-
// joined names of every file at any depth under sourceDir (directories
// themselves are not listed), hashed and truncated to 10 hex characters,
// joined with an underscore to the same truncation of the definitions
// file's raw bytes.
func Fingerprint(sourceDir, definitionsFile string) (string, error) {
	var names []string
	err := filepath.WalkDir(sourceDir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if !d.IsDir() {
			names = append(names, d.Name())
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("sessioncache: reading %s: %w", sourceDir, err)
	}
	sort.Strings(names)
	sourcesHash := truncatedHash([]byte(strings.Join(names, "\n")))

	defBytes, err := os.ReadFile(definitionsFile)
	if err != nil {
		return "", fmt.Errorf("sessioncache: reading %s: %w", definitionsFile, err)
	}
	defHash := truncatedHash(defBytes)

	return sourcesHash + "_" + defHash, nil
}

func truncatedHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])[:fingerprintLen]
}

// Resolve decides the contents directory to use for this run. When force
// is true, or when no prior directory matching the fingerprint exists, it
// returns a fresh directory name (fresh=true) under storedContentsRoot.
// Otherwise it returns the existing one, signalling the caller can skip
// harvesting and pipeline execution entirely (spec.md §9: "preserve that
// behavior or replace it with an explicit --force control").
func Resolve(storedContentsRoot, sourceDir, definitionsFile string, force bool) (dir string, fresh bool, err error) {
	fp, err := Fingerprint(sourceDir, definitionsFile)
	if err != nil {
		return "", false, err
	}
	dir = filepath.Join(storedContentsRoot, fp)

	if force {
		return dir, true, nil
	}
	if info, statErr := os.Stat(dir); statErr == nil && info.IsDir() {
		return dir, false, nil
	}
	return dir, true, nil
}

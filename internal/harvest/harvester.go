// Package harvest implements the single-producer Harvester of spec.md
// §4.1: it walks a directory tree, classifies each file, and dispatches it
// to the Pipeline registered for the first matching file-type tag.
package harvest

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/tenzoki/diskforge/internal/classify"
	"github.com/tenzoki/diskforge/internal/logging"
	"github.com/tenzoki/diskforge/internal/pipeline"
)

// Harvester is the producer half of the pipeline's producer/consumer
// concurrency model. It does not read file contents itself — only paths
// and whatever bytes the Classifier needs (spec.md §4.1).
type Harvester struct {
	Root      string
	Patterns  []string // glob patterns, doublestar syntax; default ["*"]
	Tags      []string // accepted file-type prefix tags, in priority order
	Recursive bool

	Registry   *pipeline.Registry
	Classifier classify.Classifier
	Log        *logging.Logger

	mu        sync.Mutex
	harvested []string
}

// New constructs a Harvester. An empty patterns slice defaults to ["*"],
// per spec.md §4.1.
func New(root string, patterns, tags []string, recursive bool, registry *pipeline.Registry, classifier classify.Classifier, log *logging.Logger) *Harvester {
	if len(patterns) == 0 {
		patterns = []string{"*"}
	}
	return &Harvester{
		Root:       root,
		Patterns:   patterns,
		Tags:       tags,
		Recursive:  recursive,
		Registry:   registry,
		Classifier: classifier,
		Log:        log,
	}
}

// Harvested returns every absolute path dispatched to a pipeline so far,
// inspectable post-run per spec.md §4.1.
func (h *Harvester) Harvested() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.harvested))
	copy(out, h.harvested)
	return out
}

// Run walks Root, classifies each matching file, and enqueues it on the
// Pipeline registered for the first matching tag. After a completed walk it
// enqueues the end-of-stream sentinel on every registered pipeline exactly
// once, even when the walk finds nothing (spec.md S6). When the root cannot
// be resolved or walked it returns the error without enqueuing any sentinel.
func (h *Harvester) Run() error {
	h.Log.Info("harvester starting at %s", h.Root)

	root, err := filepath.Abs(h.Root)
	if err != nil {
		return fmt.Errorf("harvest: resolving root: %w", err)
	}
	h.Root = root

	if err := h.walk(); err != nil {
		return err
	}

	for _, tag := range h.Registry.Tags() {
		p, _ := h.Registry.Lookup(tag)
		p.Queue <- pipeline.EndOfStreamJob()
	}
	h.Log.Info("harvester exiting, dispatched %d files", len(h.harvested))
	return nil
}

func (h *Harvester) walk() error {
	return filepath.WalkDir(h.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == h.Root {
				return fmt.Errorf("harvest: root directory: %w", err)
			}
			h.Log.Error("harvest: skipping %s: %v", path, err)
			return nil
		}
		if d.IsDir() {
			if !h.Recursive && path != h.Root {
				return filepath.SkipDir
			}
			return nil
		}
		if !h.matchesAnyPattern(path) {
			return nil
		}
		h.classifyAndDispatch(path)
		return nil
	})
}

func (h *Harvester) matchesAnyPattern(path string) bool {
	rel, err := filepath.Rel(h.Root, path)
	if err != nil {
		rel = filepath.Base(path)
	}
	rel = filepath.ToSlash(rel)
	for _, pattern := range h.Patterns {
		if pattern == "*" {
			return true
		}
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
		if ok, _ := doublestar.Match(pattern, filepath.Base(path)); ok {
			return true
		}
	}
	return false
}

// classifyAndDispatch is non-fatal on a classification failure: it skips
// the file and continues, per spec.md §4.1 Failure.
func (h *Harvester) classifyAndDispatch(path string) {
	classification, err := h.Classifier.Classify(path)
	if err != nil {
		h.Log.Error("harvest: classifying %s: %v", path, err)
		return
	}
	for _, tag := range h.Tags {
		if !strings.HasPrefix(classification, tag) {
			continue
		}
		p, ok := h.Registry.Lookup(tag)
		if !ok {
			continue
		}
		p.Queue <- pipeline.Job{Filename: path}
		h.mu.Lock()
		h.harvested = append(h.harvested, path)
		h.mu.Unlock()
		h.Log.Info("harvester dispatched %s to %s pipeline", path, tag)
		return
	}
	// Classification skip: no configured tag matched — silent per spec.md §7.
}

// Package stage implements the Stage primitives of spec.md §4.2 as a
// tagged variant over stage kinds (spec.md §9 Design Notes), rather than
// the original's class hierarchy: a single Stage struct carries a Kind tag
// and its parsed parameters, and Chain.Run threads a buffer list through
// pre/main/post hooks in order.
package stage

import (
	"fmt"

	"github.com/tenzoki/diskforge/internal/classify"
)

// Kind identifies a stage's transform.
type Kind string

const (
	KindFile       Kind = "File"
	KindFileJPEG   Kind = "FileJPEG"
	KindFileELF    Kind = "FileELF"
	KindNoise      Kind = "Noise"
	KindHeaderJPEG Kind = "HeaderJPEG"
	KindSplit      Kind = "Split"
	KindSaveHashes Kind = "SaveHashes"
	KindDiskImage  Kind = "DiskImage"
	KindSendTCP    Kind = "SendTCP"
	KindSendUDP    Kind = "SendUDP"
)

// entryKinds are FileEntry variants per spec.md §9: FileJPEG/FileELF
// collapse into File, with ExpectedType used only to check the classifier's
// result for each file when the chain runs.
var entryKinds = map[Kind]string{
	KindFile:     "",
	KindFileJPEG: "JPEG",
	KindFileELF:  "ELF",
}

// Stage is one node in a chain: a kind tag plus its parsed parameters.
type Stage struct {
	Kind         Kind
	ExpectedType string // non-empty only for FileJPEG/FileELF-equivalent entries
	NoiseK       int    // Noise(k)
	SplitSize    int    // Split(n)
}

// Context carries the per-invocation values every stage needs: the source
// file being processed and the directory chunk artifacts are written under.
type Context struct {
	ObjectName   string // absolute path of the file being processed
	ContentsPath string // contents_root for this pipeline
	Classifier   classify.Classifier

	// filled in by the File entry stage's pre hook; no other hook reads
	// them, and the Pipeline does not keep them after the chain returns.
	FileHash string
	FileType string
}

// New constructs a Stage from a kind name and parameter list, as found in a
// definitions document's stage descriptor. It is the single name→variant
// constructor called out in spec.md §9 Design Notes.
func New(kindName string, params []interface{}) (*Stage, error) {
	kind := Kind(kindName)
	if expected, ok := entryKinds[kind]; ok {
		if len(params) != 0 {
			return nil, fmt.Errorf("stage: %s takes no parameters, got %d", kindName, len(params))
		}
		return &Stage{Kind: KindFile, ExpectedType: expected}, nil
	}

	switch kind {
	case KindNoise:
		k := 100
		if len(params) == 1 {
			v, err := intParam(params[0])
			if err != nil {
				return nil, fmt.Errorf("stage: Noise parameter: %w", err)
			}
			k = v
		} else if len(params) > 1 {
			return nil, fmt.Errorf("stage: Noise takes at most one parameter, got %d", len(params))
		}
		if k < 1 {
			return nil, fmt.Errorf("stage: Noise(k) requires k >= 1, got %d", k)
		}
		return &Stage{Kind: KindNoise, NoiseK: k}, nil

	case KindHeaderJPEG:
		if len(params) != 0 {
			return nil, fmt.Errorf("stage: HeaderJPEG takes no parameters, got %d", len(params))
		}
		return &Stage{Kind: KindHeaderJPEG}, nil

	case KindSplit:
		n := 1000
		if len(params) == 1 {
			v, err := intParam(params[0])
			if err != nil {
				return nil, fmt.Errorf("stage: Split parameter: %w", err)
			}
			n = v
		} else if len(params) > 1 {
			return nil, fmt.Errorf("stage: Split takes at most one parameter, got %d", len(params))
		}
		if n < 1 {
			return nil, fmt.Errorf("stage: Split(n) requires n >= 1, got %d", n)
		}
		return &Stage{Kind: KindSplit, SplitSize: n}, nil

	case KindSaveHashes:
		if len(params) != 0 {
			return nil, fmt.Errorf("stage: SaveHashes takes no parameters, got %d", len(params))
		}
		return &Stage{Kind: KindSaveHashes}, nil

	case KindDiskImage:
		if len(params) != 0 {
			return nil, fmt.Errorf("stage: DiskImage takes no parameters, got %d", len(params))
		}
		return &Stage{Kind: KindDiskImage}, nil

	case KindSendTCP, KindSendUDP:
		// Reserved names, no behavior: spec.md §9 Open Questions flags
		// these as placeholders pending an owner decision on wire format.
		if len(params) != 0 {
			return nil, fmt.Errorf("stage: %s takes no parameters, got %d", kindName, len(params))
		}
		return &Stage{Kind: kind}, nil

	default:
		return nil, fmt.Errorf("stage: unknown stage kind %q", kindName)
	}
}

func intParam(p interface{}) (int, error) {
	switch v := p.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		return int(v), nil
	default:
		return 0, fmt.Errorf("expected an integer, got %T", p)
	}
}

// IsTerminal reports whether a stage ends a chain (DiskImage, SendTCP, SendUDP).
func (s *Stage) IsTerminal() bool {
	switch s.Kind {
	case KindDiskImage, KindSendTCP, KindSendUDP:
		return true
	default:
		return false
	}
}

package stage

import (
	"fmt"
	"os"
)

// Chain is a flat, ordered sequence of Stages (spec.md §9: "prefer a flat
// ordered sequence" over the original's next-pointer linked list). Exactly
// one entry node (the first) and no node has any successor other than the
// next slice element — the invariants of spec.md §4.2 hold by construction.
type Chain struct {
	Stages []*Stage
}

// Build constructs a Chain from an ordered list of (kind, params) pairs, as
// produced by config.PipelineDefinition. Construction fails atomically on
// any unknown kind or bad parameter list (spec.md §4.4: "fatal at
// construction time").
func Build(kinds []string, params [][]interface{}) (*Chain, error) {
	if len(kinds) == 0 {
		return nil, fmt.Errorf("stage: a chain must have at least one stage")
	}
	stages := make([]*Stage, len(kinds))
	for i, k := range kinds {
		s, err := New(k, params[i])
		if err != nil {
			return nil, fmt.Errorf("stage: building chain entry %d: %w", i, err)
		}
		stages[i] = s
	}
	for i, s := range stages {
		if s.IsTerminal() && i != len(stages)-1 {
			return nil, fmt.Errorf("stage: %s at position %d is a terminal stage but is not last in the chain", s.Kind, i)
		}
	}
	return &Chain{Stages: stages}, nil
}

// Run threads a singleton buffer list through every stage's pre/main/post
// hooks in order, per spec.md §4.2: "The initial call receives a singleton
// list containing one buffer. The return value of the final node is the
// pipeline's output."
func (c *Chain) Run(ctx *Context) ([][]byte, error) {
	buffers := [][]byte{nil} // the File entry stage's pre hook fills this in
	for _, s := range c.Stages {
		var err error
		buffers, err = apply(s, buffers, ctx)
		if err != nil {
			return nil, fmt.Errorf("stage: %s: %w", s.Kind, err)
		}
	}
	return buffers, nil
}

// apply runs pre, main, post for one stage, in that fixed order, per
// spec.md §4.2.
func apply(s *Stage, buffers [][]byte, ctx *Context) ([][]byte, error) {
	buffers, err := pre(s, buffers, ctx)
	if err != nil {
		return nil, err
	}
	buffers = main(s, buffers)
	return post(s, buffers, ctx)
}

func pre(s *Stage, buffers [][]byte, ctx *Context) ([][]byte, error) {
	if s.Kind != KindFile {
		return buffers, nil
	}
	content, err := os.ReadFile(ctx.ObjectName)
	if err != nil {
		return nil, fmt.Errorf("reading source file: %w", err)
	}
	ctx.FileHash = digestHex(content)
	if ctx.Classifier != nil {
		fileType, err := ctx.Classifier.Classify(ctx.ObjectName)
		if err != nil {
			return nil, fmt.Errorf("classifying source file: %w", err)
		}
		ctx.FileType = fileType
		if s.ExpectedType != "" && fileType != s.ExpectedType {
			return nil, fmt.Errorf("expected type %s but classifier returned %s", s.ExpectedType, fileType)
		}
	}
	return [][]byte{content}, nil
}

// main applies the stage's byte transform. Every kind not listed here is
// identity on main (File, HeaderJPEG, SaveHashes and the terminal stages do
// their work in pre/post instead, per spec.md §4.2).
func main(s *Stage, buffers [][]byte) [][]byte {
	switch s.Kind {
	case KindNoise:
		return noise(buffers, s.NoiseK)
	case KindSplit:
		return split(buffers, s.SplitSize)
	default:
		return buffers
	}
}

// noise overwrites every k-th byte (0-based index k-1, k-1+k, ...) of each
// buffer with 0x00, per spec.md §4.2 Noise(k).
func noise(buffers [][]byte, k int) [][]byte {
	for _, buf := range buffers {
		for i := k - 1; i < len(buf); i += k {
			buf[i] = 0x00
		}
	}
	return buffers
}

// split replaces the buffer list with its concatenation re-partitioned into
// contiguous blocks of size n, preserving order; the final block may be
// shorter, per spec.md §4.2 Split(n).
func split(buffers [][]byte, n int) [][]byte {
	var whole []byte
	for _, buf := range buffers {
		whole = append(whole, buf...)
	}
	var out [][]byte
	for i := 0; i < len(whole); i += n {
		end := i + n
		if end > len(whole) {
			end = len(whole)
		}
		out = append(out, whole[i:end])
	}
	return out
}

func post(s *Stage, buffers [][]byte, ctx *Context) ([][]byte, error) {
	switch s.Kind {
	case KindHeaderJPEG:
		return headerJPEG(buffers), nil
	case KindSaveHashes:
		if err := saveHashes(buffers, ctx); err != nil {
			return nil, err
		}
		return buffers, nil
	case KindDiskImage:
		if err := writeDiskImage(buffers, ctx); err != nil {
			return nil, err
		}
		return buffers, nil
	default:
		return buffers, nil
	}
}

// headerJPEG deletes the first 100 bytes of each buffer, per spec.md §4.2.
func headerJPEG(buffers [][]byte) [][]byte {
	out := make([][]byte, len(buffers))
	for i, buf := range buffers {
		if len(buf) > 100 {
			out[i] = buf[100:]
		} else {
			out[i] = buf[:0]
		}
	}
	return out
}

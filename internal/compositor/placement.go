package compositor

import (
	"math/rand"
	"sort"

	"github.com/tenzoki/diskforge/internal/model"
)

// unit is a placement candidate: either a single Chunk (scatter mode) or a
// whole ChunksOfFile (merge mode). No ecosystem library in the retrieved
// pack provides a PRNG; spec.md §1 Non-goals explicitly disclaims
// cryptographic unpredictability of placement, so math/rand suffices.
type unit interface {
	Len() int64
	SetOffset(offset int64)
	content() []byte
	entries() []model.TruthMapEntry
}

type chunkUnit struct{ c *model.Chunk }

func (u chunkUnit) Len() int64                     { return u.c.Len() }
func (u chunkUnit) SetOffset(offset int64)         { u.c.SetOffset(offset) }
func (u chunkUnit) content() []byte                { return u.c.Content }
func (u chunkUnit) entries() []model.TruthMapEntry { return []model.TruthMapEntry{u.c.Entry()} }

type fileUnit struct{ f *model.ChunksOfFile }

func (u fileUnit) Len() int64                     { return u.f.Len() }
func (u fileUnit) SetOffset(offset int64)         { u.f.SetOffset(offset) }
func (u fileUnit) content() []byte                { return u.f.Content() }
func (u fileUnit) entries() []model.TruthMapEntry { return u.f.Entries() }

// units converts scanned files into placement units according to mergeChunks.
func units(files []*model.ChunksOfFile, mergeChunks bool) []unit {
	if mergeChunks {
		out := make([]unit, len(files))
		for i, f := range files {
			out[i] = fileUnit{f}
		}
		return out
	}
	var out []unit
	for _, f := range files {
		for _, c := range f.Chunks {
			out = append(out, chunkUnit{c})
		}
	}
	return out
}

// distribute implements the sorted-gap-distribution random placement of
// spec.md §4.5 step 5: shuffle the units, draw |U| independent uniform
// samples over [0, G], sort them ascending, and walk the shuffled units
// advancing position by each gap increment in turn.
func distribute(u []unit, imageSize int64, rng *rand.Rand) {
	if len(u) == 0 {
		return
	}
	var reserved int64
	for _, item := range u {
		reserved += item.Len()
	}
	gap := imageSize - reserved // G, guaranteed >= 0 by the caller's sizing check

	shuffled := make([]unit, len(u))
	copy(shuffled, u)
	rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	gaps := make([]int64, len(shuffled))
	for i := range gaps {
		if gap == 0 {
			gaps[i] = 0
		} else {
			gaps[i] = rng.Int63n(gap + 1)
		}
	}
	sort.Slice(gaps, func(i, j int) bool { return gaps[i] < gaps[j] })

	var position, lastGap int64
	for i, item := range shuffled {
		g := gaps[i]
		position += g - lastGap
		item.SetOffset(position)
		position += item.Len()
		lastGap = g
	}
}

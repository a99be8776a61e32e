package compositor

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/tenzoki/diskforge/internal/logging"
	"github.com/tenzoki/diskforge/internal/model"
)

// imageDirName is the fixed subdirectory name under destination that holds
// the composed image and its truth map, per spec.md §6.
const imageDirName = "Disk Image"

// Sampler is the DiskImageSampler component named in config.Components.
type Sampler struct {
	ContentsPath string
	Destination  string
	ImageSize    int64
	MergeChunks  bool
	Rand         *rand.Rand // nil: a new source seeded from the process-default one

	log *logging.Logger
}

// New builds a Sampler. rng may be nil, in which case each use builds a
// fresh rand.New(rand.NewSource(...)) seeded from the top-level math/rand
// source, which is adequate for the non-cryptographic randomness
// spec.md §1 calls for.
func New(contentsPath, destination string, imageSize int64, mergeChunks bool, rng *rand.Rand, log *logging.Logger) *Sampler {
	return &Sampler{
		ContentsPath: contentsPath,
		Destination:  destination,
		ImageSize:    imageSize,
		MergeChunks:  mergeChunks,
		Rand:         rng,
		log:          log,
	}
}

// Run executes the full compositor contract of spec.md §4.5: scan, sizing
// check, noise fill, placement, emit.
func (s *Sampler) Run() error {
	s.log.Info("compositor starting, image size %d bytes, merge=%v", s.ImageSize, s.MergeChunks)

	files, err := scan(s.ContentsPath)
	if err != nil {
		return fmt.Errorf("compositor: %w", err)
	}

	var reserved int64
	for _, f := range files {
		reserved += f.Len()
	}
	if reserved > s.ImageSize {
		minMB := float64(reserved) / 1_000_000
		return fmt.Errorf("compositor: reserved %d bytes exceeds image size %d bytes; minimum image size is %.2f MB", reserved, s.ImageSize, minMB)
	}

	imageDir := filepath.Join(s.Destination, imageDirName)
	if err := os.MkdirAll(imageDir, 0o755); err != nil {
		return fmt.Errorf("compositor: creating %s: %w", imageDir, err)
	}

	image := make([]byte, s.ImageSize)
	s.fillNoise(image)

	placed := units(files, s.MergeChunks)
	distribute(placed, s.ImageSize, s.rng())

	for _, u := range placed {
		content := u.content()
		offset := placementOffset(u)
		copy(image[offset:offset+int64(len(content))], content)
	}

	imagePath := filepath.Join(imageDir, "disk_image.img")
	if err := os.WriteFile(imagePath, image, 0o644); err != nil {
		return fmt.Errorf("compositor: writing %s: %w", imagePath, err)
	}

	var entries []model.TruthMapEntry
	for _, u := range placed {
		entries = append(entries, u.entries()...)
	}
	truthMap := model.NewTruthMap(entries)

	if err := s.writeTruthMap(imageDir, truthMap); err != nil {
		return err
	}

	s.log.Info("compositor wrote %s (%d placed units, %d truth map records)", imagePath, len(placed), len(entries))
	return nil
}

// placementOffset reads back the offset distribute assigned to u. unit
// doesn't expose Offset() directly to keep the interface minimal, so we
// recover it from the first truth-map entry it produces.
func placementOffset(u unit) int64 {
	entries := u.entries()
	if len(entries) == 0 {
		return 0
	}
	return entries[0].Offset
}

func (s *Sampler) fillNoise(buf []byte) {
	r := s.rng()
	for i := range buf {
		buf[i] = byte(r.Intn(256))
	}
}

func (s *Sampler) rng() *rand.Rand {
	if s.Rand != nil {
		return s.Rand
	}
	return rand.New(rand.NewSource(rand.Int63()))
}

func (s *Sampler) writeTruthMap(imageDir string, tm *model.TruthMap) error {
	path := filepath.Join(imageDir, "truth_map.txt")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("compositor: creating %s: %w", path, err)
	}
	defer f.Close()

	if err := model.WriteHeader(f); err != nil {
		return fmt.Errorf("compositor: writing truth map header: %w", err)
	}
	if err := tm.Write(f); err != nil {
		return fmt.Errorf("compositor: writing truth map: %w", err)
	}
	return nil
}

// Cleanup removes a partially created Disk Image directory, used after a
// sizing failure per spec.md §7.
func (s *Sampler) Cleanup() error {
	imageDir := filepath.Join(s.Destination, imageDirName)
	return os.RemoveAll(imageDir)
}

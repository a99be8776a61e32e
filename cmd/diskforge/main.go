// Command diskforge builds a synthetic carving-research disk image from a
// corpus of source files: it harvests and chunks them per a definitions
// document, then composes a noise-filled image with the chunks scattered
// at random non-overlapping offsets, alongside a truth map of every
// placement.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/tenzoki/diskforge/internal/classify"
	"github.com/tenzoki/diskforge/internal/compositor"
	"github.com/tenzoki/diskforge/internal/config"
	"github.com/tenzoki/diskforge/internal/controller"
	"github.com/tenzoki/diskforge/internal/logging"
	"github.com/tenzoki/diskforge/internal/sessioncache"
)

func main() {
	force := flag.Bool("force", false, "reprocess the source directory even if a prior run's fingerprint is unchanged")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [--force] <config.yaml>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(flag.Arg(0), *force); err != nil {
		fmt.Fprintln(os.Stderr, "diskforge:", err)
		os.Exit(1)
	}
}

func run(configPath string, force bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	defs, err := config.LoadDefinitions(cfg.DefinitionsPath())
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.Paths.Destination, 0o755); err != nil {
		return fmt.Errorf("creating destination directory: %w", err)
	}
	runID := uuid.New().String()
	logDir := cfg.Paths.Destination + string(os.PathSeparator) + "logs"
	session, err := logging.NewSession(logDir, runID, true)
	if err != nil {
		return err
	}
	defer session.Close()
	log := session.With("main")

	if err := os.MkdirAll(cfg.Paths.StoredContents, 0o755); err != nil {
		return fmt.Errorf("creating stored_contents directory: %w", err)
	}
	contentsPath, fresh, err := sessioncache.Resolve(cfg.Paths.StoredContents, cfg.Paths.Source, cfg.DefinitionsPath(), force)
	if err != nil {
		return err
	}

	classifier := classify.NewSniffer()

	if fresh {
		log.Info("session cache miss (or --force): harvesting into %s", contentsPath)
		if err := os.MkdirAll(contentsPath, 0o755); err != nil {
			return fmt.Errorf("creating contents directory: %w", err)
		}
		if _, err := controller.Run(runID, cfg, defs, contentsPath, classifier, session); err != nil {
			return err
		}
	} else {
		log.Info("session cache hit: reusing %s, skipping harvest", contentsPath)
	}

	sizeBytes, err := defs.Sampler.SizeBytes()
	if err != nil {
		return err
	}
	mergeChunks, err := defs.Sampler.MergeChunks()
	if err != nil {
		return err
	}

	sampler := compositor.New(contentsPath, cfg.Paths.Destination, sizeBytes, mergeChunks, nil, session.With("compositor"))
	if err := sampler.Run(); err != nil {
		if cleanupErr := sampler.Cleanup(); cleanupErr != nil {
			log.Error("cleanup after compositor failure: %v", cleanupErr)
		}
		return err
	}

	log.Info("diskforge run complete")
	return nil
}

// Package controller wires a Config and Definitions document into a
// running harvest/pipeline graph: it builds each pipeline's stage chain,
// registers it, starts the harvester and every pipeline, and joins them
// in producer-then-consumers order (spec.md §4.4).
package controller

import (
	"fmt"
	"sync"

	"github.com/tenzoki/diskforge/internal/classify"
	"github.com/tenzoki/diskforge/internal/config"
	"github.com/tenzoki/diskforge/internal/harvest"
	"github.com/tenzoki/diskforge/internal/logging"
	"github.com/tenzoki/diskforge/internal/pipeline"
	"github.com/tenzoki/diskforge/internal/stage"
)

// queueSize is the per-pipeline input channel's buffer. It only needs to
// be large enough that the Harvester never blocks behind a busy pipeline
// in ordinary runs; pipelines drain it as fast as their stage chain allows.
const queueSize = 256

// Run builds the pipeline graph described by defs, rooted at cfg's source
// directory, writing chunk artifacts under contentsRoot, and runs it to
// completion. runID is used only for log correlation; the caller owns its
// generation and lifetime. It returns the Harvester's final dispatched-path
// list.
func Run(runID string, cfg *config.Config, defs *config.Definitions, contentsRoot string, classifier classify.Classifier, session *logging.Session) (harvested []string, err error) {
	log := session.With("controller")
	log.Info("run %s starting", runID)

	if err := defs.Validate(); err != nil {
		return nil, fmt.Errorf("controller: %w", err)
	}

	registry := pipeline.NewRegistry()
	pipelines := make([]*pipeline.Pipeline, 0, len(defs.Harvester))
	for i, tag := range defs.Harvester {
		chain, err := buildChain(defs.Pipelines[i])
		if err != nil {
			return nil, fmt.Errorf("controller: tag %s: %w", tag, err)
		}
		p := pipeline.New(tag, chain, contentsRoot, classifier, session.With("pipeline:"+tag), queueSize)
		if err := registry.Register(tag, p); err != nil {
			return nil, fmt.Errorf("controller: %w", err)
		}
		pipelines = append(pipelines, p)
	}

	h := harvest.New(cfg.Paths.Source, nil, defs.Harvester, true, registry, classifier, session.With("harvester"))

	var wg sync.WaitGroup
	wg.Add(len(pipelines))
	for _, p := range pipelines {
		p := p
		go func() {
			defer wg.Done()
			p.Run()
		}()
	}

	if err := h.Run(); err != nil {
		return nil, fmt.Errorf("controller: %w", err)
	}
	wg.Wait()

	log.Info("run %s complete, %d files harvested", runID, len(h.Harvested()))
	return h.Harvested(), nil
}

// buildChain converts one pipeline's stage descriptors into a stage.Chain.
func buildChain(pd config.PipelineDefinition) (*stage.Chain, error) {
	kinds := make([]string, len(pd.Stages))
	params := make([][]interface{}, len(pd.Stages))
	for i, sd := range pd.Stages {
		kinds[i] = sd.Kind
		params[i] = sd.Params
	}
	return stage.Build(kinds, params)
}

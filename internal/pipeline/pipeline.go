package pipeline

import (
	"fmt"

	"github.com/tenzoki/diskforge/internal/classify"
	"github.com/tenzoki/diskforge/internal/logging"
	"github.com/tenzoki/diskforge/internal/stage"
)

// Pipeline is a single per-file-type worker: one stage chain, one input
// queue, one contents root (spec.md §3). It is constructed by the
// Controller and run as a goroutine; it terminates when its queue yields
// the end-of-stream sentinel.
type Pipeline struct {
	FileType     string
	Chain        *stage.Chain
	ContentsRoot string
	Classifier   classify.Classifier

	Queue chan Job

	log *logging.Logger
}

// New builds a Pipeline with a queue of the given buffer size. A buffer of
// 0 still works correctly (synchronous handoff) but a small buffer lets the
// Harvester enqueue ahead of a busy pipeline without blocking, matching the
// "queues are effectively unbounded from [the Harvester's] perspective"
// guidance of spec.md §5.
func New(fileType string, chain *stage.Chain, contentsRoot string, classifier classify.Classifier, log *logging.Logger, queueSize int) *Pipeline {
	return &Pipeline{
		FileType:     fileType,
		Chain:        chain,
		ContentsRoot: contentsRoot,
		Classifier:   classifier,
		Queue:        make(chan Job, queueSize),
		log:          log,
	}
}

// Run is the consumer loop: dequeue a filename, run the chain, repeat,
// until EndOfStream. Files are processed strictly in arrival order within
// this pipeline (spec.md §5); an I/O or stage error aborts only that one
// file (spec.md §4.3) and the pipeline continues.
func (p *Pipeline) Run() {
	p.log.Info("pipeline %s starting", p.FileType)
	for job := range p.Queue {
		if job.EndOfStream {
			break
		}
		if err := p.processOne(job.Filename); err != nil {
			p.log.Error("pipeline %s: %s: %v", p.FileType, job.Filename, err)
		}
	}
	p.log.Info("pipeline %s exiting", p.FileType)
}

func (p *Pipeline) processOne(filename string) error {
	ctx := &stage.Context{
		ObjectName:   filename,
		ContentsPath: p.ContentsRoot,
		Classifier:   p.Classifier,
	}
	if _, err := p.Chain.Run(ctx); err != nil {
		return fmt.Errorf("processing %s: %w", filename, err)
	}
	p.log.Info("pipeline %s processed %s", p.FileType, filename)
	return nil
}

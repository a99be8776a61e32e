package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// StageDescriptor is one `{ kind_name: [params...] }` record from a
// pipeline's stage list.
type StageDescriptor struct {
	Kind   string
	Params []interface{}
}

// UnmarshalYAML accepts the single-key-map shape `{ Split: [1000] }`.
func (d *StageDescriptor) UnmarshalYAML(node *yaml.Node) error {
	var raw map[string][]interface{}
	if err := node.Decode(&raw); err != nil {
		return fmt.Errorf("definitions: malformed stage descriptor: %w", err)
	}
	if len(raw) != 1 {
		return fmt.Errorf("definitions: stage descriptor must name exactly one kind, got %d", len(raw))
	}
	for kind, params := range raw {
		d.Kind = kind
		d.Params = params
	}
	return nil
}

// PipelineDefinition is the ordered stage chain for one file-type tag.
type PipelineDefinition struct {
	Stages []StageDescriptor `yaml:"stages"`
}

// SamplerDefinition holds the compositor's parameters. Size is a one-element
// list of megabytes per spec.md §6 (`size: [MB_int]`); Merge likewise wraps
// a single bool.
type SamplerDefinition struct {
	Size  []int  `yaml:"size"`
	Merge []bool `yaml:"merge"`
}

// SizeBytes converts the configured megabyte size to bytes (MB × 1_000_000).
func (s SamplerDefinition) SizeBytes() (int64, error) {
	if len(s.Size) != 1 {
		return 0, fmt.Errorf("definitions: sampler.size must have exactly one value, got %d", len(s.Size))
	}
	return int64(s.Size[0]) * 1_000_000, nil
}

// MergeChunks reports whether chunks of one file should be placed
// contiguously.
func (s SamplerDefinition) MergeChunks() (bool, error) {
	if len(s.Merge) != 1 {
		return false, fmt.Errorf("definitions: sampler.merge must have exactly one value, got %d", len(s.Merge))
	}
	return s.Merge[0], nil
}

// Definitions is the `harvester`/`pipelines`/`sampler` document.
type Definitions struct {
	Harvester []string             `yaml:"harvester"`
	Pipelines []PipelineDefinition `yaml:"pipelines"`
	Sampler   SamplerDefinition    `yaml:"sampler"`
}

// LoadDefinitions reads and validates the definitions document at path.
func LoadDefinitions(path string) (*Definitions, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("definitions: read %s: %w", path, err)
	}
	var defs Definitions
	if err := yaml.Unmarshal(data, &defs); err != nil {
		return nil, fmt.Errorf("definitions: parse %s: %w", path, err)
	}
	if err := defs.Validate(); err != nil {
		return nil, err
	}
	return &defs, nil
}

// Validate cross-checks the harvester tag list against the pipeline list,
// mirroring cellorg's pool/cells cross-reference validation: every tag must
// have a same-position stage chain, and vice versa, checked before any
// worker starts.
func (d *Definitions) Validate() error {
	if len(d.Harvester) == 0 {
		return fmt.Errorf("definitions: harvester must name at least one file-type tag")
	}
	if len(d.Harvester) != len(d.Pipelines) {
		return fmt.Errorf("definitions: harvester has %d tags but pipelines has %d entries (must match 1:1 in order)",
			len(d.Harvester), len(d.Pipelines))
	}
	seen := make(map[string]bool, len(d.Harvester))
	for _, tag := range d.Harvester {
		if tag == "" {
			return fmt.Errorf("definitions: harvester tags must not be empty")
		}
		if seen[tag] {
			return fmt.Errorf("definitions: duplicate harvester tag %q", tag)
		}
		seen[tag] = true
	}
	for i, pd := range d.Pipelines {
		if len(pd.Stages) == 0 {
			return fmt.Errorf("definitions: pipeline %d (tag %q) has no stages", i, d.Harvester[i])
		}
	}
	return nil
}

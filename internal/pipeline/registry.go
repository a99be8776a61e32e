package pipeline

import "fmt"

// Registry maps a file-type tag to its Pipeline. It is populated once by
// the Controller before any worker starts and is read-only thereafter,
// owned by the Controller and passed to the Harvester by reference — never
// a package-level global, per spec.md §9 Design Notes (Global state).
type Registry struct {
	byTag map[string]*Pipeline
	order []string
}

// NewRegistry builds an empty Registry.
func NewRegistry() *Registry {
	return &Registry{byTag: make(map[string]*Pipeline)}
}

// Register adds a Pipeline under tag. Registering the same tag twice is a
// configuration error.
func (r *Registry) Register(tag string, p *Pipeline) error {
	if _, exists := r.byTag[tag]; exists {
		return fmt.Errorf("pipeline: tag %q already registered", tag)
	}
	r.byTag[tag] = p
	r.order = append(r.order, tag)
	return nil
}

// Lookup returns the Pipeline registered for tag, if any.
func (r *Registry) Lookup(tag string) (*Pipeline, bool) {
	p, ok := r.byTag[tag]
	return p, ok
}

// Tags returns every registered tag, in registration order — the same
// order the Harvester must check prefixes in (spec.md §4.1: "A file
// matches at most one pipeline (first-match wins over the tag ordering in
// configuration)").
func (r *Registry) Tags() []string {
	tags := make([]string, len(r.order))
	copy(tags, r.order)
	return tags
}

// All returns every registered Pipeline.
func (r *Registry) All() []*Pipeline {
	pipelines := make([]*Pipeline, len(r.order))
	for i, tag := range r.order {
		pipelines[i] = r.byTag[tag]
	}
	return pipelines
}

package ingest

import (
	"context"
	"fmt"

	"github.com/crenna/ragpipe/core"
	"github.com/crenna/ragpipe/pipeline"
)

// Joiner merges document streams from several converters into one.
// Its input ports are configured at construction so the pipeline can
// wire one port per converter; documents are concatenated in port
// order, which keeps the merge deterministic.
//
// Ports: one input per configured name, output "documents".
type Joiner struct {
	ports []string
}

var _ pipeline.Component = (*Joiner)(nil)

// NewJoiner creates a Joiner with the given input port names.
func NewJoiner(ports ...string) (*Joiner, error) {
	if len(ports) == 0 {
		return nil, fmt.Errorf("joiner needs at least one input port")
	}
	seen := make(map[string]bool, len(ports))
	for _, p := range ports {
		if p == "" {
			return nil, fmt.Errorf("joiner port name cannot be empty")
		}
		if seen[p] {
			return nil, fmt.Errorf("duplicate joiner port %q", p)
		}
		seen[p] = true
	}
	return &Joiner{ports: ports}, nil
}

// InputPorts implements pipeline.Component.
func (j *Joiner) InputPorts() []string { return j.ports }

// OutputPorts implements pipeline.Component.
func (j *Joiner) OutputPorts() []string { return []string{"documents"} }

// Run implements pipeline.Component.
func (j *Joiner) Run(ctx context.Context, inputs pipeline.Inputs) (pipeline.Outputs, error) {
	var merged []*core.Document
	for _, port := range j.ports {
		raw, ok := inputs[port]
		if !ok {
			return nil, fmt.Errorf("missing input: %s", port)
		}
		docs, ok := raw.([]*core.Document)
		if !ok {
			return nil, fmt.Errorf("%s: expected []*core.Document, got %T", port, raw)
		}
		merged = append(merged, docs...)
	}
	return pipeline.Outputs{"documents": merged}, nil
}

package ingest

import (
	"context"
	"fmt"
	"strings"

	"github.com/crenna/ragpipe/core"
	"github.com/crenna/ragpipe/pipeline"
)

// Cleaner normalizes document whitespace before splitting: runs of
// spaces and tabs collapse to one space, lines are trimmed, and blank
// line runs collapse to a single paragraph break. Documents left empty
// after cleaning are dropped.
//
// Ports: input "documents", output "documents".
type Cleaner struct{}

var _ pipeline.Component = (*Cleaner)(nil)

// NewCleaner creates a Cleaner.
func NewCleaner() *Cleaner {
	return &Cleaner{}
}

// InputPorts implements pipeline.Component.
func (c *Cleaner) InputPorts() []string { return []string{"documents"} }

// OutputPorts implements pipeline.Component.
func (c *Cleaner) OutputPorts() []string { return []string{"documents"} }

// Run implements pipeline.Component.
func (c *Cleaner) Run(ctx context.Context, inputs pipeline.Inputs) (pipeline.Outputs, error) {
	raw, ok := inputs["documents"]
	if !ok {
		return nil, fmt.Errorf("missing input: documents")
	}
	docs, ok := raw.([]*core.Document)
	if !ok {
		return nil, fmt.Errorf("documents: expected []*core.Document, got %T", raw)
	}

	cleaned := make([]*core.Document, 0, len(docs))
	for _, doc := range docs {
		doc.Content = CleanText(doc.Content)
		if doc.Content == "" {
			continue
		}
		cleaned = append(cleaned, doc)
	}

	return pipeline.Outputs{"documents": cleaned}, nil
}

// CleanText normalizes whitespace in a block of text.
func CleanText(text string) string {
	lines := strings.Split(text, "\n")
	var out []string
	blank := true
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			if !blank {
				out = append(out, "")
			}
			blank = true
			continue
		}
		out = append(out, line)
		blank = false
	}
	// Drop a trailing paragraph break
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return strings.Join(out, "\n")
}

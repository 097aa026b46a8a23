package ingest

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/crenna/ragpipe/ai"
	"github.com/crenna/ragpipe/core"
	"github.com/crenna/ragpipe/pipeline"
)

// Embedder attaches embedding vectors to documents. All chunk contents
// go to the embedding model as one batch.
//
// Ports: input "documents", output "documents" (with vectors).
type Embedder struct {
	embedder ai.Embedder
	logger   *slog.Logger
}

var _ pipeline.Component = (*Embedder)(nil)

// NewEmbedder creates an Embedder component around an embedding model.
func NewEmbedder(embedder ai.Embedder) (*Embedder, error) {
	if embedder == nil {
		return nil, fmt.Errorf("embedder is required")
	}
	return &Embedder{
		embedder: embedder,
		logger:   slog.Default().With("component", "ingest.embedder"),
	}, nil
}

// InputPorts implements pipeline.Component.
func (e *Embedder) InputPorts() []string { return []string{"documents"} }

// OutputPorts implements pipeline.Component.
func (e *Embedder) OutputPorts() []string { return []string{"documents"} }

// Run implements pipeline.Component.
func (e *Embedder) Run(ctx context.Context, inputs pipeline.Inputs) (pipeline.Outputs, error) {
	raw, ok := inputs["documents"]
	if !ok {
		return nil, fmt.Errorf("missing input: documents")
	}
	docs, ok := raw.([]*core.Document)
	if !ok {
		return nil, fmt.Errorf("documents: expected []*core.Document, got %T", raw)
	}

	if len(docs) == 0 {
		return pipeline.Outputs{"documents": docs}, nil
	}

	texts := make([]string, len(docs))
	for i, doc := range docs {
		texts[i] = doc.Content
	}

	vectors, err := e.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed %d chunks: %w", len(docs), err)
	}
	if len(vectors) != len(docs) {
		return nil, fmt.Errorf("embedding count mismatch: %d vectors for %d chunks", len(vectors), len(docs))
	}

	for i, doc := range docs {
		doc.Vector = vectors[i]
	}

	e.logger.Debug("embedded chunks", "count", len(docs))

	return pipeline.Outputs{"documents": docs}, nil
}

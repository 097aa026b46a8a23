package ingest

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/crenna/ragpipe/core"
	"github.com/crenna/ragpipe/pipeline"
	"github.com/crenna/ragpipe/storage"
)

// Writer persists embedded chunks to the document repository, applying
// the configured duplicate policy.
//
// Ports: input "documents", output "result" (*storage.WriteResult).
type Writer struct {
	repo   storage.DocumentRepository
	policy storage.DuplicatePolicy
	logger *slog.Logger
}

var _ pipeline.Component = (*Writer)(nil)

// NewWriter creates a Writer around a repository.
func NewWriter(repo storage.DocumentRepository, policy storage.DuplicatePolicy) (*Writer, error) {
	if repo == nil {
		return nil, fmt.Errorf("repository is required")
	}
	return &Writer{
		repo:   repo,
		policy: policy,
		logger: slog.Default().With("component", "ingest.writer"),
	}, nil
}

// InputPorts implements pipeline.Component.
func (w *Writer) InputPorts() []string { return []string{"documents"} }

// OutputPorts implements pipeline.Component.
func (w *Writer) OutputPorts() []string { return []string{"result"} }

// Run implements pipeline.Component.
func (w *Writer) Run(ctx context.Context, inputs pipeline.Inputs) (pipeline.Outputs, error) {
	raw, ok := inputs["documents"]
	if !ok {
		return nil, fmt.Errorf("missing input: documents")
	}
	docs, ok := raw.([]*core.Document)
	if !ok {
		return nil, fmt.Errorf("documents: expected []*core.Document, got %T", raw)
	}

	result, err := w.repo.AddDocuments(ctx, w.policy, docs...)
	if err != nil {
		return nil, fmt.Errorf("write %d chunks: %w", len(docs), err)
	}

	w.logger.Info("wrote chunks", "written", len(result.Written), "skipped", result.Skipped, "policy", w.policy.String())

	return pipeline.Outputs{"result": result}, nil
}

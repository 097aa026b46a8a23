// Copyright 2026 Crenna Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ingest

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/crenna/ragpipe/ai"
	"github.com/crenna/ragpipe/convert"
	"github.com/crenna/ragpipe/core"
	"github.com/crenna/ragpipe/fetch"
	"github.com/crenna/ragpipe/pipeline"
	"github.com/crenna/ragpipe/split"
	"github.com/crenna/ragpipe/storage"
)

// Result summarizes one ingestion run.
type Result struct {
	// Written holds the chunks stored in this run.
	Written []*core.Document

	// Skipped counts chunks dropped as duplicates.
	Skipped int

	// Failures lists sources that could not be fetched.
	Failures []*fetch.Failure
}

// Pipeline is the assembled ingestion graph: fetch, route by format,
// convert, join, clean, split, embed, write.
type Pipeline struct {
	graph  *pipeline.Graph
	logger *slog.Logger

	chunkSize    int
	chunkOverlap int
	policy       storage.DuplicatePolicy
	fetchOpts    []fetch.Option
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithChunkSize sets the splitter window size in words.
func WithChunkSize(size int) Option {
	return func(p *Pipeline) error {
		p.chunkSize = size
		return nil
	}
}

// WithChunkOverlap sets how many words consecutive chunks share.
func WithChunkOverlap(overlap int) Option {
	return func(p *Pipeline) error {
		p.chunkOverlap = overlap
		return nil
	}
}

// WithDuplicatePolicy sets how the writer treats already-stored chunks.
func WithDuplicatePolicy(policy storage.DuplicatePolicy) Option {
	return func(p *Pipeline) error {
		p.policy = policy
		return nil
	}
}

// WithFetchOptions passes options through to the source fetcher.
func WithFetchOptions(opts ...fetch.Option) Option {
	return func(p *Pipeline) error {
		p.fetchOpts = append(p.fetchOpts, opts...)
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		p.logger = logger.With("component", "ingest")
		return nil
	}
}

// NewPipeline builds the ingestion graph around a repository and an
// embedding model.
func NewPipeline(repo storage.DocumentRepository, embedder ai.Embedder, opts ...Option) (*Pipeline, error) {
	p := &Pipeline{
		logger:       slog.Default().With("component", "ingest"),
		chunkSize:    0, // 0 means splitter default
		chunkOverlap: -1,
		policy:       storage.DuplicateSkip,
	}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}

	fetcher, err := fetch.New(p.fetchOpts...)
	if err != nil {
		return nil, err
	}

	var splitOpts []split.Option
	if p.chunkSize > 0 {
		splitOpts = append(splitOpts, split.WithChunkSize(p.chunkSize))
	}
	if p.chunkOverlap >= 0 {
		splitOpts = append(splitOpts, split.WithOverlap(p.chunkOverlap))
	}
	splitter, err := split.New(splitOpts...)
	if err != nil {
		return nil, err
	}

	joiner, err := NewJoiner(convert.FormatHTML, convert.FormatPDF, convert.FormatMarkdown, convert.FormatText)
	if err != nil {
		return nil, err
	}

	embedComp, err := NewEmbedder(embedder)
	if err != nil {
		return nil, err
	}

	writer, err := NewWriter(repo, p.policy)
	if err != nil {
		return nil, err
	}

	graph := pipeline.New(pipeline.WithLogger(p.logger))

	nodes := map[string]pipeline.Component{
		"fetcher":  fetcher,
		"router":   convert.NewRouter(),
		"html":     convert.NewHTML(),
		"pdf":      convert.NewPDF(),
		"markdown": convert.NewMarkdown(),
		"text":     convert.NewText(),
		"joiner":   joiner,
		"cleaner":  NewCleaner(),
		"splitter": splitter,
		"embedder": embedComp,
		"writer":   writer,
	}
	for name, comp := range nodes {
		if err := graph.AddNode(name, comp); err != nil {
			return nil, err
		}
	}

	connections := [][2]string{
		{"fetcher.payloads", "router.payloads"},
		{"router.html", "html.payloads"},
		{"router.pdf", "pdf.payloads"},
		{"router.markdown", "markdown.payloads"},
		{"router.text", "text.payloads"},
		{"html.documents", "joiner.html"},
		{"pdf.documents", "joiner.pdf"},
		{"markdown.documents", "joiner.markdown"},
		{"text.documents", "joiner.text"},
		{"joiner.documents", "cleaner.documents"},
		{"cleaner.documents", "splitter.documents"},
		{"splitter.documents", "embedder.documents"},
		{"embedder.documents", "writer.documents"},
	}
	for _, c := range connections {
		if err := graph.Connect(c[0], c[1]); err != nil {
			return nil, err
		}
	}

	p.graph = graph
	return p, nil
}

// Run ingests the given sources and reports what was written, what was
// skipped as duplicate, and which sources failed to fetch.
func (p *Pipeline) Run(ctx context.Context, sources []string) (*Result, error) {
	if len(sources) == 0 {
		return nil, fmt.Errorf("%w: no sources given", ErrNoSources)
	}

	p.logger.Info("ingestion started", "sources", len(sources))

	outputs, err := p.graph.Run(ctx, map[string]pipeline.Inputs{
		"fetcher": {"sources": sources},
	})
	if err != nil {
		return nil, err
	}

	result := &Result{}
	if writerOut, ok := outputs["writer"]; ok {
		if wr, ok := writerOut["result"].(*storage.WriteResult); ok {
			result.Written = wr.Written
			result.Skipped = wr.Skipped
		}
	}
	if fetchOut, ok := outputs["fetcher"]; ok {
		if failures, ok := fetchOut["failures"].([]*fetch.Failure); ok {
			result.Failures = failures
		}
	}

	p.logger.Info("ingestion finished",
		"written", len(result.Written),
		"skipped", result.Skipped,
		"failed_sources", len(result.Failures))

	return result, nil
}

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


package split

import (
	"context"
	"fmt"
	"strings"

	"github.com/crenna/ragpipe/core"
	"github.com/crenna/ragpipe/pipeline"
)

const (
	defaultChunkSize = 200
	defaultOverlap   = 20
)

// Splitter cuts documents into overlapping word windows. Each window of
// `size` words starts `size-overlap` words after the previous one, so
// dropping the first `overlap` words of every chunk after the first
// reconstructs the original word sequence. Splitting is deterministic:
// the same document always yields the same chunks.
//
// Ports: input "documents", output "documents" (chunked).
type Splitter struct {
	size    int
	overlap int
}

var _ pipeline.Component = (*Splitter)(nil)

// Option configures a Splitter.
type Option func(*Splitter) error

// WithChunkSize sets the window size in words.
func WithChunkSize(size int) Option {
	return func(s *Splitter) error {
		if size < 1 {
			return fmt.Errorf("chunk size must be at least 1, got %d", size)
		}
		s.size = size
		return nil
	}
}

// WithOverlap sets how many words consecutive chunks share.
func WithOverlap(overlap int) Option {
	return func(s *Splitter) error {
		if overlap < 0 {
			return fmt.Errorf("overlap cannot be negative, got %d", overlap)
		}
		s.overlap = overlap
		return nil
	}
}

// New creates a Splitter. Overlap must be smaller than the chunk size.
func New(opts ...Option) (*Splitter, error) {
	s := &Splitter{size: defaultChunkSize, overlap: defaultOverlap}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	if s.overlap >= s.size {
		return nil, fmt.Errorf("overlap %d must be smaller than chunk size %d", s.overlap, s.size)
	}
	return s, nil
}

// InputPorts implements pipeline.Component.
func (s *Splitter) InputPorts() []string { return []string{"documents"} }

// OutputPorts implements pipeline.Component.
func (s *Splitter) OutputPorts() []string { return []string{"documents"} }

// Run implements pipeline.Component.
func (s *Splitter) Run(ctx context.Context, inputs pipeline.Inputs) (pipeline.Outputs, error) {
	raw, ok := inputs["documents"]
	if !ok {
		return nil, fmt.Errorf("missing input: documents")
	}
	docs, ok := raw.([]*core.Document)
	if !ok {
		return nil, fmt.Errorf("documents: expected []*core.Document, got %T", raw)
	}

	var chunks []*core.Document
	for _, doc := range docs {
		chunks = append(chunks, s.Split(doc)...)
	}

	return pipeline.Outputs{"documents": chunks}, nil
}

// Split cuts a single document into chunks. A document shorter than
// the window produces a single chunk.
func (s *Splitter) Split(doc *core.Document) []*core.Document {
	words := strings.Fields(doc.Content)
	if len(words) == 0 {
		return nil
	}

	step := s.size - s.overlap
	var chunks []*core.Document
	for start, index := 0, 0; start < len(words); start, index = start+step, index+1 {
		end := start + s.size
		if end > len(words) {
			end = len(words)
		}

		metadata := make(map[string]string, len(doc.Metadata))
		for k, v := range doc.Metadata {
			metadata[k] = v
		}

		chunks = append(chunks, &core.Document{
			Content:    strings.Join(words[start:end], " "),
			Source:     doc.Source,
			Title:      doc.Title,
			ChunkIndex: index,
			Metadata:   metadata,
		})

		if end == len(words) {
			break
		}
	}
	return chunks
}

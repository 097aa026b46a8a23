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


package query

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/crenna/ragpipe/ai"
	"github.com/crenna/ragpipe/core"
	"github.com/crenna/ragpipe/pipeline"
	"github.com/crenna/ragpipe/storage"
)

const (
	defaultTopK = 3

	// DefaultNoAnswerSentinel is the reply the prompt asks the model to
	// emit when the retrieved context cannot answer the question.
	DefaultNoAnswerSentinel = "no_answer"
)

// Engine answers questions over the document store. It embeds the
// question, retrieves the nearest chunks, prompts the model, and
// assembles the answer with its supporting documents. The retriever
// output feeds both the prompt builder and the answer builder.
type Engine struct {
	graph  *pipeline.Graph
	logger *slog.Logger

	topK     int
	sentinel string
	template string
}

// Option configures an Engine.
type Option func(*Engine) error

// WithTopK sets how many chunks are retrieved per question.
func WithTopK(k int) Option {
	return func(e *Engine) error {
		if k < 1 {
			return fmt.Errorf("topK must be at least 1, got %d", k)
		}
		e.topK = k
		return nil
	}
}

// WithNoAnswerSentinel overrides the no-answer sentinel string.
func WithNoAnswerSentinel(sentinel string) Option {
	return func(e *Engine) error {
		if sentinel == "" {
			return fmt.Errorf("sentinel cannot be empty")
		}
		e.sentinel = sentinel
		return nil
	}
}

// WithPromptTemplate replaces the default prompt template. The template
// receives {{.question}}, {{.context}}, and {{.sentinel}}.
func WithPromptTemplate(template string) Option {
	return func(e *Engine) error {
		e.template = template
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		e.logger = logger.With("component", "query")
		return nil
	}
}

// NewEngine builds the query graph around a repository, an embedding
// model, and a generator.
func NewEngine(repo storage.DocumentRepository, embedder ai.Embedder, generator ai.Generator, opts ...Option) (*Engine, error) {
	e := &Engine{
		logger:   slog.Default().With("component", "query"),
		topK:     defaultTopK,
		sentinel: DefaultNoAnswerSentinel,
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}

	textEmbedder, err := NewTextEmbedder(embedder)
	if err != nil {
		return nil, err
	}
	retriever, err := NewRetriever(repo, e.topK)
	if err != nil {
		return nil, err
	}
	promptBuilder, err := NewPromptBuilder(e.template, e.sentinel)
	if err != nil {
		return nil, err
	}
	generatorComp, err := NewGenerator(generator)
	if err != nil {
		return nil, err
	}
	answerBuilder, err := NewAnswerBuilder(e.sentinel)
	if err != nil {
		return nil, err
	}

	graph := pipeline.New(pipeline.WithLogger(e.logger))

	nodes := map[string]pipeline.Component{
		"embedder":  textEmbedder,
		"retriever": retriever,
		"prompt":    promptBuilder,
		"generator": generatorComp,
		"answer":    answerBuilder,
	}
	for name, comp := range nodes {
		if err := graph.AddNode(name, comp); err != nil {
			return nil, err
		}
	}

	connections := [][2]string{
		{"embedder.vector", "retriever.vector"},
		// The retrieved chunks fan out to the prompt and the answer
		{"retriever.documents", "prompt.documents"},
		{"retriever.documents", "answer.documents"},
		{"prompt.prompt", "generator.prompt"},
		{"generator.generation", "answer.generation"},
	}
	for _, c := range connections {
		if err := graph.Connect(c[0], c[1]); err != nil {
			return nil, err
		}
	}

	e.graph = graph
	return e, nil
}

// Ask answers a single question.
func (e *Engine) Ask(ctx context.Context, question string) (*core.Answer, error) {
	if question == "" {
		return nil, fmt.Errorf("%w: empty question", ErrInvalidQuestion)
	}

	e.logger.Debug("query started", "question", question, "top_k", e.topK)

	outputs, err := e.graph.Run(ctx, map[string]pipeline.Inputs{
		"embedder": {"question": question},
		"prompt":   {"question": question},
		"answer":   {"question": question},
	})
	if err != nil {
		return nil, err
	}

	answerOut, ok := outputs["answer"]
	if !ok {
		return nil, fmt.Errorf("query graph produced no answer")
	}
	answer, ok := answerOut["answer"].(*core.Answer)
	if !ok {
		return nil, fmt.Errorf("query graph produced no answer")
	}

	e.logger.Debug("query finished", "no_answer", answer.NoAnswer, "documents", len(answer.Documents))

	return answer, nil
}

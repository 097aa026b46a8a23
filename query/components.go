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
	"strconv"
	"strings"

	"github.com/tmc/langchaingo/prompts"

	"github.com/crenna/ragpipe/ai"
	"github.com/crenna/ragpipe/core"
	"github.com/crenna/ragpipe/pipeline"
	"github.com/crenna/ragpipe/storage"
)

// TextEmbedder embeds the question text.
//
// Ports: input "question" (string), output "vector" ([]float32).
type TextEmbedder struct {
	embedder ai.Embedder
}

var _ pipeline.Component = (*TextEmbedder)(nil)

// NewTextEmbedder creates a TextEmbedder.
func NewTextEmbedder(embedder ai.Embedder) (*TextEmbedder, error) {
	if embedder == nil {
		return nil, fmt.Errorf("embedder is required")
	}
	return &TextEmbedder{embedder: embedder}, nil
}

// InputPorts implements pipeline.Component.
func (e *TextEmbedder) InputPorts() []string { return []string{"question"} }

// OutputPorts implements pipeline.Component.
func (e *TextEmbedder) OutputPorts() []string { return []string{"vector"} }

// Run implements pipeline.Component.
func (e *TextEmbedder) Run(ctx context.Context, inputs pipeline.Inputs) (pipeline.Outputs, error) {
	question, err := stringInput(inputs, "question")
	if err != nil {
		return nil, err
	}
	vector, err := e.embedder.EmbedText(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}
	return pipeline.Outputs{"vector": vector}, nil
}

// Retriever finds the chunks nearest to the question vector.
//
// Ports: input "vector", output "documents" ([]*core.ScoredDocument).
type Retriever struct {
	repo storage.DocumentRepository
	topK int
}

var _ pipeline.Component = (*Retriever)(nil)

// NewRetriever creates a Retriever returning up to topK chunks.
func NewRetriever(repo storage.DocumentRepository, topK int) (*Retriever, error) {
	if repo == nil {
		return nil, fmt.Errorf("repository is required")
	}
	if topK < 1 {
		return nil, fmt.Errorf("topK must be at least 1, got %d", topK)
	}
	return &Retriever{repo: repo, topK: topK}, nil
}

// InputPorts implements pipeline.Component.
func (r *Retriever) InputPorts() []string { return []string{"vector"} }

// OutputPorts implements pipeline.Component.
func (r *Retriever) OutputPorts() []string { return []string{"documents"} }

// Run implements pipeline.Component.
func (r *Retriever) Run(ctx context.Context, inputs pipeline.Inputs) (pipeline.Outputs, error) {
	raw, ok := inputs["vector"]
	if !ok {
		return nil, fmt.Errorf("missing input: vector")
	}
	vector, ok := raw.([]float32)
	if !ok {
		return nil, fmt.Errorf("vector: expected []float32, got %T", raw)
	}

	docs, err := r.repo.FindSimilar(ctx, vector, r.topK)
	if err != nil {
		return nil, fmt.Errorf("retrieve top %d: %w", r.topK, err)
	}
	return pipeline.Outputs{"documents": docs}, nil
}

// defaultPromptTemplate instructs the model to answer only from the
// retrieved context and to emit the sentinel when it cannot.
const defaultPromptTemplate = `Answer the question using only the context below.
If the context does not contain the answer, reply with exactly "{{.sentinel}}".

Context:
{{.context}}

Question: {{.question}}

Answer:`

// PromptBuilder renders the generation prompt from the question and the
// retrieved chunks.
//
// Ports: inputs "question" (string) and "documents"
// ([]*core.ScoredDocument), output "prompt" (string).
type PromptBuilder struct {
	template prompts.PromptTemplate
	sentinel string
}

var _ pipeline.Component = (*PromptBuilder)(nil)

// NewPromptBuilder creates a PromptBuilder with the given template and
// no-answer sentinel. An empty template selects the default.
func NewPromptBuilder(template, sentinel string) (*PromptBuilder, error) {
	if sentinel == "" {
		return nil, fmt.Errorf("sentinel is required")
	}
	if template == "" {
		template = defaultPromptTemplate
	}
	return &PromptBuilder{
		template: prompts.NewPromptTemplate(template, []string{"question", "context", "sentinel"}),
		sentinel: sentinel,
	}, nil
}

// InputPorts implements pipeline.Component.
func (b *PromptBuilder) InputPorts() []string { return []string{"question", "documents"} }

// OutputPorts implements pipeline.Component.
func (b *PromptBuilder) OutputPorts() []string { return []string{"prompt"} }

// Run implements pipeline.Component.
func (b *PromptBuilder) Run(ctx context.Context, inputs pipeline.Inputs) (pipeline.Outputs, error) {
	question, err := stringInput(inputs, "question")
	if err != nil {
		return nil, err
	}
	docs, err := scoredDocsInput(inputs, "documents")
	if err != nil {
		return nil, err
	}

	var sb strings.Builder
	for i, doc := range docs {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString("[")
		sb.WriteString(strconv.Itoa(i + 1))
		sb.WriteString("] (")
		sb.WriteString(doc.Document.Source)
		sb.WriteString(")\n")
		sb.WriteString(doc.Document.Content)
	}

	prompt, err := b.template.Format(map[string]any{
		"question": question,
		"context":  sb.String(),
		"sentinel": b.sentinel,
	})
	if err != nil {
		return nil, fmt.Errorf("render prompt: %w", err)
	}

	return pipeline.Outputs{"prompt": prompt}, nil
}

// Generator calls the language model with the rendered prompt.
//
// Ports: input "prompt" (string), output "generation" (*ai.Generation).
type Generator struct {
	generator ai.Generator
}

var _ pipeline.Component = (*Generator)(nil)

// NewGenerator creates a Generator component.
func NewGenerator(generator ai.Generator) (*Generator, error) {
	if generator == nil {
		return nil, fmt.Errorf("generator is required")
	}
	return &Generator{generator: generator}, nil
}

// InputPorts implements pipeline.Component.
func (g *Generator) InputPorts() []string { return []string{"prompt"} }

// OutputPorts implements pipeline.Component.
func (g *Generator) OutputPorts() []string { return []string{"generation"} }

// Run implements pipeline.Component.
func (g *Generator) Run(ctx context.Context, inputs pipeline.Inputs) (pipeline.Outputs, error) {
	prompt, err := stringInput(inputs, "prompt")
	if err != nil {
		return nil, err
	}
	generation, err := g.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}
	return pipeline.Outputs{"generation": generation}, nil
}

// AnswerBuilder assembles the final answer: the model reply, the chunks
// it was based on, sentinel detection, and generation metadata.
//
// Ports: inputs "question" (string), "generation" (*ai.Generation),
// "documents" ([]*core.ScoredDocument); output "answer" (*core.Answer).
type AnswerBuilder struct {
	sentinel string
}

var _ pipeline.Component = (*AnswerBuilder)(nil)

// NewAnswerBuilder creates an AnswerBuilder detecting the given
// sentinel.
func NewAnswerBuilder(sentinel string) (*AnswerBuilder, error) {
	if sentinel == "" {
		return nil, fmt.Errorf("sentinel is required")
	}
	return &AnswerBuilder{sentinel: sentinel}, nil
}

// InputPorts implements pipeline.Component.
func (b *AnswerBuilder) InputPorts() []string { return []string{"question", "generation", "documents"} }

// OutputPorts implements pipeline.Component.
func (b *AnswerBuilder) OutputPorts() []string { return []string{"answer"} }

// Run implements pipeline.Component.
func (b *AnswerBuilder) Run(ctx context.Context, inputs pipeline.Inputs) (pipeline.Outputs, error) {
	question, err := stringInput(inputs, "question")
	if err != nil {
		return nil, err
	}
	docs, err := scoredDocsInput(inputs, "documents")
	if err != nil {
		return nil, err
	}
	raw, ok := inputs["generation"]
	if !ok {
		return nil, fmt.Errorf("missing input: generation")
	}
	generation, ok := raw.(*ai.Generation)
	if !ok {
		return nil, fmt.Errorf("generation: expected *ai.Generation, got %T", raw)
	}

	reply := strings.TrimSpace(generation.Text)
	noAnswer := strings.Contains(strings.ToLower(reply), strings.ToLower(b.sentinel))

	answer := &core.Answer{
		Question:  question,
		Reply:     reply,
		NoAnswer:  noAnswer,
		Documents: docs,
		Metadata: map[string]string{
			"model":             generation.Model,
			"prompt_tokens":     strconv.Itoa(generation.PromptTokens),
			"completion_tokens": strconv.Itoa(generation.CompletionTokens),
		},
	}

	return pipeline.Outputs{"answer": answer}, nil
}

// input helpers shared by the query components

func stringInput(inputs pipeline.Inputs, port string) (string, error) {
	raw, ok := inputs[port]
	if !ok {
		return "", fmt.Errorf("missing input: %s", port)
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%s: expected string, got %T", port, raw)
	}
	return s, nil
}

func scoredDocsInput(inputs pipeline.Inputs, port string) ([]*core.ScoredDocument, error) {
	raw, ok := inputs[port]
	if !ok {
		return nil, fmt.Errorf("missing input: %s", port)
	}
	docs, ok := raw.([]*core.ScoredDocument)
	if !ok {
		return nil, fmt.Errorf("%s: expected []*core.ScoredDocument, got %T", port, raw)
	}
	return docs, nil
}

package openai

import (
	"context"
	"log/slog"

	"github.com/crenna/ragpipe/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Generator implements ai.Generator using OpenAI-compatible chat APIs.
type Generator struct {
	client      llms.Model
	model       string
	temperature float64
	logger      *slog.Logger
}

// newGenerator is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newGenerator(config *ai.Config) (*Generator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.GeneratorHost),
		openai.WithToken(config.APIKey),
		openai.WithModel(config.GeneratorModel),
	)
	if err != nil {
		return nil, err
	}

	return &Generator{
		client:      client,
		model:       config.GeneratorModel,
		temperature: config.Temperature,
		logger:      slog.Default().With("component", "openai-generator"),
	}, nil
}

// NewGenerator creates a new generator using the provided configuration.
//
// Returns ai.Generator interface to enforce abstraction.
func NewGenerator(config *ai.Config) (ai.Generator, error) {
	return newGenerator(config)
}

// Generate invokes the model with the given prompt and returns the reply
// plus whatever usage metadata the service reported. Service errors
// propagate unrecovered.
func (g *Generator) Generate(ctx context.Context, prompt string) (*ai.Generation, error) {
	g.logger.Debug("generating completion", "model", g.model, "promptLength", len(prompt))

	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(prompt),
			},
		},
	}

	response, err := g.client.GenerateContent(ctx, content, llms.WithTemperature(g.temperature))
	if err != nil {
		g.logger.Error("failed to generate content", "err", err)
		return nil, err
	}

	if len(response.Choices) < 1 {
		g.logger.Warn("no choices returned from model")
		return &ai.Generation{Model: g.model}, nil
	}

	choice := response.Choices[0]
	generation := &ai.Generation{
		Text:  choice.Content,
		Model: g.model,
	}
	if v, ok := choice.GenerationInfo["PromptTokens"].(int); ok {
		generation.PromptTokens = v
	}
	if v, ok := choice.GenerationInfo["CompletionTokens"].(int); ok {
		generation.CompletionTokens = v
	}

	return generation, nil
}

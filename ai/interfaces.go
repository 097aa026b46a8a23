package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector represents the semantic meaning of the text.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// Batch processing is more efficient than calling EmbedText multiple times.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Generation is a text-generation result with whatever usage metadata
// the backing service reported.
type Generation struct {
	// Text is the raw model reply.
	Text string

	// Model is the identifier of the model that produced the reply.
	Model string

	// PromptTokens and CompletionTokens are zero when the service does
	// not report usage.
	PromptTokens     int
	CompletionTokens int
}

// Generator produces text completions from prompts.
// Implementations must be thread-safe for concurrent use.
type Generator interface {
	// Generate invokes the model with the given prompt and returns the
	// reply. The call blocks until the service responds; there is no
	// local retry or backoff.
	Generate(ctx context.Context, prompt string) (*Generation, error)
}

// Judge scores answer quality using a model as the arbiter.
// Implementations must be thread-safe for concurrent use.
type Judge interface {
	// ScoreRelevance rates how well the answer addresses the question
	// given the retrieved context passages. The score is in [0, 1],
	// higher meaning more relevant.
	ScoreRelevance(ctx context.Context, question, answer string, contexts []string) (float64, error)
}

// Provider aggregates AI services for convenient initialization and
// lifecycle management. A provider creates and manages Embedder,
// Generator, and Judge instances, ensuring they share configuration and
// resources appropriately.
type Provider interface {
	// Embedder returns the text embedding service.
	Embedder() Embedder

	// Generator returns the text generation service.
	Generator() Generator

	// Judge returns the answer-quality scoring service.
	Judge() Judge

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}

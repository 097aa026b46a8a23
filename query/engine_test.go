package query

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crenna/ragpipe/ai"
	"github.com/crenna/ragpipe/ai/mock"
	"github.com/crenna/ragpipe/core"
	"github.com/crenna/ragpipe/ingest"
	"github.com/crenna/ragpipe/pipeline"
	"github.com/crenna/ragpipe/storage"
	badgerstore "github.com/crenna/ragpipe/storage/badger"
)

const blogPage = `<html>
<head><title>Demo Cluster Writeup</title></head>
<body>
<h1>Building the demo cluster</h1>
<p>For this walkthrough the author used Stackable version 22.11 to deploy the operators.</p>
<p>Earlier releases required manual CRD installation, which 22.11 no longer needs.</p>
</body>
</html>`

func TestAskAnswersFromIngestedPage(t *testing.T) {
	repo, backend, err := badgerstore.NewMemoryRepository()
	require.NoError(t, err)
	defer func() { repo.Close(); backend.Close() }()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(blogPage))
	}))
	defer server.Close()

	embedder := mock.NewMockEmbedder()

	p, err := ingest.NewPipeline(repo, embedder,
		ingest.WithChunkSize(30), ingest.WithChunkOverlap(5))
	require.NoError(t, err)

	result, err := p.Run(context.Background(), []string{server.URL + "/post.html"})
	require.NoError(t, err)
	require.NotEmpty(t, result.Written)

	generator := mock.NewMockGenerator("22.11")

	engine, err := NewEngine(repo, embedder, generator, WithTopK(2))
	require.NoError(t, err)

	answer, err := engine.Ask(context.Background(), "Which version of Stackable did the author use?")
	require.NoError(t, err)

	assert.Equal(t, "22.11", answer.Reply)
	assert.False(t, answer.NoAnswer)
	require.NotEmpty(t, answer.Documents)
	assert.Contains(t, answer.Sources(), server.URL+"/post.html")

	// The prompt handed to the model contains the retrieved context
	prompts := generator.Prompts()
	require.Len(t, prompts, 1)
	assert.Contains(t, prompts[0], "Which version of Stackable did the author use?")
	assert.Contains(t, prompts[0], "Stackable")
}

func TestAskNoAnswerSentinel(t *testing.T) {
	repo, backend, err := badgerstore.NewMemoryRepository()
	require.NoError(t, err)
	defer func() { repo.Close(); backend.Close() }()

	_, err = repo.AddDocuments(context.Background(), storage.DuplicateSkip, &core.Document{
		Content: "completely unrelated content about gardening",
		Source:  "garden.txt",
		Vector:  mock.DeterministicVector("completely unrelated content about gardening", 16),
	})
	require.NoError(t, err)

	engine, err := NewEngine(repo, mock.NewMockEmbedder(), mock.NewMockGenerator("no_answer"))
	require.NoError(t, err)

	answer, err := engine.Ask(context.Background(), "What is the capital of Mars?")
	require.NoError(t, err)

	assert.True(t, answer.NoAnswer)
}

func TestAskCustomSentinel(t *testing.T) {
	repo, backend, err := badgerstore.NewMemoryRepository()
	require.NoError(t, err)
	defer func() { repo.Close(); backend.Close() }()

	_, err = repo.AddDocuments(context.Background(), storage.DuplicateSkip, &core.Document{
		Content: "filler",
		Source:  "f.txt",
		Vector:  mock.DeterministicVector("filler", 16),
	})
	require.NoError(t, err)

	engine, err := NewEngine(repo, mock.NewMockEmbedder(), mock.NewMockGenerator("CANNOT_ANSWER"),
		WithNoAnswerSentinel("CANNOT_ANSWER"))
	require.NoError(t, err)

	answer, err := engine.Ask(context.Background(), "anything")
	require.NoError(t, err)
	assert.True(t, answer.NoAnswer)

	// The sentinel instruction reaches the prompt
	gen := mock.NewMockGenerator("ok")
	engine2, err := NewEngine(repo, mock.NewMockEmbedder(), gen,
		WithNoAnswerSentinel("CANNOT_ANSWER"))
	require.NoError(t, err)
	_, err = engine2.Ask(context.Background(), "anything")
	require.NoError(t, err)
	require.Len(t, gen.Prompts(), 1)
	assert.Contains(t, gen.Prompts()[0], "CANNOT_ANSWER")
}

func TestAskEmptyQuestion(t *testing.T) {
	repo, backend, err := badgerstore.NewMemoryRepository()
	require.NoError(t, err)
	defer func() { repo.Close(); backend.Close() }()

	engine, err := NewEngine(repo, mock.NewMockEmbedder(), mock.NewMockGenerator("x"))
	require.NoError(t, err)

	_, err = engine.Ask(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidQuestion)
}

func TestAnswerMetadata(t *testing.T) {
	builder, err := NewAnswerBuilder("no_answer")
	require.NoError(t, err)

	out, err := builder.Run(context.Background(), pipeline.Inputs{
		"question": "q",
		"generation": &ai.Generation{
			Text:             " the reply ",
			Model:            "qwen2.5:3b",
			PromptTokens:     120,
			CompletionTokens: 8,
		},
		"documents": []*core.ScoredDocument{},
	})
	require.NoError(t, err)

	answer := out["answer"].(*core.Answer)
	assert.Equal(t, "the reply", answer.Reply)
	assert.Equal(t, "qwen2.5:3b", answer.Metadata["model"])
	assert.Equal(t, "120", answer.Metadata["prompt_tokens"])
	assert.Equal(t, "8", answer.Metadata["completion_tokens"])
	assert.False(t, answer.NoAnswer)
}

func TestRetrieverHonorsTopK(t *testing.T) {
	repo, backend, err := badgerstore.NewMemoryRepository()
	require.NoError(t, err)
	defer func() { repo.Close(); backend.Close() }()

	ctx := context.Background()
	for _, content := range []string{"alpha", "beta", "gamma", "delta"} {
		_, err := repo.AddDocuments(ctx, storage.DuplicateSkip, &core.Document{
			Content: content,
			Source:  "s",
			Vector:  mock.DeterministicVector(content, 16),
		})
		require.NoError(t, err)
	}

	retriever, err := NewRetriever(repo, 2)
	require.NoError(t, err)

	out, err := retriever.Run(ctx, pipeline.Inputs{"vector": mock.DeterministicVector("alpha", 16)})
	require.NoError(t, err)

	docs := out["documents"].([]*core.ScoredDocument)
	assert.Len(t, docs, 2)
}

func TestPromptBuilderNumbersContexts(t *testing.T) {
	builder, err := NewPromptBuilder("", "no_answer")
	require.NoError(t, err)

	out, err := builder.Run(context.Background(), pipeline.Inputs{
		"question": "what is it?",
		"documents": []*core.ScoredDocument{
			{Document: &core.Document{Content: "first chunk", Source: "a.txt"}, Score: 0.9},
			{Document: &core.Document{Content: "second chunk", Source: "b.txt"}, Score: 0.8},
		},
	})
	require.NoError(t, err)

	prompt := out["prompt"].(string)
	assert.Contains(t, prompt, "[1] (a.txt)")
	assert.Contains(t, prompt, "[2] (b.txt)")
	assert.Contains(t, prompt, "first chunk")
	assert.True(t, strings.Contains(prompt, "no_answer"))
}

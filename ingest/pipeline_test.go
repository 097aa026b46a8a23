package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crenna/ragpipe/ai/mock"
	"github.com/crenna/ragpipe/core"
	"github.com/crenna/ragpipe/pipeline"
	badgerstore "github.com/crenna/ragpipe/storage/badger"
)

func writeFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestPipelineEndToEnd(t *testing.T) {
	repo, backend, err := badgerstore.NewMemoryRepository()
	require.NoError(t, err)
	defer func() { repo.Close(); backend.Close() }()

	dir := t.TempDir()
	htmlFile := writeFixture(t, dir, "post.html",
		`<html><head><title>Release Post</title></head><body><p>The author used Stackable version 22.11 for the demo cluster.</p></body></html>`)
	mdFile := writeFixture(t, dir, "guide.md",
		"# Guide\n\nStackable operators install with a single helm command.\n")
	txtFile := writeFixture(t, dir, "notes.txt",
		"Plain notes about   cluster    sizing\n\n\nand resource limits.")

	p, err := NewPipeline(repo, mock.NewMockEmbedder(),
		WithChunkSize(8), WithChunkOverlap(2))
	require.NoError(t, err)

	result, err := p.Run(context.Background(), []string{htmlFile, mdFile, txtFile})
	require.NoError(t, err)

	assert.Empty(t, result.Failures)
	require.NotEmpty(t, result.Written)

	for _, doc := range result.Written {
		assert.NotZero(t, doc.Id)
		assert.NotEmpty(t, doc.Vector, "chunk %d should be embedded", doc.Id)
		assert.NotEmpty(t, doc.Source)
	}

	// Chunks of a source come back ordered by chunk index
	chunks, err := repo.GetDocumentsBySource(context.Background(), mdFile)
	require.NoError(t, err)
	require.NotEmpty(t, chunks)
	for i, chunk := range chunks {
		assert.Equal(t, i, chunk.ChunkIndex)
		assert.Equal(t, "Guide", chunk.Title)
	}

	count, err := repo.CountDocuments(context.Background())
	require.NoError(t, err)
	assert.Equal(t, len(result.Written), count)
}

func TestPipelineDedupOnReingest(t *testing.T) {
	repo, backend, err := badgerstore.NewMemoryRepository()
	require.NoError(t, err)
	defer func() { repo.Close(); backend.Close() }()

	dir := t.TempDir()
	file := writeFixture(t, dir, "doc.txt", "identical content that will be ingested twice for the duplicate check")

	p, err := NewPipeline(repo, mock.NewMockEmbedder(), WithChunkSize(5), WithChunkOverlap(1))
	require.NoError(t, err)

	first, err := p.Run(context.Background(), []string{file})
	require.NoError(t, err)
	require.NotEmpty(t, first.Written)

	countBefore, err := repo.CountDocuments(context.Background())
	require.NoError(t, err)

	// Second run over identical content writes nothing
	second, err := p.Run(context.Background(), []string{file})
	require.NoError(t, err)
	assert.Empty(t, second.Written)
	assert.Equal(t, len(first.Written), second.Skipped)

	countAfter, err := repo.CountDocuments(context.Background())
	require.NoError(t, err)
	assert.Equal(t, countBefore, countAfter)
}

func TestPipelineIsolatesFetchFailures(t *testing.T) {
	repo, backend, err := badgerstore.NewMemoryRepository()
	require.NoError(t, err)
	defer func() { repo.Close(); backend.Close() }()

	dir := t.TempDir()
	good := writeFixture(t, dir, "good.txt", "content that exists on disk")

	p, err := NewPipeline(repo, mock.NewMockEmbedder())
	require.NoError(t, err)

	result, err := p.Run(context.Background(), []string{good, filepath.Join(dir, "missing.txt")})
	require.NoError(t, err)

	assert.NotEmpty(t, result.Written)
	require.Len(t, result.Failures, 1)
	assert.Contains(t, result.Failures[0].Source, "missing.txt")
}

func TestPipelineNoSources(t *testing.T) {
	repo, backend, err := badgerstore.NewMemoryRepository()
	require.NoError(t, err)
	defer func() { repo.Close(); backend.Close() }()

	p, err := NewPipeline(repo, mock.NewMockEmbedder())
	require.NoError(t, err)

	_, err = p.Run(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoSources)
}

func TestJoiner(t *testing.T) {
	_, err := NewJoiner()
	assert.Error(t, err)

	_, err = NewJoiner("a", "a")
	assert.Error(t, err)

	j, err := NewJoiner("left", "right")
	require.NoError(t, err)

	out, err := j.Run(context.Background(), pipeline.Inputs{
		"left":  []*core.Document{{Content: "one", Source: "l"}},
		"right": []*core.Document{{Content: "two", Source: "r"}, {Content: "three", Source: "r"}},
	})
	require.NoError(t, err)

	docs := out["documents"].([]*core.Document)
	require.Len(t, docs, 3)
	// Port order decides merge order
	assert.Equal(t, "one", docs[0].Content)
	assert.Equal(t, "two", docs[1].Content)

	_, err = j.Run(context.Background(), pipeline.Inputs{"left": []*core.Document{}})
	assert.Error(t, err)
}

func TestCleanText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"a  b\tc", "a b c"},
		{"  line one  \n\n\n\n  line two  ", "line one\n\nline two"},
		{"\n\n\n", ""},
		{"single", "single"},
		{"trailing\n\n", "trailing"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CleanText(tt.in), "CleanText(%q)", tt.in)
	}
}

func TestCleanerDropsEmptyDocuments(t *testing.T) {
	c := NewCleaner()
	out, err := c.Run(context.Background(), pipeline.Inputs{
		"documents": []*core.Document{
			{Content: "  keep   me  ", Source: "a"},
			{Content: " \n\t ", Source: "b"},
		},
	})
	require.NoError(t, err)

	docs := out["documents"].([]*core.Document)
	require.Len(t, docs, 1)
	assert.Equal(t, "keep me", docs[0].Content)
}

func TestEmbedderComponent(t *testing.T) {
	emb := mock.NewMockEmbedder()
	e, err := NewEmbedder(emb)
	require.NoError(t, err)

	docs := []*core.Document{
		{Content: "first chunk", Source: "s"},
		{Content: "second chunk", Source: "s"},
	}
	out, err := e.Run(context.Background(), pipeline.Inputs{"documents": docs})
	require.NoError(t, err)

	embedded := out["documents"].([]*core.Document)
	require.Len(t, embedded, 2)
	assert.NotEmpty(t, embedded[0].Vector)
	assert.NotEmpty(t, embedded[1].Vector)

	_, err = NewEmbedder(nil)
	assert.Error(t, err)
}

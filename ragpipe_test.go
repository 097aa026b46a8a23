package ragpipe

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crenna/ragpipe/ai/mock"
	"github.com/crenna/ragpipe/evaluate"
	"github.com/crenna/ragpipe/ingest"
	"github.com/crenna/ragpipe/query"
)

func TestStoreEndToEnd(t *testing.T) {
	store, err := Open("", WithInMemory(), WithProvider(mock.NewMockProvider()))
	require.NoError(t, err)
	defer store.Close()

	dir := t.TempDir()
	file := filepath.Join(dir, "versions.txt")
	require.NoError(t, os.WriteFile(file,
		[]byte("The demo cluster was deployed with Stackable version 22.11 by the author."), 0644))

	p, err := store.NewIngestionPipeline(ingest.WithChunkSize(10), ingest.WithChunkOverlap(2))
	require.NoError(t, err)

	result, err := p.Run(context.Background(), []string{file})
	require.NoError(t, err)
	require.NotEmpty(t, result.Written)

	count, err := store.DocumentRepository().CountDocuments(context.Background())
	require.NoError(t, err)
	assert.Equal(t, len(result.Written), count)

	engine, err := store.NewQueryEngine(query.WithTopK(2))
	require.NoError(t, err)

	answer, err := engine.Ask(context.Background(), "Which version of Stackable did the author use?")
	require.NoError(t, err)
	assert.NotEmpty(t, answer.Reply)
	assert.NotEmpty(t, answer.Documents)
	assert.Contains(t, answer.Sources(), file)
}

func TestStoreOnDisk(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "db")

	store, err := Open(dbPath, WithProvider(mock.NewMockProvider()))
	require.NoError(t, err)
	require.NoError(t, store.Close())

	// Reopening the same path works
	store, err = Open(dbPath, WithProvider(mock.NewMockProvider()))
	require.NoError(t, err)
	require.NoError(t, store.Close())
}

func TestStoreHarness(t *testing.T) {
	store, err := Open("", WithInMemory(), WithProvider(mock.NewMockProvider()))
	require.NoError(t, err)
	defer store.Close()

	h, err := store.NewHarness(evaluate.WithKs([]int{1}))
	require.NoError(t, err)
	require.NotNil(t, h)

	hq, err := store.NewAnswerQualityHarness()
	require.NoError(t, err)
	require.NotNil(t, hq)
}

package split

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crenna/ragpipe/core"
	"github.com/crenna/ragpipe/pipeline"
)

func words(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("w%d", i)
	}
	return strings.Join(parts, " ")
}

func TestSplitterWindows(t *testing.T) {
	s, err := New(WithChunkSize(5), WithOverlap(2))
	require.NoError(t, err)

	doc := &core.Document{Content: words(11), Source: "a.txt", Title: "A"}
	chunks := s.Split(doc)

	// Windows start every size-overlap=3 words: [0,5) [3,8) [6,11)
	require.Len(t, chunks, 3)
	assert.Equal(t, "w0 w1 w2 w3 w4", chunks[0].Content)
	assert.Equal(t, "w3 w4 w5 w6 w7", chunks[1].Content)
	assert.Equal(t, "w6 w7 w8 w9 w10", chunks[2].Content)

	for i, chunk := range chunks {
		assert.Equal(t, i, chunk.ChunkIndex)
		assert.Equal(t, "a.txt", chunk.Source)
		assert.Equal(t, "A", chunk.Title)
	}
}

func TestSplitterReconstruction(t *testing.T) {
	const size, overlap = 7, 3
	s, err := New(WithChunkSize(size), WithOverlap(overlap))
	require.NoError(t, err)

	for _, n := range []int{1, 6, 7, 8, 20, 99} {
		original := words(n)
		chunks := s.Split(&core.Document{Content: original, Source: "x"})

		// Dropping the first `overlap` words of every chunk after the
		// first must reconstruct the original word sequence.
		var rebuilt []string
		for i, chunk := range chunks {
			ws := strings.Fields(chunk.Content)
			if i > 0 {
				if len(ws) <= overlap {
					continue
				}
				ws = ws[overlap:]
			}
			rebuilt = append(rebuilt, ws...)
		}
		assert.Equal(t, original, strings.Join(rebuilt, " "), "n=%d", n)
	}
}

func TestSplitterDeterministic(t *testing.T) {
	s, err := New(WithChunkSize(4), WithOverlap(1))
	require.NoError(t, err)

	doc := &core.Document{Content: words(17), Source: "d.txt"}
	first := s.Split(doc)
	for i := 0; i < 3; i++ {
		again := s.Split(doc)
		require.Len(t, again, len(first))
		for j := range first {
			assert.Equal(t, first[j].Content, again[j].Content)
		}
	}
}

func TestSplitterShortDocument(t *testing.T) {
	s, err := New(WithChunkSize(100), WithOverlap(10))
	require.NoError(t, err)

	chunks := s.Split(&core.Document{Content: "just a few words", Source: "s"})
	require.Len(t, chunks, 1)
	assert.Equal(t, "just a few words", chunks[0].Content)
	assert.Equal(t, 0, chunks[0].ChunkIndex)

	assert.Empty(t, s.Split(&core.Document{Content: "   ", Source: "s"}))
}

func TestSplitterValidation(t *testing.T) {
	_, err := New(WithChunkSize(0))
	assert.Error(t, err)

	_, err = New(WithOverlap(-1))
	assert.Error(t, err)

	// Overlap must stay below the chunk size
	_, err = New(WithChunkSize(5), WithOverlap(5))
	assert.Error(t, err)

	_, err = New(WithChunkSize(5), WithOverlap(4))
	assert.NoError(t, err)
}

func TestSplitterComponent(t *testing.T) {
	s, err := New(WithChunkSize(3), WithOverlap(1))
	require.NoError(t, err)

	docs := []*core.Document{
		{Content: words(5), Source: "a", Metadata: map[string]string{"content_type": "text/plain"}},
		{Content: words(2), Source: "b"},
	}

	out, err := s.Run(context.Background(), pipeline.Inputs{"documents": docs})
	require.NoError(t, err)

	chunks := out["documents"].([]*core.Document)
	// a: [0,3) [2,5) = 2 chunks, b: 1 chunk
	require.Len(t, chunks, 3)
	assert.Equal(t, "text/plain", chunks[0].Metadata["content_type"])

	_, err = s.Run(context.Background(), pipeline.Inputs{})
	assert.Error(t, err)
}

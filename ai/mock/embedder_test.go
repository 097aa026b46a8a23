package mock

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeterministicVector_Stable(t *testing.T) {
	a := DeterministicVector("the warranty period is 24 months", 64)
	b := DeterministicVector("the warranty period is 24 months", 64)
	c := DeterministicVector("something else entirely", 64)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 64)
}

func TestDeterministicVector_UnitLength(t *testing.T) {
	for _, text := range []string{"alpha", "beta", "a much longer piece of text"} {
		vector := DeterministicVector(text, 32)

		var sumSquares float64
		for _, v := range vector {
			sumSquares += float64(v) * float64(v)
		}
		assert.InDelta(t, 1.0, math.Sqrt(sumSquares), 1e-4, "vector for %q is not unit length", text)
	}
}

func TestMockEmbedder_Injection(t *testing.T) {
	ctx := context.Background()
	embedder := NewMockEmbedder()

	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return []float32{1, 0, 0}, nil
	}

	vector, err := embedder.EmbedText(ctx, "anything")
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 0, 0}, vector)
	assert.Equal(t, 1, embedder.CallCount())

	embedder.Reset()
	assert.Equal(t, 0, embedder.CallCount())

	vectors, err := embedder.EmbedTexts(ctx, []string{"a", "b"})
	require.NoError(t, err)
	require.Len(t, vectors, 2)
	assert.Len(t, vectors[0], 384)
}

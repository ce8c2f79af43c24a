package embedding

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTFIDFFitsOnFirstBatch(t *testing.T) {
	e := NewTFIDF()
	corpus := []string{
		"order matching engine handles trades",
		"settlement pipeline reconciles ledgers",
	}
	vectors, err := e.EmbedBatch(context.Background(), corpus)
	require.NoError(t, err)
	require.Len(t, vectors, 2)
	dim := len(vectors[0])
	assert.Equal(t, dim, len(vectors[1]))
	assert.Greater(t, dim, 0)

	// Queries embed against the fitted vocabulary with matching dimension.
	qv, err := e.EmbedBatch(context.Background(), []string{"matching engine"})
	require.NoError(t, err)
	require.Len(t, qv, 1)
	assert.Equal(t, dim, len(qv[0]))
}

func TestTFIDFUnknownTokensYieldZeroVector(t *testing.T) {
	e := NewTFIDF()
	_, err := e.EmbedBatch(context.Background(), []string{"alpha beta gamma"})
	require.NoError(t, err)

	qv, err := e.EmbedBatch(context.Background(), []string{"zzz unrelated words"})
	require.NoError(t, err)
	for _, v := range qv[0] {
		assert.Zero(t, v)
	}
}

func TestTFIDFRejectsEmptyVocabulary(t *testing.T) {
	e := NewTFIDF()
	_, err := e.EmbedBatch(context.Background(), []string{"123 456", "..."})
	assert.Error(t, err)
}

func TestTFIDFVectorsAreNormalized(t *testing.T) {
	e := NewTFIDF()
	vectors, err := e.EmbedBatch(context.Background(), []string{
		"gateway routes requests downstream",
		"cache stores responses upstream",
	})
	require.NoError(t, err)
	for _, vec := range vectors {
		norm := 0.0
		for _, v := range vec {
			norm += v * v
		}
		assert.InDelta(t, 1.0, norm, 1e-9)
	}
}

package summarizer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizeSelectsFrequentTopics(t *testing.T) {
	text := "The order engine matches orders. The order engine validates orders. " +
		"Weather was unrelated yesterday. The order engine settles matched orders."
	s := NewFrequency()

	out, err := s.Summarize(text, 2)
	require.NoError(t, err)
	assert.Contains(t, out, "order engine")
	assert.Equal(t, 2, strings.Count(out, "."))
}

func TestSummarizePreservesDocumentOrder(t *testing.T) {
	text := "Alpha systems process data. Beta systems process data. Gamma systems process data."
	s := NewFrequency()

	out, err := s.Summarize(text, 3)
	require.NoError(t, err)
	assert.Less(t, strings.Index(out, "Alpha"), strings.Index(out, "Beta"))
	assert.Less(t, strings.Index(out, "Beta"), strings.Index(out, "Gamma"))
}

func TestSummarizeTextWithoutSentences(t *testing.T) {
	s := NewFrequency()
	out, err := s.Summarize("  just a fragment without punctuation  ", 3)
	require.NoError(t, err)
	assert.Equal(t, "just a fragment without punctuation", out)
}

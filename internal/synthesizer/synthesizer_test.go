package synthesizer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docchat/internal/domain"
)

type fakeGenerator struct {
	prompt string
	reply  string
	err    error
	calls  int
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.calls++
	f.prompt = prompt
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func retrievedFixture() []domain.RetrievalResult {
	return []domain.RetrievalResult{
		{Fragment: domain.Fragment{Index: 2, Text: "most relevant fragment"}, Score: 0.9},
		{Fragment: domain.Fragment{Index: 0, Text: "second fragment"}, Score: 0.5},
	}
}

func TestAnswerPromptAssembly(t *testing.T) {
	gen := &fakeGenerator{reply: "the answer"}
	s := New(gen)

	ans, err := s.Answer(context.Background(), "what is it?", retrievedFixture(), "Q: earlier\nA: reply")
	require.NoError(t, err)
	assert.Equal(t, "the answer", ans.Text)

	p := gen.prompt
	assert.Contains(t, p, "ONLY the context fragments")
	assert.Contains(t, p, "cannot answer")
	assert.Contains(t, p, "Q: earlier\nA: reply")
	assert.Contains(t, p, "[1] most relevant fragment")
	assert.Contains(t, p, "[2] second fragment")
	assert.Contains(t, p, "Question: what is it?")
	// Fragments appear in ranking order, after the history.
	assert.Less(t, strings.Index(p, "earlier"), strings.Index(p, "most relevant"))
	assert.Less(t, strings.Index(p, "most relevant"), strings.Index(p, "second fragment"))
}

func TestAnswerSourcesMatchRetrievalOrder(t *testing.T) {
	s := New(&fakeGenerator{reply: "ok"})

	ans, err := s.Answer(context.Background(), "q", retrievedFixture(), "")
	require.NoError(t, err)
	require.Len(t, ans.Sources, 2)
	assert.Equal(t, 2, ans.Sources[0].Index)
	assert.Equal(t, 0, ans.Sources[1].Index)
}

func TestAnswerEmptyRetrievalStillGenerates(t *testing.T) {
	gen := &fakeGenerator{reply: "cannot answer from the document"}
	s := New(gen)

	ans, err := s.Answer(context.Background(), "q", nil, "")
	require.NoError(t, err)
	assert.Equal(t, 1, gen.calls)
	assert.Empty(t, ans.Sources)
	assert.Contains(t, gen.prompt, noContextMarker)
}

func TestAnswerOmitsHistorySectionWhenEmpty(t *testing.T) {
	gen := &fakeGenerator{reply: "ok"}
	s := New(gen)

	_, err := s.Answer(context.Background(), "q", retrievedFixture(), "")
	require.NoError(t, err)
	assert.NotContains(t, gen.prompt, "Conversation so far")
}

func TestAnswerWrapsGenerationFailureWithoutRetry(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("model down")}
	s := New(gen)

	_, err := s.Answer(context.Background(), "q", retrievedFixture(), "")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrGeneration)
	assert.Equal(t, 1, gen.calls)
}

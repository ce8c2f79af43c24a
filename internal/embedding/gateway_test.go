package embedding

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docchat/internal/domain"
)

// fakeClient returns canned vectors or errors and records call counts.
type fakeClient struct {
	calls   int
	batches [][]string
	errs    []error // error per call; nil entries succeed
	dim     int
	short   bool // return one vector fewer than requested
}

func (f *fakeClient) EmbedBatch(_ context.Context, texts []string) ([]domain.Vector, error) {
	f.calls++
	f.batches = append(f.batches, append([]string(nil), texts...))
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		if err != nil {
			return nil, err
		}
	}
	n := len(texts)
	if f.short {
		n--
	}
	dim := f.dim
	if dim == 0 {
		dim = 3
	}
	out := make([]domain.Vector, n)
	for i := range out {
		out[i] = make(domain.Vector, dim)
		out[i][0] = float64(i + 1)
	}
	return out, nil
}

func TestEmbedPreservesOrderAndCount(t *testing.T) {
	client := &fakeClient{}
	g := NewGateway(client, 10, nil)

	vectors, err := g.Embed(context.Background(), []string{"a", "b", "c"})
	require.NoError(t, err)
	require.Len(t, vectors, 3)
	assert.Equal(t, 1.0, vectors[0][0])
	assert.Equal(t, 3.0, vectors[2][0])
}

func TestEmbedSplitsIntoBatches(t *testing.T) {
	client := &fakeClient{}
	g := NewGateway(client, 2, nil)

	vectors, err := g.Embed(context.Background(), []string{"a", "b", "c", "d", "e"})
	require.NoError(t, err)
	assert.Len(t, vectors, 5)
	require.Equal(t, 3, client.calls)
	assert.Equal(t, []string{"a", "b"}, client.batches[0])
	assert.Equal(t, []string{"e"}, client.batches[2])
}

func TestEmbedEmptyInput(t *testing.T) {
	g := NewGateway(&fakeClient{}, 10, nil)
	vectors, err := g.Embed(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, vectors)
}

func TestEmbedRetriesOnceOnTransientError(t *testing.T) {
	client := &fakeClient{errs: []error{
		&openai.APIError{HTTPStatusCode: http.StatusServiceUnavailable},
		nil,
	}}
	g := NewGateway(client, 10, nil)
	g.retryBackoff = time.Millisecond

	vectors, err := g.Embed(context.Background(), []string{"a"})
	require.NoError(t, err)
	assert.Len(t, vectors, 1)
	assert.Equal(t, 2, client.calls)
}

func TestEmbedGivesUpAfterOneRetry(t *testing.T) {
	client := &fakeClient{errs: []error{
		&openai.APIError{HTTPStatusCode: http.StatusTooManyRequests},
		&openai.APIError{HTTPStatusCode: http.StatusTooManyRequests},
	}}
	g := NewGateway(client, 10, nil)
	g.retryBackoff = time.Millisecond

	_, err := g.Embed(context.Background(), []string{"a"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrEmbedding)
	assert.Equal(t, 2, client.calls)
}

func TestEmbedDoesNotRetryAuthErrors(t *testing.T) {
	client := &fakeClient{errs: []error{
		&openai.APIError{HTTPStatusCode: http.StatusUnauthorized},
	}}
	g := NewGateway(client, 10, nil)

	_, err := g.Embed(context.Background(), []string{"a"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrEmbedding)
	assert.Equal(t, 1, client.calls)
}

func TestEmbedFailsOnShortBatch(t *testing.T) {
	client := &fakeClient{short: true}
	g := NewGateway(client, 10, nil)

	_, err := g.Embed(context.Background(), []string{"a", "b"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrEmbedding)
}

func TestEmbedWrapsCollaboratorFailure(t *testing.T) {
	cause := errors.New("boom")
	client := &fakeClient{errs: []error{cause}}
	g := NewGateway(client, 10, nil)

	_, err := g.Embed(context.Background(), []string{"a"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrEmbedding)
}

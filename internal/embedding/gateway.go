package embedding

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"

	"docchat/internal/domain"
)

// Gateway adapts the external embedding collaborator. It splits inputs into
// bounded batches, preserves input order, and performs at most one retry with
// exponential backoff for transient failures. A partial-batch failure fails
// the whole call.
type Gateway struct {
	client    domain.EmbeddingClient
	batchSize int
	log       *zap.Logger

	maxRetries   uint64
	retryBackoff time.Duration
}

// NewGateway wraps client. batchSize bounds how many texts go to the
// collaborator per request; values below 1 fall back to 32.
func NewGateway(client domain.EmbeddingClient, batchSize int, log *zap.Logger) *Gateway {
	if batchSize < 1 {
		batchSize = 32
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Gateway{
		client:       client,
		batchSize:    batchSize,
		log:          log,
		maxRetries:   1,
		retryBackoff: 500 * time.Millisecond,
	}
}

// Embed returns one vector per input text, in input order. All vectors share
// one dimensionality; a collaborator response violating that fails the call.
func (g *Gateway) Embed(ctx context.Context, texts []string) ([]domain.Vector, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	out := make([]domain.Vector, 0, len(texts))
	for start := 0; start < len(texts); start += g.batchSize {
		end := start + g.batchSize
		if end > len(texts) {
			end = len(texts)
		}
		vectors, err := g.embedBatch(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		out = append(out, vectors...)
	}

	dim := len(out[0])
	for i, v := range out {
		if len(v) != dim {
			return nil, fmt.Errorf("%w: vector %d has dimension %d, want %d",
				domain.ErrEmbedding, i, len(v), dim)
		}
	}
	return out, nil
}

func (g *Gateway) embedBatch(ctx context.Context, texts []string) ([]domain.Vector, error) {
	backoff := retry.WithMaxRetries(g.maxRetries, retry.NewExponential(g.retryBackoff))

	var vectors []domain.Vector
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		var callErr error
		vectors, callErr = g.client.EmbedBatch(ctx, texts)
		if callErr != nil {
			if isTransient(callErr) {
				g.log.Debug("transient embedding failure, retrying", zap.Error(callErr))
				return retry.RetryableError(callErr)
			}
			return callErr
		}
		if len(vectors) != len(texts) {
			return fmt.Errorf("got %d vectors for %d texts", len(vectors), len(texts))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEmbedding, err)
	}
	return vectors, nil
}

// isTransient reports whether the collaborator failure is worth one retry:
// timeouts, rate limits and 5xx responses qualify; authentication and
// malformed-input errors do not.
func isTransient(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == http.StatusTooManyRequests || apiErr.HTTPStatusCode >= 500
	}
	return false
}

package embedding

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"docchat/internal/domain"
)

// OpenAIClient is the embedding collaborator backed by an OpenAI-compatible
// embeddings endpoint.
type OpenAIClient struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

// OpenAIConfig configures the OpenAI embedding client.
type OpenAIConfig struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// NewOpenAIClient creates an embedding client for the configured endpoint.
func NewOpenAIClient(cfg OpenAIConfig) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: missing embedding API key", domain.ErrConfiguration)
	}
	if cfg.Model == "" {
		cfg.Model = "text-embedding-3-small"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	cc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		cc.BaseURL = cfg.BaseURL
	}
	return &OpenAIClient{
		client:  openai.NewClientWithConfig(cc),
		model:   cfg.Model,
		timeout: cfg.Timeout,
	}, nil
}

// EmbedBatch embeds texts in a single API call, returning vectors in input
// order.
func (c *OpenAIClient) EmbedBatch(ctx context.Context, texts []string) ([]domain.Vector, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(c.model),
		Input: texts,
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("embedding response has %d items for %d inputs", len(resp.Data), len(texts))
	}

	vectors := make([]domain.Vector, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(texts) {
			return nil, fmt.Errorf("embedding response index %d out of range", d.Index)
		}
		vec := make(domain.Vector, len(d.Embedding))
		for i, v := range d.Embedding {
			vec[i] = float64(v)
		}
		vectors[d.Index] = vec
	}
	return vectors, nil
}

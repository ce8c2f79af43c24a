package service

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"docchat/internal/chunker"
	"docchat/internal/domain"
	"docchat/internal/embedding"
	"docchat/internal/history"
	"docchat/internal/synthesizer"
	"docchat/internal/vectorstore"
)

var _ domain.Pipeline = (*Pipeline)(nil)

// Pipeline is a single-document, single-session RAG orchestrator. One vector
// index and one conversation state per instance; callers needing concurrent
// sessions over different documents instantiate one pipeline per document.
type Pipeline struct {
	fetcher     domain.Fetcher
	chunker     *chunker.RecursiveChunker
	gateway     *embedding.Gateway
	index       vectorstore.Index
	state       *history.State
	synthesizer *synthesizer.Synthesizer
	summarizer  domain.Summarizer
	log         *zap.Logger

	topK         int
	renderBudget int
	maxSentences int

	mu          sync.Mutex
	initialized bool
	source      string
}

// Options configures a pipeline.
type Options struct {
	Fetcher      domain.Fetcher
	Chunker      *chunker.RecursiveChunker
	Gateway      *embedding.Gateway
	Index        vectorstore.Index
	State        *history.State
	Synthesizer  *synthesizer.Synthesizer
	Summarizer   domain.Summarizer
	Logger       *zap.Logger
	TopK         int
	RenderBudget int
	MaxSentences int
}

func New(opts Options) *Pipeline {
	if opts.TopK < 1 {
		opts.TopK = 3
	}
	if opts.RenderBudget <= 0 {
		opts.RenderBudget = 2000
	}
	if opts.MaxSentences <= 0 {
		opts.MaxSentences = 5
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Pipeline{
		fetcher:      opts.Fetcher,
		chunker:      opts.Chunker,
		gateway:      opts.Gateway,
		index:        opts.Index,
		state:        opts.State,
		synthesizer:  opts.Synthesizer,
		summarizer:   opts.Summarizer,
		log:          opts.Logger,
		topK:         opts.TopK,
		renderBudget: opts.RenderBudget,
		maxSentences: opts.MaxSentences,
	}
}

// Initialize fetches the source, splits it into fragments, embeds them and
// builds the vector index, fully replacing any prior document. It returns a
// short extractive summary of the document.
func (p *Pipeline) Initialize(ctx context.Context, source string) (string, error) {
	doc, err := p.fetcher.Fetch(ctx, source)
	if err != nil {
		return "", err
	}

	fragments := p.chunker.Split(doc.Text)
	if len(fragments) == 0 {
		return "", fmt.Errorf("%w: %s contains no text to index", domain.ErrAcquisition, source)
	}
	p.log.Info("document chunked",
		zap.String("source", source),
		zap.Int("fragments", len(fragments)))

	texts := make([]string, len(fragments))
	for i, f := range fragments {
		texts[i] = f.Text
	}
	vectors, err := p.gateway.Embed(ctx, texts)
	if err != nil {
		return "", err
	}

	entries := make([]domain.IndexEntry, len(fragments))
	for i := range fragments {
		entries[i] = domain.IndexEntry{Fragment: fragments[i], Vector: vectors[i]}
	}
	if err := p.index.Build(entries); err != nil {
		return "", err
	}

	summary := ""
	if p.summarizer != nil {
		summary, err = p.summarizer.Summarize(doc.Text, p.maxSentences)
		if err != nil {
			p.log.Warn("summarization failed", zap.Error(err))
			summary = ""
		}
	}

	p.mu.Lock()
	p.initialized = true
	p.source = source
	p.mu.Unlock()
	p.log.Info("pipeline initialized", zap.String("source", source))
	return summary, nil
}

// Ask answers a question about the initialized document. The raw question is
// embedded for retrieval; conversation history goes into the generation
// prompt only. On success the turn is recorded into the conversation state.
func (p *Pipeline) Ask(ctx context.Context, question string) (domain.Answer, error) {
	p.mu.Lock()
	ready := p.initialized
	p.mu.Unlock()
	if !ready {
		return domain.Answer{}, domain.ErrNotInitialized
	}

	vectors, err := p.gateway.Embed(ctx, []string{question})
	if err != nil {
		return domain.Answer{}, err
	}

	retrieved, err := p.index.Query(vectors[0], p.topK)
	if err != nil {
		return domain.Answer{}, err
	}
	// Zero-similarity matches are no grounding at all; present that to the
	// synthesizer as an empty retrieval rather than fabricated relevance.
	retrieved = dropNonPositive(retrieved)
	p.log.Debug("fragments retrieved",
		zap.String("question", question),
		zap.Int("count", len(retrieved)))

	answer, err := p.synthesizer.Answer(ctx, question, retrieved, p.state.Render(p.renderBudget))
	if err != nil {
		return domain.Answer{}, err
	}

	p.state.Record(question, answer.Text)
	return answer, nil
}

func dropNonPositive(results []domain.RetrievalResult) []domain.RetrievalResult {
	out := results[:0]
	for _, r := range results {
		if r.Score > 0 {
			out = append(out, r)
		}
	}
	return out
}

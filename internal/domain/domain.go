package domain

import "context"

// Document is the raw text of a single ingested source.
type Document struct {
	Source string
	Text   string
}

// Fragment is a bounded-size slice of a document used as a retrieval unit.
// Start and End are byte offsets into the document text; Text equals
// document[Start:End]. Fragments are produced in increasing Start order.
type Fragment struct {
	Index int
	Text  string
	Start int
	End   int
}

// Vector is a fixed-length embedding of a text.
type Vector []float64

// IndexEntry pairs a fragment with its embedding for indexing.
type IndexEntry struct {
	Fragment Fragment
	Vector   Vector
}

// RetrievalResult is a fragment matched against a query, with its cosine
// similarity score. Higher scores rank first; ties break on Fragment.Index.
type RetrievalResult struct {
	Fragment Fragment
	Score    float64
}

// Turn is one question/answer exchange in a conversation.
type Turn struct {
	Question string
	Answer   string
	Ordinal  int
}

// Answer is the result of asking the pipeline a question. Sources lists the
// fragments the answer was grounded on, most relevant first; an empty Sources
// means the model was told no relevant context was found.
type Answer struct {
	Text    string
	Sources []Fragment
}

// Fetcher acquires the raw text of a source (URL or local path).
type Fetcher interface {
	Fetch(ctx context.Context, source string) (Document, error)
}

// EmbeddingClient is the external embedding collaborator. Implementations
// return one vector per input text, in input order, all of the same
// dimensionality.
type EmbeddingClient interface {
	EmbedBatch(ctx context.Context, texts []string) ([]Vector, error)
}

// Generator is the external language-model collaborator.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Summarizer produces a brief summary of the provided text.
type Summarizer interface {
	Summarize(text string, maxSentences int) (string, error)
}

// Pipeline is the surface consumed by the chat UI.
type Pipeline interface {
	Initialize(ctx context.Context, source string) (summary string, err error)
	Ask(ctx context.Context, question string) (Answer, error)
}

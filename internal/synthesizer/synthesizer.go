package synthesizer

import (
	"context"
	"fmt"
	"strings"

	"docchat/internal/domain"
)

const instruction = `You are answering questions about a single document. ` +
	`Use ONLY the context fragments below as factual grounding. ` +
	`If the fragments do not contain enough information to answer, say that ` +
	`you cannot answer from the document instead of inventing content.`

const noContextMarker = "[no relevant context found]"

// Synthesizer assembles a grounding prompt from retrieved fragments, the
// conversation history and the question, and delegates generation to the
// language-model collaborator. It is stateless: recording the turn is the
// pipeline's job.
type Synthesizer struct {
	generator domain.Generator
}

func New(generator domain.Generator) *Synthesizer {
	return &Synthesizer{generator: generator}
}

// Answer generates a grounded answer. When retrieved is empty the model is
// still called, with an explicit no-context marker, and Sources stays empty
// so the caller can detect a low-grounding answer. Generation failures are
// wrapped and never retried here.
func (s *Synthesizer) Answer(ctx context.Context, question string, retrieved []domain.RetrievalResult, history string) (domain.Answer, error) {
	prompt := buildPrompt(question, retrieved, history)

	text, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return domain.Answer{}, fmt.Errorf("%w: %v", domain.ErrGeneration, err)
	}

	sources := make([]domain.Fragment, 0, len(retrieved))
	for _, r := range retrieved {
		sources = append(sources, r.Fragment)
	}
	return domain.Answer{Text: strings.TrimSpace(text), Sources: sources}, nil
}

func buildPrompt(question string, retrieved []domain.RetrievalResult, history string) string {
	var b strings.Builder
	b.WriteString(instruction)
	b.WriteString("\n\n")

	if history != "" {
		b.WriteString("Conversation so far:\n")
		b.WriteString(history)
		b.WriteString("\n\n")
	}

	b.WriteString("Context fragments:\n")
	if len(retrieved) == 0 {
		b.WriteString(noContextMarker)
		b.WriteString("\n")
	} else {
		for i, r := range retrieved {
			fmt.Fprintf(&b, "[%d] %s\n", i+1, strings.TrimSpace(r.Fragment.Text))
		}
	}

	b.WriteString("\nQuestion: ")
	b.WriteString(question)
	b.WriteString("\nAnswer:")
	return b.String()
}

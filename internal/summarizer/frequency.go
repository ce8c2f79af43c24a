package summarizer

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

var (
	sentenceRe = regexp.MustCompile(`(?m)(?U)([^.!?]+[.!?])`)
	tokenRe    = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`)
)

// Frequency is an extractive summarizer: sentences are scored by normalized
// token frequency (stopwords excluded) and the top ones are returned in
// document order. Used for the one-line document overview shown after
// ingestion; it never touches the language model.
type Frequency struct {
	stopwords map[string]struct{}
}

func NewFrequency() *Frequency {
	return &Frequency{stopwords: stopwords()}
}

// Summarize returns up to maxSentences of the highest-scoring sentences,
// preserving their original order.
func (s *Frequency) Summarize(text string, maxSentences int) (string, error) {
	if maxSentences <= 0 {
		maxSentences = 5
	}
	sentences := sentenceRe.FindAllString(text, -1)
	if len(sentences) == 0 {
		return strings.TrimSpace(text), nil
	}

	freq := map[string]float64{}
	for _, sent := range sentences {
		for _, tok := range s.tokens(sent) {
			freq[tok]++
		}
	}
	maxF := 0.0
	for _, v := range freq {
		if v > maxF {
			maxF = v
		}
	}
	if maxF > 0 {
		for k, v := range freq {
			freq[k] = v / maxF
		}
	}

	type scored struct {
		idx   int
		score float64
	}
	scores := make([]scored, len(sentences))
	for i, sent := range sentences {
		toks := s.tokens(sent)
		total := 0.0
		for _, tok := range toks {
			total += freq[tok]
		}
		// Length normalization so long sentences don't dominate.
		if n := float64(len(toks)); n > 0 {
			total /= math.Sqrt(n)
		}
		scores[i] = scored{i, total}
	}
	sort.Slice(scores, func(i, j int) bool { return scores[i].score > scores[j].score })

	if maxSentences > len(scores) {
		maxSentences = len(scores)
	}
	selected := make([]int, maxSentences)
	for i := range selected {
		selected[i] = scores[i].idx
	}
	sort.Ints(selected)

	out := make([]string, 0, len(selected))
	for _, idx := range selected {
		out = append(out, strings.TrimSpace(sentences[idx]))
	}
	return strings.Join(out, " "), nil
}

func (s *Frequency) tokens(text string) []string {
	raw := tokenRe.FindAllString(strings.ToLower(text), -1)
	out := raw[:0]
	for _, t := range raw {
		if _, isStop := s.stopwords[t]; isStop {
			continue
		}
		out = append(out, t)
	}
	return out
}

func stopwords() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for", "to", "of", "in", "on", "at", "by", "with", "as", "is", "are", "was", "were", "be", "been", "being", "it", "this", "that", "these", "those", "from", "up", "down", "over", "under", "again", "further", "than", "so", "such", "into", "about", "between", "through", "during", "before", "after", "above", "below", "out", "off", "own", "same", "too", "very", "can", "will", "just", "don", "should", "now",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}

package embedding

import (
	"context"
	"errors"
	"math"
	"regexp"
	"sort"
	"strings"
	"sync"

	"docchat/internal/domain"
)

// TFIDF is a local, network-free embedding collaborator. The first batch it
// sees (the document's fragments) fits the vocabulary and IDF weights; later
// calls, including single-query batches, embed against that fitted
// vocabulary, so fragment and query vectors stay comparable.
type TFIDF struct {
	mu           sync.Mutex
	vocabulary   map[string]int
	idf          []float64
	dimension    int
	fitted       bool
	tokenPattern *regexp.Regexp
	stopwords    map[string]struct{}
}

// NewTFIDF creates an unfitted TF-IDF embedder.
func NewTFIDF() *TFIDF {
	return &TFIDF{
		tokenPattern: regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`),
		stopwords:    defaultStopwords(),
	}
}

// EmbedBatch embeds texts, fitting the vocabulary on the first call.
func (e *TFIDF) EmbedBatch(_ context.Context, texts []string) ([]domain.Vector, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.fitted {
		if err := e.fit(texts); err != nil {
			return nil, err
		}
	}
	vectors := make([]domain.Vector, len(texts))
	for i, t := range texts {
		vectors[i] = e.embed(t)
	}
	return vectors, nil
}

// fit builds the vocabulary and smoothed IDF values from the corpus.
func (e *TFIDF) fit(corpus []string) error {
	df := make(map[string]int)
	for _, text := range corpus {
		seen := make(map[string]struct{})
		for _, tok := range e.tokenize(text) {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}
	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	if len(terms) == 0 {
		return errors.New("no tokens found in corpus; ensure the tokenizer supports your language")
	}
	e.vocabulary = make(map[string]int, len(terms))
	e.idf = make([]float64, len(terms))
	n := float64(len(corpus))
	for i, term := range terms {
		e.vocabulary[term] = i
		e.idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1.0
	}
	e.dimension = len(terms)
	e.fitted = true
	return nil
}

// embed computes an L2-normalized TF-IDF vector. Text sharing no vocabulary
// with the corpus yields a zero vector, which cosine scoring treats as 0.
func (e *TFIDF) embed(text string) domain.Vector {
	vec := make(domain.Vector, e.dimension)
	tf := make(map[int]int)
	total := 0
	for _, tok := range e.tokenize(text) {
		if idx, ok := e.vocabulary[tok]; ok {
			tf[idx]++
			total++
		}
	}
	if total == 0 {
		return vec
	}
	for idx, count := range tf {
		vec[idx] = float64(count) / float64(total) * e.idf[idx]
	}
	norm := 0.0
	for _, v := range vec {
		norm += v * v
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range vec {
			vec[i] /= norm
		}
	}
	return vec
}

func (e *TFIDF) tokenize(text string) []string {
	raw := e.tokenPattern.FindAllString(strings.ToLower(text), -1)
	out := raw[:0]
	for _, t := range raw {
		if _, isStop := e.stopwords[t]; isStop {
			continue
		}
		out = append(out, t)
	}
	return out
}

func defaultStopwords() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for", "to", "of", "in", "on", "at", "by", "with", "as", "is", "are", "was", "were", "be", "been", "being", "it", "this", "that", "these", "those", "from", "up", "down", "over", "under", "again", "further", "than", "so", "such", "into", "about", "between", "through", "during", "before", "after", "above", "below", "out", "off", "own", "same", "too", "very", "can", "will", "just", "don", "should", "now",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}

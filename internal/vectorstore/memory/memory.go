package memory

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"docchat/internal/domain"
)

// Index is an in-memory vector index using brute-force cosine similarity.
// It holds the fragments of a single document; a full linear scan per query
// is exact and fast at that scale.
type Index struct {
	mu        sync.RWMutex
	dimension int
	entries   []domain.IndexEntry
}

func NewIndex() *Index { return &Index{} }

// Build replaces any previously stored entries. All vectors must share one
// dimensionality, which becomes the index dimensionality.
func (ix *Index) Build(entries []domain.IndexEntry) error {
	dim := 0
	for i, e := range entries {
		if len(e.Vector) == 0 {
			return fmt.Errorf("%w: entry %d has an empty vector", domain.ErrDimensionMismatch, i)
		}
		if dim == 0 {
			dim = len(e.Vector)
		} else if len(e.Vector) != dim {
			return fmt.Errorf("%w: entry %d has dimension %d, want %d",
				domain.ErrDimensionMismatch, i, len(e.Vector), dim)
		}
	}
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.dimension = dim
	ix.entries = append([]domain.IndexEntry(nil), entries...)
	return nil
}

// Query scores every stored vector against the query and returns the top k.
// k must be at least 1; if it exceeds the stored count, all entries are
// returned ranked.
func (ix *Index) Query(vector domain.Vector, k int) ([]domain.RetrievalResult, error) {
	if k < 1 {
		return nil, fmt.Errorf("%w: k must be at least 1, got %d", domain.ErrConfiguration, k)
	}
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	if len(ix.entries) == 0 {
		return nil, nil
	}
	if len(vector) != ix.dimension {
		return nil, fmt.Errorf("%w: query has dimension %d, index has %d",
			domain.ErrDimensionMismatch, len(vector), ix.dimension)
	}

	results := make([]domain.RetrievalResult, len(ix.entries))
	for i, e := range ix.entries {
		results[i] = domain.RetrievalResult{
			Fragment: e.Fragment,
			Score:    cosine(e.Vector, vector),
		}
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Fragment.Index < results[j].Fragment.Index
	})
	if k > len(results) {
		k = len(results)
	}
	return results[:k], nil
}

// cosine returns dot(a,b)/(|a||b|); a zero-norm operand scores 0 rather than
// dividing by zero.
func cosine(a, b domain.Vector) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

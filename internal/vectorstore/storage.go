package vectorstore

import "docchat/internal/domain"

// Index stores one document's fragment vectors and answers nearest-neighbor
// queries by cosine similarity.
type Index interface {
	// Build replaces any prior content with the given entries.
	Build(entries []domain.IndexEntry) error
	// Query returns up to k results ranked by descending score, ties broken
	// by ascending fragment index. An empty index yields no results.
	Query(vector domain.Vector, k int) ([]domain.RetrievalResult, error)
}

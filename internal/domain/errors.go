package domain

import "errors"

// Failure categories for the pipeline. Lower layers wrap the underlying
// cause with fmt.Errorf("...: %w", ...) chained onto one of these sentinels
// so callers can classify with errors.Is.
var (
	// ErrConfiguration indicates invalid chunk size, overlap, or model
	// settings. Fatal: fails initialization and is never retried.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrAcquisition indicates the source could not be fetched or is not
	// text. Fatal for the session; no partial processing is attempted.
	ErrAcquisition = errors.New("document acquisition failed")

	// ErrEmbedding indicates the embedding collaborator failed after the
	// gateway's single bounded retry.
	ErrEmbedding = errors.New("embedding failed")

	// ErrDimensionMismatch indicates query and index vector lengths differ.
	// Always fatal; it means the embedder configuration changed mid-session.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrGeneration indicates the language-model collaborator failed.
	// Never retried here; the caller may retry the whole Ask call.
	ErrGeneration = errors.New("generation failed")

	// ErrNotInitialized indicates Ask was called before a successful
	// Initialize.
	ErrNotInitialized = errors.New("pipeline not initialized")
)

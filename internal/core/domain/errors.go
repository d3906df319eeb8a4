package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested element does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates a malformed element or request.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown element type tag.
	ErrUnsupportedType = errors.New("unsupported element type")

	// ErrIndexClosed indicates an operation on a closed index.
	ErrIndexClosed = errors.New("index is closed")

	// ErrEmbeddingUnavailable indicates no embedding model is configured.
	// Vector and hybrid scoring degrade to text-only search.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrExtractorUnavailable indicates no keyword extractor is
	// configured. Keyword search returns empty result sets.
	ErrExtractorUnavailable = errors.New("keyword extractor unavailable")
)

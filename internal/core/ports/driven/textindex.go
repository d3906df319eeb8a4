package driven

import (
	"context"

	"github.com/custodia-labs/stratum/internal/core/domain"
)

// TextIndex is the single-writer/multi-reader inverted index over element
// text and keyword tags.
//
// Index and Delete buffer their writes; nothing is visible to Search or
// KeywordMatches until Commit flushes the buffered batch. Searches always
// observe exactly the state of the latest commit (snapshot isolation at
// commit granularity).
type TextIndex interface {
	// Index buffers an add/replace of the element's searchable text,
	// keyword tags and type tag. Visible only after Commit.
	Index(ctx context.Context, element *domain.ContentElement) error

	// Delete buffers a delete-by-id. Visible only after Commit.
	Delete(ctx context.Context, id string) error

	// Commit flushes buffered writes durably and advances the read
	// generation so subsequent searches observe them.
	Commit(ctx context.Context) error

	// Generation returns the commit generation the next search will
	// observe. It advances on every Commit.
	Generation() uint64

	// Search runs an analyzed full-text match over element content and
	// returns ranked candidates with their raw relevance score. A query
	// consisting only of special characters matches nothing rather than
	// failing.
	Search(ctx context.Context, query string, limit int) ([]TextHit, error)

	// KeywordMatches returns the ids of elements whose keyword field
	// contains the given (lowercased) term exactly.
	KeywordMatches(ctx context.Context, keyword string, limit int) ([]string, error)

	// DocCount returns the number of committed index documents.
	DocCount(ctx context.Context) (uint64, error)

	// Close flushes nothing; callers must Commit first. It releases the
	// writer and any open reader.
	Close() error
}

// TextHit is a ranked text search candidate.
type TextHit struct {
	// ID is the matched element id.
	ID string

	// Score is the raw relevance score (TF-IDF scale, unnormalized).
	Score float64
}

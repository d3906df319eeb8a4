package driven

import (
	"context"

	"github.com/custodia-labs/stratum/internal/core/domain"
)

// ElementStore is the authoritative keyed map from id to content element.
// It is the single source of truth used for hierarchy reconstruction and
// result hydration.
//
// Implementations must be safe for concurrent callers, and a Save must be
// visible to an immediately following FindByID from any goroutine once
// the call returns.
type ElementStore interface {
	// Save upserts an element and returns the stored value. Re-saving
	// an existing id replaces the previous instance.
	Save(ctx context.Context, element *domain.ContentElement) (*domain.ContentElement, error)

	// FindByID retrieves an element. Returns domain.ErrNotFound for
	// unknown ids.
	FindByID(ctx context.Context, id string) (*domain.ContentElement, error)

	// FindAllChunksByID bulk-resolves chunk ids. Unknown ids and
	// non-chunk ids are silently dropped; order is unspecified.
	FindAllChunksByID(ctx context.Context, ids []string) ([]*domain.ContentElement, error)

	// ChunksBySection returns all chunks whose container section
	// metadata names the given section id.
	ChunksBySection(ctx context.Context, sectionID string) ([]*domain.ContentElement, error)

	// All returns every stored element in unspecified order.
	All(ctx context.Context) ([]*domain.ContentElement, error)

	// Delete removes an element. Unknown ids are a no-op.
	Delete(ctx context.Context, id string) error

	// Count returns the number of stored elements.
	Count(ctx context.Context) (int, error)

	// Clear removes everything and returns the prior count.
	Clear(ctx context.Context) (int, error)
}

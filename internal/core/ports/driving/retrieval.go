package driving

import (
	"context"

	"github.com/custodia-labs/stratum/internal/core/domain"
)

// RetrievalService is the full surface of one index instance: ingestion,
// search facets, expansion, cascading deletion and lifecycle.
type RetrievalService interface {
	// Save upserts a structural element into store, index buffer and
	// durable record. Returns the stored value.
	Save(ctx context.Context, element *domain.ContentElement) (*domain.ContentElement, error)

	// SaveTree walks a content root and saves it with all structural
	// descendants, assigning sibling positions and propagating the uri.
	SaveTree(ctx context.Context, root *domain.ContentElement) error

	// OnNewRetrievables ingests chunks: embeds them when an embedding
	// model is configured, then stores and buffer-indexes them.
	OnNewRetrievables(ctx context.Context, chunks []*domain.ContentElement) error

	// Commit makes all buffered index writes visible to searches.
	Commit(ctx context.Context) error

	// HybridSearch blends normalized text relevance with vector cosine
	// similarity. Without an embedding model it degrades to text-only
	// scoring with raw relevance scores.
	HybridSearch(ctx context.Context, req domain.SearchRequest) (domain.SearchResponse, error)

	// TextSearch scores candidates by normalized text relevance only.
	TextSearch(ctx context.Context, req domain.SearchRequest) (domain.SearchResponse, error)

	// VectorSearch scores candidates by cosine similarity only.
	VectorSearch(ctx context.Context, req domain.SearchRequest) (domain.SearchResponse, error)

	// KeywordSearch matches extracted query keywords against element
	// keyword tags by set-intersection counting. Returns an empty
	// response when no extractor is configured.
	KeywordSearch(ctx context.Context, req domain.SearchRequest) (domain.SearchResponse, error)

	// UpdateKeywords replaces an element's keyword tags and reindexes
	// it. The only mutation allowed on stored elements.
	UpdateKeywords(ctx context.Context, id string, keywords []string) error

	// Expand grows a result: sequence-adjacent sibling chunks, or the
	// structural parent. Unknown ids yield an empty slice, not an error.
	Expand(ctx context.Context, id string, method domain.ExpansionMethod, elementsToAdd int) ([]*domain.ContentElement, error)

	// DeleteRootAndDescendants removes the root with the given uri and
	// its whole closure from index and store under one commit. Returns
	// nil when no root carries the uri.
	DeleteRootAndDescendants(ctx context.Context, uri string) (*domain.DeletionResult, error)

	// Load rebuilds store and hierarchy from the durable records. A
	// no-op for memory-only instances.
	Load(ctx context.Context) error

	// Stats summarises the index instance.
	Stats(ctx context.Context) (domain.IndexStatistics, error)

	// Clear removes every element from store, index and durable record.
	// Returns the number of elements removed.
	Clear(ctx context.Context) (int, error)

	// Close flushes buffered writes, commits, and releases index and
	// database handles, in that order.
	Close() error
}

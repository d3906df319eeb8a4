package domain

// DefaultTopK is the result window size when a request does not set one.
const DefaultTopK = 10

// SearchRequest configures a retrieval query.
type SearchRequest struct {
	// Query is the free-text query string.
	Query string

	// SimilarityThreshold drops results scoring below it. Zero keeps
	// everything.
	SimilarityThreshold float64

	// TopK is the maximum number of results (default DefaultTopK).
	TopK int
}

// Normalized returns a copy with defaults applied.
func (r SearchRequest) Normalized() SearchRequest {
	if r.TopK <= 0 {
		r.TopK = DefaultTopK
	}
	return r
}

// SearchResult is a single scored match.
type SearchResult struct {
	// Match is the matched element, hydrated from the store.
	Match *ContentElement

	// Score is the relevance score the answering facet computed.
	Score float64
}

// SearchResponse is an ordered result set tagged with the facet that
// produced it.
type SearchResponse struct {
	// FacetName identifies the index instance and strategy that
	// answered, e.g. "notes/hybrid".
	FacetName string

	// Results are ordered by descending score.
	Results []SearchResult
}

// IndexStatistics summarises an index instance.
type IndexStatistics struct {
	TotalChunks        int     `json:"total_chunks"`
	TotalDocuments     int     `json:"total_documents"`
	AverageChunkLength float64 `json:"average_chunk_length"`
	HasEmbeddings      bool    `json:"has_embeddings"`
	VectorWeight       float64 `json:"vector_weight"`
	IsPersistent       bool    `json:"is_persistent"`
	IndexPath          string  `json:"index_path,omitempty"`
}

// DeletionResult reports a completed cascade deletion.
type DeletionResult struct {
	// RootURI is the uri of the deleted root.
	RootURI string `json:"root_uri"`

	// DeletedCount is the size of the deleted closure, root included.
	DeletedCount int `json:"deleted_count"`
}

// ExpansionMethod selects how a result is expanded.
type ExpansionMethod string

const (
	// ExpandSequence returns sequence-adjacent sibling chunks.
	ExpandSequence ExpansionMethod = "sequence"

	// ExpandZoomOut returns the direct structural parent.
	ExpandZoomOut ExpansionMethod = "zoom_out"
)

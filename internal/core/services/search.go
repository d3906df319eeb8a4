package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/custodia-labs/stratum/internal/core/domain"
	"github.com/custodia-labs/stratum/internal/logger"
)

// HybridSearch blends normalized text relevance with vector cosine
// similarity: score = (1-w)*normText + w*cosine. Without an embedding
// model (or when embedding the query fails) it degrades to text-only
// scoring with raw relevance scores.
func (e *Engine) HybridSearch(ctx context.Context, req domain.SearchRequest) (domain.SearchResponse, error) {
	req = req.Normalized()

	if e.embedder == nil {
		return e.textOnly(ctx, req, "hybrid")
	}

	queryVector, err := e.embedder.Embed(ctx, req.Query)
	if err != nil {
		logger.Warn("Embedding query failed, degrading to text-only: %v", err)
		return e.textOnly(ctx, req, "hybrid")
	}

	hits, err := e.index.Search(ctx, req.Query, e.poolLimit(req.TopK))
	if err != nil {
		return domain.SearchResponse{}, fmt.Errorf("hybrid search: %w", err)
	}

	results := make([]domain.SearchResult, 0, len(hits))
	for _, hit := range hits {
		el, err := e.store.FindByID(ctx, hit.ID)
		if err != nil {
			// Deleted between commit and hydration.
			continue
		}
		textScore := hit.Score / e.textScoreNormalizer
		if textScore > 1 {
			textScore = 1
		}
		vectorScore := cosineSimilarity(queryVector, el.Embedding)
		score := (1-e.vectorWeight)*textScore + e.vectorWeight*vectorScore
		results = append(results, domain.SearchResult{Match: el, Score: score})
	}

	return e.finalize(req, "hybrid", results), nil
}

// TextSearch scores candidates by normalized text relevance only.
func (e *Engine) TextSearch(ctx context.Context, req domain.SearchRequest) (domain.SearchResponse, error) {
	req = req.Normalized()

	hits, err := e.index.Search(ctx, req.Query, e.poolLimit(req.TopK))
	if err != nil {
		return domain.SearchResponse{}, fmt.Errorf("text search: %w", err)
	}

	results := make([]domain.SearchResult, 0, len(hits))
	for _, hit := range hits {
		el, err := e.store.FindByID(ctx, hit.ID)
		if err != nil {
			continue
		}
		score := hit.Score / e.textScoreNormalizer
		if score > 1 {
			score = 1
		}
		results = append(results, domain.SearchResult{Match: el, Score: score})
	}

	return e.finalize(req, "text", results), nil
}

// VectorSearch scores text-index candidates by cosine similarity only.
func (e *Engine) VectorSearch(ctx context.Context, req domain.SearchRequest) (domain.SearchResponse, error) {
	req = req.Normalized()

	if e.embedder == nil {
		return domain.SearchResponse{}, fmt.Errorf("vector search: %w", domain.ErrEmbeddingUnavailable)
	}
	queryVector, err := e.embedder.Embed(ctx, req.Query)
	if err != nil {
		return domain.SearchResponse{}, fmt.Errorf("vector search: embed query: %w", err)
	}

	hits, err := e.index.Search(ctx, req.Query, e.poolLimit(req.TopK))
	if err != nil {
		return domain.SearchResponse{}, fmt.Errorf("vector search: %w", err)
	}

	results := make([]domain.SearchResult, 0, len(hits))
	for _, hit := range hits {
		el, err := e.store.FindByID(ctx, hit.ID)
		if err != nil {
			continue
		}
		results = append(results, domain.SearchResult{
			Match: el,
			Score: cosineSimilarity(queryVector, el.Embedding),
		})
	}

	return e.finalize(req, "vector", results), nil
}

// KeywordSearch matches extracted query keywords against element keyword
// tags by set-intersection counting. Without an extractor every query
// yields an empty response.
func (e *Engine) KeywordSearch(ctx context.Context, req domain.SearchRequest) (domain.SearchResponse, error) {
	req = req.Normalized()
	facet := e.facet("keyword")

	if e.extractor == nil {
		logger.Warn("Keyword search requested without an extractor")
		return domain.SearchResponse{FacetName: facet, Results: []domain.SearchResult{}}, nil
	}

	keywords := e.extractor.ExtractKeywords(req.Query)
	if len(keywords) == 0 {
		return domain.SearchResponse{FacetName: facet, Results: []domain.SearchResult{}}, nil
	}

	// Count how many distinct keywords each candidate matches,
	// preserving first-seen order for the stable sort below.
	counts := make(map[string]int)
	var order []string
	for _, kw := range keywords {
		ids, err := e.index.KeywordMatches(ctx, strings.ToLower(kw), e.poolLimit(req.TopK))
		if err != nil {
			return domain.SearchResponse{}, fmt.Errorf("keyword search: match %q: %w", kw, err)
		}
		for _, id := range ids {
			if _, seen := counts[id]; !seen {
				order = append(order, id)
			}
			counts[id]++
		}
	}

	results := make([]domain.SearchResult, 0, len(order))
	for _, id := range order {
		if counts[id] < e.minKeywordIntersection {
			continue
		}
		el, err := e.store.FindByID(ctx, id)
		if err != nil {
			continue
		}
		results = append(results, domain.SearchResult{
			Match: el,
			Score: e.extractor.MatchCountToScore(counts[id]),
		})
	}

	return e.finalize(req, "keyword", results), nil
}

// textOnly is the degraded hybrid path: raw relevance scores, no
// normalization, no oversampling.
func (e *Engine) textOnly(ctx context.Context, req domain.SearchRequest, strategy string) (domain.SearchResponse, error) {
	hits, err := e.index.Search(ctx, req.Query, req.TopK)
	if err != nil {
		return domain.SearchResponse{}, fmt.Errorf("%s search: %w", strategy, err)
	}

	results := make([]domain.SearchResult, 0, len(hits))
	for _, hit := range hits {
		el, err := e.store.FindByID(ctx, hit.ID)
		if err != nil {
			continue
		}
		results = append(results, domain.SearchResult{Match: el, Score: hit.Score})
	}

	return e.finalize(req, strategy, results), nil
}

// finalize applies the threshold, orders by descending score and
// truncates to topK.
func (e *Engine) finalize(req domain.SearchRequest, strategy string, results []domain.SearchResult) domain.SearchResponse {
	kept := results[:0]
	for _, r := range results {
		if r.Score >= req.SimilarityThreshold {
			kept = append(kept, r)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Score > kept[j].Score
	})
	if len(kept) > req.TopK {
		kept = kept[:req.TopK]
	}
	return domain.SearchResponse{FacetName: e.facet(strategy), Results: kept}
}

func (e *Engine) facet(strategy string) string {
	return e.name + "/" + strategy
}

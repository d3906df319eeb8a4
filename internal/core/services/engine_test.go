package services

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	indexbleve "github.com/custodia-labs/stratum/internal/adapters/driven/index/bleve"
	"github.com/custodia-labs/stratum/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/stratum/internal/core/domain"
)

// stubEmbedder returns canned vectors keyed by text, falling back to a
// fixed default so every call succeeds.
type stubEmbedder struct {
	vectors map[string][]float32
	fail    bool
}

func (s *stubEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if s.fail {
		return nil, fmt.Errorf("model offline")
	}
	if v, ok := s.vectors[text]; ok {
		return v, nil
	}
	return []float32{1, 0, 0}, nil
}

func (s *stubEmbedder) Dimensions() int { return 3 }

// stubExtractor splits on whitespace and lowercases.
type stubExtractor struct{}

func (stubExtractor) ExtractKeywords(query string) []string {
	var out []string
	seen := map[string]bool{}
	for _, f := range strings.Fields(strings.ToLower(query)) {
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out
}

func (stubExtractor) MatchCountToScore(count int) float64 {
	return float64(count) / float64(count+1)
}

// stubPersist is an in-memory stand-in for the durable record.
type stubPersist struct {
	rows map[string]*domain.ContentElement
}

func newStubPersist() *stubPersist {
	return &stubPersist{rows: map[string]*domain.ContentElement{}}
}

func (p *stubPersist) SaveElement(_ context.Context, el *domain.ContentElement) error {
	flat := el.Clone()
	flat.Children = nil
	p.rows[el.ID] = flat
	return nil
}

func (p *stubPersist) DeleteElement(_ context.Context, id string) error {
	delete(p.rows, id)
	return nil
}

func (p *stubPersist) LoadAll(_ context.Context) ([]*domain.ContentElement, error) {
	out := make([]*domain.ContentElement, 0, len(p.rows))
	for _, el := range p.rows {
		out = append(out, el.Clone())
	}
	return out, nil
}

func (p *stubPersist) Clear(_ context.Context) error {
	p.rows = map[string]*domain.ContentElement{}
	return nil
}

func (p *stubPersist) Path() string { return "stub" }
func (p *stubPersist) Close() error { return nil }

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	idx, err := indexbleve.New("")
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })
	return NewEngine("test", memory.NewElementStore(), idx, opts...)
}

func testChunk(id, text string) *domain.ContentElement {
	return &domain.ContentElement{
		ID:       id,
		Type:     domain.TypeChunk,
		ParentID: "section-1",
		Text:     text,
	}
}

func TestEngine_StatsCountsChunksAndDocuments(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	_, err := e.Save(ctx, &domain.ContentElement{ID: "root-1", Type: domain.TypeContentRoot, URI: "docs/a", Title: "A"})
	require.NoError(t, err)
	_, err = e.Save(ctx, testChunk("c1", "four char"))
	require.NoError(t, err)
	_, err = e.Save(ctx, testChunk("c2", "longer chunk body"))
	require.NoError(t, err)

	stats, err := e.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalChunks)
	assert.Equal(t, 1, stats.TotalDocuments)
	assert.InDelta(t, 13.0, stats.AverageChunkLength, 0.01)
	assert.False(t, stats.HasEmbeddings)
	assert.False(t, stats.IsPersistent)
	assert.Equal(t, DefaultVectorWeight, stats.VectorWeight)
}

func TestEngine_StatsReportsPersistencePath(t *testing.T) {
	e := newTestEngine(t, WithPersistence(newStubPersist()), WithEmbedder(&stubEmbedder{}))

	stats, err := e.Stats(context.Background())
	require.NoError(t, err)
	assert.True(t, stats.HasEmbeddings)
	assert.True(t, stats.IsPersistent)
	assert.Equal(t, "stub", stats.IndexPath)
}

func TestEngine_ClearRemovesEverything(t *testing.T) {
	persist := newStubPersist()
	e := newTestEngine(t, WithPersistence(persist))
	ctx := context.Background()

	_, err := e.Save(ctx, testChunk("c1", "machine learning"))
	require.NoError(t, err)
	_, err = e.Save(ctx, testChunk("c2", "cooking recipes"))
	require.NoError(t, err)
	require.NoError(t, e.Commit(ctx))

	removed, err := e.Clear(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)
	assert.Empty(t, persist.rows)

	resp, err := e.TextSearch(ctx, domain.SearchRequest{Query: "machine"})
	require.NoError(t, err)
	assert.Empty(t, resp.Results)
}

func TestEngine_OptionClamping(t *testing.T) {
	e := newTestEngine(t, WithVectorWeight(1.5))
	assert.Equal(t, 1.0, e.vectorWeight)

	e = newTestEngine(t, WithVectorWeight(-0.2))
	assert.Equal(t, 0.0, e.vectorWeight)

	e = newTestEngine(t, WithOversampling(5, 3))
	assert.Equal(t, 15, e.poolLimit(5))
	assert.Equal(t, 6, e.poolLimit(2))
}

func TestEngine_UpdateKeywordsReindexes(t *testing.T) {
	e := newTestEngine(t, WithKeywordExtractor(stubExtractor{}))
	ctx := context.Background()

	_, err := e.Save(ctx, testChunk("c1", "neural networks"))
	require.NoError(t, err)
	require.NoError(t, e.Commit(ctx))

	require.NoError(t, e.UpdateKeywords(ctx, "c1", []string{"Deep", "Learning"}))

	resp, err := e.KeywordSearch(ctx, domain.SearchRequest{Query: "deep learning"})
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "c1", resp.Results[0].Match.ID)
	assert.InDelta(t, 2.0/3.0, resp.Results[0].Score, 0.001)
}

func TestEngine_UpdateKeywordsUnknownID(t *testing.T) {
	e := newTestEngine(t)
	err := e.UpdateKeywords(context.Background(), "ghost", []string{"x"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, cosineSimilarity([]float32{1, 0}, []float32{2, 0}), 0.0001)
	assert.InDelta(t, 0.0, cosineSimilarity([]float32{1, 0}, []float32{0, 1}), 0.0001)
	assert.InDelta(t, -1.0, cosineSimilarity([]float32{1, 0}, []float32{-1, 0}), 0.0001)

	assert.Zero(t, cosineSimilarity(nil, []float32{1}))
	assert.Zero(t, cosineSimilarity([]float32{1, 2}, []float32{1}))
	assert.Zero(t, cosineSimilarity([]float32{0, 0}, []float32{0, 0}))
}

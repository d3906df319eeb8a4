package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/stratum/internal/core/domain"
)

func seedThreeChunks(t *testing.T, e *Engine) {
	t.Helper()
	ctx := context.Background()
	_, err := e.Save(ctx, testChunk("doc1", "This is a test document about machine learning"))
	require.NoError(t, err)
	_, err = e.Save(ctx, testChunk("doc2", "Another document discussing artificial intelligence"))
	require.NoError(t, err)
	_, err = e.Save(ctx, testChunk("doc3", "A completely different topic about cooking recipes"))
	require.NoError(t, err)
	require.NoError(t, e.Commit(ctx))
}

func TestHybridSearch_TextOnlyWithoutEmbedder(t *testing.T) {
	e := newTestEngine(t)
	seedThreeChunks(t, e)

	resp, err := e.HybridSearch(context.Background(), domain.SearchRequest{Query: "machine learning"})
	require.NoError(t, err)

	require.NotEmpty(t, resp.Results)
	assert.Equal(t, "test/hybrid", resp.FacetName)
	assert.Equal(t, "doc1", resp.Results[0].Match.ID)
	assert.Greater(t, resp.Results[0].Score, 0.0)
	for i := 1; i < len(resp.Results); i++ {
		assert.GreaterOrEqual(t, resp.Results[i-1].Score, resp.Results[i].Score)
	}
}

func TestHybridSearch_BlendsVectorScore(t *testing.T) {
	embedder := &stubEmbedder{vectors: map[string][]float32{
		"learning": {0, 1, 0},
	}}
	e := newTestEngine(t, WithEmbedder(embedder), WithVectorWeight(0.5))
	ctx := context.Background()

	aligned := testChunk("aligned", "learning systems")
	aligned.Embedding = []float32{0, 1, 0}
	opposed := testChunk("opposed", "learning machines")
	opposed.Embedding = []float32{1, 0, 0}

	_, err := e.Save(ctx, aligned)
	require.NoError(t, err)
	_, err = e.Save(ctx, opposed)
	require.NoError(t, err)
	require.NoError(t, e.Commit(ctx))

	resp, err := e.HybridSearch(ctx, domain.SearchRequest{Query: "learning"})
	require.NoError(t, err)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, "aligned", resp.Results[0].Match.ID)
	assert.Greater(t, resp.Results[0].Score, resp.Results[1].Score)
	// Cosine contributes half a unit to the aligned chunk and nothing
	// to the opposed one; text relevance is identical.
	assert.InDelta(t, 0.5, resp.Results[0].Score-resp.Results[1].Score, 0.05)
}

func TestHybridSearch_DegradesWhenEmbeddingFails(t *testing.T) {
	e := newTestEngine(t, WithEmbedder(&stubEmbedder{fail: true}))
	seedThreeChunks(t, e)

	resp, err := e.HybridSearch(context.Background(), domain.SearchRequest{Query: "machine learning"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Results)
	assert.Equal(t, "doc1", resp.Results[0].Match.ID)
}

func TestHybridSearch_ThresholdFilters(t *testing.T) {
	e := newTestEngine(t)
	seedThreeChunks(t, e)

	resp, err := e.HybridSearch(context.Background(), domain.SearchRequest{
		Query:               "machine learning",
		SimilarityThreshold: 1000,
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Results)
}

func TestTextSearch_NormalizesAndTruncates(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	for _, id := range []string{"a", "b", "c", "d"} {
		_, err := e.Save(ctx, testChunk(id, "shared term body"))
		require.NoError(t, err)
	}
	require.NoError(t, e.Commit(ctx))

	resp, err := e.TextSearch(ctx, domain.SearchRequest{Query: "shared term", TopK: 2})
	require.NoError(t, err)
	assert.Equal(t, "test/text", resp.FacetName)
	assert.Len(t, resp.Results, 2)
	for _, r := range resp.Results {
		assert.LessOrEqual(t, r.Score, 1.0)
		assert.Greater(t, r.Score, 0.0)
	}
}

func TestTextSearch_SpecialCharacterQuery(t *testing.T) {
	e := newTestEngine(t)
	seedThreeChunks(t, e)

	resp, err := e.TextSearch(context.Background(), domain.SearchRequest{Query: "+-&&||!(){}[]^\"~*?:\\"})
	require.NoError(t, err)
	assert.Empty(t, resp.Results)
}

func TestVectorSearch_RequiresEmbedder(t *testing.T) {
	e := newTestEngine(t)
	_, err := e.VectorSearch(context.Background(), domain.SearchRequest{Query: "anything"})
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}

func TestVectorSearch_RanksByCosine(t *testing.T) {
	embedder := &stubEmbedder{vectors: map[string][]float32{
		"learning": {0, 1, 0},
	}}
	e := newTestEngine(t, WithEmbedder(embedder))
	ctx := context.Background()

	near := testChunk("near", "learning about vectors")
	near.Embedding = []float32{0, 1, 0}
	far := testChunk("far", "learning about cosines")
	far.Embedding = []float32{1, 1, 0}

	_, err := e.Save(ctx, near)
	require.NoError(t, err)
	_, err = e.Save(ctx, far)
	require.NoError(t, err)
	require.NoError(t, e.Commit(ctx))

	resp, err := e.VectorSearch(ctx, domain.SearchRequest{Query: "learning"})
	require.NoError(t, err)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, "near", resp.Results[0].Match.ID)
	assert.InDelta(t, 1.0, resp.Results[0].Score, 0.0001)
}

func TestKeywordSearch_IntersectionCounting(t *testing.T) {
	e := newTestEngine(t, WithKeywordExtractor(stubExtractor{}))
	ctx := context.Background()

	both := testChunk("both", "body one")
	both.Keywords = []string{"alpha", "beta"}
	one := testChunk("one", "body two")
	one.Keywords = []string{"alpha"}
	none := testChunk("none", "body three")
	none.Keywords = []string{"gamma"}

	for _, c := range []*domain.ContentElement{both, one, none} {
		_, err := e.Save(ctx, c)
		require.NoError(t, err)
	}
	require.NoError(t, e.Commit(ctx))

	resp, err := e.KeywordSearch(ctx, domain.SearchRequest{Query: "Alpha BETA"})
	require.NoError(t, err)
	assert.Equal(t, "test/keyword", resp.FacetName)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, "both", resp.Results[0].Match.ID)
	assert.Equal(t, "one", resp.Results[1].Match.ID)
	assert.Greater(t, resp.Results[0].Score, resp.Results[1].Score)
}

func TestKeywordSearch_NoExtractorYieldsEmpty(t *testing.T) {
	e := newTestEngine(t)
	resp, err := e.KeywordSearch(context.Background(), domain.SearchRequest{Query: "alpha"})
	require.NoError(t, err)
	assert.Empty(t, resp.Results)
}

func TestKeywordSearch_MinIntersection(t *testing.T) {
	e := newTestEngine(t,
		WithKeywordExtractor(stubExtractor{}),
		WithMinKeywordIntersection(2),
	)
	ctx := context.Background()

	both := testChunk("both", "body one")
	both.Keywords = []string{"alpha", "beta"}
	one := testChunk("one", "body two")
	one.Keywords = []string{"alpha"}

	for _, c := range []*domain.ContentElement{both, one} {
		_, err := e.Save(ctx, c)
		require.NoError(t, err)
	}
	require.NoError(t, e.Commit(ctx))

	resp, err := e.KeywordSearch(ctx, domain.SearchRequest{Query: "alpha beta"})
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "both", resp.Results[0].Match.ID)
}

func TestSearch_UncommittedWritesInvisible(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	_, err := e.Save(ctx, testChunk("c1", "visible after commit"))
	require.NoError(t, err)

	resp, err := e.TextSearch(ctx, domain.SearchRequest{Query: "visible"})
	require.NoError(t, err)
	assert.Empty(t, resp.Results)

	require.NoError(t, e.Commit(ctx))

	resp, err = e.TextSearch(ctx, domain.SearchRequest{Query: "visible"})
	require.NoError(t, err)
	assert.Len(t, resp.Results, 1)
}

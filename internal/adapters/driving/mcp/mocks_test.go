package mcp

import (
	"context"

	"github.com/custodia-labs/stratum/internal/core/domain"
	"github.com/custodia-labs/stratum/internal/core/ports/driving"
)

// mockRetrieval implements driving.RetrievalService with overridable
// function fields. Unset operations return zero values.
type mockRetrieval struct {
	hybridFn  func(ctx context.Context, req domain.SearchRequest) (domain.SearchResponse, error)
	textFn    func(ctx context.Context, req domain.SearchRequest) (domain.SearchResponse, error)
	vectorFn  func(ctx context.Context, req domain.SearchRequest) (domain.SearchResponse, error)
	keywordFn func(ctx context.Context, req domain.SearchRequest) (domain.SearchResponse, error)
	expandFn  func(ctx context.Context, id string, method domain.ExpansionMethod, n int) ([]*domain.ContentElement, error)
	deleteFn  func(ctx context.Context, uri string) (*domain.DeletionResult, error)
	statsFn   func(ctx context.Context) (domain.IndexStatistics, error)
}

var _ driving.RetrievalService = (*mockRetrieval)(nil)

func (m *mockRetrieval) Save(_ context.Context, el *domain.ContentElement) (*domain.ContentElement, error) {
	return el, nil
}

func (m *mockRetrieval) SaveTree(context.Context, *domain.ContentElement) error { return nil }

func (m *mockRetrieval) OnNewRetrievables(context.Context, []*domain.ContentElement) error {
	return nil
}

func (m *mockRetrieval) Commit(context.Context) error { return nil }

func (m *mockRetrieval) HybridSearch(ctx context.Context, req domain.SearchRequest) (domain.SearchResponse, error) {
	if m.hybridFn != nil {
		return m.hybridFn(ctx, req)
	}
	return domain.SearchResponse{}, nil
}

func (m *mockRetrieval) TextSearch(ctx context.Context, req domain.SearchRequest) (domain.SearchResponse, error) {
	if m.textFn != nil {
		return m.textFn(ctx, req)
	}
	return domain.SearchResponse{}, nil
}

func (m *mockRetrieval) VectorSearch(ctx context.Context, req domain.SearchRequest) (domain.SearchResponse, error) {
	if m.vectorFn != nil {
		return m.vectorFn(ctx, req)
	}
	return domain.SearchResponse{}, nil
}

func (m *mockRetrieval) KeywordSearch(ctx context.Context, req domain.SearchRequest) (domain.SearchResponse, error) {
	if m.keywordFn != nil {
		return m.keywordFn(ctx, req)
	}
	return domain.SearchResponse{}, nil
}

func (m *mockRetrieval) UpdateKeywords(context.Context, string, []string) error { return nil }

func (m *mockRetrieval) Expand(ctx context.Context, id string, method domain.ExpansionMethod, n int) ([]*domain.ContentElement, error) {
	if m.expandFn != nil {
		return m.expandFn(ctx, id, method, n)
	}
	return nil, nil
}

func (m *mockRetrieval) DeleteRootAndDescendants(ctx context.Context, uri string) (*domain.DeletionResult, error) {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, uri)
	}
	return nil, nil
}

func (m *mockRetrieval) Load(context.Context) error { return nil }

func (m *mockRetrieval) Stats(ctx context.Context) (domain.IndexStatistics, error) {
	if m.statsFn != nil {
		return m.statsFn(ctx)
	}
	return domain.IndexStatistics{}, nil
}

func (m *mockRetrieval) Clear(context.Context) (int, error) { return 0, nil }

func (m *mockRetrieval) Close() error { return nil }

// Package services implements the driving ports: the hybrid search
// engine, cascading deletion, result expansion and restart-time
// hierarchy reconstruction.
package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/stratum/internal/core/domain"
	"github.com/custodia-labs/stratum/internal/core/ports/driven"
	"github.com/custodia-labs/stratum/internal/core/ports/driving"
	"github.com/custodia-labs/stratum/internal/logger"
)

// Ensure Engine implements the interface.
var _ driving.RetrievalService = (*Engine)(nil)

// Scoring defaults. The normalizer and oversampling values are
// documented behaviour, not derived: they tune how raw text relevance
// folds into the blended score and how large the candidate pool is.
const (
	DefaultVectorWeight           = 0.5
	DefaultTextScoreNormalizer    = 10.0
	DefaultOversampleFloor        = 20
	DefaultOversampleFactor       = 2
	DefaultMinKeywordIntersection = 1
)

// Engine is one named index instance: an element store, a text index
// and optional embedding/keyword/persistence collaborators, orchestrated
// into the retrieval surface.
type Engine struct {
	name  string
	store driven.ElementStore
	index driven.TextIndex

	persist   driven.PersistentStore
	embedder  driven.EmbeddingService
	extractor driven.KeywordExtractor

	vectorWeight           float64
	textScoreNormalizer    float64
	oversampleFloor        int
	oversampleFactor       int
	minKeywordIntersection int

	// mu serialises structural mutations (cascade deletion, clear,
	// restart load) so concurrent searches never observe a partially
	// deleted closure. Plain element reads and writes do not take it.
	mu sync.Mutex
}

// Option configures the engine.
type Option func(*Engine)

// WithPersistence attaches a durable element record. Without it the
// instance is memory-only.
func WithPersistence(p driven.PersistentStore) Option {
	return func(e *Engine) { e.persist = p }
}

// WithEmbedder attaches an embedding model, enabling vector and hybrid
// scoring.
func WithEmbedder(s driven.EmbeddingService) Option {
	return func(e *Engine) { e.embedder = s }
}

// WithKeywordExtractor attaches a query keyword extractor, enabling
// keyword search.
func WithKeywordExtractor(x driven.KeywordExtractor) Option {
	return func(e *Engine) { e.extractor = x }
}

// WithVectorWeight sets the blend weight of the vector score, clamped
// to [0,1].
func WithVectorWeight(w float64) Option {
	return func(e *Engine) {
		if w < 0 {
			w = 0
		}
		if w > 1 {
			w = 1
		}
		e.vectorWeight = w
	}
}

// WithTextScoreNormalizer sets the raw-score divisor used to map text
// relevance into [0,1].
func WithTextScoreNormalizer(n float64) Option {
	return func(e *Engine) {
		if n > 0 {
			e.textScoreNormalizer = n
		}
	}
}

// WithOversampling sets the candidate-pool floor and topK multiplier
// used during hybrid candidate generation.
func WithOversampling(floor, factor int) Option {
	return func(e *Engine) {
		if floor > 0 {
			e.oversampleFloor = floor
		}
		if factor > 0 {
			e.oversampleFactor = factor
		}
	}
}

// WithMinKeywordIntersection sets how many extracted keywords a
// candidate must match to be kept.
func WithMinKeywordIntersection(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.minKeywordIntersection = n
		}
	}
}

// NewEngine creates an engine over the given store and index.
// The name tags every response facet and statistics report.
func NewEngine(name string, store driven.ElementStore, index driven.TextIndex, opts ...Option) *Engine {
	e := &Engine{
		name:                   name,
		store:                  store,
		index:                  index,
		vectorWeight:           DefaultVectorWeight,
		textScoreNormalizer:    DefaultTextScoreNormalizer,
		oversampleFloor:        DefaultOversampleFloor,
		oversampleFactor:       DefaultOversampleFactor,
		minKeywordIntersection: DefaultMinKeywordIntersection,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name returns the instance name.
func (e *Engine) Name() string {
	return e.name
}

// Commit makes all buffered index writes visible to searches.
func (e *Engine) Commit(ctx context.Context) error {
	if err := e.index.Commit(ctx); err != nil {
		return fmt.Errorf("commit index: %w", err)
	}
	return nil
}

// Stats summarises the index instance from the authoritative store.
func (e *Engine) Stats(ctx context.Context) (domain.IndexStatistics, error) {
	all, err := e.store.All(ctx)
	if err != nil {
		return domain.IndexStatistics{}, fmt.Errorf("stats: %w", err)
	}

	stats := domain.IndexStatistics{
		HasEmbeddings: e.embedder != nil,
		VectorWeight:  e.vectorWeight,
		IsPersistent:  e.persist != nil,
	}
	if e.persist != nil {
		stats.IndexPath = e.persist.Path()
	}

	var totalLength int
	for _, el := range all {
		switch el.Type {
		case domain.TypeChunk:
			stats.TotalChunks++
			totalLength += len(el.Text)
		case domain.TypeContentRoot:
			stats.TotalDocuments++
		}
	}
	if stats.TotalChunks > 0 {
		stats.AverageChunkLength = float64(totalLength) / float64(stats.TotalChunks)
	}
	return stats, nil
}

// Clear removes every element from store, index and durable record,
// returning the number of elements removed.
func (e *Engine) Clear(ctx context.Context) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	all, err := e.store.All(ctx)
	if err != nil {
		return 0, fmt.Errorf("clear: %w", err)
	}
	for _, el := range all {
		if err := e.index.Delete(ctx, el.ID); err != nil {
			return 0, fmt.Errorf("clear: delete %q from index: %w", el.ID, err)
		}
	}

	prior, err := e.store.Clear(ctx)
	if err != nil {
		return 0, fmt.Errorf("clear store: %w", err)
	}
	if err := e.index.Commit(ctx); err != nil {
		return 0, fmt.Errorf("clear: commit: %w", err)
	}
	if e.persist != nil {
		if err := e.persist.Clear(ctx); err != nil {
			return 0, fmt.Errorf("clear persistence: %w", err)
		}
	}

	logger.Info("Cleared %d elements from %q", prior, e.name)
	return prior, nil
}

// Close flushes buffered writes, commits, and releases the index and
// database handles, in that order.
func (e *Engine) Close() error {
	ctx := context.Background()
	if err := e.index.Commit(ctx); err != nil {
		logger.Warn("Commit on close failed: %v", err)
	}
	if err := e.index.Close(); err != nil {
		return fmt.Errorf("close index: %w", err)
	}
	if e.persist != nil {
		if err := e.persist.Close(); err != nil {
			return fmt.Errorf("close persistence: %w", err)
		}
	}
	return nil
}

// poolLimit is the oversampled candidate pool size for topK results.
func (e *Engine) poolLimit(topK int) int {
	limit := topK * e.oversampleFactor
	if limit < e.oversampleFloor {
		limit = e.oversampleFloor
	}
	return limit
}

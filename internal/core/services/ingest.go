package services

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/stratum/internal/core/domain"
	"github.com/custodia-labs/stratum/internal/logger"
)

// Save upserts a single element into store, index buffer and durable
// record, and returns the stored value. Index visibility requires a
// Commit.
func (e *Engine) Save(ctx context.Context, element *domain.ContentElement) (*domain.ContentElement, error) {
	if err := element.Validate(); err != nil {
		return nil, fmt.Errorf("save %q: %w", element.ID, err)
	}

	stored, err := e.store.Save(ctx, element)
	if err != nil {
		return nil, fmt.Errorf("save %q: %w", element.ID, err)
	}
	if err := e.index.Index(ctx, stored); err != nil {
		return nil, fmt.Errorf("index %q: %w", element.ID, err)
	}
	if e.persist != nil {
		if err := e.persist.SaveElement(ctx, stored); err != nil {
			return nil, fmt.Errorf("persist %q: %w", element.ID, err)
		}
	}
	return stored, nil
}

// SaveTree saves a content root with all its structural descendants,
// assigning sibling positions and propagating the root uri and parent
// references. Chunks inside the tree are saved too. The write is
// committed so the whole tree becomes searchable at once.
func (e *Engine) SaveTree(ctx context.Context, root *domain.ContentElement) error {
	if !root.IsRoot() {
		return fmt.Errorf("save tree: %q is not a content root: %w", root.ID, domain.ErrInvalidInput)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if root.IngestedAt.IsZero() {
		root.IngestedAt = time.Now().UTC()
	}
	prepareSubtree(root)

	if _, err := e.Save(ctx, root); err != nil {
		return err
	}
	for _, desc := range root.Descendants() {
		if _, err := e.Save(ctx, desc); err != nil {
			return err
		}
	}
	if err := e.index.Commit(ctx); err != nil {
		return fmt.Errorf("save tree %q: commit: %w", root.URI, err)
	}

	logger.Info("Saved tree %q with %d descendants", root.URI, len(root.Descendants()))
	return nil
}

// prepareSubtree stamps parent references, sibling positions and the
// root uri onto every descendant.
func prepareSubtree(parent *domain.ContentElement) {
	for i, child := range parent.Children {
		child.ParentID = parent.ID
		child.Position = i
		if child.URI == "" {
			child.URI = parent.URI
		}
		prepareSubtree(child)
	}
}

// OnNewRetrievables ingests a batch of chunks: chunks without an
// embedding are embedded first when a model is configured, then each is
// stored and buffer-indexed. Callers commit when the batch is complete.
func (e *Engine) OnNewRetrievables(ctx context.Context, chunks []*domain.ContentElement) error {
	for _, chunk := range chunks {
		if chunk.Type != domain.TypeChunk {
			return fmt.Errorf("ingest %q: expected chunk, got %q: %w", chunk.ID, chunk.Type, domain.ErrUnsupportedType)
		}
		if e.embedder != nil && len(chunk.Embedding) == 0 {
			vector, err := e.embedder.Embed(ctx, chunk.SearchableText())
			if err != nil {
				logger.Warn("Embedding chunk %q failed, indexing without a vector: %v", chunk.ID, err)
			} else {
				chunk.Embedding = vector
			}
		}
		if _, err := e.Save(ctx, chunk); err != nil {
			return err
		}
	}
	logger.Debug("Ingested %d chunks into %q", len(chunks), e.name)
	return nil
}

// UpdateKeywords replaces an element's keyword tags, reindexes it and
// commits. The only mutation allowed on stored elements.
func (e *Engine) UpdateKeywords(ctx context.Context, id string, keywords []string) error {
	el, err := e.store.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("update keywords %q: %w", id, err)
	}

	updated := el.Clone()
	updated.Keywords = append([]string(nil), keywords...)

	if _, err := e.Save(ctx, updated); err != nil {
		return err
	}
	if err := e.index.Commit(ctx); err != nil {
		return fmt.Errorf("update keywords %q: commit: %w", id, err)
	}
	return nil
}

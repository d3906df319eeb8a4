package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/custodia-labs/stratum/internal/core/domain"
	"github.com/custodia-labs/stratum/internal/logger"
)

// Load rebuilds the in-memory store and document hierarchy from the
// durable records. Elements arrive as flat parent-referencing rows; the
// tree is reassembled child-list by child-list, ordered by the persisted
// sibling position. A no-op for memory-only instances.
//
// When the text index comes back empty but records exist (a deleted or
// torn index directory) every element is reindexed and committed.
func (e *Engine) Load(ctx context.Context) error {
	if e.persist == nil {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	flat, err := e.persist.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("load: %w", err)
	}

	arena := make(map[string]*domain.ContentElement, len(flat))
	for _, el := range flat {
		arena[el.ID] = el
	}

	// Chunks are never attached as children; they stay flat and are
	// reached through their section metadata.
	childrenByParent := make(map[string][]*domain.ContentElement)
	for _, el := range flat {
		if el.ParentID == "" || !el.IsStructural() {
			continue
		}
		childrenByParent[el.ParentID] = append(childrenByParent[el.ParentID], el)
	}
	for _, siblings := range childrenByParent {
		sort.SliceStable(siblings, func(i, j int) bool {
			if siblings[i].Position != siblings[j].Position {
				return siblings[i].Position < siblings[j].Position
			}
			return siblings[i].ID < siblings[j].ID
		})
	}

	var attach func(el *domain.ContentElement)
	attach = func(el *domain.ContentElement) {
		if !el.IsStructural() {
			return
		}
		el.Children = childrenByParent[el.ID]
		for _, c := range el.Children {
			attach(c)
		}
	}

	// Roots start the walk; elements whose parent row is missing are
	// kept as detached subtrees rather than dropped.
	for _, el := range flat {
		if el.ParentID == "" || arena[el.ParentID] == nil {
			attach(el)
		}
	}

	for _, el := range flat {
		if _, err := e.store.Save(ctx, el); err != nil {
			return fmt.Errorf("load: restore %q: %w", el.ID, err)
		}
	}

	count, err := e.index.DocCount(ctx)
	if err != nil {
		return fmt.Errorf("load: doc count: %w", err)
	}
	if count == 0 && len(flat) > 0 {
		logger.Info("Text index empty with %d stored elements, reindexing", len(flat))
		for _, el := range flat {
			if err := e.index.Index(ctx, el); err != nil {
				return fmt.Errorf("load: reindex %q: %w", el.ID, err)
			}
		}
		if err := e.index.Commit(ctx); err != nil {
			return fmt.Errorf("load: commit reindex: %w", err)
		}
	}

	logger.Info("Loaded %d elements into %q", len(flat), e.name)
	return nil
}

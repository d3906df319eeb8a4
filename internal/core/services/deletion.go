package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/stratum/internal/core/domain"
	"github.com/custodia-labs/stratum/internal/logger"
)

// DeleteRootAndDescendants removes the content root carrying the given
// uri together with its whole closure: every element sharing the uri,
// plus anything whose parent chain leads into the closure. Deletes are
// buffered and made visible under a single commit. Returns nil when no
// root carries the uri.
func (e *Engine) DeleteRootAndDescendants(ctx context.Context, uri string) (*domain.DeletionResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	all, err := e.store.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("delete root %q: %w", uri, err)
	}

	var root *domain.ContentElement
	for _, el := range all {
		if el.IsRoot() && el.URI == uri {
			root = el
			break
		}
	}
	if root == nil {
		return nil, nil
	}

	closure := deletionClosure(all, uri)

	for id := range closure {
		if err := e.index.Delete(ctx, id); err != nil {
			return nil, fmt.Errorf("delete root %q: unindex %q: %w", uri, id, err)
		}
		if e.persist != nil {
			if err := e.persist.DeleteElement(ctx, id); err != nil {
				return nil, fmt.Errorf("delete root %q: unpersist %q: %w", uri, id, err)
			}
		}
		if err := e.store.Delete(ctx, id); err != nil {
			return nil, fmt.Errorf("delete root %q: remove %q: %w", uri, id, err)
		}
	}

	if err := e.index.Commit(ctx); err != nil {
		return nil, fmt.Errorf("delete root %q: commit: %w", uri, err)
	}

	logger.Info("Deleted root %q and %d elements total", uri, len(closure))
	return &domain.DeletionResult{RootURI: uri, DeletedCount: len(closure)}, nil
}

// deletionClosure seeds the id set with every element carrying the uri,
// then grows it to a fixed point with elements whose parent is already
// inside. The fixed point catches chunks and sections that never got
// the uri stamped on them.
func deletionClosure(all []*domain.ContentElement, uri string) map[string]struct{} {
	closure := make(map[string]struct{})
	for _, el := range all {
		if el.URI == uri {
			closure[el.ID] = struct{}{}
		}
	}
	for {
		grew := false
		for _, el := range all {
			if _, in := closure[el.ID]; in {
				continue
			}
			if el.ParentID == "" {
				continue
			}
			if _, parentIn := closure[el.ParentID]; parentIn {
				closure[el.ID] = struct{}{}
				grew = true
			}
		}
		if !grew {
			return closure
		}
	}
}

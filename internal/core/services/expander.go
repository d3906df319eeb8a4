package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/custodia-labs/stratum/internal/core/domain"
)

// Expand grows a search result. ExpandSequence returns the element with
// its sequence-adjacent sibling chunks, elementsToAdd on each side.
// ExpandZoomOut returns the direct structural parent. Unknown ids yield
// an empty slice, not an error.
func (e *Engine) Expand(ctx context.Context, id string, method domain.ExpansionMethod, elementsToAdd int) ([]*domain.ContentElement, error) {
	if elementsToAdd < 0 {
		elementsToAdd = 0
	}

	el, err := e.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return []*domain.ContentElement{}, nil
		}
		return nil, fmt.Errorf("expand %q: %w", id, err)
	}

	switch method {
	case domain.ExpandSequence:
		return e.expandSequence(ctx, el, elementsToAdd)
	case domain.ExpandZoomOut:
		return e.expandZoomOut(ctx, el)
	default:
		return nil, fmt.Errorf("expand %q: unknown method %q: %w", id, method, domain.ErrInvalidInput)
	}
}

// expandSequence windows over the chunk's section siblings ordered by
// sequence number. Elements without sequence metadata, or that are not
// chunks, expand to just themselves.
func (e *Engine) expandSequence(ctx context.Context, el *domain.ContentElement, elementsToAdd int) ([]*domain.ContentElement, error) {
	sectionID, hasSection := el.ContainerSectionID()
	_, hasSeq := el.SequenceNumber()
	if el.Type != domain.TypeChunk || !hasSection || !hasSeq {
		return []*domain.ContentElement{el}, nil
	}

	siblings, err := e.store.ChunksBySection(ctx, sectionID)
	if err != nil {
		return nil, fmt.Errorf("expand %q: siblings of section %q: %w", el.ID, sectionID, err)
	}

	sort.SliceStable(siblings, func(i, j int) bool {
		a, _ := siblings[i].SequenceNumber()
		b, _ := siblings[j].SequenceNumber()
		return a < b
	})

	idx := -1
	for i, s := range siblings {
		if s.ID == el.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return []*domain.ContentElement{el}, nil
	}

	lo := idx - elementsToAdd
	if lo < 0 {
		lo = 0
	}
	hi := idx + elementsToAdd + 1
	if hi > len(siblings) {
		hi = len(siblings)
	}
	return siblings[lo:hi], nil
}

// expandZoomOut returns the structural parent, or an empty slice for
// roots and orphans.
func (e *Engine) expandZoomOut(ctx context.Context, el *domain.ContentElement) ([]*domain.ContentElement, error) {
	if el.ParentID == "" {
		return []*domain.ContentElement{}, nil
	}
	parent, err := e.store.FindByID(ctx, el.ParentID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return []*domain.ContentElement{}, nil
		}
		return nil, fmt.Errorf("expand %q: parent %q: %w", el.ID, el.ParentID, err)
	}
	return []*domain.ContentElement{parent}, nil
}

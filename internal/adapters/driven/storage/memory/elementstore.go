// Package memory provides the in-memory content element store.
package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/stratum/internal/core/domain"
	"github.com/custodia-labs/stratum/internal/core/ports/driven"
)

// Ensure ElementStore implements the interface.
var _ driven.ElementStore = (*ElementStore)(nil)

// ElementStore is the authoritative in-memory map from id to element.
// Reads take a shared lock, so a returned Save is immediately visible to
// FindByID from any goroutine.
type ElementStore struct {
	mu       sync.RWMutex
	elements map[string]*domain.ContentElement
}

// NewElementStore creates an empty element store.
func NewElementStore() *ElementStore {
	return &ElementStore{
		elements: make(map[string]*domain.ContentElement),
	}
}

// Save upserts an element. An existing id is replaced, not merged.
func (s *ElementStore) Save(_ context.Context, element *domain.ContentElement) (*domain.ContentElement, error) {
	if err := element.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.elements[element.ID] = element
	return element, nil
}

// FindByID retrieves an element by id.
func (s *ElementStore) FindByID(_ context.Context, id string) (*domain.ContentElement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	el, ok := s.elements[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return el, nil
}

// FindAllChunksByID bulk-resolves chunk ids, dropping unknown ids and
// structural elements.
func (s *ElementStore) FindAllChunksByID(_ context.Context, ids []string) ([]*domain.ContentElement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	chunks := make([]*domain.ContentElement, 0, len(ids))
	for _, id := range ids {
		el, ok := s.elements[id]
		if !ok || el.Type != domain.TypeChunk {
			continue
		}
		chunks = append(chunks, el)
	}
	return chunks, nil
}

// ChunksBySection returns the chunks cut from the given section.
func (s *ElementStore) ChunksBySection(_ context.Context, sectionID string) ([]*domain.ContentElement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var chunks []*domain.ContentElement
	for _, el := range s.elements {
		if el.Type != domain.TypeChunk {
			continue
		}
		if id, ok := el.ContainerSectionID(); ok && id == sectionID {
			chunks = append(chunks, el)
		}
	}
	return chunks, nil
}

// All returns every stored element in unspecified order.
func (s *ElementStore) All(_ context.Context) ([]*domain.ContentElement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.ContentElement, 0, len(s.elements))
	for _, el := range s.elements {
		out = append(out, el)
	}
	return out, nil
}

// Delete removes an element. Unknown ids are a no-op.
func (s *ElementStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.elements, id)
	return nil
}

// Count returns the number of stored elements.
func (s *ElementStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.elements), nil
}

// Clear removes everything and returns the prior count.
func (s *ElementStore) Clear(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prior := len(s.elements)
	s.elements = make(map[string]*domain.ContentElement)
	return prior, nil
}

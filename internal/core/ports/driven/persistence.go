package driven

import (
	"context"

	"github.com/custodia-labs/stratum/internal/core/domain"
)

// PersistentStore is the durable on-disk record of content elements.
// Optional - when nil, the index instance is memory-only.
//
// Rows are flat: hierarchy is not stored, only parent references and
// sibling positions. The engine reconstructs trees on restart from
// LoadAll output.
type PersistentStore interface {
	// SaveElement upserts the element's durable record.
	SaveElement(ctx context.Context, element *domain.ContentElement) error

	// DeleteElement removes the record. Unknown ids are a no-op.
	DeleteElement(ctx context.Context, id string) error

	// LoadAll returns every stored record as a parent-referencing flat
	// element (Children unset). Corrupt rows are logged and skipped,
	// never fatal.
	LoadAll(ctx context.Context) ([]*domain.ContentElement, error)

	// Clear removes all records.
	Clear(ctx context.Context) error

	// Path returns the database file path.
	Path() string

	// Close closes the underlying database.
	Close() error
}

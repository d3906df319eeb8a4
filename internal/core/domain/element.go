package domain

import (
	"strconv"
	"time"
)

// ElementType discriminates the content element variants.
// Every element carries exactly one type tag; behaviour that differs
// per variant switches on it rather than inspecting field presence.
type ElementType string

const (
	// TypeChunk is the smallest retrievable unit of text. Chunks are
	// embedded and searched directly and always reference a parent.
	TypeChunk ElementType = "chunk"

	// TypeLeafSection is a leaf node in a document outline with a title
	// and body text.
	TypeLeafSection ElementType = "leaf_section"

	// TypeContainerSection is an interior outline node that owns an
	// ordered list of child sections.
	TypeContainerSection ElementType = "container_section"

	// TypeContentRoot is the root of an ingested document tree.
	TypeContentRoot ElementType = "content_root"
)

// Metadata keys recognised on chunks for sequence expansion.
const (
	// MetaContainerSectionID names the section a chunk was cut from.
	MetaContainerSectionID = "container_section_id"

	// MetaSequenceNumber is the chunk's ordinal within its section,
	// stored as a decimal string.
	MetaSequenceNumber = "sequence_number"
)

// ContentElement is the unit stored, indexed and retrieved by the engine.
// It is a tagged variant: Type selects which of the optional fields are
// meaningful. Field usage per variant:
//
//	chunk:             Text, Embedding, Keywords, ParentID required
//	leaf_section:      Title, Text
//	container_section: Title, Children
//	content_root:      Title, URI, IngestedAt, Children; ParentID empty
type ContentElement struct {
	// ID is the globally unique identifier, stable across restarts.
	ID string

	// Type is the variant discriminant.
	Type ElementType

	// ParentID references the owning element. Empty only on roots.
	ParentID string

	// URI groups all elements of one ingested source. Set on the root
	// and copied onto descendants at creation time.
	URI string

	// Title is the human-readable heading (sections and roots).
	Title string

	// Text is the searchable body (chunks and leaf sections).
	Text string

	// IngestedAt is when the root's source was ingested (roots only).
	IngestedAt time.Time

	// Position is the element's ordinal among its siblings. It persists
	// child ordering across restarts.
	Position int

	// Metadata holds open-ended scalar fields (author, category, custom
	// keys). Scalars are rendered as strings so persistence is total.
	Metadata map[string]string

	// Children are the owned subtrees, in document order (container
	// sections and roots only).
	Children []*ContentElement

	// Embedding is the optional fixed-dimension vector (chunks only).
	Embedding []float32

	// Keywords are tokenized keyword tags (chunks only).
	Keywords []string
}

// IsStructural reports whether the element participates in the document
// hierarchy, as opposed to being a retrievable chunk.
func (e *ContentElement) IsStructural() bool {
	switch e.Type {
	case TypeLeafSection, TypeContainerSection, TypeContentRoot:
		return true
	default:
		return false
	}
}

// IsRoot reports whether the element is a content root.
func (e *ContentElement) IsRoot() bool {
	return e.Type == TypeContentRoot
}

// SearchableText returns the text that is analyzed for full-text search:
// body text for chunks, title plus body for leaf sections, and the title
// alone for container sections and roots.
func (e *ContentElement) SearchableText() string {
	switch e.Type {
	case TypeChunk:
		return e.Text
	case TypeLeafSection:
		if e.Title == "" {
			return e.Text
		}
		return e.Title + "\n" + e.Text
	default:
		return e.Title
	}
}

// Descendants returns all elements below this one in document order.
// The receiver itself is not included.
func (e *ContentElement) Descendants() []*ContentElement {
	var out []*ContentElement
	for _, c := range e.Children {
		out = append(out, c)
		out = append(out, c.Descendants()...)
	}
	return out
}

// Leaves returns the leaf sections of the subtree in document order.
func (e *ContentElement) Leaves() []*ContentElement {
	var out []*ContentElement
	for _, c := range e.Children {
		if c.Type == TypeLeafSection {
			out = append(out, c)
			continue
		}
		out = append(out, c.Leaves()...)
	}
	return out
}

// FindDescendant returns the descendant with the given id, or nil.
func (e *ContentElement) FindDescendant(id string) *ContentElement {
	for _, c := range e.Children {
		if c.ID == id {
			return c
		}
		if found := c.FindDescendant(id); found != nil {
			return found
		}
	}
	return nil
}

// SequenceNumber parses the chunk's sequence metadata. The second return
// is false when the key is absent or not a number.
func (e *ContentElement) SequenceNumber() (int, bool) {
	raw, ok := e.Metadata[MetaSequenceNumber]
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return n, true
}

// ContainerSectionID returns the section id a chunk was cut from.
func (e *ContentElement) ContainerSectionID() (string, bool) {
	id, ok := e.Metadata[MetaContainerSectionID]
	return id, ok && id != ""
}

// Clone returns a copy of the element with its own metadata map and
// children slice. Child pointers are shared; the store replaces whole
// instances rather than mutating them in place.
func (e *ContentElement) Clone() *ContentElement {
	cp := *e
	if e.Metadata != nil {
		cp.Metadata = make(map[string]string, len(e.Metadata))
		for k, v := range e.Metadata {
			cp.Metadata[k] = v
		}
	}
	if e.Children != nil {
		cp.Children = make([]*ContentElement, len(e.Children))
		copy(cp.Children, e.Children)
	}
	if e.Keywords != nil {
		cp.Keywords = append([]string(nil), e.Keywords...)
	}
	if e.Embedding != nil {
		cp.Embedding = append([]float32(nil), e.Embedding...)
	}
	return &cp
}

// Validate checks the invariants the store relies on.
func (e *ContentElement) Validate() error {
	if e.ID == "" {
		return ErrInvalidInput
	}
	switch e.Type {
	case TypeChunk:
		if e.ParentID == "" {
			return ErrInvalidInput
		}
	case TypeLeafSection, TypeContainerSection:
		// Sections may be saved before their parent during bulk writes.
	case TypeContentRoot:
		if e.ParentID != "" {
			return ErrInvalidInput
		}
	default:
		return ErrUnsupportedType
	}
	return nil
}

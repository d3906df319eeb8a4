package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildOutline builds a small document tree:
//
//	root
//	├── part-1 (container)
//	│   ├── sec-1 (leaf)
//	│   └── sec-2 (leaf)
//	└── sec-3 (leaf)
func buildOutline() *ContentElement {
	sec1 := &ContentElement{ID: "sec-1", Type: TypeLeafSection, ParentID: "part-1", Title: "Install", Text: "Run the installer."}
	sec2 := &ContentElement{ID: "sec-2", Type: TypeLeafSection, ParentID: "part-1", Title: "Configure", Text: "Edit the config file."}
	part1 := &ContentElement{ID: "part-1", Type: TypeContainerSection, ParentID: "root-1", Title: "Getting Started", Children: []*ContentElement{sec1, sec2}}
	sec3 := &ContentElement{ID: "sec-3", Type: TypeLeafSection, ParentID: "root-1", Title: "FAQ", Text: "Common questions."}
	return &ContentElement{
		ID:       "root-1",
		Type:     TypeContentRoot,
		URI:      "file:///guide.md",
		Title:    "User Guide",
		Children: []*ContentElement{part1, sec3},
	}
}

func TestContentElement_Descendants(t *testing.T) {
	root := buildOutline()

	descendants := root.Descendants()
	require.Len(t, descendants, 4)

	ids := make([]string, len(descendants))
	for i, d := range descendants {
		ids[i] = d.ID
	}
	assert.Equal(t, []string{"part-1", "sec-1", "sec-2", "sec-3"}, ids)
}

func TestContentElement_Leaves(t *testing.T) {
	root := buildOutline()

	leaves := root.Leaves()
	require.Len(t, leaves, 3)
	assert.Equal(t, "sec-1", leaves[0].ID)
	assert.Equal(t, "sec-2", leaves[1].ID)
	assert.Equal(t, "sec-3", leaves[2].ID)
}

func TestContentElement_FindDescendant(t *testing.T) {
	root := buildOutline()

	found := root.FindDescendant("sec-2")
	require.NotNil(t, found)
	assert.Equal(t, "Configure", found.Title)

	assert.Nil(t, root.FindDescendant("missing"))
	assert.Nil(t, root.FindDescendant("root-1"), "receiver is not its own descendant")
}

func TestContentElement_SearchableText(t *testing.T) {
	tests := []struct {
		name    string
		element ContentElement
		want    string
	}{
		{
			name:    "chunk uses body text",
			element: ContentElement{Type: TypeChunk, Text: "chunk body"},
			want:    "chunk body",
		},
		{
			name:    "leaf section combines title and body",
			element: ContentElement{Type: TypeLeafSection, Title: "Install", Text: "Run it."},
			want:    "Install\nRun it.",
		},
		{
			name:    "untitled leaf section uses body only",
			element: ContentElement{Type: TypeLeafSection, Text: "Run it."},
			want:    "Run it.",
		},
		{
			name:    "container uses title",
			element: ContentElement{Type: TypeContainerSection, Title: "Part One"},
			want:    "Part One",
		},
		{
			name:    "root uses title",
			element: ContentElement{Type: TypeContentRoot, Title: "Guide"},
			want:    "Guide",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.element.SearchableText())
		})
	}
}

func TestContentElement_SequenceMetadata(t *testing.T) {
	chunk := ContentElement{
		Type: TypeChunk,
		Metadata: map[string]string{
			MetaContainerSectionID: "sec-1",
			MetaSequenceNumber:     "3",
		},
	}

	seq, ok := chunk.SequenceNumber()
	require.True(t, ok)
	assert.Equal(t, 3, seq)

	section, ok := chunk.ContainerSectionID()
	require.True(t, ok)
	assert.Equal(t, "sec-1", section)
}

func TestContentElement_SequenceMetadata_Missing(t *testing.T) {
	chunk := ContentElement{Type: TypeChunk}

	_, ok := chunk.SequenceNumber()
	assert.False(t, ok)

	_, ok = chunk.ContainerSectionID()
	assert.False(t, ok)
}

func TestContentElement_SequenceMetadata_Malformed(t *testing.T) {
	chunk := ContentElement{
		Type:     TypeChunk,
		Metadata: map[string]string{MetaSequenceNumber: "three"},
	}

	_, ok := chunk.SequenceNumber()
	assert.False(t, ok)
}

func TestContentElement_Clone(t *testing.T) {
	original := &ContentElement{
		ID:        "chunk-1",
		Type:      TypeChunk,
		ParentID:  "sec-1",
		Text:      "body",
		Metadata:  map[string]string{"author": "ada"},
		Keywords:  []string{"body"},
		Embedding: []float32{0.1, 0.2},
	}

	cp := original.Clone()
	cp.Metadata["author"] = "grace"
	cp.Keywords[0] = "other"
	cp.Embedding[0] = 9

	assert.Equal(t, "ada", original.Metadata["author"])
	assert.Equal(t, "body", original.Keywords[0])
	assert.InDelta(t, float32(0.1), original.Embedding[0], 1e-9)
}

func TestContentElement_Validate(t *testing.T) {
	tests := []struct {
		name    string
		element ContentElement
		wantErr error
	}{
		{
			name:    "valid chunk",
			element: ContentElement{ID: "c1", Type: TypeChunk, ParentID: "s1"},
		},
		{
			name:    "chunk without parent",
			element: ContentElement{ID: "c1", Type: TypeChunk},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "missing id",
			element: ContentElement{Type: TypeLeafSection},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "root with parent",
			element: ContentElement{ID: "r1", Type: TypeContentRoot, ParentID: "x"},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "unknown type",
			element: ContentElement{ID: "x1", Type: ElementType("blob")},
			wantErr: ErrUnsupportedType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.element.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestSearchRequest_Normalized(t *testing.T) {
	req := SearchRequest{Query: "q"}.Normalized()
	assert.Equal(t, DefaultTopK, req.TopK)

	req = SearchRequest{Query: "q", TopK: 5}.Normalized()
	assert.Equal(t, 5, req.TopK)
}

package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/stratum/internal/core/domain"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [file.json]",
	Short: "Ingest a pre-chunked document",
	Long: `Ingests a pre-chunked document from a JSON file.

The file holds the document outline and its chunks:

  {
    "uri": "docs/guide",
    "title": "User Guide",
    "sections": [
      {"id": "s1", "title": "Install", "text": "...", "children": [...]}
    ],
    "chunks": [
      {"text": "...", "section_id": "s1", "sequence": 0, "keywords": ["install"]}
    ]
  }

Element ids are generated when omitted. Chunks reference their section
by id; sequence numbers order them for sequence expansion.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

// ingestDocument is the JSON ingestion format.
type ingestDocument struct {
	URI      string          `json:"uri"`
	Title    string          `json:"title"`
	Sections []ingestSection `json:"sections"`
	Chunks   []ingestChunk   `json:"chunks"`
}

type ingestSection struct {
	ID       string            `json:"id"`
	Title    string            `json:"title"`
	Text     string            `json:"text,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
	Children []ingestSection   `json:"children,omitempty"`
}

type ingestChunk struct {
	ID        string            `json:"id,omitempty"`
	Text      string            `json:"text"`
	SectionID string            `json:"section_id"`
	Sequence  int               `json:"sequence"`
	Keywords  []string          `json:"keywords,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

func runIngest(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading document: %w", err)
	}

	var doc ingestDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parsing document: %w", err)
	}
	if doc.URI == "" {
		return fmt.Errorf("document uri is required")
	}

	root := &domain.ContentElement{
		ID:    uuid.NewString(),
		Type:  domain.TypeContentRoot,
		URI:   doc.URI,
		Title: doc.Title,
	}
	for _, s := range doc.Sections {
		root.Children = append(root.Children, buildSection(s))
	}

	ctx := cmd.Context()
	if err := retrievalService.SaveTree(ctx, root); err != nil {
		return fmt.Errorf("saving document tree: %w", err)
	}

	chunks := make([]*domain.ContentElement, len(doc.Chunks))
	for i, c := range doc.Chunks {
		chunks[i] = buildChunk(c, doc.URI)
	}
	if err := retrievalService.OnNewRetrievables(ctx, chunks); err != nil {
		return fmt.Errorf("ingesting chunks: %w", err)
	}
	if err := retrievalService.Commit(ctx); err != nil {
		return fmt.Errorf("committing: %w", err)
	}

	cmd.Printf("Ingested %q: %d sections, %d chunks\n", doc.URI, len(root.Descendants()), len(chunks))
	return nil
}

func buildSection(s ingestSection) *domain.ContentElement {
	el := &domain.ContentElement{
		ID:       s.ID,
		Title:    s.Title,
		Text:     s.Text,
		Metadata: s.Metadata,
	}
	if el.ID == "" {
		el.ID = uuid.NewString()
	}
	if len(s.Children) > 0 {
		el.Type = domain.TypeContainerSection
		for _, c := range s.Children {
			el.Children = append(el.Children, buildSection(c))
		}
	} else {
		el.Type = domain.TypeLeafSection
	}
	return el
}

func buildChunk(c ingestChunk, uri string) *domain.ContentElement {
	meta := make(map[string]string, len(c.Metadata)+2)
	for k, v := range c.Metadata {
		meta[k] = v
	}
	meta[domain.MetaContainerSectionID] = c.SectionID
	meta[domain.MetaSequenceNumber] = fmt.Sprintf("%d", c.Sequence)

	id := c.ID
	if id == "" {
		id = uuid.NewString()
	}
	return &domain.ContentElement{
		ID:       id,
		Type:     domain.TypeChunk,
		ParentID: c.SectionID,
		URI:      uri,
		Text:     c.Text,
		Keywords: c.Keywords,
		Metadata: meta,
	}
}

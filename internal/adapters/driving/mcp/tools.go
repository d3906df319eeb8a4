package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/stratum/internal/core/domain"
)

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query     string  `json:"query" jsonschema:"the search query"`
	Strategy  string  `json:"strategy,omitempty" jsonschema:"scoring strategy: hybrid, text, vector or keyword (default hybrid)"`
	TopK      int     `json:"top_k,omitempty" jsonschema:"maximum number of results to return (default 10)"`
	Threshold float64 `json:"threshold,omitempty" jsonschema:"drop results scoring below this value"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Facet   string               `json:"facet"`
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single search result.
type SearchResultOutput struct {
	ID    string  `json:"id"`
	Type  string  `json:"type"`
	Title string  `json:"title,omitempty"`
	URI   string  `json:"uri,omitempty"`
	Text  string  `json:"text,omitempty"`
	Score float64 `json:"score"`
}

// ExpandInput is the input schema for the expand tool.
type ExpandInput struct {
	ID            string `json:"id" jsonschema:"the element id to expand"`
	Method        string `json:"method,omitempty" jsonschema:"expansion method: sequence or zoom_out (default sequence)"`
	ElementsToAdd int    `json:"elements_to_add,omitempty" jsonschema:"neighbouring chunks to include on each side (default 1)"`
}

// ExpandOutput is the output schema for the expand tool.
type ExpandOutput struct {
	Elements []SearchResultOutput `json:"elements"`
	Count    int                  `json:"count"`
}

// DeleteRootInput is the input schema for the delete_root tool.
type DeleteRootInput struct {
	URI string `json:"uri" jsonschema:"the uri of the document root to delete"`
}

// DeleteRootOutput is the output schema for the delete_root tool.
type DeleteRootOutput struct {
	Deleted      bool   `json:"deleted"`
	RootURI      string `json:"root_uri,omitempty"`
	DeletedCount int    `json:"deleted_count"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Search the indexed content with hybrid, text, vector or keyword scoring",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "expand",
		Description: "Expand a search result with neighbouring chunks or its parent section",
	}, s.handleExpand)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "stats",
		Description: "Report index statistics",
	}, s.handleStats)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "delete_root",
		Description: "Delete a document root and everything ingested under it",
	}, s.handleDeleteRoot)
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	req := domain.SearchRequest{
		Query:               input.Query,
		TopK:                input.TopK,
		SimilarityThreshold: input.Threshold,
	}

	var (
		resp domain.SearchResponse
		err  error
	)
	switch input.Strategy {
	case "", "hybrid":
		resp, err = s.ports.Retrieval.HybridSearch(ctx, req)
	case "text":
		resp, err = s.ports.Retrieval.TextSearch(ctx, req)
	case "vector":
		resp, err = s.ports.Retrieval.VectorSearch(ctx, req)
	case "keyword":
		resp, err = s.ports.Retrieval.KeywordSearch(ctx, req)
	default:
		return nil, SearchOutput{}, fmt.Errorf("unknown strategy %q", input.Strategy)
	}
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Facet:   resp.FacetName,
		Results: make([]SearchResultOutput, len(resp.Results)),
		Count:   len(resp.Results),
	}
	for i, r := range resp.Results {
		output.Results[i] = elementOutput(r.Match, r.Score)
	}
	return nil, output, nil
}

// handleExpand handles the expand tool invocation.
func (s *Server) handleExpand(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ExpandInput,
) (*mcp.CallToolResult, ExpandOutput, error) {
	method := domain.ExpansionMethod(input.Method)
	if input.Method == "" {
		method = domain.ExpandSequence
	}
	elementsToAdd := input.ElementsToAdd
	if elementsToAdd <= 0 {
		elementsToAdd = 1
	}

	elements, err := s.ports.Retrieval.Expand(ctx, input.ID, method, elementsToAdd)
	if err != nil {
		return nil, ExpandOutput{}, err
	}

	output := ExpandOutput{
		Elements: make([]SearchResultOutput, len(elements)),
		Count:    len(elements),
	}
	for i, el := range elements {
		output.Elements[i] = elementOutput(el, 0)
	}
	return nil, output, nil
}

// handleStats handles the stats tool invocation.
func (s *Server) handleStats(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ struct{},
) (*mcp.CallToolResult, domain.IndexStatistics, error) {
	stats, err := s.ports.Retrieval.Stats(ctx)
	if err != nil {
		return nil, domain.IndexStatistics{}, err
	}
	return nil, stats, nil
}

// handleDeleteRoot handles the delete_root tool invocation.
func (s *Server) handleDeleteRoot(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DeleteRootInput,
) (*mcp.CallToolResult, DeleteRootOutput, error) {
	res, err := s.ports.Retrieval.DeleteRootAndDescendants(ctx, input.URI)
	if err != nil {
		return nil, DeleteRootOutput{}, err
	}
	if res == nil {
		return nil, DeleteRootOutput{Deleted: false}, nil
	}
	return nil, DeleteRootOutput{
		Deleted:      true,
		RootURI:      res.RootURI,
		DeletedCount: res.DeletedCount,
	}, nil
}

func elementOutput(el *domain.ContentElement, score float64) SearchResultOutput {
	return SearchResultOutput{
		ID:    el.ID,
		Type:  string(el.Type),
		Title: el.Title,
		URI:   el.URI,
		Text:  el.Text,
		Score: score,
	}
}

package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for Stratum resources.
	uriScheme = "stratum://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for index statistics.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "stats",
		Name:        "stats",
		Description: "Index statistics: chunk and document counts, scoring configuration",
		MIMEType:    "application/json",
	}, s.handleStatsResource)

	// Template for element content.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "elements/{elementId}",
		Name:        "element-content",
		Description: "Searchable text of a specific content element",
		MIMEType:    "text/plain",
	}, s.handleElementResource)
}

// handleStatsResource returns the index statistics as JSON.
func (s *Server) handleStatsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	stats, err := s.ports.Retrieval.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading statistics: %w", err)
	}

	data, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling statistics: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleElementResource returns the searchable text of one element.
func (s *Server) handleElementResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	elementID := extractElementID(req.Params.URI)
	if elementID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	// Expand with a zero window resolves exactly the element itself.
	elements, err := s.ports.Retrieval.Expand(ctx, elementID, "sequence", 0)
	if err != nil {
		return nil, fmt.Errorf("resolving element: %w", err)
	}
	if len(elements) == 0 {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/plain",
			Text:     elements[0].SearchableText(),
		}},
	}, nil
}

// extractElementID extracts the element ID from a URI like stratum://elements/{elementId}.
func extractElementID(uri string) string {
	const prefix = uriScheme + "elements/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	return strings.TrimPrefix(uri, prefix)
}

package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/stratum/internal/core/domain"
)

var (
	searchStrategy  string
	searchTopK      int
	searchThreshold float64
	searchJSON      bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search indexed content",
	Long: `Searches the index with the chosen scoring strategy.

Strategies:
  hybrid   blend of text relevance and vector similarity (default)
  text     full-text relevance only
  vector   vector cosine similarity only
  keyword  keyword-intersection counting`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVarP(&searchStrategy, "strategy", "s", "hybrid", "scoring strategy: hybrid, text, vector or keyword")
	searchCmd.Flags().IntVarP(&searchTopK, "top-k", "n", domain.DefaultTopK, "maximum number of results")
	searchCmd.Flags().Float64VarP(&searchThreshold, "threshold", "t", 0, "drop results scoring below this value")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	req := domain.SearchRequest{
		Query:               args[0],
		TopK:                searchTopK,
		SimilarityThreshold: searchThreshold,
	}

	ctx := cmd.Context()
	var (
		resp domain.SearchResponse
		err  error
	)
	switch searchStrategy {
	case "hybrid":
		resp, err = retrievalService.HybridSearch(ctx, req)
	case "text":
		resp, err = retrievalService.TextSearch(ctx, req)
	case "vector":
		resp, err = retrievalService.VectorSearch(ctx, req)
	case "keyword":
		resp, err = retrievalService.KeywordSearch(ctx, req)
	default:
		return fmt.Errorf("unknown strategy %q", searchStrategy)
	}
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, resp)
	}
	return outputSearchTable(cmd, resp)
}

func outputSearchJSON(cmd *cobra.Command, resp domain.SearchResponse) error {
	type result struct {
		ID    string  `json:"id"`
		Type  string  `json:"type"`
		Title string  `json:"title,omitempty"`
		URI   string  `json:"uri,omitempty"`
		Text  string  `json:"text,omitempty"`
		Score float64 `json:"score"`
	}
	out := struct {
		Facet   string   `json:"facet"`
		Results []result `json:"results"`
	}{Facet: resp.FacetName, Results: make([]result, len(resp.Results))}

	for i, r := range resp.Results {
		out.Results[i] = result{
			ID:    r.Match.ID,
			Type:  string(r.Match.Type),
			Title: r.Match.Title,
			URI:   r.Match.URI,
			Text:  r.Match.Text,
			Score: r.Score,
		}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, resp domain.SearchResponse) error {
	if len(resp.Results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Printf("Results (%s):\n\n", resp.FacetName)
	for i, r := range resp.Results {
		label := r.Match.Title
		if label == "" {
			label = r.Match.ID
		}
		snippet := r.Match.Text
		if len(snippet) > 80 {
			snippet = snippet[:77] + "..."
		}
		cmd.Printf("[%d] %s (%.3f)\n", i+1, label, r.Score)
		if snippet != "" {
			cmd.Printf("    %s\n", snippet)
		}
	}
	return nil
}

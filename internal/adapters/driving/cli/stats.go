package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var statsJSON bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show index statistics",
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "output statistics as JSON")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	stats, err := retrievalService.Stats(cmd.Context())
	if err != nil {
		return fmt.Errorf("reading statistics: %w", err)
	}

	if statsJSON {
		data, err := json.MarshalIndent(stats, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal statistics: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Printf("Documents:          %d\n", stats.TotalDocuments)
	cmd.Printf("Chunks:             %d\n", stats.TotalChunks)
	cmd.Printf("Avg chunk length:   %.1f\n", stats.AverageChunkLength)
	cmd.Printf("Embeddings:         %t\n", stats.HasEmbeddings)
	cmd.Printf("Vector weight:      %.2f\n", stats.VectorWeight)
	cmd.Printf("Persistent:         %t\n", stats.IsPersistent)
	if stats.IndexPath != "" {
		cmd.Printf("Index path:         %s\n", stats.IndexPath)
	}
	return nil
}

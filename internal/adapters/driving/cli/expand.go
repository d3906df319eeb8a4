package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/stratum/internal/core/domain"
)

var (
	expandMethod string
	expandCount  int
)

var expandCmd = &cobra.Command{
	Use:   "expand [element-id]",
	Short: "Expand an element with its neighbours or parent",
	Long: `Expands a search result for more context.

Methods:
  sequence  the element plus adjacent chunks from the same section (default)
  zoom_out  the element's structural parent`,
	Args: cobra.ExactArgs(1),
	RunE: runExpand,
}

func init() {
	expandCmd.Flags().StringVarP(&expandMethod, "method", "m", string(domain.ExpandSequence), "expansion method: sequence or zoom_out")
	expandCmd.Flags().IntVarP(&expandCount, "count", "c", 1, "neighbouring chunks on each side")
	rootCmd.AddCommand(expandCmd)
}

func runExpand(cmd *cobra.Command, args []string) error {
	elements, err := retrievalService.Expand(
		cmd.Context(),
		args[0],
		domain.ExpansionMethod(expandMethod),
		expandCount,
	)
	if err != nil {
		return fmt.Errorf("expanding element: %w", err)
	}
	if len(elements) == 0 {
		cmd.Println("No elements found.")
		return nil
	}

	for _, el := range elements {
		cmd.Printf("-- %s (%s)\n", el.ID, el.Type)
		if text := el.SearchableText(); text != "" {
			cmd.Println(text)
		}
	}
	return nil
}

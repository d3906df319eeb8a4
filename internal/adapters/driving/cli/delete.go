package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete [uri]",
	Short: "Delete a document and everything ingested under it",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all indexed content",
	RunE:  runClear,
}

func init() {
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(clearCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	res, err := retrievalService.DeleteRootAndDescendants(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	if res == nil {
		cmd.Printf("No document found with uri %q\n", args[0])
		return nil
	}
	cmd.Printf("Deleted %q: %d elements removed\n", res.RootURI, res.DeletedCount)
	return nil
}

func runClear(cmd *cobra.Command, _ []string) error {
	removed, err := retrievalService.Clear(cmd.Context())
	if err != nil {
		return fmt.Errorf("clearing index: %w", err)
	}
	cmd.Printf("Removed %d elements\n", removed)
	return nil
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listJSON bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List ingested contracts",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	if ragService == nil {
		return errNotConnected
	}
	docs, err := ragService.ListDocuments(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing documents: %w", err)
	}
	if listJSON {
		return writeJSON(cmd, docs)
	}

	out := cmd.OutOrStdout()
	if len(docs) == 0 {
		fmt.Fprintln(out, "No contracts ingested yet.")
		return nil
	}
	for _, d := range docs {
		fmt.Fprintf(out, "%s  %-10s %5d chunks  %s\n", d.Id, d.Status, d.ChunkCount, d.Filename)
	}
	return nil
}

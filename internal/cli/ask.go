package cli

import (
	"fmt"
	"strings"

	"github.com/akolanti/ContractRAG/internal/config"
	"github.com/akolanti/ContractRAG/internal/domain/commonModels"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	askTopK int
	askJSON bool
)

var askCmd = &cobra.Command{
	Use:   "ask [document-id] [question]",
	Short: "Ask a question about an ingested contract",
	Long: `Answers a question from the contract's most relevant excerpts and lists
the excerpts it cited. Vector retrieval is used when embeddings are
available, keyword retrieval otherwise.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().IntVarP(&askTopK, "top-k", "k", config.DefaultTopK, "number of excerpts to ground the answer on (1-20)")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	documentId := args[0]
	question := strings.Join(args[1:], " ")

	if uuid.Validate(documentId) != nil {
		return fmt.Errorf("document id %q is not a UUID", documentId)
	}
	if askTopK < config.MinTopK || askTopK > config.MaxTopK {
		return fmt.Errorf("top-k must be between %d and %d", config.MinTopK, config.MaxTopK)
	}
	if ragService == nil {
		return errNotConnected
	}

	answer, err := ragService.Ask(cmd.Context(), documentId, question, askTopK)
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}
	if askJSON {
		return writeJSON(cmd, answer)
	}
	printAnswer(cmd, answer)
	return nil
}

func printAnswer(cmd *cobra.Command, answer commonModels.Answer) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, answer.Text)
	fmt.Fprintln(out)

	strategy := string(answer.Strategy)
	if answer.Cached {
		strategy += ", cached"
	}
	fmt.Fprintf(out, "Sources (%s):\n", strategy)
	for i, c := range answer.Citations {
		page := ""
		if c.Page != nil {
			page = fmt.Sprintf(", page %d", *c.Page)
		}
		fmt.Fprintf(out, "  [%d] chunk %d%s, chars %d-%d, score %.3f\n",
			i+1, c.ChunkIndex, page, c.CharRange[0], c.CharRange[1], c.RelevanceScore)
	}
}

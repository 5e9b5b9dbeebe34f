package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/akolanti/ContractRAG/internal/domain/errorModel"
	"github.com/akolanti/ContractRAG/internal/rag/ingest"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var ingestJSON bool

var ingestCmd = &cobra.Command{
	Use:   "ingest [file]",
	Short: "Ingest a contract file",
	Long: `Extracts, chunks and embeds a PDF, DOCX, ODT, RTF or TXT file and stores
it under a new document id. The file itself is left in place.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().BoolVar(&ingestJSON, "json", false, "output the result as JSON")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	res, err := ingestFile(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	if ingestJSON {
		return writeJSON(cmd, res)
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Ingested %s\n", res.Document.Filename)
	fmt.Fprintf(out, "  document id: %s\n", res.Document.Id)
	fmt.Fprintf(out, "  chunks:      %d (%d embedded)\n", res.ChunkCount, res.Embedded)
	return nil
}

func ingestFile(ctx context.Context, path string) (ingest.Result, error) {
	if ragService == nil {
		return ingest.Result{}, errNotConnected
	}
	if !ingest.IsSupported(path) {
		return ingest.Result{}, errorModel.New(errorModel.KindValidation, "unsupported file type "+filepath.Ext(path))
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return ingest.Result{}, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return ingest.Result{}, errorModel.Wrap(errorModel.KindValidation, "cannot read "+path, err)
	}
	if info.IsDir() {
		return ingest.Result{}, errorModel.New(errorModel.KindValidation, path+" is a directory")
	}

	return ragService.Ingest(ctx, ingest.Request{
		DocumentId: uuid.NewString(),
		Filename:   filepath.Base(abs),
		Path:       abs,
		Size:       info.Size(),
		KeepFile:   true,
	})
}

func writeJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling output: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

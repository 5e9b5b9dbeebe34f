package cli

import (
	"github.com/akolanti/ContractRAG/internal/mcpServer"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the contract tools over MCP stdio",
	Long: `Starts a Model Context Protocol server on stdin/stdout exposing the
ask_contract and list_contracts tools.

Client configuration:
  {
    "mcpServers": {
      "contracts": {
        "command": "/path/to/contractctl",
        "args": ["mcp"]
      }
    }
  }`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, _ []string) error {
	server, err := mcpServer.NewServer(ragService)
	if err != nil {
		return err
	}
	return server.RunStdio(cmd.Context())
}

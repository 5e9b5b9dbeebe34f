// Package cli implements contractctl, the operator command line for the
// contract pipeline. It shares its wiring with the API server.
package cli

import (
	"context"
	"errors"

	"github.com/akolanti/ContractRAG/internal/bootstrap"
	"github.com/akolanti/ContractRAG/internal/config"
	"github.com/akolanti/ContractRAG/internal/rag"
	"github.com/akolanti/ContractRAG/pkg/logger_i"
	"github.com/spf13/cobra"
)

var (
	configPath string

	// ragService is set by connect, or directly by tests.
	ragService rag.Service
	closeApp   func() error
)

var errNotConnected = errors.New("contract service not configured")

var rootCmd = &cobra.Command{
	Use:   "contractctl",
	Short: "Ingest and question contracts from the command line",
	Long: `contractctl runs the contract pipeline locally against the same stores
and model providers as the API server. Logs go to stderr.`,
	SilenceUsage:       true,
	PersistentPreRunE:  connect,
	PersistentPostRunE: disconnect,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "yaml or toml config file")
}

// Execute runs the command line. ctx is cancelled on interrupt.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func connect(cmd *cobra.Command, _ []string) error {
	if ragService != nil {
		return nil
	}
	settings, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger_i.InitTo(cmd.ErrOrStderr(), settings.IsProd)

	app, err := bootstrap.New(cmd.Context(), settings)
	if err != nil {
		return err
	}
	ragService = app.Rag
	closeApp = app.Close
	return nil
}

func disconnect(_ *cobra.Command, _ []string) error {
	if closeApp == nil {
		return nil
	}
	err := closeApp()
	closeApp = nil
	return err
}

// Package cli implements the cachectl command tree.
//
// The root command wires configuration loading and logging setup into
// PersistentPreRunE so every subcommand runs with a configured zerolog
// logger in its context. Subcommands:
//
//   - panel: interactive cache administration TUI
//   - status: one-shot snapshot table or JSON
//   - refresh: refresh one, several, or all caches
//   - clear: clear a single cache after confirmation
//   - config: init and validate the config file
package cli

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/finboard/cachectl/internal/logging"
)

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// logToFile records whether the current invocation routes logs to a file
// sink. The panel uses it to keep console diagnostics off the screen it
// draws on.
var logToFile bool //nolint:gochecknoglobals // Set once during logging setup

// NewRootCmd creates the root Cobra command for the cachectl CLI.
// It wires up logging and the panel, status, refresh, clear, and config
// subcommands.
func NewRootCmd(ver string) *cobra.Command {
	var logResult *logging.Result

	cmd := &cobra.Command{
		Use:     "cachectl",
		Short:   "Cache administration for the reporting backend",
		Long:    "cachectl: Inspect, refresh, and clear the reporting backend's server-side caches",
		Version: ver,
		Example: rootCmdExample,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			result, err := setupLogging(cmd)
			if err != nil {
				return err
			}
			logResult = result
			return nil
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return logResult.Close()
		},
	}

	cmd.PersistentFlags().String("config", "", "path to config file (default ~/.cachectl/config.yaml)")
	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().String("backend-url", "", "backend base URL (overrides config)")
	cmd.AddCommand(NewPanelCmd(), NewStatusCmd(), NewRefreshCmd(), NewClearCmd(), newConfigCmd())

	return cmd
}

const rootCmdExample = `  # Open the interactive cache panel
  cachectl panel

  # Print the cache status table
  cachectl status

  # Refresh two caches concurrently
  cachectl refresh sectors symbols

  # Refresh everything in one backend pass
  cachectl refresh --all

  # Clear a cache without the prompt (scripts)
  cachectl clear sectors --yes

  # Initialize configuration
  cachectl config init`

// newConfigCmd creates the config command group with configuration subcommands.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration management commands"}
	cmd.AddCommand(NewConfigInitCmd(), NewConfigValidateCmd())
	return cmd
}

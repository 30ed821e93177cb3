package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewConfigValidateCmd creates the "config validate" command.
func NewConfigValidateCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		Long: `Validate the assembled configuration: file, environment overrides, and
flags. Checks that backend.base_url and auth.origin are absolute http(s)
URLs, the timeout is within bounds, and the logging format is known.`,
		Example: `  # Validate current configuration
  cachectl config validate

  # Validate and show the effective settings
  cachectl config validate --verbose`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigValidate(cmd, verbose)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show the effective configuration")
	return cmd
}

func runConfigValidate(cmd *cobra.Command, verbose bool) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	cmd.Printf("✅ Configuration is valid\n")

	if verbose {
		cmd.Println()
		cmd.Println("Configuration details:")
		cmd.Printf("  Backend URL: %s\n", cfg.Backend.BaseURL)
		cmd.Printf("  Request timeout: %s\n", cfg.Timeout())
		cmd.Printf("  Auth origin: %s\n", cfg.AuthOrigin())
		cmd.Printf("  Session file: %s\n", cfg.Auth.SessionFile)
		cmd.Printf("  Logging level: %s\n", cfg.Logging.Level)
		cmd.Printf("  Logging format: %s\n", cfg.Logging.Format)
		if cfg.Logging.File != "" {
			cmd.Printf("  Log file: %s\n", cfg.Logging.File)
		}
	}

	return nil
}

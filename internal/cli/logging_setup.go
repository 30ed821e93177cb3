package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/finboard/cachectl/internal/config"
	"github.com/finboard/cachectl/internal/logging"
)

// loadConfig reads the config file named by --config (or the default path),
// then layers the --backend-url flag on top. Environment overrides are
// applied inside config.Load.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if backendURL, _ := cmd.Flags().GetString("backend-url"); backendURL != "" {
		cfg.Backend.BaseURL = backendURL
	}
	return cfg, nil
}

// setupLogging configures logging based on config file, environment, and CLI
// flags, and stores the logger in the command context.
func setupLogging(cmd *cobra.Command) (*logging.Result, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	logCfg := logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		File:   cfg.Logging.File,
	}

	debug, _ := cmd.Flags().GetBool("debug")
	if debug {
		logCfg.Level = "debug"
		logCfg.Format = "console"
		logCfg.File = ""
	}

	if logCfg.File != "" {
		if dirErr := logging.EnsureDir(logCfg.File); dirErr != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: could not create log directory: %v\n", dirErr)
			logCfg.File = ""
		}
	}

	result := logging.New(logCfg)
	logger = logging.ComponentLogger(result.Logger, "cli")
	logToFile = result.UsingFile

	if result.UsingFile {
		logging.PrintLogPathMessage(cmd.ErrOrStderr(), result.FilePath)
	}

	ctx := logger.WithContext(cmd.Context())
	cmd.SetContext(ctx)

	logger.Debug().Str("command", cmd.Name()).Msg("command started")

	return &result, nil
}

package cli

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/finboard/cachectl/internal/api"
	"github.com/finboard/cachectl/internal/auth"
	"github.com/finboard/cachectl/internal/config"
	"github.com/finboard/cachectl/internal/logging"
)

// newBackendClient validates the configuration and builds the API client for
// a command invocation. Mutating commands get their bearer tokens from
// CACHECTL_TOKEN when set, otherwise from the session file via the auth
// service.
func newBackendClient(cmd *cobra.Command) (*api.Client, *config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	httpClient := &http.Client{Timeout: cfg.Timeout()}

	var tokens auth.TokenSource
	if static, ok := auth.StaticFromEnv(); ok {
		tokens = static
	} else {
		tokens = auth.NewSessionSource(
			cfg.AuthOrigin(),
			cfg.Auth.SessionFile,
			httpClient,
			logging.ComponentLogger(logger, "auth"),
		)
	}

	client := api.NewClient(
		cfg.Backend.BaseURL,
		tokens,
		httpClient,
		logging.ComponentLogger(logger, "api"),
	)
	return client, cfg, nil
}

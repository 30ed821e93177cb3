// Package config loads and validates cachectl configuration.
//
// Sources are layered: built-in defaults, then the YAML config file, then
// environment variables, then CLI flags (applied by the cli package). Later
// layers win.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variables recognized by cachectl.
const (
	// EnvConfigPath overrides the config file location.
	EnvConfigPath = "CACHECTL_CONFIG"

	// EnvBackendURL overrides backend.base_url.
	EnvBackendURL = "CACHECTL_BACKEND_URL"

	// EnvLogLevel overrides logging.level.
	EnvLogLevel = "CACHECTL_LOG_LEVEL"

	// EnvToken supplies a static bearer token, bypassing the session file.
	// Consumed by the auth package.
	EnvToken = "CACHECTL_TOKEN"
)

// Timeout bounds for backend requests, in seconds.
const (
	DefaultTimeoutSeconds = 15
	MinTimeoutSeconds     = 1
	MaxTimeoutSeconds     = 120
)

// configDirName is the per-user directory holding config and session files.
const configDirName = ".cachectl"

// Config is the root configuration document.
type Config struct {
	Backend BackendConfig `yaml:"backend"`
	Auth    AuthConfig    `yaml:"auth"`
	Logging LoggingConfig `yaml:"logging"`
}

// BackendConfig locates the cache-admin backend.
type BackendConfig struct {
	// BaseURL is the absolute origin of the backend, e.g.
	// "https://api.finboard.dev". Required.
	BaseURL string `yaml:"base_url"`

	// TimeoutSeconds bounds each HTTP round-trip.
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

// AuthConfig locates the auth collaborator that mints bearer tokens.
type AuthConfig struct {
	// Origin is the absolute origin of the auth service. Defaults to the
	// backend base URL when empty.
	Origin string `yaml:"origin"`

	// SessionFile holds the long-lived session secret used to mint
	// short-lived bearer tokens. Defaults to ~/.cachectl/session.
	SessionFile string `yaml:"session_file"`
}

// LoggingConfig mirrors logging.Config in YAML form.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Backend: BackendConfig{
			TimeoutSeconds: DefaultTimeoutSeconds,
		},
		Auth: AuthConfig{
			SessionFile: defaultSessionFile(),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// DefaultPath returns the default config file location
// (~/.cachectl/config.yaml), honoring EnvConfigPath.
func DefaultPath() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(configDirName, "config.yaml")
	}
	return filepath.Join(home, configDirName, "config.yaml")
}

func defaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(configDirName, "session")
	}
	return filepath.Join(home, configDirName, "session")
}

// Load reads the config file at path (DefaultPath when empty), layers it over
// defaults, and applies environment overrides. A missing file is not an
// error: env or flags may supply everything needed.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultPath()
	}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// Fall through to env overrides.
	case err != nil:
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// applyEnv layers environment overrides onto the config.
func (c *Config) applyEnv() {
	if v := os.Getenv(EnvBackendURL); v != "" {
		c.Backend.BaseURL = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
}

// Validate checks the assembled configuration, collecting every violation.
func (c *Config) Validate() error {
	var errs []error

	if err := validateOrigin("backend.base_url", c.Backend.BaseURL, true); err != nil {
		errs = append(errs, err)
	}
	if err := validateOrigin("auth.origin", c.Auth.Origin, false); err != nil {
		errs = append(errs, err)
	}
	if c.Backend.TimeoutSeconds < MinTimeoutSeconds || c.Backend.TimeoutSeconds > MaxTimeoutSeconds {
		errs = append(errs, fmt.Errorf("backend.timeout_seconds must be between %d and %d, got %d",
			MinTimeoutSeconds, MaxTimeoutSeconds, c.Backend.TimeoutSeconds))
	}
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		errs = append(errs, fmt.Errorf("logging.format must be %q or %q, got %q", "console", "json", c.Logging.Format))
	}

	return errors.Join(errs...)
}

// validateOrigin checks that value is an absolute http(s) URL. Empty values
// pass unless required.
func validateOrigin(field, value string, required bool) error {
	if value == "" {
		if required {
			return fmt.Errorf("%s is required (set it in the config file or via %s)", field, EnvBackendURL)
		}
		return nil
	}
	u, err := url.Parse(value)
	if err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must use http or https, got %q", field, value)
	}
	if u.Host == "" {
		return fmt.Errorf("%s must be an absolute URL, got %q", field, value)
	}
	return nil
}

// initTemplate is the commented starter config written by "cachectl config init".
const initTemplate = `# cachectl configuration.
backend:
  # Absolute origin of the cache-admin backend. Required.
  base_url: https://api.example.com
  # Request timeout in seconds (1-120).
  timeout_seconds: 15

auth:
  # Origin of the auth service. Defaults to backend.base_url when unset.
  # origin: https://auth.example.com
  # Session file used to mint short-lived admin tokens.
  # session_file: ~/.cachectl/session

logging:
  # trace, debug, info, warn, or error.
  level: info
  # console or json.
  format: console
  # Uncomment to also write logs to a rotating file.
  # file: ~/.cachectl/logs/cachectl.log
`

// WriteDefault writes the commented starter config to path, creating parent
// directories as needed. Callers decide whether overwriting is allowed.
func WriteDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(initTemplate), 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Timeout returns the backend request timeout as a duration.
func (c *Config) Timeout() time.Duration {
	secs := c.Backend.TimeoutSeconds
	if secs < MinTimeoutSeconds || secs > MaxTimeoutSeconds {
		secs = DefaultTimeoutSeconds
	}
	return time.Duration(secs) * time.Second
}

// AuthOrigin returns auth.origin, falling back to the backend base URL.
func (c *Config) AuthOrigin() string {
	if c.Auth.Origin != "" {
		return c.Auth.Origin
	}
	return c.Backend.BaseURL
}

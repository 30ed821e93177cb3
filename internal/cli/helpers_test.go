package cli_test

import (
	"bytes"
	"io"
	"net/http"
	"path/filepath"
	"sync"
	"testing"

	"github.com/finboard/cachectl/internal/cli"
	"github.com/finboard/cachectl/internal/config"
)

// setupCLITest points config discovery at an empty temp directory and pins
// env overrides so tests never touch the developer's real config or session
// file. backendURL feeds CACHECTL_BACKEND_URL; mutations authenticate with
// the static test token.
func setupCLITest(t *testing.T, backendURL string) {
	t.Helper()
	t.Setenv(config.EnvConfigPath, filepath.Join(t.TempDir(), "config.yaml"))
	t.Setenv(config.EnvBackendURL, backendURL)
	t.Setenv(config.EnvLogLevel, "error")
	t.Setenv(config.EnvToken, "test-token")
}

// runCommand executes the root command with args, capturing combined output.
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	cmd := cli.NewRootCmd("test")
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	if args == nil {
		// SetArgs(nil) would fall back to os.Args and pick up test flags.
		args = []string{}
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// mutationRecorder captures backend requests for assertions. Safe for the
// concurrent posts the refresh fan-out produces.
type mutationRecorder struct {
	mu     sync.Mutex
	paths  []string
	bodies []string
	auths  []string
}

// record captures one request and returns its body.
func (m *mutationRecorder) record(r *http.Request) string {
	body, _ := io.ReadAll(r.Body)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.paths = append(m.paths, r.URL.Path)
	m.bodies = append(m.bodies, string(body))
	m.auths = append(m.auths, r.Header.Get("Authorization"))
	return string(body)
}

// count returns how many requests were recorded.
func (m *mutationRecorder) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.paths)
}

// Command cachectl administers the reporting backend's server-side caches
// from the terminal: an interactive panel plus one-shot status, refresh, and
// clear commands.
package main

import (
	"os"

	"github.com/finboard/cachectl/internal/cli"
	"github.com/finboard/cachectl/pkg/version"
)

// run builds and executes the root command.
func run() error {
	return cli.NewRootCmd(version.GetVersion()).Execute()
}

func main() {
	// Cobra has already printed the error; only the exit code is left.
	if err := run(); err != nil {
		os.Exit(1)
	}
}

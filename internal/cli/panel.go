package cli

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/finboard/cachectl/internal/logging"
	"github.com/finboard/cachectl/internal/tui"
)

// NewPanelCmd creates the "panel" command that opens the interactive cache
// administration TUI.
func NewPanelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "panel",
		Short: "Interactive cache administration panel",
		Long: `Open the full-screen cache administration panel.

The panel lists every cache with its item count, freshness, and cleanup
history, and drives refresh and clear operations with per-cache progress.
Requires an interactive terminal; in scripts use 'cachectl status',
'cachectl refresh', and 'cachectl clear' instead.`,
		Args: cobra.NoArgs,
		RunE: runPanel,
	}
}

func runPanel(cmd *cobra.Command, _ []string) error {
	if tui.DetectOutputMode(true, false, false) != tui.OutputModeInteractive {
		return errors.New("panel requires an interactive terminal; use 'cachectl status' instead")
	}

	client, _, err := newBackendClient(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	log := logging.ComponentLogger(logger, "tui")
	if !logToFile {
		// Console lines would be drawn over the alternate screen.
		log = log.Level(zerolog.ErrorLevel)
	}

	p := tea.NewProgram(tui.NewPanelModel(ctx, client, log), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run interactive TUI: %w", err)
	}
	return nil
}

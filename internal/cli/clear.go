package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/finboard/cachectl/internal/admin"
	"github.com/finboard/cachectl/internal/api"
	"github.com/finboard/cachectl/internal/tui"
)

// NewClearCmd creates the "clear" command that empties a single cache.
func NewClearCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear <cache>",
		Short: "Clear a cache",
		Long: `Remove every item from one cache on the backend.

Clearing is destructive and cannot be undone, so the command prompts for
confirmation. The prompt defaults to No; pass --yes to clear without
prompting in scripts.`,
		Example: `  # Clear after a confirmation prompt
  cachectl clear sectors

  # Clear without the prompt (scripts)
  cachectl clear sectors --yes`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClear(cmd, args[0], yes)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func runClear(cmd *cobra.Command, key string, yes bool) error {
	client, _, err := newBackendClient(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if !yes {
		if !tui.IsTTY() {
			return errors.New("clearing a cache requires confirmation: re-run with --yes in non-interactive sessions")
		}
		result := ConfirmClear(cmd.OutOrStdout(), cmd.InOrStdin(), key, clearItemCount(ctx, client, key))
		if result.Cancelled {
			return errors.New("reading confirmation input failed")
		}
		if !result.Accepted {
			cmd.Println("Aborted.")
			return nil
		}
	}

	if err := client.Clear(ctx, key); err != nil {
		logger.Warn().Err(err).Str("cache", key).Msg("clear failed")
		return errors.New(admin.OperationFailed(admin.OpClear, key, err).Text)
	}

	cmd.Println(admin.ClearSucceeded(key).Text)
	return nil
}

// clearItemCount fetches the cache's current item count for the confirmation
// prompt. Failures degrade to an unknown count rather than blocking the
// prompt; the clear itself will surface any real connectivity problem.
func clearItemCount(ctx context.Context, client *api.Client, key string) int {
	snapshot, err := client.Status(ctx)
	if err != nil {
		return -1
	}
	entry, ok := snapshot[key]
	if !ok {
		return -1
	}
	return entry.Count
}

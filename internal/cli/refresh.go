package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/finboard/cachectl/internal/admin"
	"github.com/finboard/cachectl/internal/api"
)

// maxConcurrentMutations bounds the refresh fan-out so a long key list does
// not stampede the backend.
const maxConcurrentMutations = 4

// refreshOutcome is one cache's result line, kept in argument order.
type refreshOutcome struct {
	text   string
	failed bool
}

// NewRefreshCmd creates the "refresh" command that re-warms caches.
func NewRefreshCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "refresh [cache...]",
		Short: "Refresh caches",
		Long: `Ask the backend to repopulate one or more caches.

Multiple caches refresh concurrently, each with its own result line. With
--all the backend refreshes every cache in a single pass.`,
		Example: `  # Refresh one cache
  cachectl refresh sectors

  # Refresh several concurrently
  cachectl refresh sectors symbols market_news

  # One backend pass over everything
  cachectl refresh --all`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if all && len(args) > 0 {
				return errors.New("cannot combine --all with cache names")
			}
			if !all && len(args) == 0 {
				return errors.New("specify at least one cache, or --all")
			}
			return runRefresh(cmd, args, all)
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "refresh every cache in one backend pass")
	return cmd
}

func runRefresh(cmd *cobra.Command, args []string, all bool) error {
	client, _, err := newBackendClient(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	keys := args
	if all {
		keys = []string{admin.AllKey}
	}

	outcomes := refreshAll(ctx, client, keys)

	failures := 0
	for _, outcome := range outcomes {
		cmd.Println(outcome.text)
		if outcome.failed {
			failures++
		}
	}
	if failures > 0 {
		return fmt.Errorf("%d of %d refreshes failed", failures, len(keys))
	}
	return nil
}

// refreshAll runs one refresh per key concurrently and returns the outcome
// lines in the order the keys were given. Each refresh mints its own bearer
// token; a failed key never cancels the others.
func refreshAll(ctx context.Context, client *api.Client, keys []string) []refreshOutcome {
	outcomes := make([]refreshOutcome, len(keys))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentMutations)
	for i, key := range keys {
		g.Go(func() error {
			payload, err := client.Refresh(gCtx, key)
			if err != nil {
				outcomes[i] = refreshOutcome{
					text:   admin.OperationFailed(admin.OpRefresh, key, err).Text,
					failed: true,
				}
				return nil
			}
			outcomes[i] = refreshOutcome{text: admin.RefreshSucceeded(key, payload).Text}
			return nil
		})
	}
	// Goroutines always return nil; failures are carried in the outcomes.
	_ = g.Wait()

	return outcomes
}

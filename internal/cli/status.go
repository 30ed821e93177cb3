package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/finboard/cachectl/internal/admin"
	"github.com/finboard/cachectl/internal/jsonx"
)

// notAvailable marks table cells the backend has reported nothing for.
const notAvailable = "N/A"

// NewStatusCmd creates the "status" command that prints a one-shot cache
// snapshot.
func NewStatusCmd() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show cache status",
		Long:  "Fetch the backend's cache snapshot and print it as a table, or as JSON with --json.",
		Example: `  # Human-readable table
  cachectl status

  # Raw snapshot for scripts
  cachectl status --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStatus(cmd, jsonOut)
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "emit the snapshot as JSON")
	return cmd
}

func runStatus(cmd *cobra.Command, jsonOut bool) error {
	client, _, err := newBackendClient(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	snapshot, err := client.Status(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", admin.StatusLoadFailedText, err)
	}

	if jsonOut {
		data, marshalErr := jsonx.MarshalIndent(snapshot, "", "  ")
		if marshalErr != nil {
			return fmt.Errorf("encoding snapshot: %w", marshalErr)
		}
		cmd.Println(string(data))
		return nil
	}

	return renderStatusTable(cmd.OutOrStdout(), snapshot, time.Now())
}

// renderStatusTable writes the snapshot as a tabulated listing, one row per
// cache in sorted key order.
func renderStatusTable(w io.Writer, snapshot admin.Snapshot, now time.Time) error {
	if len(snapshot) == 0 {
		fmt.Fprintln(w, "No caches reported.")
		return nil
	}

	const tabPadding = 2
	tw := tabwriter.NewWriter(w, 0, 0, tabPadding, ' ', 0)

	fmt.Fprintln(tw, "NAME\tSTATUS\tITEMS\tLAST UPDATED\tTTL\tCLEANED\tREMOVED")
	for _, key := range snapshot.Keys() {
		entry := snapshot[key]

		status := admin.SeverityFor(entry.Count).String()
		if entry.Stale(now) {
			status += " (stale)"
		}

		removed := notAvailable
		if entry.RemovedCount != nil {
			removed = admin.FormatCount(*entry.RemovedCount)
		}

		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			key,
			status,
			admin.FormatCount(entry.Count),
			admin.FormatTimestamp(entry.LastUpdated),
			admin.FormatDuration(entry.CacheDurationMinutes),
			admin.FormatTimestamp(entry.CleanupRunAt),
			removed,
		)
	}
	return tw.Flush()
}

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/jobradar/internal/pipeline"
)

var enqueueCmd = &cobra.Command{
	Use:   "enqueue",
	Short: "Queue a fetch task for every active company in the registry",
	RunE:  runEnqueue,
}

var enqueueLimit int

func init() {
	enqueueCmd.Flags().IntVar(&enqueueLimit, "limit", 0, "Maximum number of companies to queue (0 = all)")
	rootCmd.AddCommand(enqueueCmd)
}

func runEnqueue(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()
	d, err := openDeps(ctx)
	if err != nil {
		return err
	}
	defer d.Close()

	queued, err := pipeline.DispatchFetch(ctx, d.db, d.queue, enqueueLimit)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Queued %d fetch task(s)\n", queued)
	return nil
}

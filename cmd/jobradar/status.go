package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jonathan/jobradar/internal/queue"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print per-platform job counts and queue depths",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()
	d, err := openDeps(ctx)
	if err != nil {
		return err
	}
	defer d.Close()

	summaries, err := d.db.Summarize(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ATS\tCOMPANIES\tJOBS\tPARSED\tFAILED")
	var totalJobs, totalParsed int
	for _, s := range summaries {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\n", s.ATS, s.Companies, s.Jobs, s.Parsed, s.Failed)
		totalJobs += s.Jobs
		totalParsed += s.Parsed
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(out, "\nTotal: %d jobs, %d parsed\n", totalJobs, totalParsed)

	for _, kind := range []queue.Kind{queue.KindFetch, queue.KindExtract} {
		depths, err := d.queue.Depths(ctx, kind)
		if err != nil {
			return err
		}
		var total int64
		for _, n := range depths {
			total += n
		}
		fmt.Fprintf(out, "Queue %s: %d pending", kind, total)
		for _, band := range queue.Bands() {
			fmt.Fprintf(out, " [band %d: %d]", band, depths[band])
		}
		fmt.Fprintln(out)
	}
	return nil
}

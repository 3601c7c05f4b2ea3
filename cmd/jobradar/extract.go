package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonathan/jobradar/internal/llm"
	"github.com/jonathan/jobradar/internal/pipeline"
	"github.com/jonathan/jobradar/internal/profile"
	"github.com/jonathan/jobradar/internal/queue"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Run the extraction worker pool",
	Long:  "Run the extraction worker pool: claim extract tasks, send batched raw descriptions to Gemini, validate and normalize the structured fields, and recompute company profiles as results land.",
	RunE:  runExtract,
}

var extractModel string

func init() {
	extractCmd.Flags().StringVar(&extractModel, "model", llm.DefaultModel, "Gemini model to use")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(_ *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	d, err := openDeps(ctx)
	if err != nil {
		return err
	}
	defer d.Close()

	if d.cfg.GeminiAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is required for extraction")
	}
	client, err := llm.NewGeminiClient(ctx, d.cfg.GeminiAPIKey, extractModel)
	if err != nil {
		return err
	}
	defer client.Close()

	debouncer := profile.NewDebouncer(d.cfg.ProfileDebounce, func(ctx context.Context, ats, company string) {
		if err := d.db.RecomputeCompanyProfile(ctx, ats, company, d.cfg.Signals); err != nil {
			log.Printf("[extract] profile recompute for %s/%s failed: %v", ats, company, err)
		}
	})
	defer debouncer.Flush()

	worker := pipeline.NewExtractWorker(client, d.db, d.queue, debouncer)

	log.Printf("[extract] starting %d workers with model %s", d.cfg.ExtractWorkers, extractModel)
	pool := pipeline.NewPool(d.queue, queue.KindExtract, worker, d.cfg.ExtractWorkers)
	return pool.Run(ctx)
}

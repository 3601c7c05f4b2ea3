package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonathan/jobradar/internal/ats"
	"github.com/jonathan/jobradar/internal/identity"
	"github.com/jonathan/jobradar/internal/pipeline"
	"github.com/jonathan/jobradar/internal/queue"
	"github.com/jonathan/jobradar/internal/scheduler"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Run the fetch worker pool",
	Long:  "Run the fetch worker pool: claim fetch tasks, pull company boards from their ATS platforms, persist raw postings, and enqueue extraction batches. With --cron, also re-dispatch the registry on the configured interval.",
	RunE:  runFetch,
}

var fetchCron bool

func init() {
	fetchCmd.Flags().BoolVar(&fetchCron, "cron", false, "Also run the periodic registry dispatcher")
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(_ *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	d, err := openDeps(ctx)
	if err != nil {
		return err
	}
	defer d.Close()

	var rotator *identity.Rotator
	if d.cfg.UseProxies() {
		rotator = identity.NewRotator(d.cfg.Proxies, d.cfg.ProxyUser, d.cfg.ProxyPass)
		log.Printf("[fetch] proxy rotation enabled, pool size %d", rotator.PoolSize())
	} else {
		rotator = identity.NewRotator(nil, "", "")
		log.Printf("[fetch] no proxies configured, direct connections")
	}

	client := ats.NewClient(rotator, d.cfg.RequestTimeout)
	worker := pipeline.NewFetchWorker(client, d.db, d.queue, d.cfg.BatchSize)

	if fetchCron {
		sched := scheduler.New(d.db, d.queue, d.cfg.ScrapeIntervalHours)
		if err := sched.Start(ctx); err != nil {
			return err
		}
		defer sched.Stop()
	}

	log.Printf("[fetch] starting %d workers", d.cfg.FetchWorkers)
	pool := pipeline.NewPool(d.queue, queue.KindFetch, worker, d.cfg.FetchWorkers)
	return pool.Run(ctx)
}

package main

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/jonathan/jobradar/internal/config"
	"github.com/jonathan/jobradar/internal/db"
	"github.com/jonathan/jobradar/internal/queue"
)

// deps bundles the shared backends most subcommands need.
type deps struct {
	cfg   *config.Config
	db    *db.DB
	redis *redis.Client
	queue *queue.Queue
}

func openDeps(ctx context.Context) (*deps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := database.EnsureSchema(ctx); err != nil {
		database.Close()
		return nil, err
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &deps{
		cfg:   cfg,
		db:    database,
		redis: rdb,
		queue: queue.New(rdb, cfg.LeaseDuration),
	}, nil
}

func (d *deps) Close() {
	d.db.Close()
	_ = d.redis.Close()
}

package main

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/jonathan/job-tracker/internal/config"
	"github.com/jonathan/job-tracker/internal/db"
	"github.com/jonathan/job-tracker/internal/logging"
	"github.com/jonathan/job-tracker/internal/repository"
	"github.com/jonathan/job-tracker/internal/schemas"
)

// app holds what every command needs: config, logger, store and the optional
// Redis client.
type app struct {
	cfg     *config.Config
	log     *logging.Logger
	repo    *repository.Repository
	redis   *redis.Client
	closers []func()
}

// bootstrap loads configuration and opens the backends. Close releases them.
func bootstrap(ctx context.Context) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	a := &app{cfg: cfg, log: logging.New(cfg.LogLevel)}
	a.closers = append(a.closers, func() { _ = a.log.Sync() })

	registry, err := schemas.LoadRegistry()
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to load document schemas: %w", err)
	}

	store, err := a.openStore(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.repo = repository.New(store, registry)

	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			a.Close()
			return nil, fmt.Errorf("redis connection failed: %w", err)
		}
		a.redis = rdb
		a.closers = append(a.closers, func() { _ = rdb.Close() })
		a.log.Info("redis connected", "addr", cfg.RedisAddr)
	}
	return a, nil
}

func (a *app) openStore(ctx context.Context) (db.Store, error) {
	if a.cfg.Store == config.StoreMemory {
		a.log.Warn("using in-memory store; data is lost on exit")
		return db.NewMemory(), nil
	}
	database, err := db.Connect(ctx, a.cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(ctx); err != nil {
		database.Close()
		return nil, err
	}
	a.closers = append(a.closers, database.Close)
	a.log.Info("database connected")
	return database, nil
}

// Close releases backends in reverse order of opening.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

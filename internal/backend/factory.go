// Package backend selects and owns the configured record store.
package backend

import (
	"context"
	"fmt"
	"log/slog"

	"financas/internal/config"
	"financas/internal/store"
)

// Result bundles the opened store with its cleanup. Cleanup is never nil, so
// callers can defer it unconditionally.
type Result struct {
	Store   store.Store
	Cleanup func() error
}

// Open builds the record store named by cfg.DataBackend. The returned cleanup
// releases whatever the store holds (file handles, connection pools).
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = slog.Default()
	}

	switch cfg.DataBackend {
	case "sqlite":
		s, err := store.NewSQLite(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize sqlite store: %w", err)
		}
		logger.Info("Initialized sqlite backend", "db_path", cfg.SQLiteDBPath)
		return &Result{Store: s, Cleanup: s.Close}, nil

	case "postgres":
		s, err := store.NewPostgres(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, fmt.Errorf("initialize postgres store: %w", err)
		}
		logger.Info("Initialized postgres backend")
		return &Result{Store: s, Cleanup: s.Close}, nil

	case "memory":
		s := store.NewMemory()
		logger.Info("Initialized memory backend")
		return &Result{Store: s, Cleanup: s.Close}, nil

	default:
		return nil, fmt.Errorf("unsupported data backend: %s", cfg.DataBackend)
	}
}

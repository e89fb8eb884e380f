package kv

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"guitarla/internal/config"
	"guitarla/internal/db"
)

// Open builds the repository selected by cfg.StorageDriver. The returned close
// function releases the database pool, if any.
func Open(ctx context.Context, cfg config.Config, logger *zap.Logger) (Repository, func(), error) {
	switch cfg.StorageDriver {
	case config.StorageMemory:
		return NewMemory(), func() {}, nil
	case config.StorageFile:
		repo, err := NewFile(cfg.StorageDir)
		if err != nil {
			return nil, nil, err
		}
		return repo, func() {}, nil
	case config.StoragePostgres:
		pool, err := db.Connect(ctx, cfg.DBConnString, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("connect db: %w", err)
		}
		return NewPostgres(pool, logger), pool.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported storage driver %q", cfg.StorageDriver)
	}
}

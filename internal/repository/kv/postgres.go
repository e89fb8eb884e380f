package kv

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"guitarla/internal/domain"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPostgres stores slots in the kv_slots table created by the migrations.
func NewPostgres(pool *pgxpool.Pool, logger *zap.Logger) Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) Get(ctx context.Context, key string) ([]byte, error) {
	const q = `
SELECT value
FROM kv_slots
WHERE key = $1
`
	var value []byte
	if err := r.pool.QueryRow(ctx, q, key).Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug("kv repo: get not found", zap.String("key", key))
			return nil, domain.ErrNotFound
		}
		r.logger.Error("kv repo: get", zap.String("key", key), zap.Error(err))
		return nil, err
	}
	return value, nil
}

func (r *postgresRepo) Put(ctx context.Context, key string, value []byte) error {
	const q = `
INSERT INTO kv_slots (key, value, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (key) DO UPDATE
SET value = EXCLUDED.value,
    updated_at = EXCLUDED.updated_at
`
	if _, err := r.pool.Exec(ctx, q, key, value); err != nil {
		r.logger.Error("kv repo: put", zap.String("key", key), zap.Error(err))
		return err
	}
	r.logger.Debug("kv repo: put", zap.String("key", key), zap.Int("bytes", len(value)))
	return nil
}

func (r *postgresRepo) Delete(ctx context.Context, key string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM kv_slots WHERE key = $1`, key); err != nil {
		r.logger.Error("kv repo: delete", zap.String("key", key), zap.Error(err))
		return err
	}
	return nil
}

func (r *postgresRepo) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

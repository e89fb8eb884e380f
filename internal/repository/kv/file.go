package kv

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"

	"guitarla/internal/domain"
)

type fileRepo struct {
	dir string
}

// NewFile stores each key as <dir>/<escaped key>.json. The directory is created if missing.
func NewFile(dir string) (Repository, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &fileRepo{dir: dir}, nil
}

func (r *fileRepo) path(key string) string {
	return filepath.Join(r.dir, url.PathEscape(key)+".json")
}

func (r *fileRepo) Get(_ context.Context, key string) ([]byte, error) {
	b, err := os.ReadFile(r.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

// Put writes to a temp file in the same directory and renames it over the target,
// so a crash never leaves a half-written slot behind.
func (r *fileRepo) Put(_ context.Context, key string, value []byte) error {
	tmp, err := os.CreateTemp(r.dir, ".slot-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), r.path(key)); err != nil {
		return fmt.Errorf("rename slot file: %w", err)
	}
	return nil
}

func (r *fileRepo) Delete(_ context.Context, key string) error {
	err := os.Remove(r.path(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

package main

import (
	"context"
	"log"

	"go.uber.org/zap"
	"guitarla/internal/config"
	"guitarla/internal/logging"
	"guitarla/internal/repository/kv"
	"guitarla/internal/seed"
	catalogsvc "guitarla/internal/service/catalog"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger, err := logging.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()
	logger = logger.Named("seed")

	catalog, err := loadCatalog(cfg.CatalogFile)
	if err != nil {
		logger.Fatal("load catalog", zap.String("file", cfg.CatalogFile), zap.Error(err))
	}

	ctx := context.Background()
	repo, closeRepo, err := kv.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("open storage", zap.Error(err))
	}
	defer closeRepo()

	cart, err := seed.Apply(ctx, kv.Slot(repo, cfg.CartSlot), catalog.List())
	if err != nil {
		logger.Fatal("seed apply", zap.Error(err))
	}

	logger.Info("seed applied",
		zap.String("slot", cfg.CartSlot),
		zap.Int("lines", len(cart)),
		zap.String("total", cart.Total().StringFixed(2)),
	)
}

func loadCatalog(path string) (*catalogsvc.Service, error) {
	if path == "" {
		return catalogsvc.Default()
	}
	return catalogsvc.LoadFile(path)
}

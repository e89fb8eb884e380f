package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"guitarla/internal/config"
	"guitarla/internal/httpserver"
	"guitarla/internal/logging"
	"guitarla/internal/repository/kv"
	cartsvc "guitarla/internal/service/cart"
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
	logger = logger.Named("api")

	catalog, err := loadCatalog(cfg.CatalogFile)
	if err != nil {
		logger.Fatal("load catalog", zap.String("file", cfg.CatalogFile), zap.Error(err))
	}
	logger.Info("catalog loaded", zap.Int("items", catalog.Len()))

	ctx := context.Background()
	repo, closeRepo, err := kv.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("open storage", zap.String("driver", cfg.StorageDriver), zap.Error(err))
	}
	defer closeRepo()

	slot := kv.Slot(repo, cfg.CartSlot)
	store := cartsvc.Open(ctx, slot, logger.Named("cart"))

	srv, err := httpserver.New(cfg.HTTPAddr, logger, httpserver.Deps{
		Catalog:     catalog,
		Cart:        store,
		Storage:     slot,
		CORSOrigins: cfg.CORSOrigins,
	})
	if err != nil {
		logger.Fatal("init server", zap.Error(err))
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("starting http server", zap.String("addr", cfg.HTTPAddr), zap.String("storage", cfg.StorageDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	case err := <-serverErr:
		logger.Error("server error", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	} else {
		logger.Info("server stopped")
	}
}

func loadCatalog(path string) (*catalogsvc.Service, error) {
	if path == "" {
		return catalogsvc.Default()
	}
	return catalogsvc.LoadFile(path)
}

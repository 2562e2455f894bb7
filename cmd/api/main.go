package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/joho/godotenv"

	"github.com/karagol/memorywall/internal/config"
	"github.com/karagol/memorywall/internal/gallery"
	"github.com/karagol/memorywall/internal/server"
	"github.com/karagol/memorywall/internal/storage"
	"github.com/karagol/memorywall/internal/upload"
)

const shutdownTimeout = 10 * time.Second

func main() {
	_ = godotenv.Load()

	var logger log.Logger
	{
		logger = log.NewJSONLogger(log.NewSyncWriter(os.Stderr))
		logger = log.With(logger, "ts", log.DefaultTimestampUTC)
		logger = log.With(logger, "caller", log.DefaultCaller)
	}

	cfg, err := config.Load()
	if err != nil {
		level.Error(logger).Log("msg", "load config", "err", err)
		os.Exit(1)
	}

	if err := cfg.Storage.Validate(); err != nil {
		level.Error(logger).Log("msg", "storage configuration incomplete", "err", err)
		os.Exit(1)
	}

	orderPolicy, err := gallery.ParseOrderPolicy(cfg.Gallery.Order)
	if err != nil {
		level.Error(logger).Log("msg", "gallery configuration invalid", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := storage.NewClient(cfg.Storage)
	if err != nil {
		level.Error(logger).Log("msg", "connect storage", "err", err)
		os.Exit(1)
	}

	if err := storage.CheckBucket(ctx, client, cfg.Storage.Bucket); err != nil {
		level.Error(logger).Log("msg", "check bucket", "err", err)
		os.Exit(1)
	}

	signer := storage.NewSigner(client, cfg.Storage.Bucket, cfg.Storage.URLTTL)
	uploadStore := upload.NewMinIOStore(client, cfg.Storage.Bucket)
	uploadService := upload.NewService(uploadStore, signer, cfg.Storage, cfg.Upload.DefaultContributor, logger)

	pager := storage.NewPager(client, cfg.Storage.Bucket)
	galleryService := gallery.NewService(pager, signer, cfg.Storage, orderPolicy, cfg.Gallery.Limit, logger)

	router := server.NewRouter(server.Dependencies{
		Config:         cfg,
		ObjectStore:    client,
		UploadService:  uploadService,
		GalleryService: galleryService,
		Logger:         logger,
	})

	httpServer := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		level.Info(logger).Log("msg", "memorywall API listening", "address", cfg.Server.Address())
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			level.Error(logger).Log("msg", "http server", "err", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	level.Info(logger).Log("msg", "shutting down gracefully")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		level.Error(logger).Log("msg", "shutdown error", "err", err)
	}
}

package main

import (
	"context"
	"fmt"

	"modelhub/internal/assets"
	"modelhub/internal/config"
	handler "modelhub/internal/handler/http"
	"modelhub/internal/logger"
	"modelhub/internal/server"
	"modelhub/internal/service"
	"modelhub/internal/store"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("modelhub-server")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	log.Debug().Any("config", cfg).Msg("received configs")

	ctx := context.Background()

	primary, err := newPrimaryStore(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.Storage.Backend).Msg("error creating storage backend")
	}

	selector := store.NewSelector(primary, cfg.Storage.FallbackWindow, log)
	defer selector.Close()
	go selector.Run(ctx, cfg.Storage.ProbeInterval)

	if err = store.EnsureAdmin(ctx, selector, cfg.App.AdminPassword, log); err != nil {
		log.Fatal().Err(err).Msg("error bootstrapping admin account")
	}

	assetStorage, uploadDir, err := newAssetStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating asset storage")
	}

	services := service.NewServices(selector, assetStorage, cfg, log)
	handlers := handler.NewHandler(services, uploadDir, log)

	srv, err := server.NewServer(handlers.Init(), cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	srv.RunServer()
}

// newPrimaryStore builds the authoritative storage backend selected by the
// configuration.
func newPrimaryStore(ctx context.Context, cfg *config.StructuredConfig, log *logger.Logger) (store.Store, error) {
	switch cfg.Storage.Backend {
	case config.BackendPostgres:
		db, err := store.NewConnectPostgres(ctx, cfg.Storage, log)
		if err != nil {
			return nil, err
		}
		return store.NewSQLStore(db, log), nil

	case config.BackendSQLite:
		db, err := store.NewConnectSQLite(ctx, cfg.Storage, log)
		if err != nil {
			return nil, err
		}
		return store.NewSQLStore(db, log), nil

	case config.BackendRedis:
		return store.NewRedisStore(ctx, cfg.Storage, log)

	case config.BackendMemory:
		return store.NewMemoryStore(), nil

	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

// newAssetStorage picks S3 when a bucket is configured, local disk
// otherwise. The returned dir is the directory served under /uploads/ and
// is empty for S3, where assets are fetched from the bucket directly.
func newAssetStorage(ctx context.Context, cfg *config.StructuredConfig, log *logger.Logger) (assets.Storage, string, error) {
	if cfg.Assets.S3Bucket != "" {
		s3Storage, err := assets.NewS3Storage(ctx, cfg.Assets, log)
		return s3Storage, "", err
	}

	diskStorage, err := assets.NewDiskStorage(cfg.Assets.UploadDir, cfg.Assets.MaxUploadBytes, log)
	return diskStorage, cfg.Assets.UploadDir, err
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}

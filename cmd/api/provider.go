package main

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/driverelay/service/internal/config"
	"github.com/driverelay/service/internal/credential"
	"github.com/driverelay/service/internal/relay"
	"github.com/driverelay/service/internal/storage"
	"github.com/driverelay/service/internal/upload"
)

// newReadiness builds the storage provider once. A broken credential does not
// stop the process: the server comes up Degraded and refuses every upload
// with the startup error.
func newReadiness(ctx context.Context, cfg *config.Config, logger *zap.Logger) upload.Readiness {
	provider, err := newProvider(ctx, cfg)
	if err != nil {
		logger.Error("storage provider unavailable, uploads will be refused", zap.Error(err))
		return upload.Degraded(err)
	}
	return upload.Ready(relay.New(provider, logger.Named("relay")))
}

func newProvider(ctx context.Context, cfg *config.Config) (storage.Provider, error) {
	switch cfg.Provider {
	case config.ProviderS3:
		if cfg.StorageEndpoint == "" || cfg.StorageAccessKey == "" || cfg.StorageSecretKey == "" {
			return nil, errors.New("STORAGE_ENDPOINT, STORAGE_ACCESS_KEY and STORAGE_SECRET_KEY must be set")
		}
		return storage.NewMinioStorage(
			cfg.StorageEndpoint,
			cfg.StorageAccessKey,
			cfg.StorageSecretKey,
			cfg.StorageRegion,
			cfg.StorageUseSSL,
		)
	default:
		sa, err := credential.Parse(cfg.CredentialsJSON)
		if err != nil {
			return nil, fmt.Errorf("GOOGLE_CREDENTIALS_JSON: %w", err)
		}
		return storage.NewDriveStorage(ctx, sa.JSON())
	}
}

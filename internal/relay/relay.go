package relay

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/driverelay/service/internal/storage"
)

// Relay sends staged files to a storage provider.
type Relay struct {
	provider storage.Provider
	logger   *zap.Logger
}

// New creates a Relay backed by provider.
func New(provider storage.Provider, logger *zap.Logger) *Relay {
	return &Relay{provider: provider, logger: logger}
}

// Send streams staged into container with a single provider call and then
// removes the staged file, whatever the outcome. If ctx is cancelled the
// provider call is aborted; the staged file is still removed.
func (r *Relay) Send(ctx context.Context, staged *StagedFile, container string) (*storage.Result, error) {
	defer func() {
		if err := staged.Remove(); err != nil {
			r.logger.Warn("staged file cleanup failed", zap.String("path", staged.Path), zap.Error(err))
		}
	}()

	f, err := os.Open(staged.Path)
	if err != nil {
		return nil, fmt.Errorf("open staged file: %w", err)
	}
	defer f.Close()

	res, err := r.provider.Upload(ctx, storage.Object{
		Name:        staged.Name,
		ContentType: staged.ContentType,
		Container:   container,
		Size:        staged.Size,
		Body:        f,
	})
	if err != nil {
		r.logger.Error("provider upload failed",
			zap.String("name", staged.Name),
			zap.String("container", container),
			zap.Int("provider_status", storage.ProviderStatus(err)),
			zap.Error(err),
		)
		return nil, fmt.Errorf("relay %q: %w", staged.Name, err)
	}

	r.logger.Info("file relayed",
		zap.String("id", res.ID),
		zap.String("name", res.Name),
		zap.Int64("bytes", staged.Size),
	)
	return res, nil
}

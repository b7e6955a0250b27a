package storage

import (
	"context"
	"fmt"

	"github.com/stefanologica/firebear-importexport/config"
)

// NewFromConfig builds the media directory selected by cfg.Storage.Driver.
func NewFromConfig(ctx context.Context, cfg *config.Config) (Directory, error) {
	switch cfg.Storage.Driver {
	case "", "local":
		return NewLocalDirectory(cfg.Root), nil
	case "minio":
		return NewMinioDirectory(ctx, cfg.Storage.MinIO)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

package media

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/stefanologica/firebear-importexport/config"
	"github.com/stefanologica/firebear-importexport/core/crypto"
	"github.com/stefanologica/firebear-importexport/core/storage"
	eavRepo "github.com/stefanologica/firebear-importexport/model/repository/eav"
	mediaRepo "github.com/stefanologica/firebear-importexport/model/repository/media"
	storeRepo "github.com/stefanologica/firebear-importexport/model/repository/store"
)

// NewProcessorFromConfig wires a Processor against db and the configured media
// storage. errs may be nil.
func NewProcessorFromConfig(ctx context.Context, db *gorm.DB, cfg *config.Config, errs *ErrorAggregator) (*Processor, error) {
	caps, err := CapabilitiesFor(cfg.PlatformVersion)
	if err != nil {
		return nil, err
	}
	dir, err := storage.NewFromConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	encryptor, err := NewEncryptorFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	return NewProcessor(Dependencies{
		Gallery:      mediaRepo.NewGalleryRepository(db),
		Attributes:   eavRepo.NewAttributeRepository(db),
		Stores:       storeRepo.NewStoreRepository(db),
		Media:        dir,
		Fetcher:      NewHTTPFetcher(time.Duration(cfg.Fetch.TimeoutSeconds) * time.Second),
		Errors:       errs,
		Capabilities: caps,
		Encryptor:    encryptor,
		MaxBytes:     cfg.Fetch.MaxBytes,
	}), nil
}

// NewEncryptorFromConfig returns nil when no crypt key is configured.
func NewEncryptorFromConfig(cfg *config.Config) (*crypto.FieldEncryptor, error) {
	if cfg.CryptKey == "" {
		return nil, nil
	}
	cipher, err := crypto.NewCipher(cfg.CryptKey)
	if err != nil {
		return nil, err
	}
	return crypto.NewFieldEncryptor(cipher), nil
}

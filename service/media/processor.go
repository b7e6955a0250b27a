// Package media imports product images referenced by import rows: it stores each
// referenced file once, assigns gallery entries and writes image role attributes.
package media

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/stefanologica/firebear-importexport/core/crypto"
	"github.com/stefanologica/firebear-importexport/core/log"
	"github.com/stefanologica/firebear-importexport/core/storage"
)

// ErrCodeUploaderSetup is recorded when the upload directories are unusable.
const ErrCodeUploaderSetup = "uploaderSetup"

// Dependencies wires a Processor. Encryptor is optional; without it credential
// fields in job configs are used as given.
type Dependencies struct {
	Gallery      GalleryStore
	Attributes   AttributeStore
	Stores       StoreLister
	Media        storage.Directory
	Fetcher      Fetcher
	Errors       *ErrorAggregator
	Capabilities Capabilities
	Encryptor    *crypto.FieldEncryptor
	MaxBytes     int64
}

// Processor runs image import batches. It keeps no per-batch state, so one
// Processor can serve concurrent batches.
type Processor struct {
	deps Dependencies
}

func NewProcessor(deps Dependencies) *Processor {
	if deps.Errors == nil {
		deps.Errors = NewErrorAggregator()
	}
	return &Processor{deps: deps}
}

// Errors is the aggregator row and setup errors are recorded in.
func (p *Processor) Errors() *ErrorAggregator {
	return p.deps.Errors
}

// WithErrors returns a Processor sharing every dependency but recording into errs.
func (p *Processor) WithErrors(errs *ErrorAggregator) *Processor {
	deps := p.deps
	deps.Errors = errs
	return NewProcessor(deps)
}

// Encryptor protects credential fields of configs queued for later processing.
// It is nil when no key is configured.
func (p *Processor) Encryptor() *crypto.FieldEncryptor {
	return p.deps.Encryptor
}

// Result summarises one batch.
type Result struct {
	Rows           Batch         `json:"rows"`
	GalleryEntries int           `json:"gallery_entries"`
	ConfigValues   int           `json:"config_values"`
	Uploaded       int           `json:"uploaded"`
	Duration       time.Duration `json:"duration"`
}

// ProcessImportImages decodes a serialized batch message and processes it.
func (p *Processor) ProcessImportImages(ctx context.Context, message []byte) (*Result, error) {
	msg, err := DecodeMessage(message)
	if err != nil {
		return nil, err
	}
	return p.Process(ctx, msg)
}

// Process runs one batch: load the gallery index for its SKUs, resolve every row,
// persist gallery entries and, in deferred mode, the image role attributes.
// Row problems are recorded in the aggregator; the returned error is batch-fatal.
func (p *Processor) Process(ctx context.Context, msg Message) (*Result, error) {
	start := time.Now()
	if msg.Config == nil {
		msg.Config = map[string]interface{}{}
	}
	if p.deps.Encryptor != nil {
		if err := p.deps.Encryptor.Decrypt(msg.Config); err != nil {
			return nil, err
		}
	}
	opts, err := DecodeOptions(msg.Config)
	if err != nil {
		return nil, err
	}

	result := &Result{Rows: msg.Data}
	if len(msg.Data) == 0 {
		return result, nil
	}

	run := &batchRun{
		p:          p,
		opts:       opts,
		attributes: newAttributeResolver(p.deps.Attributes),
		links:      newLinkQueue(p.deps.Gallery),
		uploaded:   make(UploadCache),
	}
	defer run.links.Reset()

	if err := run.prepare(ctx, msg.Data); err != nil {
		return nil, err
	}

	for _, br := range msg.Data {
		run.resolver.Resolve(ctx, br.Row, run.gallery, run.existing, run.uploaded, br.Num)
	}
	result.GalleryEntries = run.gallery.Len()
	result.Uploaded = len(run.uploaded)

	writer := &GalleryWriter{store: p.deps.Gallery, links: run.links, deferred: opts.DeferredImages}
	if err := writer.Save(ctx, run.gallery); err != nil {
		return nil, err
	}

	if opts.DeferredImages {
		cw := &ConfigWriter{store: p.deps.Attributes, attributes: run.attributes, links: run.links}
		n, err := cw.Save(ctx, msg.Data, run.storeIDs)
		if err != nil {
			return nil, err
		}
		result.ConfigValues = n
	}

	result.Duration = time.Since(start)
	log.Infow("image batch processed",
		"rows", len(msg.Data),
		"uploaded", result.Uploaded,
		"gallery_entries", result.GalleryEntries,
		"config_values", result.ConfigValues,
		"duration", result.Duration,
	)
	return result, nil
}

// batchRun is the state of one batch. It is discarded when the batch ends.
type batchRun struct {
	p          *Processor
	opts       Options
	attributes *attributeResolver
	links      *linkQueue
	uploaded   UploadCache
	existing   ExistingIndex
	gallery    *Gallery
	storeIDs   []uint16
	resolver   *Resolver
}

// prepare sets up everything rows need before the first one is resolved.
func (r *batchRun) prepare(ctx context.Context, batch Batch) error {
	deps := r.p.deps

	var uploader ImageUploader
	if batchHasImages(batch) {
		u, err := NewUploader(ctx, deps.Media, deps.Fetcher, r.opts.ImagesFileDir, deps.MaxBytes)
		if err != nil {
			deps.Errors.AddError(ErrCodeUploaderSetup, LevelNotCritical, nil, "", err.Error(), "")
			return err
		}
		uploader = u
	}

	attrID, err := r.attributes.ID(ctx, mediaGalleryCode)
	if err != nil {
		return fmt.Errorf("media gallery attribute: %w", err)
	}

	caps := deps.Capabilities
	if caps.StoreScopedGallery || r.opts.DeferredImages {
		ids, err := deps.Stores.StoreIDs(ctx)
		if err != nil {
			return err
		}
		r.storeIDs = append(ids, 0)
	}

	r.existing, err = loadExistingIndex(ctx, deps.Gallery, attrID, batch)
	if err != nil {
		return err
	}
	r.gallery = NewGallery(caps.Layout(r.storeIDs))
	r.resolver = &Resolver{
		opts:        r.opts,
		caps:        caps,
		attributeID: attrID,
		uploader:    uploader,
		remover:     &imageRemover{store: deps.Gallery, dir: deps.Media, withFiles: r.opts.RemoveImagesDir},
		errors:      deps.Errors,
	}
	return nil
}

func batchHasImages(batch Batch) bool {
	for _, br := range batch {
		for _, col := range imageColumns {
			if br.Row[col] != "" {
				return true
			}
		}
	}
	return false
}

// IsSetupError reports whether err aborted a batch before any row was processed.
func IsSetupError(err error) bool {
	return errors.Is(err, ErrUploaderSetup)
}

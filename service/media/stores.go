package media

import (
	"context"
	"strings"

	eavRepo "github.com/stefanologica/firebear-importexport/model/repository/eav"
	mediaRepo "github.com/stefanologica/firebear-importexport/model/repository/media"
)

// GalleryStore persists gallery files and their product assignments.
type GalleryStore interface {
	LinkIDs(ctx context.Context, skus []string) (map[string]uint, error)
	ExistingImages(ctx context.Context, attributeID uint16, skus []string) ([]mediaRepo.ExistingImage, error)
	DeleteImages(ctx context.Context, valueIDs []uint) error
	SaveMediaGallery(ctx context.Context, rows []mediaRepo.MediaRow) error
}

// AttributeStore resolves attribute ids and writes varchar values.
type AttributeStore interface {
	AttributeID(ctx context.Context, code, entityTypeCode string) (uint16, error)
	UpsertVarchar(ctx context.Context, values []eavRepo.VarcharValue) error
}

// StoreLister lists store view ids, excluding the admin scope.
type StoreLister interface {
	StoreIDs(ctx context.Context) ([]uint16, error)
}

// ExistingIndex maps SKU to the stored paths already in its gallery. SKUs
// compare case-insensitively, like the catalog collation.
type ExistingIndex map[string]map[string]mediaRepo.ExistingImage

func indexKey(sku string) string {
	return strings.ToLower(sku)
}

// NewExistingIndex groups images by SKU.
func NewExistingIndex(images []mediaRepo.ExistingImage) ExistingIndex {
	ix := make(ExistingIndex)
	for _, img := range images {
		k := indexKey(img.SKU)
		if ix[k] == nil {
			ix[k] = make(map[string]mediaRepo.ExistingImage)
		}
		ix[k][img.Value] = img
	}
	return ix
}

func (ix ExistingIndex) Has(sku, path string) bool {
	_, ok := ix[indexKey(sku)][path]
	return ok
}

// Mark records path as present for sku.
func (ix ExistingIndex) Mark(sku, path string) {
	k := indexKey(sku)
	if ix[k] == nil {
		ix[k] = make(map[string]mediaRepo.ExistingImage)
	}
	if _, ok := ix[k][path]; !ok {
		ix[k][path] = mediaRepo.ExistingImage{Value: path, SKU: sku}
	}
}

// Stored returns the images of sku loaded from the catalog, leaving out the
// ones assigned during this batch.
func (ix ExistingIndex) Stored(sku string) []mediaRepo.ExistingImage {
	var out []mediaRepo.ExistingImage
	for _, img := range ix[indexKey(sku)] {
		if img.ValueID != 0 {
			out = append(out, img)
		}
	}
	return out
}

// DropStored forgets the catalog images of sku. Paths marked during the batch stay.
func (ix ExistingIndex) DropStored(sku string) {
	paths := ix[indexKey(sku)]
	for p, img := range paths {
		if img.ValueID != 0 {
			delete(paths, p)
		}
	}
}

// HashedPath finds a stored file for ref by content address. Extensions are
// tried in AllowedExtensions order and the first hit wins.
func (ix ExistingIndex) HashedPath(sku, ref string) (string, bool) {
	paths := ix[indexKey(sku)]
	if len(paths) == 0 {
		return "", false
	}
	h := HashedName(ref)
	prefix := DispersionPath(h) + "/" + h + "."
	for _, ext := range AllowedExtensions {
		if _, ok := paths[prefix+ext]; ok {
			return prefix + ext, true
		}
	}
	return "", false
}

// loadExistingIndex reads the stored images of every SKU in batch.
func loadExistingIndex(ctx context.Context, store GalleryStore, attributeID uint16, batch Batch) (ExistingIndex, error) {
	skus := make([]string, 0, len(batch))
	for _, br := range batch {
		if sku := storageSKU(br.Row[ColumnSKU]); sku != "" {
			skus = append(skus, sku)
		}
	}
	if len(skus) == 0 {
		return make(ExistingIndex), nil
	}
	images, err := store.ExistingImages(ctx, attributeID, skus)
	if err != nil {
		return nil, err
	}
	return NewExistingIndex(images), nil
}

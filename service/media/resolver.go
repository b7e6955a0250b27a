package media

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// ErrCodeWrongReference is recorded when an image reference cannot be stored.
const ErrCodeWrongReference = "wrongImageReference"

// UploadCache maps a raw reference to its stored path for one batch.
type UploadCache map[string]string

// ImageUploader stores a reference and returns its path, "" on failure.
type ImageUploader interface {
	Upload(ctx context.Context, ref string, renameOff bool) string
}

// Resolver turns the image columns of a row into stored paths and gallery entries.
type Resolver struct {
	opts        Options
	caps        Capabilities
	attributeID uint16
	uploader    ImageUploader
	remover     *imageRemover
	errors      *ErrorAggregator
}

// Resolve processes one row. The row is mutated in place and returned: image
// columns hold stored paths, columns with no usable reference are removed, and
// _media_image lists the newly assigned gallery images.
func (r *Resolver) Resolve(ctx context.Context, row Row, gallery *Gallery, existing ExistingIndex, uploaded UploadCache, rowNum int) Row {
	sep := r.opts.Separator
	sku := storageSKU(row[ColumnSKU])

	if r.opts.RemoveImages && r.remover != nil {
		if images := existing.Stored(sku); len(images) > 0 {
			r.remover.Remove(ctx, sku, images)
			existing.DropStored(sku)
		}
	}

	if r.caps.LegacyAdditionalImages {
		normalizeAdditionalImages(row, sep)
	}
	if r.opts.SourceType == "rest" {
		delete(row, ColumnAdditionalImages)
	}

	if image, ok := row[ColumnImage]; ok {
		if _, ok := row[ColumnThumbnail]; !ok {
			row[ColumnThumbnail] = image
		}
		if _, ok := row[ColumnSmallImage]; !ok {
			row[ColumnSmallImage] = image
		}
	}

	disabled := disabledSet(row, sep)
	columns := imagesFromRow(row, sep, r.opts.FieldsEnclosure)
	errorRow := rowNumber(row, rowNum)

	var galleryImages []string
	for _, col := range columns {
		resolvedAny := false
		for _, ref := range col.Images {
			stored := r.storedPath(ctx, sku, ref.Raw, existing, uploaded)
			if stored == "" {
				n := errorRow
				r.errors.AddError(ErrCodeWrongReference, LevelWarning, &n, col.Column,
					fmt.Sprintf("Wrong URL/path used for attribute %s in rows", col.Column), ref.Raw)
				continue
			}
			resolvedAny = true
			if col.Column != ColumnMediaImage {
				row[col.Column] = stored
			}
			if existing.Has(sku, stored) {
				continue
			}
			if col.Column == ColumnMediaImage {
				galleryImages = append(galleryImages, stored)
			}
			gallery.Add(GalleryEntry{
				SKU:         sku,
				AttributeID: r.attributeID,
				Label:       col.label(ref),
				Position:    ref.Index + 1,
				Disabled:    disabled[ref.Raw],
				Value:       stored,
			})
			existing.Mark(sku, stored)
		}
		if !resolvedAny && col.Column != ColumnMediaImage {
			delete(row, col.Column)
		}
	}

	if len(galleryImages) > 0 {
		row[ColumnMediaImage] = strings.Join(galleryImages, sep)
	} else {
		delete(row, ColumnMediaImage)
	}
	return row
}

// storedPath applies the lookup precedence: batch cache, content address already
// in the SKU's gallery, then a fresh upload. Only uploads populate the cache.
func (r *Resolver) storedPath(ctx context.Context, sku, ref string, existing ExistingIndex, uploaded UploadCache) string {
	if stored, ok := uploaded[ref]; ok {
		return stored
	}
	if stored, ok := existing.HashedPath(sku, ref); ok {
		return stored
	}
	if r.uploader == nil {
		return ""
	}
	stored := r.uploader.Upload(ctx, ref, true)
	if stored != "" {
		uploaded[ref] = stored
	}
	return stored
}

// rowNumber prefers the row's own rowNum column over its batch key.
func rowNumber(row Row, fallback int) int {
	if v, ok := row[ColumnRowNum]; ok {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return fallback
}

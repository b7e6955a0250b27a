package media

import (
	"context"
	"path"

	"github.com/stefanologica/firebear-importexport/core/log"
	"github.com/stefanologica/firebear-importexport/core/storage"
	mediaRepo "github.com/stefanologica/firebear-importexport/model/repository/media"
)

// imageRemover drops a product's stored images before new ones are assigned.
// Only images with a gallery value id are touched: files uploaded by the current
// batch are never removed. Failures are logged; the batch carries on.
type imageRemover struct {
	store     GalleryStore
	dir       storage.Directory
	withFiles bool
}

func (r *imageRemover) Remove(ctx context.Context, sku string, images []mediaRepo.ExistingImage) {
	ids := make([]uint, 0, len(images))
	for _, img := range images {
		if img.ValueID == 0 {
			continue
		}
		ids = append(ids, img.ValueID)
		if !r.withFiles || r.dir == nil {
			continue
		}
		file := path.Join(ProductMediaDir, img.Value)
		exists, err := r.dir.Exists(ctx, file)
		if err != nil {
			log.Warnw("check image file", "sku", sku, "file", r.dir.AbsolutePath(file), "error", err)
			continue
		}
		if !exists {
			continue
		}
		if err := r.dir.Delete(ctx, file); err != nil {
			log.Warnw("remove image file", "sku", sku, "file", r.dir.AbsolutePath(file), "error", err)
			continue
		}
		log.Infof("Remove Image for Product %s from media directory: %s", sku, img.Value)
	}
	if len(ids) == 0 {
		return
	}
	if err := r.store.DeleteImages(ctx, ids); err != nil {
		log.Warnw("remove gallery rows", "sku", sku, "error", err)
		return
	}
	log.Infof("Removed %d gallery images for product %s", len(ids), sku)
}

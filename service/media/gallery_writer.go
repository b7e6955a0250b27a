package media

import (
	"context"
	"fmt"

	"github.com/stefanologica/firebear-importexport/core/log"
	mediaRepo "github.com/stefanologica/firebear-importexport/model/repository/media"
)

// GalleryWriter persists a batch's gallery entries.
type GalleryWriter struct {
	store    GalleryStore
	links    *linkQueue
	deferred bool
}

// Save writes gallery. In deferred mode the SKUs are registered with the shared
// link queue so the config writer reuses the same lookup.
func (w *GalleryWriter) Save(ctx context.Context, gallery *Gallery) error {
	if gallery == nil || gallery.Len() == 0 {
		return nil
	}
	skus := gallery.SKUs()

	var lookup func(sku string) (uint, bool, error)
	if w.deferred {
		w.links.InitDataQueue(skus...)
		lookup = func(sku string) (uint, bool, error) { return w.links.IDBySKU(ctx, sku) }
	} else {
		ids, err := w.store.LinkIDs(ctx, skus)
		if err != nil {
			return fmt.Errorf("save media gallery: %w", err)
		}
		lookup = func(sku string) (uint, bool, error) {
			id, ok := ids[indexKey(sku)]
			return id, ok, nil
		}
	}

	rows := make([]mediaRepo.MediaRow, 0, gallery.Len())
	missing := make(map[string]bool)
	for _, e := range gallery.Entries() {
		linkID, ok, err := lookup(e.SKU)
		if err != nil {
			return fmt.Errorf("save media gallery: %w", err)
		}
		if !ok {
			if !missing[e.SKU] {
				missing[e.SKU] = true
				log.Warnf("media gallery: product %s not found, images skipped", e.SKU)
			}
			continue
		}
		rows = append(rows, mediaRepo.MediaRow{
			LinkID:      linkID,
			StoreID:     e.StoreID,
			AttributeID: e.AttributeID,
			Value:       e.Value,
			Label:       e.Label,
			Position:    e.Position,
			Disabled:    e.Disabled,
		})
	}
	if err := w.store.SaveMediaGallery(ctx, rows); err != nil {
		return fmt.Errorf("save media gallery: %w", err)
	}
	return nil
}

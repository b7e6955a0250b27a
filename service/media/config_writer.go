package media

import (
	"context"
	"fmt"

	"github.com/stefanologica/firebear-importexport/core/log"
	eavRepo "github.com/stefanologica/firebear-importexport/model/repository/eav"
)

// ConfigWriter stores the image role attributes of deferred batches.
type ConfigWriter struct {
	store      AttributeStore
	attributes *attributeResolver
	links      *linkQueue
}

// Save writes image, small_image and thumbnail of every row for every store id.
// It returns the number of values written.
func (w *ConfigWriter) Save(ctx context.Context, batch Batch, storeIDs []uint16) (int, error) {
	skus := make([]string, 0, len(batch))
	for _, br := range batch {
		skus = append(skus, storageSKU(br.Row[ColumnSKU]))
	}
	w.links.InitDataQueue(skus...)

	var values []eavRepo.VarcharValue
	missing := make(map[string]bool)
	for _, storeID := range storeIDs {
		for _, br := range batch {
			for _, field := range roleColumns {
				value := br.Row[field]
				if value == "" {
					continue
				}
				attrID, err := w.attributes.ID(ctx, field)
				if err != nil {
					return 0, fmt.Errorf("save image config: %w", err)
				}
				sku := storageSKU(br.Row[ColumnSKU])
				linkID, ok, err := w.links.IDBySKU(ctx, sku)
				if err != nil {
					return 0, fmt.Errorf("save image config: %w", err)
				}
				if !ok {
					if !missing[sku] {
						missing[sku] = true
						log.Warnf("image config: product %s not found, skipped", sku)
					}
					continue
				}
				values = append(values, eavRepo.VarcharValue{
					LinkID:      linkID,
					AttributeID: attrID,
					StoreID:     storeID,
					Value:       value,
				})
			}
		}
	}
	if len(values) == 0 {
		return 0, nil
	}
	if err := w.store.UpsertVarchar(ctx, values); err != nil {
		return 0, fmt.Errorf("save image config: %w", err)
	}
	return len(values), nil
}

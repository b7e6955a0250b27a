package media

import (
	"context"
	"fmt"
)

// linkQueue resolves SKUs to product link ids lazily: SKUs are registered first
// and looked up together on the first IDBySKU call that needs them.
type linkQueue struct {
	store   GalleryStore
	pending map[string]string // lower-cased key to SKU as written
	ids     map[string]uint
}

func newLinkQueue(store GalleryStore) *linkQueue {
	return &linkQueue{store: store, pending: make(map[string]string), ids: make(map[string]uint)}
}

// InitDataQueue registers skus for the next lookup.
func (q *linkQueue) InitDataQueue(skus ...string) {
	for _, sku := range skus {
		sku = storageSKU(sku)
		k := indexKey(sku)
		if k == "" {
			continue
		}
		if _, done := q.ids[k]; !done {
			q.pending[k] = sku
		}
	}
}

// IDBySKU returns the link id of sku, flushing pending lookups first.
func (q *linkQueue) IDBySKU(ctx context.Context, sku string) (uint, bool, error) {
	sku = storageSKU(sku)
	k := indexKey(sku)
	if id, ok := q.ids[k]; ok {
		return id, true, nil
	}
	q.pending[k] = sku
	if err := q.flush(ctx); err != nil {
		return 0, false, err
	}
	id, ok := q.ids[k]
	return id, ok, nil
}

func (q *linkQueue) flush(ctx context.Context) error {
	if len(q.pending) == 0 {
		return nil
	}
	skus := make([]string, 0, len(q.pending))
	for _, sku := range q.pending {
		skus = append(skus, sku)
	}
	found, err := q.store.LinkIDs(ctx, skus)
	if err != nil {
		return fmt.Errorf("resolve product ids: %w", err)
	}
	for k, id := range found {
		q.ids[k] = id
	}
	q.pending = make(map[string]string)
	return nil
}

// Reset forgets every resolved and pending SKU.
func (q *linkQueue) Reset() {
	q.pending = make(map[string]string)
	q.ids = make(map[string]uint)
}

package media

import (
	"context"

	"github.com/stefanologica/firebear-importexport/core/cache"
)

const (
	productEntityType = "catalog_product"
	mediaGalleryCode  = "media_gallery"
)

// attributeResolver caches attribute ids for the lifetime of one batch.
type attributeResolver struct {
	store AttributeStore
	cache *cache.Cache
}

func newAttributeResolver(store AttributeStore) *attributeResolver {
	return &attributeResolver{store: store, cache: cache.NewCache()}
}

func (a *attributeResolver) ID(ctx context.Context, code string) (uint16, error) {
	if v, ok := a.cache.GetN(productEntityType, code); ok {
		return v.(uint16), nil
	}
	id, err := a.store.AttributeID(ctx, code, productEntityType)
	if err != nil {
		return 0, err
	}
	a.cache.SetN([]interface{}{productEntityType, code}, id, 0, nil)
	return id, nil
}

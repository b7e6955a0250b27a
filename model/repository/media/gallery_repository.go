package media

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	productEntity "github.com/stefanologica/firebear-importexport/model/entity/product"
	"github.com/stefanologica/firebear-importexport/model/repository/schema"
)

// lookupChunk bounds the size of IN (...) lists.
const lookupChunk = 500

const (
	tableProduct       = "catalog_product_entity"
	tableGallery       = "catalog_product_entity_media_gallery"
	tableGalleryValue  = "catalog_product_entity_media_gallery_value"
	tableValueToEntity = "catalog_product_entity_media_gallery_value_to_entity"
)

// ExistingImage is a gallery file already linked to a product.
type ExistingImage struct {
	ValueID uint   `gorm:"column:value_id"`
	Value   string `gorm:"column:value"`
	SKU     string `gorm:"column:sku"`
}

// MediaRow is one gallery assignment ready to persist.
type MediaRow struct {
	LinkID      uint
	StoreID     uint16
	AttributeID uint16
	Value       string
	Label       string
	Position    int
	Disabled    bool
}

type GalleryRepository struct {
	db       *gorm.DB
	linkOnce sync.Once
	link     string
}

func NewGalleryRepository(db *gorm.DB) *GalleryRepository {
	return &GalleryRepository{db: db}
}

// LinkColumn is entity_id or row_id, detected once per repository.
func (r *GalleryRepository) LinkColumn() string {
	r.linkOnce.Do(func() {
		r.link = schema.Detect(r.db).LinkColumn()
	})
	return r.link
}

// LinkIDs maps lower-cased SKU to the product link id. Unknown SKUs are absent.
func (r *GalleryRepository) LinkIDs(ctx context.Context, skus []string) (map[string]uint, error) {
	type skuRow struct {
		LinkID uint   `gorm:"column:link_id"`
		SKU    string `gorm:"column:sku"`
	}
	link := r.LinkColumn()
	out := make(map[string]uint, len(skus))
	for _, chunk := range chunkStrings(uniqueStrings(skus), lookupChunk) {
		var rows []skuRow
		err := r.db.WithContext(ctx).Table(tableProduct).
			Select(link+" AS link_id, sku").
			Where("sku IN ?", chunk).
			Find(&rows).Error
		if err != nil {
			return nil, fmt.Errorf("lookup product ids: %w", err)
		}
		for _, row := range rows {
			out[strings.ToLower(row.SKU)] = row.LinkID
		}
	}
	return out, nil
}

// ExistingImages returns every gallery file of attributeID linked to one of skus.
func (r *GalleryRepository) ExistingImages(ctx context.Context, attributeID uint16, skus []string) ([]ExistingImage, error) {
	link := r.LinkColumn()
	var out []ExistingImage
	for _, chunk := range chunkStrings(uniqueStrings(skus), lookupChunk) {
		var rows []ExistingImage
		err := r.db.WithContext(ctx).Table(tableGallery+" AS mg").
			Select("mg.value_id, mg.value, pe.sku").
			Joins("JOIN "+tableValueToEntity+" AS mgvte ON mgvte.value_id = mg.value_id").
			Joins("JOIN "+tableProduct+" AS pe ON pe."+link+" = mgvte."+link).
			Where("mg.attribute_id = ? AND pe.sku IN ?", attributeID, chunk).
			Scan(&rows).Error
		if err != nil {
			return nil, fmt.Errorf("load existing images: %w", err)
		}
		out = append(out, rows...)
	}
	return out, nil
}

// DeleteImages removes gallery files and their store values and product links.
func (r *GalleryRepository) DeleteImages(ctx context.Context, valueIDs []uint) error {
	if len(valueIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, table := range []string{tableGalleryValue, tableValueToEntity, tableGallery} {
			if err := tx.Exec("DELETE FROM "+table+" WHERE value_id IN ?", valueIDs).Error; err != nil {
				return fmt.Errorf("delete from %s: %w", table, err)
			}
		}
		return nil
	})
}

// SaveMediaGallery writes rows in one transaction. A file value already present for the
// attribute is reused; links are insert-ignore; store values are appended.
func (r *GalleryRepository) SaveMediaGallery(ctx context.Context, rows []MediaRow) error {
	if len(rows) == 0 {
		return nil
	}
	link := r.LinkColumn()

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		valueIDs, err := r.ensureGalleryValues(tx, rows)
		if err != nil {
			return err
		}

		type pair struct{ valueID, linkID uint }
		seen := make(map[pair]bool)
		var links []map[string]interface{}
		values := make([]map[string]interface{}, 0, len(rows))
		for _, row := range rows {
			id := valueIDs[galleryKey(row.AttributeID, row.Value)]
			p := pair{id, row.LinkID}
			if !seen[p] {
				seen[p] = true
				links = append(links, map[string]interface{}{"value_id": id, link: row.LinkID})
			}
			disabled := 0
			if row.Disabled {
				disabled = 1
			}
			values = append(values, map[string]interface{}{
				"value_id": id,
				"store_id": row.StoreID,
				link:       row.LinkID,
				"label":    row.Label,
				"position": row.Position,
				"disabled": disabled,
			})
		}

		for _, chunk := range chunkMaps(links, lookupChunk) {
			err := tx.Table(tableValueToEntity).Clauses(clause.OnConflict{DoNothing: true}).Create(&chunk).Error
			if err != nil {
				return fmt.Errorf("link gallery values: %w", err)
			}
		}
		for _, chunk := range chunkMaps(values, lookupChunk) {
			if err := tx.Table(tableGalleryValue).Create(&chunk).Error; err != nil {
				return fmt.Errorf("insert gallery store values: %w", err)
			}
		}
		return nil
	})
}

// ensureGalleryValues returns value_id per attribute/value, inserting missing files.
func (r *GalleryRepository) ensureGalleryValues(tx *gorm.DB, rows []MediaRow) (map[string]uint, error) {
	byAttr := make(map[uint16][]string)
	for _, row := range rows {
		byAttr[row.AttributeID] = append(byAttr[row.AttributeID], row.Value)
	}

	ids := make(map[string]uint)
	for attrID, values := range byAttr {
		values = uniqueStrings(values)
		for _, chunk := range chunkStrings(values, lookupChunk) {
			var existing []productEntity.ProductMediaGallery
			err := tx.Where("attribute_id = ? AND value IN ?", attrID, chunk).
				Order("value_id").
				Find(&existing).Error
			if err != nil {
				return nil, fmt.Errorf("load gallery values: %w", err)
			}
			for _, e := range existing {
				ids[galleryKey(attrID, e.Value)] = e.ValueID
			}
		}

		var missing []productEntity.ProductMediaGallery
		for _, v := range values {
			if _, ok := ids[galleryKey(attrID, v)]; !ok {
				missing = append(missing, productEntity.ProductMediaGallery{
					AttributeID: attrID,
					Value:       v,
					MediaType:   "image",
				})
			}
		}
		if len(missing) > 0 {
			if err := tx.CreateInBatches(&missing, lookupChunk).Error; err != nil {
				return nil, fmt.Errorf("insert gallery values: %w", err)
			}
			for _, m := range missing {
				ids[galleryKey(attrID, m.Value)] = m.ValueID
			}
		}
	}
	return ids, nil
}

func galleryKey(attributeID uint16, value string) string {
	return fmt.Sprintf("%d|%s", attributeID, value)
}

func uniqueStrings(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

func chunkStrings(in []string, size int) [][]string {
	var out [][]string
	for i := 0; i < len(in); i += size {
		end := i + size
		if end > len(in) {
			end = len(in)
		}
		out = append(out, in[i:end])
	}
	return out
}

func chunkMaps(in []map[string]interface{}, size int) [][]map[string]interface{} {
	var out [][]map[string]interface{}
	for i := 0; i < len(in); i += size {
		end := i + size
		if end > len(in) {
			end = len(in)
		}
		out = append(out, in[i:end])
	}
	return out
}

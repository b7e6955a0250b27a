package eav

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	entity "github.com/stefanologica/firebear-importexport/model/entity"
	"github.com/stefanologica/firebear-importexport/model/repository/schema"
)

const upsertChunk = 500

// ErrAttributeNotFound is returned when no attribute matches code and entity type.
var ErrAttributeNotFound = errors.New("eav attribute not found")

// VarcharValue is one store-scoped varchar attribute value.
type VarcharValue struct {
	LinkID      uint
	AttributeID uint16
	StoreID     uint16
	Value       string
}

type AttributeRepository struct {
	db       *gorm.DB
	linkOnce sync.Once
	link     string
}

func NewAttributeRepository(db *gorm.DB) *AttributeRepository {
	return &AttributeRepository{db: db}
}

func (r *AttributeRepository) linkColumn() string {
	r.linkOnce.Do(func() {
		r.link = schema.Detect(r.db).LinkColumn()
	})
	return r.link
}

// AttributeID resolves an attribute code within an entity type such as catalog_product.
func (r *AttributeRepository) AttributeID(ctx context.Context, code, entityTypeCode string) (uint16, error) {
	var attr entity.EavAttribute
	err := r.db.WithContext(ctx).
		Table("eav_attribute AS ea").
		Select("ea.*").
		Joins("JOIN eav_entity_type AS et ON et.entity_type_id = ea.entity_type_id").
		Where("ea.attribute_code = ? AND et.entity_type_code = ?", code, entityTypeCode).
		Take(&attr).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, fmt.Errorf("%w: %s/%s", ErrAttributeNotFound, entityTypeCode, code)
	}
	if err != nil {
		return 0, fmt.Errorf("lookup attribute %s: %w", code, err)
	}
	return attr.AttributeID, nil
}

// UpsertVarchar inserts or updates values keyed by (link, attribute_id, store_id).
func (r *AttributeRepository) UpsertVarchar(ctx context.Context, values []VarcharValue) error {
	if len(values) == 0 {
		return nil
	}
	link := r.linkColumn()
	upsert := clause.OnConflict{
		Columns:   []clause.Column{{Name: link}, {Name: "attribute_id"}, {Name: "store_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}

	for i := 0; i < len(values); i += upsertChunk {
		end := i + upsertChunk
		if end > len(values) {
			end = len(values)
		}
		batch := make([]map[string]interface{}, 0, end-i)
		for _, v := range values[i:end] {
			batch = append(batch, map[string]interface{}{
				link:           v.LinkID,
				"attribute_id": v.AttributeID,
				"store_id":     v.StoreID,
				"value":        v.Value,
			})
		}
		err := r.db.WithContext(ctx).Table("catalog_product_entity_varchar").Clauses(upsert).Create(&batch).Error
		if err != nil {
			return fmt.Errorf("upsert varchar values: %w", err)
		}
	}
	return nil
}

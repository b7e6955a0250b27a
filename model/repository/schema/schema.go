// Package schema detects which column links EAV and gallery rows to a product.
package schema

import (
	"gorm.io/gorm"
)

// Type is the catalog schema variant.
type Type int

const (
	Unknown  Type = iota
	EntityID      // Open Source: EAV and gallery tables carry entity_id
	RowID         // Commerce with staging: they carry row_id
)

func (s Type) String() string {
	switch s {
	case EntityID:
		return "entity_id"
	case RowID:
		return "row_id"
	default:
		return "unknown"
	}
}

// LinkColumn returns the product link column. Unknown falls back to entity_id.
func (s Type) LinkColumn() string {
	if s == RowID {
		return "row_id"
	}
	return "entity_id"
}

// Detect inspects catalog_product_entity_varchar. SQLite never carries row_id.
func Detect(db *gorm.DB) Type {
	if db.Dialector.Name() == "sqlite" {
		return EntityID
	}

	type colInfo struct {
		Field string `gorm:"column:Field"`
	}
	var cols []colInfo
	if err := db.Raw("DESCRIBE catalog_product_entity_varchar").Scan(&cols).Error; err != nil {
		return Unknown
	}

	hasRowID, hasEntityID := false, false
	for _, c := range cols {
		switch c.Field {
		case "row_id":
			hasRowID = true
		case "entity_id":
			hasEntityID = true
		}
	}
	// Commerce keeps entity_id on the entity table only; the value tables switch to row_id.
	if hasRowID {
		return RowID
	}
	if hasEntityID {
		return EntityID
	}
	return Unknown
}

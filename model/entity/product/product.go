package product

import "time"

// Product represents catalog_product_entity.
type Product struct {
	EntityID       uint      `gorm:"column:entity_id;primaryKey;autoIncrement" json:"entity_id"`
	AttributeSetID uint16    `gorm:"column:attribute_set_id;not null;default:0" json:"attribute_set_id"`
	TypeID         string    `gorm:"column:type_id;type:varchar(32);not null;default:simple" json:"type_id"`
	SKU            string    `gorm:"column:sku;type:varchar(64);uniqueIndex" json:"sku"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Product) TableName() string {
	return "catalog_product_entity"
}

// ProductVarchar represents catalog_product_entity_varchar. The image role attributes
// (image, small_image, thumbnail) are stored here per store.
type ProductVarchar struct {
	ValueID     uint    `gorm:"column:value_id;primaryKey;autoIncrement" json:"value_id"`
	AttributeID uint16  `gorm:"column:attribute_id;not null" json:"attribute_id"`
	StoreID     uint16  `gorm:"column:store_id;not null;default:0" json:"store_id"`
	EntityID    uint    `gorm:"column:entity_id;not null" json:"entity_id"`
	Value       *string `gorm:"column:value;type:varchar(255)" json:"value"`
}

func (ProductVarchar) TableName() string {
	return "catalog_product_entity_varchar"
}

package product

// ProductMediaGallery represents catalog_product_entity_media_gallery: one row per stored file.
type ProductMediaGallery struct {
	ValueID     uint   `gorm:"column:value_id;primaryKey;autoIncrement" json:"value_id"`
	AttributeID uint16 `gorm:"column:attribute_id;not null" json:"attribute_id"`
	Value       string `gorm:"column:value;type:varchar(255);index" json:"value"`
	MediaType   string `gorm:"column:media_type;type:varchar(32);not null;default:image" json:"media_type"`
	Disabled    uint16 `gorm:"column:disabled;not null;default:0" json:"disabled"`
}

func (ProductMediaGallery) TableName() string {
	return "catalog_product_entity_media_gallery"
}

// ProductMediaGalleryValue holds the per-store label, position and disabled flag.
type ProductMediaGalleryValue struct {
	RecordID uint    `gorm:"column:record_id;primaryKey;autoIncrement" json:"record_id"`
	ValueID  uint    `gorm:"column:value_id;not null;index" json:"value_id"`
	StoreID  uint16  `gorm:"column:store_id;not null;default:0" json:"store_id"`
	EntityID uint    `gorm:"column:entity_id;not null" json:"entity_id"`
	Label    *string `gorm:"column:label;type:varchar(255)" json:"label"`
	Position *uint   `gorm:"column:position" json:"position"`
	Disabled uint16  `gorm:"column:disabled;not null;default:0" json:"disabled"`
}

func (ProductMediaGalleryValue) TableName() string {
	return "catalog_product_entity_media_gallery_value"
}

// ProductMediaGalleryValueToEntity links a gallery file to a product.
type ProductMediaGalleryValueToEntity struct {
	ValueID  uint `gorm:"column:value_id;primaryKey;autoIncrement:false" json:"value_id"`
	EntityID uint `gorm:"column:entity_id;primaryKey;autoIncrement:false" json:"entity_id"`
}

func (ProductMediaGalleryValueToEntity) TableName() string {
	return "catalog_product_entity_media_gallery_value_to_entity"
}

package entity

// EavAttribute represents eav_attribute.
type EavAttribute struct {
	AttributeID   uint16 `gorm:"column:attribute_id;primaryKey;autoIncrement" json:"attribute_id"`
	EntityTypeID  uint16 `gorm:"column:entity_type_id;not null;default:0" json:"entity_type_id"`
	AttributeCode string `gorm:"column:attribute_code;type:varchar(255);not null" json:"attribute_code"`
	BackendType   string `gorm:"column:backend_type;type:varchar(8);not null;default:static" json:"backend_type"`
	FrontendInput string `gorm:"column:frontend_input;type:varchar(50)" json:"frontend_input"`
}

func (EavAttribute) TableName() string {
	return "eav_attribute"
}

// EavEntityType represents eav_entity_type.
type EavEntityType struct {
	EntityTypeID   uint16 `gorm:"column:entity_type_id;primaryKey;autoIncrement" json:"entity_type_id"`
	EntityTypeCode string `gorm:"column:entity_type_code;type:varchar(50);not null" json:"entity_type_code"`
}

func (EavEntityType) TableName() string {
	return "eav_entity_type"
}

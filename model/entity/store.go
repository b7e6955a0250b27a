package entity

// Store represents the store table. Store 0 is the admin (default) scope.
type Store struct {
	StoreID   uint16 `gorm:"column:store_id;primaryKey;autoIncrement:false" json:"store_id"`
	Code      string `gorm:"column:code;type:varchar(32)" json:"code"`
	WebsiteID uint16 `gorm:"column:website_id;not null;default:0" json:"website_id"`
	GroupID   uint16 `gorm:"column:group_id;not null;default:0" json:"group_id"`
	Name      string `gorm:"column:name;type:varchar(255)" json:"name"`
	IsActive  uint16 `gorm:"column:is_active;not null;default:0" json:"is_active"`
}

func (Store) TableName() string {
	return "store"
}

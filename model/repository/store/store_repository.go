package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

type StoreRepository struct {
	db *gorm.DB
}

func NewStoreRepository(db *gorm.DB) *StoreRepository {
	return &StoreRepository{db: db}
}

// StoreIDs returns every store view id except the admin scope 0, ascending.
func (r *StoreRepository) StoreIDs(ctx context.Context) ([]uint16, error) {
	var ids []uint16
	err := r.db.WithContext(ctx).Table("store").
		Where("store_id <> 0").
		Order("store_id").
		Pluck("store_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("load store ids: %w", err)
	}
	return ids, nil
}

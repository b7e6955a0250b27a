package inventory

import (
	"context"
	"database/sql"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	inventoryEntity "github.com/stefanologica/firebear-importexport/model/entity/inventory"
)

type InventoryRepository struct {
	db    *gorm.DB
	sqlDB *sql.DB
}

func NewInventoryRepository(db *gorm.DB) (*InventoryRepository, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	return &InventoryRepository{db: db, sqlDB: sqlDB}, nil
}

// SaveSourceItems upserts quantity and status keyed by (source_code, sku).
func (r *InventoryRepository) SaveSourceItems(ctx context.Context, items []inventoryEntity.InventorySourceItem) error {
	if len(items) == 0 {
		return nil
	}
	upsert := clause.OnConflict{
		Columns:   []clause.Column{{Name: "source_code"}, {Name: "sku"}},
		DoUpdates: clause.AssignmentColumns([]string{"quantity", "status"}),
	}
	if err := r.db.WithContext(ctx).Clauses(upsert).CreateInBatches(&items, 500).Error; err != nil {
		return fmt.Errorf("save source items: %w", err)
	}
	return nil
}

// GetAllBySKU returns inventory for a SKU across all sources
func (r *InventoryRepository) GetAllBySKU(ctx context.Context, sku string) ([]inventoryEntity.InventorySourceItem, error) {
	var items []inventoryEntity.InventorySourceItem
	err := r.db.WithContext(ctx).Where("sku = ?", sku).Order("source_code").Find(&items).Error
	return items, err
}

// GetTotalQuantityBySKU sums quantity across all sources for a SKU
// Uses raw SQL for minimal overhead
func (r *InventoryRepository) GetTotalQuantityBySKU(ctx context.Context, sku string) (float64, error) {
	const query = `SELECT COALESCE(SUM(quantity), 0) FROM inventory_source_item WHERE sku = ?`
	var total float64
	err := r.sqlDB.QueryRowContext(ctx, query, sku).Scan(&total)
	return total, err
}

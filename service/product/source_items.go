// Package product holds catalog side effects of an import that run after the
// product rows themselves are saved.
package product

import (
	"context"
	"fmt"
	"sort"

	"github.com/stefanologica/firebear-importexport/core/log"
	inventoryEntity "github.com/stefanologica/firebear-importexport/model/entity/inventory"
)

// DefaultSourceCode is the inventory source single-source shops use.
const DefaultSourceCode = "default"

// StockRow is the stock part of an imported product row.
type StockRow struct {
	Qty       float64 `json:"qty"`
	IsInStock uint8   `json:"is_in_stock" validate:"oneof=0 1"`
}

// SourceItemSaver persists source items.
type SourceItemSaver interface {
	SaveSourceItems(ctx context.Context, items []inventoryEntity.InventorySourceItem) error
}

// SourceItemImporter mirrors imported stock into inventory source items. A nil
// saver means the shop has no inventory module; AfterImport then does nothing.
type SourceItemImporter struct {
	saver      SourceItemSaver
	sourceCode string
}

func NewSourceItemImporter(saver SourceItemSaver) *SourceItemImporter {
	return &SourceItemImporter{saver: saver, sourceCode: DefaultSourceCode}
}

// AfterImport writes one default-source item per SKU and returns how many were saved.
func (i *SourceItemImporter) AfterImport(ctx context.Context, stock map[string]StockRow) (int, error) {
	if i.saver == nil || len(stock) == 0 {
		return 0, nil
	}
	skus := make([]string, 0, len(stock))
	for sku := range stock {
		if sku != "" {
			skus = append(skus, sku)
		}
	}
	sort.Strings(skus)

	items := make([]inventoryEntity.InventorySourceItem, 0, len(skus))
	for _, sku := range skus {
		row := stock[sku]
		items = append(items, inventoryEntity.InventorySourceItem{
			SourceCode: i.sourceCode,
			SKU:        sku,
			Quantity:   row.Qty,
			Status:     row.IsInStock,
		})
	}
	if err := i.saver.SaveSourceItems(ctx, items); err != nil {
		return 0, fmt.Errorf("save source items: %w", err)
	}
	log.Infof("Saved %d inventory source items", len(items))
	return len(items), nil
}

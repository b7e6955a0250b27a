package product

import (
	"context"
	"errors"
	"testing"

	inventoryEntity "github.com/stefanologica/firebear-importexport/model/entity/inventory"
)

type recordingSaver struct {
	items []inventoryEntity.InventorySourceItem
	err   error
}

func (s *recordingSaver) SaveSourceItems(_ context.Context, items []inventoryEntity.InventorySourceItem) error {
	s.items = append(s.items, items...)
	return s.err
}

func TestSourceItemImporter_AfterImport(t *testing.T) {
	saver := &recordingSaver{}
	imp := NewSourceItemImporter(saver)

	n, err := imp.AfterImport(context.Background(), map[string]StockRow{
		"S2": {Qty: 5, IsInStock: 1},
		"S1": {},
		"":   {Qty: 1},
	})
	if err != nil {
		t.Fatalf("AfterImport: %v", err)
	}
	if n != 2 || len(saver.items) != 2 {
		t.Fatalf("saved = %d (%d items), want 2", n, len(saver.items))
	}
	first, second := saver.items[0], saver.items[1]
	if first.SKU != "S1" || first.Quantity != 0 || first.Status != 0 || first.SourceCode != DefaultSourceCode {
		t.Errorf("S1 item = %+v", first)
	}
	if second.SKU != "S2" || second.Quantity != 5 || second.Status != 1 {
		t.Errorf("S2 item = %+v", second)
	}
}

func TestSourceItemImporter_NoInventory(t *testing.T) {
	n, err := NewSourceItemImporter(nil).AfterImport(context.Background(), map[string]StockRow{"S1": {Qty: 1}})
	if err != nil || n != 0 {
		t.Errorf("AfterImport without inventory = %d, %v; want 0, nil", n, err)
	}
}

func TestSourceItemImporter_SaveError(t *testing.T) {
	boom := errors.New("boom")
	_, err := NewSourceItemImporter(&recordingSaver{err: boom}).AfterImport(context.Background(), map[string]StockRow{"S1": {}})
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want wrapped boom", err)
	}
}

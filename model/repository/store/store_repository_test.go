package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	entity "github.com/stefanologica/firebear-importexport/model/entity"
)

func TestStoreRepository_StoreIDs(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "store.db")), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&entity.Store{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	db.Create(&[]entity.Store{
		{StoreID: 0, Code: "admin"},
		{StoreID: 3, Code: "fr", IsActive: 1},
		{StoreID: 1, Code: "default", IsActive: 1},
	})

	ids, err := NewStoreRepository(db).StoreIDs(context.Background())
	if err != nil {
		t.Fatalf("StoreIDs: %v", err)
	}
	if len(ids) != 2 || ids[0] != 1 || ids[1] != 3 {
		t.Errorf("StoreIDs = %v, want [1 3]", ids)
	}
}

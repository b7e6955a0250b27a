package eav

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	entity "github.com/stefanologica/firebear-importexport/model/entity"
	productEntity "github.com/stefanologica/firebear-importexport/model/entity/product"
)

func eavDB(t *testing.T) *gorm.DB {
	t.Helper()
	tmpFile := filepath.Join(os.TempDir(), fmt.Sprintf("eav_repo_%s_%d.db", t.Name(), time.Now().UnixNano()))
	t.Cleanup(func() { os.Remove(tmpFile) })
	db, err := gorm.Open(sqlite.Open(tmpFile), &gorm.Config{SkipDefaultTransaction: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&entity.EavEntityType{}, &entity.EavAttribute{}, &productEntity.ProductVarchar{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	db.Exec("CREATE UNIQUE INDEX IF NOT EXISTS idx_varchar_unq ON catalog_product_entity_varchar (entity_id, attribute_id, store_id)")
	db.Create(&[]entity.EavEntityType{
		{EntityTypeID: 3, EntityTypeCode: "catalog_category"},
		{EntityTypeID: 4, EntityTypeCode: "catalog_product"},
	})
	db.Create(&[]entity.EavAttribute{
		{AttributeID: 45, EntityTypeID: 3, AttributeCode: "image", BackendType: "varchar"},
		{AttributeID: 87, EntityTypeID: 4, AttributeCode: "image", BackendType: "varchar"},
		{AttributeID: 90, EntityTypeID: 4, AttributeCode: "media_gallery", BackendType: "static"},
	})
	return db
}

func TestAttributeRepository_AttributeID(t *testing.T) {
	repo := NewAttributeRepository(eavDB(t))
	ctx := context.Background()

	id, err := repo.AttributeID(ctx, "image", "catalog_product")
	if err != nil {
		t.Fatalf("AttributeID: %v", err)
	}
	if id != 87 {
		t.Errorf("image id = %d, want 87", id)
	}

	_, err = repo.AttributeID(ctx, "swatch_image", "catalog_product")
	if !errors.Is(err, ErrAttributeNotFound) {
		t.Errorf("missing attribute err = %v, want ErrAttributeNotFound", err)
	}
}

func TestAttributeRepository_UpsertVarchar(t *testing.T) {
	db := eavDB(t)
	repo := NewAttributeRepository(db)
	ctx := context.Background()

	first := []VarcharValue{
		{LinkID: 1, AttributeID: 87, StoreID: 0, Value: "/a/b/old.jpg"},
		{LinkID: 1, AttributeID: 87, StoreID: 1, Value: "/a/b/old.jpg"},
	}
	if err := repo.UpsertVarchar(ctx, first); err != nil {
		t.Fatalf("UpsertVarchar: %v", err)
	}
	second := []VarcharValue{{LinkID: 1, AttributeID: 87, StoreID: 0, Value: "/c/d/new.jpg"}}
	if err := repo.UpsertVarchar(ctx, second); err != nil {
		t.Fatalf("UpsertVarchar update: %v", err)
	}

	var rows []productEntity.ProductVarchar
	db.Order("store_id").Find(&rows)
	if len(rows) != 2 {
		t.Fatalf("varchar rows = %d, want 2", len(rows))
	}
	if rows[0].Value == nil || *rows[0].Value != "/c/d/new.jpg" {
		t.Errorf("store 0 value = %v, want /c/d/new.jpg", rows[0].Value)
	}
	if rows[1].Value == nil || *rows[1].Value != "/a/b/old.jpg" {
		t.Errorf("store 1 value = %v, want /a/b/old.jpg", rows[1].Value)
	}
}

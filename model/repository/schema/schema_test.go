package schema

import (
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func TestDetect_SQLiteIsEntityID(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "schema.db")), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if got := Detect(db); got != EntityID {
		t.Errorf("Detect = %v, want entity_id", got)
	}
}

func TestLinkColumn(t *testing.T) {
	cases := map[Type]string{EntityID: "entity_id", RowID: "row_id", Unknown: "entity_id"}
	for typ, want := range cases {
		if got := typ.LinkColumn(); got != want {
			t.Errorf("%v.LinkColumn() = %q, want %q", typ, got, want)
		}
	}
}

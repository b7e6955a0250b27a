package stock

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	"github.com/stefanologica/firebear-importexport/app"
	"github.com/stefanologica/firebear-importexport/config"
	inventoryEntity "github.com/stefanologica/firebear-importexport/model/entity/inventory"
)

const (
	testUser = "admin"
	testPass = "secret"
)

func stockTestApp(t *testing.T) *app.App {
	t.Helper()
	tmpFile := filepath.Join(os.TempDir(), fmt.Sprintf("stock_api_test_%s_%d.db", t.Name(), time.Now().UnixNano()))
	t.Cleanup(func() { os.Remove(tmpFile) })
	db, err := gorm.Open(sqlite.Open(tmpFile), &gorm.Config{SkipDefaultTransaction: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.Exec("PRAGMA journal_mode=WAL")
	db.Exec("PRAGMA busy_timeout=5000")
	if err := db.AutoMigrate(&inventoryEntity.InventorySourceItem{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	db.Exec("CREATE UNIQUE INDEX IF NOT EXISTS idx_source_item_unq ON inventory_source_item (source_code, sku)")

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	cfg.Root = t.TempDir()
	cfg.Queue.Driver = "memory"
	a, err := app.Build(context.Background(), cfg, db)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return a
}

func stockTestServer(a *app.App) *echo.Echo {
	e := echo.New()
	apiGroup := e.Group("/api")
	apiGroup.Use(middleware.BasicAuth(func(user, pass string, c echo.Context) (bool, error) {
		return user == testUser && pass == testPass, nil
	}))
	RegisterStockRoutes(apiGroup, a)
	return e
}

func basicAuth(user, pass string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(user+":"+pass))
}

func doStockRequest(e *echo.Echo, method, path string, body interface{}, auth string) *httptest.ResponseRecorder {
	var b []byte
	if body != nil {
		b, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestSourceItems_RequiresAuth(t *testing.T) {
	e := stockTestServer(stockTestApp(t))
	rec := doStockRequest(e, http.MethodPost, "/api/stock/source-items", map[string]interface{}{}, "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestSourceItems_SaveAndRead(t *testing.T) {
	e := stockTestServer(stockTestApp(t))
	auth := basicAuth(testUser, testPass)

	body := map[string]interface{}{
		"items": map[string]interface{}{
			"S1": map[string]interface{}{"qty": 12.5, "is_in_stock": 1},
			"S2": map[string]interface{}{},
		},
	}
	rec := doStockRequest(e, http.MethodPost, "/api/stock/source-items", body, auth)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp map[string]interface{}
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp["saved"] != float64(2) {
		t.Errorf("saved = %v, want 2", resp["saved"])
	}

	// A second import updates the same default-source row.
	body["items"] = map[string]interface{}{"S1": map[string]interface{}{"qty": 3, "is_in_stock": 1}}
	if rec := doStockRequest(e, http.MethodPost, "/api/stock/source-items", body, auth); rec.Code != http.StatusOK {
		t.Fatalf("update status = %d", rec.Code)
	}

	rec = doStockRequest(e, http.MethodGet, "/api/stock/source-items/S1", nil, auth)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET status = %d", rec.Code)
	}
	var got struct {
		Items         []inventoryEntity.InventorySourceItem `json:"items"`
		TotalQuantity float64                               `json:"total_quantity"`
	}
	json.Unmarshal(rec.Body.Bytes(), &got)
	if len(got.Items) != 1 || got.TotalQuantity != 3 {
		t.Errorf("S1 = %+v, want one item with quantity 3", got)
	}
}

func TestSourceItems_Validation(t *testing.T) {
	e := stockTestServer(stockTestApp(t))
	auth := basicAuth(testUser, testPass)

	cases := []interface{}{
		map[string]interface{}{"items": map[string]interface{}{}},
		map[string]interface{}{"items": map[string]interface{}{"S1": map[string]interface{}{"is_in_stock": 5}}},
		map[string]interface{}{"items": map[string]interface{}{"": map[string]interface{}{"qty": 1}}},
	}
	for i, body := range cases {
		if rec := doStockRequest(e, http.MethodPost, "/api/stock/source-items", body, auth); rec.Code != http.StatusBadRequest {
			t.Errorf("case %d: status = %d, want 400", i, rec.Code)
		}
	}
}

func TestSourceItems_UnknownSKU(t *testing.T) {
	e := stockTestServer(stockTestApp(t))
	rec := doStockRequest(e, http.MethodGet, "/api/stock/source-items/NOPE", nil, basicAuth(testUser, testPass))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
